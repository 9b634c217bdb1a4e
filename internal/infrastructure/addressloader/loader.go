package addressloader

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"issuance_tracker/internal/domain/entity"

	"github.com/ethereum/go-ethereum/common"
)

// LoadAddresses reads one address per line from filePath.
// Blank lines and lines starting with '#' are ignored; anything after '#' on a line is a comment.
// An invalid address fails the whole file: a silently dropped exclusion would inflate the supply.
func LoadAddresses(filePath string, loggerInfo func(msg string, args ...any)) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open address file %s: %v", entity.ErrConfiguration, filePath, err)
	}
	defer file.Close()

	var addresses []string
	scanner := bufio.NewScanner(file)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if i := strings.Index(line, "#"); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, "0x") || !common.IsHexAddress(line) {
			return nil, fmt.Errorf("%w: invalid address %q at %s:%d", entity.ErrConfiguration, line, filePath, lineNum)
		}
		addresses = append(addresses, common.HexToAddress(line).Hex())
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error scanning address file %s: %w", filePath, err)
	}

	if loggerInfo != nil {
		loggerInfo("Addresses loaded successfully from file", "count", len(addresses), "path", filePath)
	}
	return addresses, nil
}

// Merge appends extra to base, dropping case-insensitive duplicates and keeping first-seen order.
func Merge(base, extra []string) []string {
	seen := make(map[string]struct{}, len(base)+len(extra))
	merged := make([]string, 0, len(base)+len(extra))
	for _, list := range [][]string{base, extra} {
		for _, addr := range list {
			key := strings.ToLower(addr)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			merged = append(merged, addr)
		}
	}
	return merged
}
