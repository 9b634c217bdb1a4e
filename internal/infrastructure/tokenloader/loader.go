package tokenloader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"issuance_tracker/internal/app/port"
	"issuance_tracker/internal/domain/entity"
	"issuance_tracker/internal/infrastructure/addressloader"
	"issuance_tracker/internal/pkg/utils"

	"gopkg.in/yaml.v3"
)

const defaultTokenFilePath = "data/token.json"

// TokenFileLoader implements the port.TokenProvider interface by reading the token definition from a file.
type TokenFileLoader struct {
	filePath   string
	loggerInfo func(msg string, args ...any)
	loggerWarn func(msg string, args ...any)
}

// NewTokenLoader creates a new TokenFileLoader. An empty path means data/token.json.
func NewTokenLoader(filePath string, loggerInfo func(msg string, args ...any), loggerWarn func(msg string, args ...any)) port.TokenProvider {
	if filePath == "" {
		filePath = defaultTokenFilePath
	}
	return &TokenFileLoader{
		filePath:   filePath,
		loggerInfo: loggerInfo,
		loggerWarn: loggerWarn,
	}
}

// GetToken reads the token definition (JSON, or YAML for .yml/.yaml files),
// merges excluded-address files into each deployment and validates the result.
// Relative address file paths are resolved against the token file directory.
func (l *TokenFileLoader) GetToken() (entity.TokenConfig, error) {
	var token entity.TokenConfig
	if err := l.decode(&token); err != nil {
		return entity.TokenConfig{}, fmt.Errorf("%w: %v", entity.ErrConfiguration, err)
	}

	baseDir := filepath.Dir(l.filePath)
	for i, d := range token.Deployments {
		if d.ExcludedAddressesFile == "" {
			continue
		}
		path := d.ExcludedAddressesFile
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		extra, err := addressloader.LoadAddresses(path, l.loggerInfo)
		if err != nil {
			return entity.TokenConfig{}, err
		}
		if len(extra) == 0 && l.loggerWarn != nil {
			l.loggerWarn("Excluded address file is empty", "network", d.Network, "path", path)
		}
		token.Deployments[i].ExcludedAddresses = addressloader.Merge(d.ExcludedAddresses, extra)
	}

	if err := token.Validate(); err != nil {
		return entity.TokenConfig{}, err
	}

	if l.loggerInfo != nil {
		excluded := 0
		for _, d := range token.Deployments {
			excluded += len(d.ExcludedAddresses)
		}
		l.loggerInfo("Token definition loaded",
			"path", l.filePath,
			"token", token.ID,
			"deployments", len(token.Deployments),
			"excluded_addresses", excluded)
	}
	return token, nil
}

func (l *TokenFileLoader) decode(token *entity.TokenConfig) error {
	switch strings.ToLower(filepath.Ext(l.filePath)) {
	case ".yml", ".yaml":
		data, err := os.ReadFile(l.filePath)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", l.filePath, err)
		}
		if err := yaml.Unmarshal(data, token); err != nil {
			return fmt.Errorf("failed to unmarshal %s: %w", l.filePath, err)
		}
		return nil
	default:
		return utils.ReadJSONFile(l.filePath, token)
	}
}
