package service

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strconv"

	"issuance_tracker/internal/app/port"
	"issuance_tracker/internal/domain/entity"
	"issuance_tracker/internal/pkg/utils"

	"golang.org/x/sync/errgroup"
)

// balanceReaderImpl implements port.BalanceReader on top of the per-network blockchain clients.
type balanceReaderImpl struct {
	networkProvider port.NetworkDefinitionProvider
	clientProvider  port.BlockchainClientProvider
	logger          port.Logger
	batchSize       int
	maxConcurrent   int
}

// NewBalanceReader creates a new instance of balanceReaderImpl.
// batchSize limits the number of balanceOf calls sent in one JSON-RPC batch,
// maxConcurrent the number of batches in flight per call (0 means unlimited).
func NewBalanceReader(
	np port.NetworkDefinitionProvider,
	cp port.BlockchainClientProvider,
	l port.Logger,
	batchSize int,
	maxConcurrent int,
) port.BalanceReader {
	if batchSize <= 0 {
		batchSize = 50
	}
	if maxConcurrent <= 0 {
		maxConcurrent = -1
	}
	return &balanceReaderImpl{
		networkProvider: np,
		clientProvider:  cp,
		logger:          l,
		batchSize:       batchSize,
		maxConcurrent:   maxConcurrent,
	}
}

// ReadTotalSupply returns totalSupply() of contract on network at the given date.
func (r *balanceReaderImpl) ReadTotalSupply(ctx context.Context, network string, contract string, at entity.PointInTime) (*big.Int, error) {
	client, block, err := r.resolve(ctx, network, at)
	if err != nil {
		return nil, err
	}

	results, err := client.ReadAt(ctx, block, []entity.ReadRequestItem{{
		ID:           fmt.Sprintf("%s-%s-totalSupply", network, contract),
		Type:         entity.TotalSupplyRequest,
		TokenAddress: contract,
	}})
	if err != nil {
		return nil, fmt.Errorf("%w: totalSupply of %s on %s at %s: %v", entity.ErrDataUnavailable, contract, network, at, err)
	}
	if len(results) != 1 || results[0].Error != nil {
		return nil, fmt.Errorf("%w: totalSupply of %s on %s at %s: %v", entity.ErrDataUnavailable, contract, network, at, resultError(results))
	}

	r.logger.Debug("Read totalSupply", "network", network, "contract", contract, "block", block, "value", results[0].Value.String())
	return results[0].Value, nil
}

// ReadBalances returns balanceOf(account) for each account, in order.
// All accounts are read at the same block.
func (r *balanceReaderImpl) ReadBalances(ctx context.Context, network string, contract string, accounts []string, at entity.PointInTime) ([]*big.Int, error) {
	if len(accounts) == 0 {
		return []*big.Int{}, nil
	}

	client, block, err := r.resolve(ctx, network, at)
	if err != nil {
		return nil, err
	}

	balances := make([]*big.Int, len(accounts))
	batches := utils.Batch(accounts, r.batchSize)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.maxConcurrent)
	for n, batch := range batches {
		offset := n * r.batchSize
		g.Go(func() error {
			requests := make([]entity.ReadRequestItem, len(batch))
			for i, account := range batch {
				requests[i] = entity.ReadRequestItem{
					ID:           fmt.Sprintf("%s-%s-%s", network, contract, account),
					Type:         entity.BalanceOfRequest,
					TokenAddress: contract,
					Account:      account,
				}
			}

			results, err := client.ReadAt(gctx, block, requests)
			if err != nil {
				return fmt.Errorf("%w: balanceOf batch %d of %s on %s at %s: %v", entity.ErrDataUnavailable, n, contract, network, at, err)
			}
			if len(results) != len(batch) {
				return fmt.Errorf("%w: balanceOf batch %d of %s on %s returned %d results for %d requests",
					entity.ErrDataUnavailable, n, contract, network, len(results), len(batch))
			}
			for i, res := range results {
				if res.Error != nil || res.Value == nil {
					return fmt.Errorf("%w: balanceOf(%s) of %s on %s at %s: %v",
						entity.ErrDataUnavailable, res.Account, contract, network, at, res.Error)
				}
				balances[offset+i] = res.Value
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		r.logger.Error("Failed to read excluded balances", "network", network, "contract", contract, "date", at.String(), "error", err)
		return nil, err
	}

	r.logger.Debug("Read balances", "network", network, "contract", contract, "block", block, "accounts", len(accounts))
	return balances, nil
}

// resolve returns the network client and the block matching at.
func (r *balanceReaderImpl) resolve(ctx context.Context, network string, at entity.PointInTime) (port.BlockchainClient, uint64, error) {
	netDef, ok := r.networkProvider.GetNetworkDefinitionByName(network)
	if !ok {
		return nil, 0, fmt.Errorf("%w: unknown network %q", entity.ErrConfiguration, network)
	}

	client, err := r.clientProvider.GetClient(netDef)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: no client for %s: %v", entity.ErrDataUnavailable, netDef.Name, err)
	}

	block, err := client.BlockAt(ctx, at)
	if err != nil {
		if errors.Is(err, entity.ErrDataUnavailable) {
			return nil, 0, err
		}
		return nil, 0, fmt.Errorf("%w: resolving block on %s at %s: %v", entity.ErrDataUnavailable, netDef.Name, at, err)
	}
	r.logger.Debug("Resolved block", "network", netDef.Identifier, "date", at.String(), "block", strconv.FormatUint(block, 10))
	return client, block, nil
}

func resultError(results []entity.ReadResultItem) error {
	if len(results) == 0 {
		return errors.New("empty result")
	}
	if results[0].Error != nil {
		return results[0].Error
	}
	return fmt.Errorf("unexpected %d results", len(results))
}
