package service

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"issuance_tracker/internal/app/port"
	"issuance_tracker/internal/domain/entity"
	"issuance_tracker/internal/pkg/utils"

	"golang.org/x/sync/errgroup"
)

// supplyServiceImpl implements port.SupplyAggregator.
type supplyServiceImpl struct {
	reader port.BalanceReader
	logger port.Logger
}

// NewSupplyService creates a new instance of supplyServiceImpl.
func NewSupplyService(reader port.BalanceReader, l port.Logger) port.SupplyAggregator {
	return &supplyServiceImpl{reader: reader, logger: l}
}

// ComputeSupply returns totalSupply on the primary network minus the balances
// of every excluded address on every deployment, all read at the same date.
// Any failed read fails the whole computation.
func (s *supplyServiceImpl) ComputeSupply(ctx context.Context, token entity.TokenConfig, at entity.PointInTime) (entity.SupplyFigure, error) {
	if err := token.Validate(); err != nil {
		return entity.SupplyFigure{}, err
	}
	if at.IsZero() {
		return entity.SupplyFigure{}, fmt.Errorf("%w: no date given for supply of %s", entity.ErrConfiguration, token.ID)
	}
	primary, _ := token.Primary()

	var total *big.Int
	excluded := make([][]*big.Int, len(token.Deployments))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := s.reader.ReadTotalSupply(gctx, primary.Network, primary.ContractAddress, at)
		if err != nil {
			return err
		}
		total = v
		return nil
	})
	for i, d := range token.Deployments {
		if len(d.ExcludedAddresses) == 0 {
			continue
		}
		g.Go(func() error {
			balances, err := s.reader.ReadBalances(gctx, d.Network, d.ContractAddress, d.ExcludedAddresses, at)
			if err != nil {
				return err
			}
			excluded[i] = balances
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.Error("Failed to compute supply", "token", token.ID, "date", at.String(), "error", err)
		return entity.SupplyFigure{}, asDataUnavailable(err)
	}

	excludedRaw := new(big.Int)
	for _, balances := range excluded {
		excludedRaw.Add(excludedRaw, utils.SumBigInts(balances))
	}

	scale := token.Scale()
	fig := entity.SupplyFigure{
		TokenID:  token.ID,
		At:       at,
		Total:    utils.ToDecimal(total, scale),
		Excluded: utils.ToDecimal(excludedRaw, scale),
	}
	fig.Circulating = fig.Total.Sub(fig.Excluded)

	s.logger.Debug("Computed supply", "token", token.ID, "date", at.String(),
		"total", fig.Total.String(), "excluded", fig.Excluded.String(), "circulating", fig.Circulating.String())
	return fig, nil
}

// asDataUnavailable keeps configuration and data errors as they are and
// classifies everything else (cancellation, transport) as unavailable data.
func asDataUnavailable(err error) error {
	if errors.Is(err, entity.ErrDataUnavailable) || errors.Is(err, entity.ErrConfiguration) {
		return err
	}
	return fmt.Errorf("%w: %v", entity.ErrDataUnavailable, err)
}
