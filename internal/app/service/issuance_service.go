package service

import (
	"context"
	"fmt"

	"issuance_tracker/internal/app/port"
	"issuance_tracker/internal/domain/entity"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const (
	// IssuancePeriodDays is the look-back window of the issuance queries.
	IssuancePeriodDays = 7
	// PeriodsPerYear annualizes a weekly rate linearly.
	PeriodsPerYear = 52
)

// issuanceServiceImpl implements port.IssuanceMetrics for a single token.
type issuanceServiceImpl struct {
	token    entity.TokenConfig
	supply   port.SupplyAggregator
	prices   port.TokenPriceService
	calendar port.Calendar
	logger   port.Logger
}

// NewIssuanceService creates the issuance queries of token.
func NewIssuanceService(
	token entity.TokenConfig,
	supply port.SupplyAggregator,
	prices port.TokenPriceService,
	calendar port.Calendar,
	l port.Logger,
) port.IssuanceMetrics {
	return &issuanceServiceImpl{
		token:    token,
		supply:   supply,
		prices:   prices,
		calendar: calendar,
		logger:   l,
	}
}

// CirculatingSupply returns the circulating supply as of today.
func (s *issuanceServiceImpl) CirculatingSupply(ctx context.Context) (float64, error) {
	today := s.calendar.Today()
	fig, err := s.supply.ComputeSupply(ctx, s.token, today)
	if err != nil {
		return 0, err
	}
	return fig.Circulating.InexactFloat64(), nil
}

// Issuance7DayAvgUSD returns the average daily supply growth over the last
// period, valued at the current price.
func (s *issuanceServiceImpl) Issuance7DayAvgUSD(ctx context.Context) (float64, error) {
	today := s.calendar.Today()
	prior := s.calendar.OffsetDays(today, -IssuancePeriodDays)

	var (
		now, before entity.SupplyFigure
		price       float64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		now, err = s.supply.ComputeSupply(gctx, s.token, today)
		return err
	})
	g.Go(func() (err error) {
		before, err = s.supply.ComputeSupply(gctx, s.token, prior)
		return err
	})
	g.Go(func() (err error) {
		price, err = s.prices.CurrentPrice(gctx, s.token.PriceFeed)
		return err
	})
	if err := g.Wait(); err != nil {
		return 0, err
	}

	avg := now.Circulating.Sub(before.Circulating).
		Div(decimal.NewFromInt(IssuancePeriodDays)).
		Mul(decimal.NewFromFloat(price))

	s.logger.Debug("Computed issuance", "token", s.token.ID, "today", today.String(), "prior", prior.String(),
		"supplyNow", now.Circulating.String(), "supplyPrior", before.Circulating.String(), "price", price)
	return avg.InexactFloat64(), nil
}

// IssuanceRateCurrent returns the weekly relative supply growth annualized linearly.
func (s *issuanceServiceImpl) IssuanceRateCurrent(ctx context.Context) (float64, error) {
	today := s.calendar.Today()
	prior := s.calendar.OffsetDays(today, -IssuancePeriodDays)

	var now, before entity.SupplyFigure
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		now, err = s.supply.ComputeSupply(gctx, s.token, today)
		return err
	})
	g.Go(func() (err error) {
		before, err = s.supply.ComputeSupply(gctx, s.token, prior)
		return err
	})
	if err := g.Wait(); err != nil {
		return 0, err
	}

	if before.Circulating.IsZero() {
		return 0, fmt.Errorf("%w: circulating supply of %s at %s is zero", entity.ErrDivisionByZero, s.token.ID, prior)
	}

	rate := now.Circulating.Div(before.Circulating).
		Sub(decimal.NewFromInt(1)).
		Mul(decimal.NewFromInt(PeriodsPerYear))
	return rate.InexactFloat64(), nil
}
