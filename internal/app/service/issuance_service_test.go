package service

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"issuance_tracker/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const today = "2024-03-08"
const weekAgo = "2024-03-01"

type issuanceFixture struct {
	reader   *fakeReader
	prices   *fakePrices
	calendar *fakeCalendar
}

func newIssuance(t *testing.T, now, prior int64, excluded int64, price float64) (*issuanceFixture, func() *issuanceServiceImpl) {
	t.Helper()
	f := &issuanceFixture{
		reader: &fakeReader{
			supply: map[string]*big.Int{today: tokens(now), weekAgo: tokens(prior)},
			balances: map[string]map[string]*big.Int{
				today:   {treasury: tokens(excluded)},
				weekAgo: {treasury: tokens(excluded)},
			},
		},
		prices:   &fakePrices{price: price},
		calendar: &fakeCalendar{today: mustDate(t, today)},
	}
	build := func() *issuanceServiceImpl {
		token := swaprToken(nil, nil)
		if excluded > 0 {
			token = swaprToken([]string{treasury}, nil)
		}
		svc := NewIssuanceService(token, NewSupplyService(f.reader, nopLogger{}), f.prices, f.calendar, nopLogger{})
		return svc.(*issuanceServiceImpl)
	}
	return f, build
}

func TestIssuance_Scenario(t *testing.T) {
	f, build := newIssuance(t, 1_000_000, 950_000, 0, 2.0)
	svc := build()
	ctx := context.Background()

	avg, err := svc.Issuance7DayAvgUSD(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 14285.714285714, avg, 1e-6)

	rate, err := svc.IssuanceRateCurrent(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 2.736842105263, rate, 1e-9)

	circ, err := svc.CirculatingSupply(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1_000_000.0, circ)

	assert.Equal(t, int32(1), f.prices.calls.Load(), "only the USD query reads the price")
	assert.Equal(t, int32(3), f.calendar.calls.Load(), "today is computed once per invocation")
}

func TestIssuance_ScenarioWithExclusions(t *testing.T) {
	_, build := newIssuance(t, 1_000_000, 950_000, 100_000, 2.0)
	svc := build()
	ctx := context.Background()

	circ, err := svc.CirculatingSupply(ctx)
	require.NoError(t, err)
	assert.Equal(t, 900_000.0, circ)

	avg, err := svc.Issuance7DayAvgUSD(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 14285.714285714, avg, 1e-6)

	rate, err := svc.IssuanceRateCurrent(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 3.058823529411, rate, 1e-9)
}

func TestIssuance_LinearInPrice(t *testing.T) {
	_, buildCheap := newIssuance(t, 1_000_000, 950_000, 0, 2.0)
	_, buildDear := newIssuance(t, 1_000_000, 950_000, 0, 4.0)

	cheap, err := buildCheap().Issuance7DayAvgUSD(context.Background())
	require.NoError(t, err)
	dear, err := buildDear().Issuance7DayAvgUSD(context.Background())
	require.NoError(t, err)

	assert.InDelta(t, 2*cheap, dear, 1e-9)
}

func TestIssuance_PriorSupplyZero(t *testing.T) {
	_, build := newIssuance(t, 1_000, 0, 0, 1.0)

	_, err := build().IssuanceRateCurrent(context.Background())
	assert.ErrorIs(t, err, entity.ErrDivisionByZero)
}

func TestIssuance_Idempotent(t *testing.T) {
	_, build := newIssuance(t, 1_000_000, 950_000, 100_000, 2.0)
	svc := build()

	for _, q := range []func(context.Context) (float64, error){svc.CirculatingSupply, svc.Issuance7DayAvgUSD, svc.IssuanceRateCurrent} {
		first, err := q(context.Background())
		require.NoError(t, err)
		second, err := q(context.Background())
		require.NoError(t, err)
		assert.Equal(t, first, second)
	}
}

func TestIssuance_Failures(t *testing.T) {
	t.Run("price unavailable", func(t *testing.T) {
		f, build := newIssuance(t, 1_000_000, 950_000, 0, 0)
		f.prices.err = errors.Join(entity.ErrDataUnavailable, errors.New("coingecko down"))

		_, err := build().Issuance7DayAvgUSD(context.Background())
		assert.ErrorIs(t, err, entity.ErrDataUnavailable)

		_, err = build().IssuanceRateCurrent(context.Background())
		assert.NoError(t, err, "the rate does not depend on the price")
	})

	t.Run("prior supply unavailable", func(t *testing.T) {
		f, build := newIssuance(t, 1_000_000, 950_000, 0, 2.0)
		delete(f.reader.supply, weekAgo)

		_, err := build().Issuance7DayAvgUSD(context.Background())
		assert.ErrorIs(t, err, entity.ErrDataUnavailable)
		_, err = build().IssuanceRateCurrent(context.Background())
		assert.ErrorIs(t, err, entity.ErrDataUnavailable)

		_, err = build().CirculatingSupply(context.Background())
		assert.NoError(t, err, "circulating supply reads today only")
	})
}
