package service

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"sync/atomic"

	"issuance_tracker/internal/app/port"
	"issuance_tracker/internal/domain/entity"
	dex_types "issuance_tracker/internal/entity"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

// tokens converts whole tokens to 18-decimal base units.
func tokens(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))
}

// fakeReader serves raw amounts keyed by date.
type fakeReader struct {
	mu         sync.Mutex
	supply     map[string]*big.Int            // date -> totalSupply
	balances   map[string]map[string]*big.Int // date -> lower(account) -> balance
	failOn     string                         // account whose read fails
	dates      map[string]struct{}
	supplyNets []string
}

func (f *fakeReader) ReadTotalSupply(_ context.Context, network, _ string, at entity.PointInTime) (*big.Int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(at)
	f.supplyNets = append(f.supplyNets, network)
	v, ok := f.supply[at.String()]
	if !ok {
		return nil, fmt.Errorf("%w: no supply at %s", entity.ErrDataUnavailable, at)
	}
	return v, nil
}

func (f *fakeReader) ReadBalances(_ context.Context, _, _ string, accounts []string, at entity.PointInTime) ([]*big.Int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(at)
	out := make([]*big.Int, len(accounts))
	for i, a := range accounts {
		if strings.EqualFold(a, f.failOn) {
			return nil, fmt.Errorf("%w: network error", entity.ErrDataUnavailable)
		}
		v, ok := f.balances[at.String()][strings.ToLower(a)]
		if !ok {
			v = new(big.Int)
		}
		out[i] = v
	}
	return out, nil
}

func (f *fakeReader) record(at entity.PointInTime) {
	if f.dates == nil {
		f.dates = make(map[string]struct{})
	}
	f.dates[at.String()] = struct{}{}
}

// fakeCalendar is pinned to one day and counts Today calls.
type fakeCalendar struct {
	today entity.PointInTime
	calls atomic.Int32
}

func (c *fakeCalendar) Today() entity.PointInTime {
	c.calls.Add(1)
	return c.today
}

func (c *fakeCalendar) OffsetDays(p entity.PointInTime, n int) entity.PointInTime {
	return p.AddDays(n)
}

type fakePrices struct {
	price float64
	err   error
	calls atomic.Int32
}

func (p *fakePrices) CurrentPrice(context.Context, entity.PriceFeed) (float64, error) {
	p.calls.Add(1)
	return p.price, p.err
}

type fakeNetworks map[string]entity.NetworkDefinition

func (n fakeNetworks) GetAllNetworkDefinitions() []entity.NetworkDefinition {
	out := make([]entity.NetworkDefinition, 0, len(n))
	for _, d := range n {
		out = append(out, d)
	}
	return out
}

func (n fakeNetworks) GetNetworkDefinitionByName(name string) (entity.NetworkDefinition, bool) {
	d, ok := n[strings.ToLower(name)]
	return d, ok
}

type fakeClientProvider struct {
	client port.BlockchainClient
	err    error
}

func (p fakeClientProvider) GetClient(entity.NetworkDefinition) (port.BlockchainClient, error) {
	return p.client, p.err
}

// fakeChainClient answers reads from maps; every balance is account-indexed.
type fakeChainClient struct {
	mu       sync.Mutex
	block    uint64
	blockErr error
	supply   *big.Int
	balances map[string]*big.Int
	failOn   string
	batches  [][]entity.ReadRequestItem
}

func (c *fakeChainClient) BlockAt(context.Context, entity.PointInTime) (uint64, error) {
	return c.block, c.blockErr
}

func (c *fakeChainClient) ReadAt(_ context.Context, _ uint64, requests []entity.ReadRequestItem) ([]entity.ReadResultItem, error) {
	c.mu.Lock()
	c.batches = append(c.batches, requests)
	c.mu.Unlock()

	out := make([]entity.ReadResultItem, len(requests))
	for i, r := range requests {
		out[i] = entity.ReadResultItem{RequestID: r.ID, TokenAddress: r.TokenAddress, Account: r.Account}
		switch {
		case r.Type == entity.TotalSupplyRequest:
			out[i].Value = c.supply
		case strings.EqualFold(r.Account, c.failOn):
			out[i].Error = fmt.Errorf("execution reverted")
		default:
			out[i].Value = c.balances[strings.ToLower(r.Account)]
			if out[i].Value == nil {
				out[i].Value = new(big.Int)
			}
		}
	}
	return out, nil
}

func (c *fakeChainClient) Definition() entity.NetworkDefinition { return entity.NetworkDefinition{} }

type fakeCoinGecko struct {
	prices dex_types.SimplePriceResponse
	err    error
}

func (f fakeCoinGecko) GetSimplePrice(context.Context, []string, string) (dex_types.SimplePriceResponse, error) {
	return f.prices, f.err
}

type fakeDEXScreener struct {
	pairs     []dex_types.PairData
	err       error
	gotChain  string
	gotTokens []string
}

func (f *fakeDEXScreener) GetTokenPairsByAddresses(_ context.Context, chain string, addrs []string) ([]dex_types.PairData, error) {
	f.gotChain, f.gotTokens = chain, addrs
	return f.pairs, f.err
}
