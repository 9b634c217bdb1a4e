package service

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"testing"

	"issuance_tracker/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const swaprMainnet = "0x6cAcDB97e3fC8136805a9E7c342d866ab77D0957"

func knownNetworks() fakeNetworks {
	return fakeNetworks{"ethereum": {ChainID: 1, Name: "Ethereum Mainnet", Identifier: "ethereum"}}
}

func account(n int) string {
	return fmt.Sprintf("0x%040x", n)
}

func TestBalanceReader_ReadTotalSupply(t *testing.T) {
	chain := &fakeChainClient{block: 19_000_000, supply: tokens(1_000_000)}
	reader := NewBalanceReader(knownNetworks(), fakeClientProvider{client: chain}, nopLogger{}, 0, 0)

	v, err := reader.ReadTotalSupply(context.Background(), "ethereum", swaprMainnet, mustDate(t, "2024-03-01"))
	require.NoError(t, err)
	assert.Equal(t, 0, tokens(1_000_000).Cmp(v))

	require.Len(t, chain.batches, 1)
	require.Len(t, chain.batches[0], 1)
	assert.Equal(t, entity.TotalSupplyRequest, chain.batches[0][0].Type)
	assert.Equal(t, swaprMainnet, chain.batches[0][0].TokenAddress)
}

func TestBalanceReader_ReadBalancesKeepsOrderAcrossBatches(t *testing.T) {
	balances := make(map[string]*big.Int)
	accounts := make([]string, 5)
	for i := range accounts {
		accounts[i] = account(i + 1)
		balances[accounts[i]] = big.NewInt(int64(100 * (i + 1)))
	}
	chain := &fakeChainClient{block: 42, balances: balances}
	reader := NewBalanceReader(knownNetworks(), fakeClientProvider{client: chain}, nopLogger{}, 2, 1)

	got, err := reader.ReadBalances(context.Background(), "ethereum", swaprMainnet, accounts, mustDate(t, "2024-03-01"))
	require.NoError(t, err)

	require.Len(t, got, 5)
	for i, v := range got {
		assert.Equal(t, int64(100*(i+1)), v.Int64(), "balance %d", i)
	}
	require.Len(t, chain.batches, 3)
	for _, b := range chain.batches {
		assert.LessOrEqual(t, len(b), 2)
	}
}

func TestBalanceReader_ReadBalancesEmpty(t *testing.T) {
	chain := &fakeChainClient{}
	reader := NewBalanceReader(knownNetworks(), fakeClientProvider{client: chain}, nopLogger{}, 2, 0)

	got, err := reader.ReadBalances(context.Background(), "ethereum", swaprMainnet, nil, mustDate(t, "2024-03-01"))
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Empty(t, chain.batches, "no request is issued for an empty account list")
}

func TestBalanceReader_Errors(t *testing.T) {
	at := mustDate(t, "2024-03-01")
	ctx := context.Background()

	t.Run("unknown network", func(t *testing.T) {
		reader := NewBalanceReader(knownNetworks(), fakeClientProvider{client: &fakeChainClient{}}, nopLogger{}, 2, 0)
		_, err := reader.ReadTotalSupply(ctx, "fantom", swaprMainnet, at)
		assert.ErrorIs(t, err, entity.ErrConfiguration)
	})

	t.Run("no client", func(t *testing.T) {
		reader := NewBalanceReader(knownNetworks(), fakeClientProvider{err: errors.New("dial failed")}, nopLogger{}, 2, 0)
		_, err := reader.ReadTotalSupply(ctx, "ethereum", swaprMainnet, at)
		assert.ErrorIs(t, err, entity.ErrDataUnavailable)
	})

	t.Run("block lookup fails", func(t *testing.T) {
		chain := &fakeChainClient{blockErr: errors.New("timeout")}
		reader := NewBalanceReader(knownNetworks(), fakeClientProvider{client: chain}, nopLogger{}, 2, 0)
		_, err := reader.ReadBalances(ctx, "ethereum", swaprMainnet, []string{account(1)}, at)
		assert.ErrorIs(t, err, entity.ErrDataUnavailable)
		assert.Empty(t, chain.batches)
	})

	t.Run("one balance reverts", func(t *testing.T) {
		chain := &fakeChainClient{failOn: account(3)}
		reader := NewBalanceReader(knownNetworks(), fakeClientProvider{client: chain}, nopLogger{}, 2, 0)
		got, err := reader.ReadBalances(ctx, "ethereum", swaprMainnet, []string{account(1), account(2), account(3)}, at)
		assert.ErrorIs(t, err, entity.ErrDataUnavailable)
		assert.Nil(t, got)
	})
}
