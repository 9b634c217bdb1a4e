package configloader

import (
	"os"
	"path/filepath"
	"testing"

	"issuance_tracker/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte("{}"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 50, cfg.Performance.MaxAddressesPerBatchCall)
	assert.Equal(t, 10, cfg.Performance.RPCCallTimeoutSeconds)
	assert.Equal(t, float64(10), cfg.RpcClient.RateLimit)
	assert.Equal(t, 5, cfg.RpcClient.BurstLimit)
	assert.Equal(t, "https://api.coingecko.com/api/v3", cfg.CoinGecko.BaseURL)
	assert.Equal(t, "usd", cfg.CoinGecko.VsCurrency)
	assert.Equal(t, "https://api.dexscreener.com", cfg.DEXScreener.BaseURL)
	assert.Equal(t, "https://ipfs.io/ipfs", cfg.IPFS.GatewayURL)
	assert.Equal(t, "data/token.json", cfg.Token.File)
	assert.Equal(t, "/swagger", cfg.Swagger.Path)
}

func TestParse_Values(t *testing.T) {
	cfg, err := Parse([]byte(`
server:
  port: ":9090"
logging:
  level: debug
performance:
  max_addresses_per_batch_call: 20
rpcClient:
  rateLimit: 2.5
  burstLimit: 1
token:
  file: tokens/swapr.json
networks:
  - name: ethereum
    rpcURL: https://archive.example/eth
    fallbackRpcURLs: [https://archive2.example/eth]
    dexScreenerChainId: ethereum
`))
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 20, cfg.Performance.MaxAddressesPerBatchCall)
	assert.Equal(t, 2.5, cfg.RpcClient.RateLimit)
	assert.Equal(t, "tokens/swapr.json", cfg.Token.File)
	require.Len(t, cfg.Networks, 1)
	assert.Equal(t, []string{"https://archive2.example/eth"}, cfg.Networks[0].FallbackRPCURLs)
}

func TestParse_InvalidNetworks(t *testing.T) {
	tests := map[string]string{
		"missing name":   "networks:\n  - rpcURL: http://x\n",
		"missing rpcURL": "networks:\n  - name: ethereum\n",
		"duplicate": "networks:\n  - name: ethereum\n    rpcURL: http://a\n" +
			"  - name: ethereum\n    rpcURL: http://b\n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.ErrorIs(t, err, entity.ErrConfiguration)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: warn\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Logging.Level)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)

	_, err = Parse([]byte("server: [unclosed"))
	assert.Error(t, err)
}
