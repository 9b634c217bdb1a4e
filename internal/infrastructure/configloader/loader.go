package configloader

import (
	"fmt"
	"os"

	"issuance_tracker/internal/domain/entity"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// ServerConfig holds server-specific configurations.
type ServerConfig struct {
	Port         string `yaml:"port"`
	ReadTimeout  int    `yaml:"readTimeout"`
	WriteTimeout int    `yaml:"writeTimeout"`
	IdleTimeout  int    `yaml:"idleTimeout"`
}

// LoggingConfig holds logging-specific configurations.
type LoggingConfig struct {
	Level string `yaml:"level"` // e.g., "debug", "info", "warn", "error"
}

// CoinGeckoConfig holds CoinGecko API specific configurations.
type CoinGeckoConfig struct {
	APIKey               string `yaml:"apiKey"`
	BaseURL              string `yaml:"baseURL"`
	ClientTimeoutSeconds int    `yaml:"clientTimeoutSeconds"`
	VsCurrency           string `yaml:"vsCurrency"`
}

// DEXScreenerConfig holds DEXScreener API specific configurations.
type DEXScreenerConfig struct {
	BaseURL              string `yaml:"baseURL"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis"`
}

// IPFSConfig holds the gateway used to resolve token icons.
type IPFSConfig struct {
	GatewayURL           string `yaml:"gatewayURL"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis"`
}

// NetworkNodeConfig overrides the RPC endpoints of a known network.
type NetworkNodeConfig struct {
	Name               string   `yaml:"name"`               // e.g., "ethereum"
	RPCURL             string   `yaml:"rpcURL"`             // archive node, historical eth_call is required
	FallbackRPCURLs    []string `yaml:"fallbackRpcURLs"`    // tried in order when RPCURL cannot be dialed
	DEXScreenerChainID string   `yaml:"dexScreenerChainId"` // e.g., "ethereum" or "arbitrum"
	ChainID            int64    `yaml:"chainID"`            // e.g., 1 for Ethereum
}

// PerformanceConfig holds performance-related configurations.
type PerformanceConfig struct {
	MaxConcurrentRoutines    int `yaml:"max_concurrent_routines"`
	RPCCallTimeoutSeconds    int `yaml:"rpc_call_timeout_seconds"`
	MaxAddressesPerBatchCall int `yaml:"max_addresses_per_batch_call"`
}

// RpcClientConfig paces RPC traffic per network.
type RpcClientConfig struct {
	RateLimit  float64 `yaml:"rateLimit"`
	BurstLimit int     `yaml:"burstLimit"`
}

// CacheConfig holds configuration for the block header timestamp cache.
type CacheConfig struct {
	HeaderTTLMinutes       int `yaml:"headerTTLMinutes"`
	CleanupIntervalMinutes int `yaml:"cleanupIntervalMinutes"`
}

// SwaggerConfig holds configuration for Swagger UI.
type SwaggerConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
	Spec    string `yaml:"spec"`
}

// TokenConfig points at the tracked token definition.
type TokenConfig struct {
	File string `yaml:"file"`
}

// Config is the top-level configuration structure.
type Config struct {
	Server      ServerConfig        `yaml:"server"`
	Logging     LoggingConfig       `yaml:"logging"`
	CoinGecko   CoinGeckoConfig     `yaml:"coingecko"`
	DEXScreener DEXScreenerConfig   `yaml:"dexScreener"`
	IPFS        IPFSConfig          `yaml:"ipfs"`
	Performance PerformanceConfig   `yaml:"performance"`
	RpcClient   RpcClientConfig     `yaml:"rpcClient"`
	Cache       CacheConfig         `yaml:"cache"`
	Swagger     SwaggerConfig       `yaml:"swagger"`
	Token       TokenConfig         `yaml:"token"`
	Networks    []NetworkNodeConfig `yaml:"networks"`
}

// Load reads the YAML configuration file from the given path and unmarshals it.
func Load(path string) (*Config, error) {
	logrus.Infof("Loading configuration from path: %s", path)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return Parse(data)
}

// Parse unmarshals YAML configuration data, applies defaults and validates it.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config data: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logrus.Info("Configuration loaded successfully.")
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = ":8080"
	}
	if cfg.Server.ReadTimeout <= 0 {
		cfg.Server.ReadTimeout = 15
	}
	if cfg.Server.WriteTimeout <= 0 {
		cfg.Server.WriteTimeout = 60
	}
	if cfg.Server.IdleTimeout <= 0 {
		cfg.Server.IdleTimeout = 60
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}

	if cfg.Performance.MaxConcurrentRoutines <= 0 {
		cfg.Performance.MaxConcurrentRoutines = 10
	}
	if cfg.Performance.RPCCallTimeoutSeconds <= 0 {
		cfg.Performance.RPCCallTimeoutSeconds = 10
	}
	if cfg.Performance.MaxAddressesPerBatchCall <= 0 {
		cfg.Performance.MaxAddressesPerBatchCall = 50
		logrus.Infof("MaxAddressesPerBatchCall not set, defaulting to %d", cfg.Performance.MaxAddressesPerBatchCall)
	}

	if cfg.RpcClient.RateLimit <= 0 {
		cfg.RpcClient.RateLimit = 10
	}
	if cfg.RpcClient.BurstLimit <= 0 {
		cfg.RpcClient.BurstLimit = 5
	}

	if cfg.Cache.HeaderTTLMinutes <= 0 {
		cfg.Cache.HeaderTTLMinutes = 24 * 60
	}
	if cfg.Cache.CleanupIntervalMinutes <= 0 {
		cfg.Cache.CleanupIntervalMinutes = 60
	}

	if cfg.CoinGecko.BaseURL == "" {
		cfg.CoinGecko.BaseURL = "https://api.coingecko.com/api/v3"
	}
	if cfg.CoinGecko.ClientTimeoutSeconds <= 0 {
		cfg.CoinGecko.ClientTimeoutSeconds = 10
	}
	if cfg.CoinGecko.VsCurrency == "" {
		cfg.CoinGecko.VsCurrency = "usd"
	}

	if cfg.DEXScreener.BaseURL == "" {
		cfg.DEXScreener.BaseURL = "https://api.dexscreener.com"
		logrus.Infof("DEXScreener.BaseURL not set, defaulting to %s", cfg.DEXScreener.BaseURL)
	}
	if cfg.DEXScreener.RequestTimeoutMillis == 0 {
		cfg.DEXScreener.RequestTimeoutMillis = 10000
	}

	if cfg.IPFS.GatewayURL == "" {
		cfg.IPFS.GatewayURL = "https://ipfs.io/ipfs"
	}
	if cfg.IPFS.RequestTimeoutMillis == 0 {
		cfg.IPFS.RequestTimeoutMillis = 10000
	}

	if cfg.Swagger.Path == "" {
		cfg.Swagger.Path = "/swagger"
	}
	if cfg.Swagger.Spec == "" {
		cfg.Swagger.Spec = "./docs/swagger.yaml"
	}
	if cfg.Token.File == "" {
		cfg.Token.File = "data/token.json"
		logrus.Infof("Token.File not set, defaulting to %s", cfg.Token.File)
	}
}

// Validate checks the network overrides.
func (c *Config) Validate() error {
	seen := make(map[string]struct{}, len(c.Networks))
	for i, network := range c.Networks {
		if network.Name == "" {
			return fmt.Errorf("%w: networks[%d] has no name", entity.ErrConfiguration, i)
		}
		if network.RPCURL == "" {
			return fmt.Errorf("%w: network %s has no rpcURL", entity.ErrConfiguration, network.Name)
		}
		if _, dup := seen[network.Name]; dup {
			return fmt.Errorf("%w: network %s configured twice", entity.ErrConfiguration, network.Name)
		}
		seen[network.Name] = struct{}{}
		if network.DEXScreenerChainID == "" {
			logrus.Warnf("Network '%s' is missing dexScreenerChainId in config. DEX Screener prices for this network are unavailable.", network.Name)
		}
	}
	return nil
}
