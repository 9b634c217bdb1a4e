package client

import (
	"fmt"
	"sync"
	"time"

	"issuance_tracker/internal/app/port"
	"issuance_tracker/internal/domain/entity"
	"issuance_tracker/internal/infrastructure/configloader"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

const (
	defaultProviderConnectionTimeout = 10 * time.Second
)

// dialFunc creates a client for a network. Replaced in tests.
type dialFunc func(netDef entity.NetworkDefinition, opts ClientOptions) (port.BlockchainClient, error)

// evmClientProvider implements the port.BlockchainClientProvider interface.
type evmClientProvider struct {
	clients map[string]port.BlockchainClient
	mu      sync.Mutex
	logger  port.Logger
	opts    ClientOptions
	dial    dialFunc
}

// NewEVMClientProvider creates a new EVMClientProvider.
func NewEVMClientProvider(cfg *configloader.Config, logger port.Logger) port.BlockchainClientProvider {
	headerTTL := time.Duration(cfg.Cache.HeaderTTLMinutes) * time.Minute
	cleanup := time.Duration(cfg.Cache.CleanupIntervalMinutes) * time.Minute
	return &evmClientProvider{
		clients: make(map[string]port.BlockchainClient),
		logger:  logger,
		opts: ClientOptions{
			ConnectionTimeout: defaultProviderConnectionTimeout,
			RPCCallTimeout:    time.Duration(cfg.Performance.RPCCallTimeoutSeconds) * time.Second,
			RateLimit:         rate.Limit(cfg.RpcClient.RateLimit),
			BurstLimit:        cfg.RpcClient.BurstLimit,
			HeaderCache:       cache.New(headerTTL, cleanup),
		},
		dial: NewEVMClient,
	}
}

// GetClient retrieves a blockchain client for the given network definition.
// It caches clients to avoid reconnecting repeatedly.
func (p *evmClientProvider) GetClient(netDef entity.NetworkDefinition) (port.BlockchainClient, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	clientKey := fmt.Sprintf("%d:%s", netDef.ChainID, netDef.Identifier)
	if client, exists := p.clients[clientKey]; exists {
		return client, nil
	}

	p.logger.Info("Creating new EVM client", "network", netDef.Name, "fallbacks", len(netDef.FallbackRPCURLs))
	newClient, err := p.dial(netDef, p.opts)
	if err != nil {
		p.logger.Error("Failed to create EVM client", "network", netDef.Name, "error", err)
		return nil, fmt.Errorf("failed to create EVM client for %s: %w", netDef.Name, err)
	}

	p.clients[clientKey] = newClient
	p.logger.Info("Successfully created and cached new EVM client", "network", netDef.Name)
	return newClient, nil
}

// Close closes every cached client.
func (p *evmClientProvider) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for key, c := range p.clients {
		if closer, ok := c.(interface{ Close() }); ok {
			closer.Close()
		}
		delete(p.clients, key)
	}
}
