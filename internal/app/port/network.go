package port

import (
	"context"
	"math/big"

	"issuance_tracker/internal/domain/entity"
)

// BlockchainClient defines the interface for reading historical token state from a network.
// Implementations will be specific to network types (e.g., EVM).
type BlockchainClient interface {
	// BlockAt resolves a point in time to the last block produced before it.
	BlockAt(ctx context.Context, at entity.PointInTime) (uint64, error)

	// ReadAt executes a batch of token reads against the state of the given block.
	ReadAt(ctx context.Context, block uint64, requests []entity.ReadRequestItem) ([]entity.ReadResultItem, error)

	// Definition returns the network definition associated with this client.
	Definition() entity.NetworkDefinition
}

// NetworkDefinitionProvider defines the interface for providing network definitions.
type NetworkDefinitionProvider interface {
	// GetAllNetworkDefinitions returns all active network definitions as a slice.
	GetAllNetworkDefinitions() []entity.NetworkDefinition

	// GetNetworkDefinitionByName returns a specific network definition by its identifier.
	GetNetworkDefinitionByName(nameOrIdentifier string) (entity.NetworkDefinition, bool)
}

// BlockchainClientProvider defines the interface for providing blockchain clients.
type BlockchainClientProvider interface {
	GetClient(networkDefinition entity.NetworkDefinition) (BlockchainClient, error)
}

// BalanceReader reads raw token amounts (base units) at a historical point in time.
type BalanceReader interface {
	ReadTotalSupply(ctx context.Context, network string, contract string, at entity.PointInTime) (*big.Int, error)
	ReadBalances(ctx context.Context, network string, contract string, accounts []string, at entity.PointInTime) ([]*big.Int, error)
}
