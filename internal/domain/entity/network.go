package entity

// NetworkDefinition holds the configuration for a specific blockchain network.
// This structure is defined at the domain level to be used across application and infrastructure layers.
type NetworkDefinition struct {
	ChainID      uint64 `json:"chainId" yaml:"chainId"`
	Name         string `json:"name" yaml:"name"`
	Identifier   string `json:"identifier" yaml:"identifier"` // e.g. "ethereum", "arbitrum"
	NativeSymbol string `json:"nativeSymbol" yaml:"nativeSymbol"`

	// RPC URLs often embed provider keys and are never serialized.
	PrimaryRPCURL   string   `json:"-" yaml:"primaryRpcUrl"`
	FallbackRPCURLs []string `json:"-" yaml:"fallbackRpcUrls"`

	BlockExplorerURL string `json:"blockExplorerUrl,omitempty" yaml:"blockExplorerUrl,omitempty"`
	// DEXScreenerChainID is the chain slug used by the DEX Screener API.
	DEXScreenerChainID string `json:"dexScreenerChainId,omitempty" yaml:"dexScreenerChainId,omitempty"`
}
