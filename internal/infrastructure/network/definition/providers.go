package networkdefinition

import (
	"fmt"
	"sort"
	"strings"

	"issuance_tracker/internal/app/port"
	"issuance_tracker/internal/domain/entity"
	"issuance_tracker/internal/infrastructure/configloader"
)

// NetworkDefinitionProvider provides network definitions.
type NetworkDefinitionProvider struct {
	logger         port.Logger
	allNetworkDefs map[string]entity.NetworkDefinition
}

// Predefined network definitions. Historical token reads need archive nodes,
// so the public endpoints below are defaults meant to be overridden from config.
var ( //nolint:gochecknoglobals // Global for definitions
	Ethereum = entity.NetworkDefinition{
		ChainID:            1,
		Name:               "Ethereum Mainnet",
		Identifier:         "ethereum",
		NativeSymbol:       "ETH",
		PrimaryRPCURL:      "https://ethereum-rpc.publicnode.com",
		FallbackRPCURLs:    []string{"https://rpc.ankr.com/eth", "https://ethereum.publicnode.com"},
		BlockExplorerURL:   "https://etherscan.io",
		DEXScreenerChainID: "ethereum",
	}
	Gnosis = entity.NetworkDefinition{
		ChainID:            100,
		Name:               "Gnosis Chain",
		Identifier:         "gnosis",
		NativeSymbol:       "xDAI",
		PrimaryRPCURL:      "https://0xrpc.io/gno",
		FallbackRPCURLs:    []string{"https://rpc.ankr.com/gnosis", "https://gnosis.publicnode.com"},
		BlockExplorerURL:   "https://gnosisscan.io",
		DEXScreenerChainID: "gnosischain",
	}
	Arbitrum = entity.NetworkDefinition{
		ChainID:            42161,
		Name:               "Arbitrum One",
		Identifier:         "arbitrum",
		NativeSymbol:       "ETH",
		PrimaryRPCURL:      "https://arb1.arbitrum.io/rpc",
		FallbackRPCURLs:    []string{"https://arbitrum.llamarpc.com", "https://arbitrum.publicnode.com"},
		BlockExplorerURL:   "https://arbiscan.io",
		DEXScreenerChainID: "arbitrum",
	}
	Optimism = entity.NetworkDefinition{
		ChainID:            10,
		Name:               "OP Mainnet",
		Identifier:         "optimism",
		NativeSymbol:       "ETH",
		PrimaryRPCURL:      "https://op-pokt.nodies.app",
		FallbackRPCURLs:    []string{"https://optimism.publicnode.com", "https://rpc.ankr.com/optimism"},
		BlockExplorerURL:   "https://optimistic.etherscan.io",
		DEXScreenerChainID: "optimism",
	}
	Base = entity.NetworkDefinition{
		ChainID:            8453,
		Name:               "Base Mainnet",
		Identifier:         "base",
		NativeSymbol:       "ETH",
		PrimaryRPCURL:      "https://1rpc.io/base",
		FallbackRPCURLs:    []string{"https://base.publicnode.com", "https://base.llamarpc.com"},
		BlockExplorerURL:   "https://basescan.org",
		DEXScreenerChainID: "base",
	}
	Polygon = entity.NetworkDefinition{
		ChainID:            137,
		Name:               "Polygon PoS",
		Identifier:         "polygon",
		NativeSymbol:       "POL",
		PrimaryRPCURL:      "https://polygon-rpc.com/",
		FallbackRPCURLs:    []string{"https://rpc.ankr.com/polygon", "https://polygon.publicnode.com"},
		BlockExplorerURL:   "https://polygonscan.com",
		DEXScreenerChainID: "polygon",
	}
)

// knownDefinitions returns a fresh map of all hardcoded definitions.
func knownDefinitions() map[string]entity.NetworkDefinition {
	return map[string]entity.NetworkDefinition{
		Ethereum.Identifier: Ethereum,
		Gnosis.Identifier:   Gnosis,
		Arbitrum.Identifier: Arbitrum,
		Optimism.Identifier: Optimism,
		Base.Identifier:     Base,
		Polygon.Identifier:  Polygon,
	}
}

// NewNetworkDefinitionProvider creates a new NetworkDefinitionProvider.
// Configured networks override the endpoints of a known definition or, when
// the name is unknown and a chain id is given, add a custom network.
func NewNetworkDefinitionProvider(log port.Logger, nodes []configloader.NetworkNodeConfig) *NetworkDefinitionProvider {
	p := &NetworkDefinitionProvider{
		logger:         log,
		allNetworkDefs: knownDefinitions(),
	}

	for _, node := range nodes {
		identifier := strings.ToLower(node.Name)
		def, known := p.allNetworkDefs[identifier]
		if !known {
			if node.ChainID <= 0 {
				p.logger.Warn(fmt.Sprintf("Network '%s' is not a known definition and has no chainID. Skipping.", node.Name))
				continue
			}
			def = entity.NetworkDefinition{
				ChainID:    uint64(node.ChainID),
				Name:       node.Name,
				Identifier: identifier,
			}
		} else if node.ChainID > 0 && uint64(node.ChainID) != def.ChainID {
			p.logger.Warn("Configured chainID differs from known definition, keeping known value",
				"network", identifier, "configured", node.ChainID, "known", def.ChainID)
		}
		def.PrimaryRPCURL = node.RPCURL
		def.FallbackRPCURLs = append([]string(nil), node.FallbackRPCURLs...)
		if node.DEXScreenerChainID != "" {
			def.DEXScreenerChainID = node.DEXScreenerChainID
		}
		p.allNetworkDefs[identifier] = def
		p.logger.Debug(fmt.Sprintf("Network '%s' endpoints configured (ChainID: %d, DEXScreenerID: %s)", def.Name, def.ChainID, def.DEXScreenerChainID))
	}

	p.logger.Info(fmt.Sprintf("NetworkDefinitionProvider initialized. Networks: %d", len(p.allNetworkDefs)))
	return p
}

// GetAllNetworkDefinitions returns all network definitions sorted by identifier.
func (p *NetworkDefinitionProvider) GetAllNetworkDefinitions() []entity.NetworkDefinition {
	if p == nil {
		return []entity.NetworkDefinition{}
	}
	defs := make([]entity.NetworkDefinition, 0, len(p.allNetworkDefs))
	for _, def := range p.allNetworkDefs {
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Identifier < defs[j].Identifier })
	return defs
}

// GetNetworkDefinitionByName returns a specific network definition by its identifier.
func (p *NetworkDefinitionProvider) GetNetworkDefinitionByName(identifier string) (entity.NetworkDefinition, bool) {
	if p == nil {
		return entity.NetworkDefinition{}, false
	}
	def, ok := p.allNetworkDefs[strings.ToLower(identifier)]
	return def, ok
}
