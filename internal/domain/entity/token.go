package entity

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// DefaultTokenDecimals is the base-unit scale used when a token definition omits it.
const DefaultTokenDecimals uint8 = 18

// DefaultIconType is the MIME type assumed for token icons without an explicit type.
const DefaultIconType = "image/svg+xml"

// Price feed sources.
const (
	PriceSourceCoinGecko   = "coingecko"
	PriceSourceDEXScreener = "dexscreener"
)

// PriceFeed identifies where the current unit price of a token comes from.
// For coingecko the ID is the coin id (e.g. "swapr"); for dexscreener it is
// "<dexscreenerChainId>/<tokenAddress>".
type PriceFeed struct {
	Source string `json:"source" yaml:"source"`
	ID     string `json:"id" yaml:"id"`
}

// Deployment is one contract of the token on one network together with the
// holders whose balances do not count as circulating.
type Deployment struct {
	Network           string   `json:"network" yaml:"network"`
	ContractAddress   string   `json:"address" yaml:"address"`
	ExcludedAddresses []string `json:"excludeAddresses,omitempty" yaml:"excludeAddresses,omitempty"`
	// ExcludedAddressesFile optionally points at a newline separated list of extra excluded addresses.
	ExcludedAddressesFile string `json:"excludeAddressesFile,omitempty" yaml:"excludeAddressesFile,omitempty"`
}

// TokenConfig describes the tracked token. It is loaded once at startup and never mutated.
type TokenConfig struct {
	ID                  string       `json:"id" yaml:"id"`
	Name                string       `json:"name" yaml:"name"`
	PrimaryNetwork      string       `json:"primaryNetwork" yaml:"primaryNetwork"`
	Deployments         []Deployment `json:"deployments" yaml:"deployments"`
	Decimals            *uint8       `json:"decimals,omitempty" yaml:"decimals,omitempty"`
	PriceFeed           PriceFeed    `json:"priceFeed" yaml:"priceFeed"`
	Icon                string       `json:"icon,omitempty" yaml:"icon,omitempty"`
	IconType            string       `json:"iconType,omitempty" yaml:"iconType,omitempty"`
	Category            string       `json:"category,omitempty" yaml:"category,omitempty"`
	Description         string       `json:"description,omitempty" yaml:"description,omitempty"`
	IssuanceDescription string       `json:"issuanceDescription,omitempty" yaml:"issuanceDescription,omitempty"`
	Website             string       `json:"website,omitempty" yaml:"website,omitempty"`
}

// Scale returns the number of decimals of the token's base unit.
func (t TokenConfig) Scale() uint8 {
	if t.Decimals == nil {
		return DefaultTokenDecimals
	}
	return *t.Decimals
}

// Primary returns the deployment on the primary network.
func (t TokenConfig) Primary() (Deployment, bool) {
	for _, d := range t.Deployments {
		if strings.EqualFold(d.Network, t.PrimaryNetwork) {
			return d, true
		}
	}
	return Deployment{}, false
}

// Validate checks the network/address mapping of the token.
func (t TokenConfig) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("%w: token id is empty", ErrConfiguration)
	}
	if len(t.Deployments) == 0 {
		return fmt.Errorf("%w: token %s has no deployments", ErrConfiguration, t.ID)
	}
	seen := make(map[string]struct{}, len(t.Deployments))
	for _, d := range t.Deployments {
		key := strings.ToLower(d.Network)
		if key == "" {
			return fmt.Errorf("%w: token %s has a deployment without network", ErrConfiguration, t.ID)
		}
		if _, dup := seen[key]; dup {
			return fmt.Errorf("%w: token %s lists network %s twice", ErrConfiguration, t.ID, d.Network)
		}
		seen[key] = struct{}{}
		if !common.IsHexAddress(d.ContractAddress) {
			return fmt.Errorf("%w: token %s has invalid contract address %q on %s", ErrConfiguration, t.ID, d.ContractAddress, d.Network)
		}
		excluded := make(map[string]struct{}, len(d.ExcludedAddresses))
		for _, addr := range d.ExcludedAddresses {
			if !common.IsHexAddress(addr) {
				return fmt.Errorf("%w: token %s has invalid excluded address %q on %s", ErrConfiguration, t.ID, addr, d.Network)
			}
			// a repeated holder would be subtracted twice
			norm := strings.ToLower(addr)
			if _, dup := excluded[norm]; dup {
				return fmt.Errorf("%w: token %s excludes %s twice on %s", ErrConfiguration, t.ID, addr, d.Network)
			}
			excluded[norm] = struct{}{}
		}
	}
	if _, ok := t.Primary(); !ok {
		return fmt.Errorf("%w: token %s has no deployment on primary network %q", ErrConfiguration, t.ID, t.PrimaryNetwork)
	}
	return nil
}
