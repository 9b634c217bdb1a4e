package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validToken() TokenConfig {
	return TokenConfig{
		ID:             "swapr",
		Name:           "Swapr",
		PrimaryNetwork: "ethereum",
		Deployments: []Deployment{
			{
				Network:           "ethereum",
				ContractAddress:   "0x6cAcDB97e3fC8136805a9E7c342d866ab77D0957",
				ExcludedAddresses: []string{"0x0000000000000000000000000000000000000001"},
			},
			{Network: "arbitrum", ContractAddress: "0xdE903E2712288A1dA82942DDdF2c20529565aC30"},
		},
		PriceFeed: PriceFeed{Source: PriceSourceCoinGecko, ID: "swapr"},
	}
}

func TestTokenConfig_Validate(t *testing.T) {
	assert.NoError(t, validToken().Validate())

	tests := []struct {
		name   string
		mutate func(*TokenConfig)
	}{
		{"empty id", func(tc *TokenConfig) { tc.ID = "" }},
		{"no deployments", func(tc *TokenConfig) { tc.Deployments = nil }},
		{"deployment without network", func(tc *TokenConfig) { tc.Deployments[1].Network = "" }},
		{"duplicate network", func(tc *TokenConfig) { tc.Deployments[1].Network = "Ethereum" }},
		{"bad contract address", func(tc *TokenConfig) { tc.Deployments[0].ContractAddress = "0x1234" }},
		{"bad excluded address", func(tc *TokenConfig) { tc.Deployments[0].ExcludedAddresses = []string{"treasury"} }},
		{"excluded address repeated in another case", func(tc *TokenConfig) {
			tc.Deployments[0].ExcludedAddresses = []string{
				"0x000000000000000000000000000000000000dEaD",
				"0x000000000000000000000000000000000000DEAD",
			}
		}},
		{"primary without deployment", func(tc *TokenConfig) { tc.PrimaryNetwork = "gnosis" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc := validToken()
			tt.mutate(&tc)
			assert.ErrorIs(t, tc.Validate(), ErrConfiguration)
		})
	}
}

func TestTokenConfig_Primary(t *testing.T) {
	tc := validToken()
	tc.PrimaryNetwork = "ETHEREUM"

	d, ok := tc.Primary()
	assert.True(t, ok)
	assert.Equal(t, "0x6cAcDB97e3fC8136805a9E7c342d866ab77D0957", d.ContractAddress)
}

func TestTokenConfig_Scale(t *testing.T) {
	tc := validToken()
	assert.Equal(t, uint8(18), tc.Scale())

	six := uint8(6)
	tc.Decimals = &six
	assert.Equal(t, uint8(6), tc.Scale())

	zero := uint8(0)
	tc.Decimals = &zero
	assert.Equal(t, uint8(0), tc.Scale())
}
