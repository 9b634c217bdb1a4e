package entity

// DEXTokenPair is the wrapped form of a DEX Screener pairs response.
type DEXTokenPair struct {
	SchemaVersion string     `json:"schemaVersion"`
	Pairs         []PairData `json:"pairs"`
}

// PairData contains the fields of a trading pair used for pricing.
type PairData struct {
	ChainID       string        `json:"chainId"`
	DexID         string        `json:"dexId"`
	URL           string        `json:"url"`
	PairAddress   string        `json:"pairAddress"`
	BaseToken     DEXToken      `json:"baseToken"`
	QuoteToken    DEXToken      `json:"quoteToken"`
	PriceNative   string        `json:"priceNative"`
	PriceUsd      string        `json:"priceUsd"`
	Liquidity     *DEXLiquidity `json:"liquidity"` // null for pairs without a liquidity estimate
	MarketCap     float64       `json:"marketCap"`
	PairCreatedAt int64         `json:"pairCreatedAt"`
}

// DEXToken represents a token in a trading pair.
type DEXToken struct {
	Address string `json:"address"`
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`
}

// DEXLiquidity represents the liquidity information for a pair.
type DEXLiquidity struct {
	Usd   float64 `json:"usd"`
	Base  float64 `json:"base"`
	Quote float64 `json:"quote"`
}
