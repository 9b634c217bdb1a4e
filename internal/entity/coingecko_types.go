package entity

// SimplePriceResponse is the body of CoinGecko /simple/price: coin id -> currency -> price.
type SimplePriceResponse map[string]map[string]float64
