package entity

import "github.com/shopspring/decimal"

// SupplyFigure is the net circulating supply of a token at one point in time.
type SupplyFigure struct {
	TokenID     string          `json:"tokenId"`
	At          PointInTime     `json:"at"`
	Total       decimal.Decimal `json:"total"`
	Excluded    decimal.Decimal `json:"excluded"`
	Circulating decimal.Decimal `json:"circulating"`
}
