package utils

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// ToDecimal converts a raw base-unit amount into token units.
// Example: amount=1234500000000000000, decimals=18 => 1.2345
func ToDecimal(amount *big.Int, decimals uint8) decimal.Decimal {
	if amount == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(amount, -int32(decimals))
}

// SumBigInts adds all values, treating nil as zero.
func SumBigInts(values []*big.Int) *big.Int {
	total := new(big.Int)
	for _, v := range values {
		if v != nil {
			total.Add(total, v)
		}
	}
	return total
}
