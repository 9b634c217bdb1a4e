package utils

import (
	dexscreener_entity "issuance_tracker/internal/entity" // Для DEXLiquidity
)

// Batch разбивает срез на батчи не длиннее size. При size <= 0 возвращается один батч.
// Батчи разделяют базовый массив items, но append в батч его не затирает.
func Batch[T any](items []T, size int) [][]T {
	if len(items) == 0 {
		return [][]T{}
	}
	if size <= 0 || size > len(items) {
		size = len(items)
	}

	batches := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		batches = append(batches, items[start:end:end])
	}
	return batches
}

// SafeDerefFloat64 безопасно разыменовывает указатель и получает float64.
func SafeDerefFloat64(liquidity *dexscreener_entity.DEXLiquidity, getter func(dexscreener_entity.DEXLiquidity) float64) float64 {
	if liquidity == nil {
		return 0.0
	}
	return getter(*liquidity)
}
