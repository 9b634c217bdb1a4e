package port

import (
	"context"

	"issuance_tracker/internal/domain/entity"
)

// TokenProvider defines the interface for fetching the tracked token definition.
type TokenProvider interface {
	GetToken() (entity.TokenConfig, error)
}

// TokenPriceService returns the current unit price of a token in USD.
type TokenPriceService interface {
	CurrentPrice(ctx context.Context, feed entity.PriceFeed) (float64, error)
}
