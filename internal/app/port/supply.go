package port

import (
	"context"

	"issuance_tracker/internal/domain/entity"
)

// SupplyAggregator computes the circulating supply of a token at a point in time.
type SupplyAggregator interface {
	ComputeSupply(ctx context.Context, token entity.TokenConfig, at entity.PointInTime) (entity.SupplyFigure, error)
}

// IssuanceMetrics exposes the issuance queries of a single token.
type IssuanceMetrics interface {
	CirculatingSupply(ctx context.Context) (float64, error)
	Issuance7DayAvgUSD(ctx context.Context) (float64, error)
	IssuanceRateCurrent(ctx context.Context) (float64, error)
}

// Calendar produces the points in time queried by the metrics.
type Calendar interface {
	Today() entity.PointInTime
	OffsetDays(p entity.PointInTime, n int) entity.PointInTime
}
