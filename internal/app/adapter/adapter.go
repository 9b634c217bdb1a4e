package adapter

import (
	"context"

	"issuance_tracker/internal/app/port"
	"issuance_tracker/internal/app/registry"
	"issuance_tracker/internal/domain/entity"
)

const (
	// Name is the adapter family name.
	Name = "Issuance - Mintable tokens"
	// Version of the adapter.
	Version = "0.2.1"
	// Description is used when the token does not describe itself.
	Description = "This adapter tracks issuance of a mintable token by querying the historical supply of " +
		"the token (default 7 days prior), and comparing it to the current supply."

	// DefaultCategory of issuance adapters.
	DefaultCategory = "app"
)

// Query names exposed by the adapter.
const (
	QueryCirculatingSupply   = "circulatingSupply"
	QueryIssuance7DayAvgUSD  = "issuance7DayAvgUSD"
	QueryIssuanceRateCurrent = "issuanceRateCurrent"
)

// IconSource builds lazy icon loaders from a content identifier and MIME type.
type IconSource interface {
	Loader(cid, mimeType string) func(ctx context.Context) (string, error)
}

// Setup registers the issuance queries of token into reg.
// icons may be nil, in which case the icon is omitted.
func Setup(reg *registry.Registry, token entity.TokenConfig, metrics port.IssuanceMetrics, icons IconSource) error {
	if err := token.Validate(); err != nil {
		return err
	}

	meta := registry.Metadata{
		Name:                token.Name,
		Version:             Version,
		Description:         token.Description,
		Category:            token.Category,
		IssuanceDescription: optional(token.IssuanceDescription),
		Website:             optional(token.Website),
	}
	if meta.Name == "" {
		meta.Name = Name
	}
	if meta.Description == "" {
		meta.Description = Description
	}
	if meta.Category == "" {
		meta.Category = DefaultCategory
	}
	if token.Icon != "" && icons != nil {
		meta.Icon = icons.Loader(token.Icon, token.IconType)
	}

	return reg.Register(registry.Registration{
		ID: token.ID,
		Queries: map[string]registry.QueryFunc{
			QueryCirculatingSupply:   metrics.CirculatingSupply,
			QueryIssuance7DayAvgUSD:  metrics.Issuance7DayAvgUSD,
			QueryIssuanceRateCurrent: metrics.IssuanceRateCurrent,
		},
		Metadata: meta,
	})
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
