package registry

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"issuance_tracker/internal/pkg/metrics"
)

var (
	// ErrDuplicateAdapter is returned when an adapter id is registered twice.
	ErrDuplicateAdapter = errors.New("adapter already registered")
	// ErrAdapterNotFound is returned for an unknown adapter id.
	ErrAdapterNotFound = errors.New("adapter not found")
	// ErrQueryNotFound is returned for an unknown query name.
	ErrQueryNotFound = errors.New("query not found")
)

// QueryFunc is a zero-argument query producing a single number.
type QueryFunc func(ctx context.Context) (float64, error)

// IconLoader resolves the icon of an adapter on demand.
type IconLoader func(ctx context.Context) (string, error)

// Metadata is the static description of an adapter.
type Metadata struct {
	Name                string     `json:"name"`
	Version             string     `json:"version"`
	Description         string     `json:"description"`
	Category            string     `json:"category"`
	IssuanceDescription *string    `json:"issuanceDescription"`
	Website             *string    `json:"website"`
	Icon                IconLoader `json:"-"`
}

// Registration binds an adapter id to its queries and metadata.
type Registration struct {
	ID       string
	Queries  map[string]QueryFunc
	Metadata Metadata
}

// QueryNames returns the sorted query names of r.
func (r Registration) QueryNames() []string {
	names := make([]string, 0, len(r.Queries))
	for name := range r.Queries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Registry holds adapter registrations. Safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Registration
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{entries: make(map[string]Registration)}
}

// Register adds reg. Ids must be non-empty and unique.
func (r *Registry) Register(reg Registration) error {
	if reg.ID == "" {
		return errors.New("registration id is empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[reg.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateAdapter, reg.ID)
	}
	r.entries[reg.ID] = reg
	return nil
}

// Get returns the registration with the given id.
func (r *Registry) Get(id string) (Registration, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	reg, ok := r.entries[id]
	return reg, ok
}

// List returns all registrations sorted by id.
func (r *Registry) List() []Registration {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]Registration, 0, len(r.entries))
	for _, reg := range r.entries {
		list = append(list, reg)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

// Execute runs one query of one adapter and records its outcome.
func (r *Registry) Execute(ctx context.Context, id, query string) (float64, error) {
	reg, ok := r.Get(id)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrAdapterNotFound, id)
	}
	fn, ok := reg.Queries[query]
	if !ok {
		return 0, fmt.Errorf("%w: %s/%s", ErrQueryNotFound, id, query)
	}

	start := time.Now()
	value, err := fn(ctx)
	metrics.QueryDuration.WithLabelValues(id, query).Observe(time.Since(start).Seconds())

	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.QueryTotal.WithLabelValues(id, query, outcome).Inc()
	return value, err
}
