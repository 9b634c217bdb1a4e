package provider

import (
	"sync"

	"issuance_tracker/internal/app/port"
	"issuance_tracker/internal/domain/entity"
)

type tokenProviderImpl struct {
	source port.TokenProvider
	logger port.Logger

	once  sync.Once
	token entity.TokenConfig
	err   error
}

// NewTokenProvider wraps source so the token definition is read once and then served from memory.
func NewTokenProvider(source port.TokenProvider, logger port.Logger) port.TokenProvider {
	return &tokenProviderImpl{source: source, logger: logger}
}

// GetToken returns the token definition, loading it on first use.
// A failed load is remembered; the definition is immutable for the process lifetime.
func (p *tokenProviderImpl) GetToken() (entity.TokenConfig, error) {
	p.once.Do(func() {
		p.logger.Debug("Loading token definition")
		p.token, p.err = p.source.GetToken()
		if p.err != nil {
			p.logger.Error("Failed to load token definition", "error", p.err)
			return
		}
		p.logger.Info("Token definition cached", "token", p.token.ID)
	})
	return p.token, p.err
}
