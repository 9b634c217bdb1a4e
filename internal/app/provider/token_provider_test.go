package provider

import (
	"errors"
	"testing"

	"issuance_tracker/internal/domain/entity"

	"github.com/stretchr/testify/assert"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

type countingSource struct {
	calls int
	err   error
}

func (s *countingSource) GetToken() (entity.TokenConfig, error) {
	s.calls++
	return entity.TokenConfig{ID: "swapr"}, s.err
}

func TestTokenProvider_LoadsOnce(t *testing.T) {
	src := &countingSource{}
	p := NewTokenProvider(src, nopLogger{})

	for i := 0; i < 3; i++ {
		token, err := p.GetToken()
		assert.NoError(t, err)
		assert.Equal(t, "swapr", token.ID)
	}
	assert.Equal(t, 1, src.calls)
}

func TestTokenProvider_RemembersFailure(t *testing.T) {
	src := &countingSource{err: errors.New("missing file")}
	p := NewTokenProvider(src, nopLogger{})

	_, err := p.GetToken()
	assert.Error(t, err)
	_, err = p.GetToken()
	assert.Error(t, err)
	assert.Equal(t, 1, src.calls)
}
