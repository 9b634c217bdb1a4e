package registry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func constant(v float64) QueryFunc {
	return func(context.Context) (float64, error) { return v, nil }
}

func TestRegistry_RegisterAndList(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(Registration{ID: "swapr", Queries: map[string]QueryFunc{"b": constant(1), "a": constant(2)}}))
	require.NoError(t, r.Register(Registration{ID: "gno"}))

	err := r.Register(Registration{ID: "swapr"})
	assert.ErrorIs(t, err, ErrDuplicateAdapter)
	assert.Error(t, r.Register(Registration{}))

	list := r.List()
	require.Len(t, list, 2)
	assert.Equal(t, "gno", list[0].ID)
	assert.Equal(t, "swapr", list[1].ID)
	assert.Equal(t, []string{"a", "b"}, list[1].QueryNames())

	_, ok := r.Get("missing")
	assert.False(t, ok)
}

func TestRegistry_Execute(t *testing.T) {
	boom := errors.New("boom")
	r := New()
	require.NoError(t, r.Register(Registration{ID: "swapr", Queries: map[string]QueryFunc{
		"ok":   constant(42),
		"fail": func(context.Context) (float64, error) { return 0, boom },
	}}))
	ctx := context.Background()

	v, err := r.Execute(ctx, "swapr", "ok")
	require.NoError(t, err)
	assert.Equal(t, 42.0, v)

	_, err = r.Execute(ctx, "swapr", "fail")
	assert.ErrorIs(t, err, boom)

	_, err = r.Execute(ctx, "swapr", "missing")
	assert.ErrorIs(t, err, ErrQueryNotFound)

	_, err = r.Execute(ctx, "missing", "ok")
	assert.ErrorIs(t, err, ErrAdapterNotFound)
}
