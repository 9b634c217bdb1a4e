package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPointInTime(t *testing.T) {
	p := NewPointInTime(time.Date(2024, 1, 3, 23, 59, 59, 0, time.UTC))
	assert.Equal(t, "2024-01-03", p.String())
	assert.Equal(t, time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), p.Time())
	assert.Equal(t, "2023-12-27", p.AddDays(-7).String())
	assert.False(t, p.IsZero())
	assert.True(t, PointInTime{}.IsZero())

	text, err := p.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "2024-01-03", string(text))
}

func TestParsePointInTime(t *testing.T) {
	p, err := ParsePointInTime("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, NewPointInTime(time.Date(2024, 2, 29, 12, 0, 0, 0, time.UTC)), p)

	_, err = ParsePointInTime("29/02/2024")
	assert.Error(t, err)
}
