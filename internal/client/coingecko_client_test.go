package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCoinGeckoClient_GetSimplePrice(t *testing.T) {
	var gotKey, gotIDs, gotCurrency string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v3/simple/price" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		gotKey = r.Header.Get("x-cg-pro-api-key")
		gotIDs = r.URL.Query().Get("ids")
		gotCurrency = r.URL.Query().Get("vs_currencies")
		_, _ = w.Write([]byte(`{"swapr":{"usd":0.0125},"gnosis":{"usd":180.5}}`))
	}))
	defer ts.Close()

	c := NewCoinGeckoClient(ts.URL+"/api/v3/", "secret", time.Second, zap.NewNop())
	prices, err := c.GetSimplePrice(context.Background(), []string{"swapr", "gnosis"}, "usd")
	require.NoError(t, err)

	assert.Equal(t, 0.0125, prices["swapr"]["usd"])
	assert.Equal(t, 180.5, prices["gnosis"]["usd"])
	assert.Equal(t, "secret", gotKey)
	assert.Equal(t, "swapr,gnosis", gotIDs)
	assert.Equal(t, "usd", gotCurrency)
}

func TestCoinGeckoClient_NoKeyHeaderWithoutKey(t *testing.T) {
	var sawHeader bool
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawHeader = r.Header["X-Cg-Pro-Api-Key"]
		_, _ = w.Write([]byte(`{}`))
	}))
	defer ts.Close()

	c := NewCoinGeckoClient(ts.URL, "", time.Second, zap.NewNop())
	prices, err := c.GetSimplePrice(context.Background(), []string{"swapr"}, "usd")
	require.NoError(t, err)
	assert.Empty(t, prices)
	assert.False(t, sawHeader)
}

func TestCoinGeckoClient_Errors(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("ids") == "garbage" {
			_, _ = w.Write([]byte(`not json`))
			return
		}
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"status":{"error_code":429}}`))
	}))
	defer ts.Close()

	c := NewCoinGeckoClient(ts.URL, "", time.Second, zap.NewNop())

	_, err := c.GetSimplePrice(context.Background(), []string{"swapr"}, "usd")
	assert.ErrorContains(t, err, "status 429")

	_, err = c.GetSimplePrice(context.Background(), []string{"garbage"}, "usd")
	assert.ErrorContains(t, err, "unmarshal")

	_, err = c.GetSimplePrice(context.Background(), nil, "usd")
	assert.Error(t, err)
}
