package client

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"issuance_tracker/internal/entity"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// CoinGeckoClient defines the interface for the CoinGecko simple price API.
type CoinGeckoClient interface {
	GetSimplePrice(ctx context.Context, coinIDs []string, vsCurrency string) (entity.SimplePriceResponse, error)
}

type coinGeckoClientImpl struct {
	client  *fasthttp.Client
	baseURL string
	apiKey  string
	timeout time.Duration
	logger  *zap.Logger
}

// NewCoinGeckoClient creates a CoinGecko client. The API key is optional;
// when set it is sent as the pro API header.
func NewCoinGeckoClient(baseURL, apiKey string, timeout time.Duration, logger *zap.Logger) CoinGeckoClient {
	return &coinGeckoClientImpl{
		client:  &fasthttp.Client{},
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		timeout: timeout,
		logger:  logger.Named("CoinGeckoClient"),
	}
}

// GetSimplePrice returns the prices of coinIDs in vsCurrency, keyed by coin id then currency.
func (c *coinGeckoClientImpl) GetSimplePrice(ctx context.Context, coinIDs []string, vsCurrency string) (entity.SimplePriceResponse, error) {
	if len(coinIDs) == 0 {
		return nil, fmt.Errorf("coinIDs cannot be empty")
	}

	query := url.Values{}
	query.Set("ids", strings.Join(coinIDs, ","))
	query.Set("vs_currencies", vsCurrency)
	requestURL := fmt.Sprintf("%s/simple/price?%s", c.baseURL, query.Encode())

	var headers map[string]string
	if c.apiKey != "" {
		headers = map[string]string{"x-cg-pro-api-key": c.apiKey}
	}

	c.logger.Debug("Requesting simple price from CoinGecko", zap.String("url", requestURL))
	rawBody, status, err := getBody(ctx, c.client, requestURL, headers, c.timeout)
	if err != nil {
		c.logger.Error("CoinGecko API request failed",
			zap.String("url", requestURL),
			zap.Int("statusCode", status),
			zap.Error(err))
		return nil, err
	}

	var prices entity.SimplePriceResponse
	if err := json.Unmarshal(rawBody, &prices); err != nil {
		c.logger.Error("Failed to unmarshal CoinGecko response",
			zap.String("url", requestURL),
			zap.ByteString("responseBody", rawBody),
			zap.Error(err))
		return nil, fmt.Errorf("failed to unmarshal CoinGecko response from %s: %w", requestURL, err)
	}
	return prices, nil
}
