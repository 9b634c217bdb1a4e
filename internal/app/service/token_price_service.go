package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"issuance_tracker/internal/app/port"
	"issuance_tracker/internal/client"
	"issuance_tracker/internal/domain/entity"
	dex_types "issuance_tracker/internal/entity"
	"issuance_tracker/internal/pkg/metrics"
	"issuance_tracker/internal/pkg/utils"
)

const (
	stablecoinUSDCSymbol = "USDC"
	stablecoinUSDTSymbol = "USDT"
	stablecoinDAISymbol  = "DAI"
)

var stablecoinSymbols = map[string]struct{}{
	stablecoinUSDCSymbol: {},
	stablecoinUSDTSymbol: {},
	stablecoinDAISymbol:  {},
}

// tokenPriceServiceImpl implements port.TokenPriceService. Prices are fetched on every call.
type tokenPriceServiceImpl struct {
	coinGeckoClient   client.CoinGeckoClient
	dexscreenerClient client.DEXScreenerClient
	vsCurrency        string
	logger            port.Logger
}

// NewTokenPriceService creates a new instance of tokenPriceServiceImpl.
func NewTokenPriceService(
	cgc client.CoinGeckoClient,
	dsc client.DEXScreenerClient,
	vsCurrency string,
	l port.Logger,
) port.TokenPriceService {
	if vsCurrency == "" {
		vsCurrency = "usd"
	}
	return &tokenPriceServiceImpl{
		coinGeckoClient:   cgc,
		dexscreenerClient: dsc,
		vsCurrency:        strings.ToLower(vsCurrency),
		logger:            l,
	}
}

// CurrentPrice returns the current unit price of the token identified by feed.
func (s *tokenPriceServiceImpl) CurrentPrice(ctx context.Context, feed entity.PriceFeed) (float64, error) {
	var (
		price float64
		err   error
	)
	source := strings.ToLower(feed.Source)
	switch source {
	case entity.PriceSourceCoinGecko, "":
		source = entity.PriceSourceCoinGecko
		price, err = s.coinGeckoPrice(ctx, feed.ID)
	case entity.PriceSourceDEXScreener:
		price, err = s.dexScreenerPrice(ctx, feed.ID)
	default:
		return 0, fmt.Errorf("%w: unknown price source %q", entity.ErrConfiguration, feed.Source)
	}

	if err != nil {
		metrics.PriceRequestTotal.WithLabelValues(source, "error").Inc()
		s.logger.Error("Failed to fetch price", "source", source, "id", feed.ID, "error", err)
		return 0, err
	}
	metrics.PriceRequestTotal.WithLabelValues(source, "ok").Inc()
	s.logger.Debug("Fetched price", "source", source, "id", feed.ID, "price", price)
	return price, nil
}

func (s *tokenPriceServiceImpl) coinGeckoPrice(ctx context.Context, coinID string) (float64, error) {
	if s.coinGeckoClient == nil {
		return 0, fmt.Errorf("%w: CoinGecko client is not configured", entity.ErrConfiguration)
	}
	if coinID == "" {
		return 0, fmt.Errorf("%w: CoinGecko price feed has no coin id", entity.ErrConfiguration)
	}

	prices, err := s.coinGeckoClient.GetSimplePrice(ctx, []string{coinID}, s.vsCurrency)
	if err != nil {
		return 0, fmt.Errorf("%w: CoinGecko price of %s: %v", entity.ErrDataUnavailable, coinID, err)
	}
	price, ok := prices[coinID][s.vsCurrency]
	if !ok || price <= 0 {
		return 0, fmt.Errorf("%w: CoinGecko has no %s price for %s", entity.ErrDataUnavailable, s.vsCurrency, coinID)
	}
	return price, nil
}

// dexScreenerPrice resolves a "<chain>/<address>" feed id.
func (s *tokenPriceServiceImpl) dexScreenerPrice(ctx context.Context, feedID string) (float64, error) {
	if s.dexscreenerClient == nil {
		return 0, fmt.Errorf("%w: DEX Screener client is not configured", entity.ErrConfiguration)
	}
	chainID, tokenAddress, ok := strings.Cut(feedID, "/")
	if !ok || chainID == "" || tokenAddress == "" {
		return 0, fmt.Errorf("%w: DEX Screener price feed id %q is not <chain>/<address>", entity.ErrConfiguration, feedID)
	}

	pairs, err := s.dexscreenerClient.GetTokenPairsByAddresses(ctx, chainID, []string{tokenAddress})
	if err != nil {
		return 0, fmt.Errorf("%w: DEX Screener pairs of %s: %v", entity.ErrDataUnavailable, feedID, err)
	}

	priceStr := s.selectBestPriceFromPairs(pairs, tokenAddress)
	if priceStr == "" {
		return 0, fmt.Errorf("%w: DEX Screener has no priced pair for %s", entity.ErrDataUnavailable, feedID)
	}
	price, err := strconv.ParseFloat(priceStr, 64)
	if err != nil || price <= 0 {
		return 0, fmt.Errorf("%w: DEX Screener returned invalid price %q for %s", entity.ErrDataUnavailable, priceStr, feedID)
	}
	return price, nil
}

// selectBestPriceFromPairs prefers the most liquid stablecoin-quoted pair and
// falls back to the most liquid pair overall.
func (s *tokenPriceServiceImpl) selectBestPriceFromPairs(pairs []dex_types.PairData, baseTokenAddress string) string {
	if len(pairs) == 0 {
		return ""
	}

	var bestOverallPair *dex_types.PairData
	var bestStablecoinPair *dex_types.PairData

	for i := range pairs {
		pair := &pairs[i]
		if !strings.EqualFold(pair.BaseToken.Address, baseTokenAddress) {
			continue
		}
		if pair.PriceUsd == "" || pair.PriceUsd == "0" {
			continue
		}

		_, isStablecoin := stablecoinSymbols[strings.ToUpper(pair.QuoteToken.Symbol)]

		if isStablecoin && moreLiquid(pair, bestStablecoinPair) {
			bestStablecoinPair = pair
		}
		if moreLiquid(pair, bestOverallPair) {
			bestOverallPair = pair
		}
	}

	if bestStablecoinPair != nil {
		s.logger.Debug("Selected best price from stablecoin pair",
			"baseTokenAddress", baseTokenAddress,
			"pairAddress", bestStablecoinPair.PairAddress,
			"priceUsd", bestStablecoinPair.PriceUsd,
			"liquidityUsd", utils.SafeDerefFloat64(bestStablecoinPair.Liquidity, func(l dex_types.DEXLiquidity) float64 { return l.Usd }),
			"quoteToken", bestStablecoinPair.QuoteToken.Symbol)
		return bestStablecoinPair.PriceUsd
	}

	if bestOverallPair != nil {
		s.logger.Debug("Selected best price from overall highest liquidity pair",
			"baseTokenAddress", baseTokenAddress,
			"pairAddress", bestOverallPair.PairAddress,
			"priceUsd", bestOverallPair.PriceUsd,
			"liquidityUsd", utils.SafeDerefFloat64(bestOverallPair.Liquidity, func(l dex_types.DEXLiquidity) float64 { return l.Usd }),
			"quoteToken", bestOverallPair.QuoteToken.Symbol)
		return bestOverallPair.PriceUsd
	}

	s.logger.Warn("No suitable price found from pairs",
		"baseTokenAddress", baseTokenAddress,
		"evaluatedPairCount", len(pairs))
	return ""
}

func moreLiquid(candidate, current *dex_types.PairData) bool {
	if current == nil {
		return true
	}
	liquidity := func(l dex_types.DEXLiquidity) float64 { return l.Usd }
	return utils.SafeDerefFloat64(candidate.Liquidity, liquidity) > utils.SafeDerefFloat64(current.Liquidity, liquidity)
}
