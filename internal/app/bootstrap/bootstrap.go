package bootstrap

import (
	"fmt"
	"time"

	"issuance_tracker/internal/app/adapter"
	"issuance_tracker/internal/app/port"
	"issuance_tracker/internal/app/provider"
	"issuance_tracker/internal/app/registry"
	"issuance_tracker/internal/app/service"
	dex_client "issuance_tracker/internal/client"
	"issuance_tracker/internal/domain/entity"
	"issuance_tracker/internal/infrastructure/configloader"
	"issuance_tracker/internal/infrastructure/ipfs"
	clientprovider "issuance_tracker/internal/infrastructure/network/client"
	networkdefinition "issuance_tracker/internal/infrastructure/network/definition"
	"issuance_tracker/internal/infrastructure/tokenloader"
	"issuance_tracker/internal/pkg/dateutil"

	"go.uber.org/zap"
)

// App is the wired application shared by the server and the CLI.
type App struct {
	Config   *configloader.Config
	Token    entity.TokenConfig
	Networks port.NetworkDefinitionProvider
	Supply   port.SupplyAggregator
	Metrics  port.IssuanceMetrics
	Calendar port.Calendar
	Registry *registry.Registry

	clients port.BlockchainClientProvider
}

// New wires providers, services and the adapter registration from cfg.
func New(cfg *configloader.Config, zapLogger *zap.Logger, appLogger port.Logger) (*App, error) {
	netDefProvider := networkdefinition.NewNetworkDefinitionProvider(appLogger, cfg.Networks)

	tokenProvider := provider.NewTokenProvider(
		tokenloader.NewTokenLoader(cfg.Token.File, appLogger.Info, appLogger.Warn),
		appLogger,
	)
	token, err := tokenProvider.GetToken()
	if err != nil {
		return nil, fmt.Errorf("load token: %w", err)
	}
	for _, d := range token.Deployments {
		if _, ok := netDefProvider.GetNetworkDefinitionByName(d.Network); !ok {
			return nil, fmt.Errorf("%w: token %s is deployed on unknown network %q", entity.ErrConfiguration, token.ID, d.Network)
		}
	}

	clientProvider := clientprovider.NewEVMClientProvider(cfg, appLogger)
	balanceReader := service.NewBalanceReader(
		netDefProvider,
		clientProvider,
		appLogger,
		cfg.Performance.MaxAddressesPerBatchCall,
		cfg.Performance.MaxConcurrentRoutines,
	)
	supplyService := service.NewSupplyService(balanceReader, appLogger)

	coinGeckoClient := dex_client.NewCoinGeckoClient(
		cfg.CoinGecko.BaseURL,
		cfg.CoinGecko.APIKey,
		time.Duration(cfg.CoinGecko.ClientTimeoutSeconds)*time.Second,
		zapLogger,
	)
	dexScreenerClient := dex_client.NewDEXScreenerClient(
		cfg.DEXScreener.BaseURL,
		time.Duration(cfg.DEXScreener.RequestTimeoutMillis)*time.Millisecond,
		zapLogger,
	)
	priceService := service.NewTokenPriceService(coinGeckoClient, dexScreenerClient, cfg.CoinGecko.VsCurrency, appLogger)

	calendar := dateutil.NewCalendar(nil)
	issuance := service.NewIssuanceService(token, supplyService, priceService, calendar, appLogger)

	icons := ipfs.NewIconLoader(cfg.IPFS.GatewayURL, time.Duration(cfg.IPFS.RequestTimeoutMillis)*time.Millisecond, zapLogger)

	reg := registry.New()
	if err := adapter.Setup(reg, token, issuance, icons); err != nil {
		return nil, fmt.Errorf("register adapter: %w", err)
	}
	appLogger.Info("Adapter registered", "id", token.ID, "version", adapter.Version)

	return &App{
		Config:   cfg,
		Token:    token,
		Networks: netDefProvider,
		Supply:   supplyService,
		Metrics:  issuance,
		Calendar: calendar,
		Registry: reg,
		clients:  clientProvider,
	}, nil
}

// Close releases the RPC connections.
func (a *App) Close() {
	if closer, ok := a.clients.(interface{ Close() }); ok {
		closer.Close()
	}
}
