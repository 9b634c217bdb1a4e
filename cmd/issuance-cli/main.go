package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"issuance_tracker/internal/app/adapter"
	"issuance_tracker/internal/app/bootstrap"
	"issuance_tracker/internal/config"
	"issuance_tracker/internal/domain/entity"
	"issuance_tracker/internal/infrastructure/configloader"
	"issuance_tracker/internal/pkg/logger"

	"github.com/joho/godotenv"
	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func main() {
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:          "issuance-cli",
		Short:        "Token issuance metrics",
		SilenceUsage: true,
	}
	config.RegisterFlags(root.PersistentFlags())

	queryCmd := &cobra.Command{
		Use:   "query [name...]",
		Short: "Run adapter queries once (all of them when no name is given)",
		RunE:  runQuery,
	}
	root.AddCommand(queryCmd)

	supplyCmd := &cobra.Command{
		Use:   "supply",
		Short: "Compute the circulating supply at a date",
		RunE:  runSupply,
	}
	supplyCmd.Flags().String("date", "", "UTC date YYYY-MM-DD, defaults to today")
	root.AddCommand(supplyCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads options and configuration and wires the application.
func setup(cmd *cobra.Command) (*bootstrap.App, config.CLIOptions, *zap.Logger, error) {
	opts, err := config.LoadCLIOptions(cmd.Flags())
	if err != nil {
		return nil, opts, nil, err
	}

	cfg, err := configloader.Load(opts.ConfigPath)
	if err != nil {
		return nil, opts, nil, err
	}
	if opts.TokenFile != "" {
		cfg.Token.File = opts.TokenFile
	}
	if opts.LogLevel != "" {
		cfg.Logging.Level = opts.LogLevel
	}

	zapLogger, err := logger.NewZapLogger(cfg.Logging.Level)
	if err != nil {
		return nil, opts, nil, err
	}
	logger.InitSlog(zapLogger, cfg.Logging.Level)

	app, err := bootstrap.New(cfg, zapLogger, logger.NewSlogAdapter("app", "issuance-cli"))
	if err != nil {
		_ = zapLogger.Sync()
		return nil, opts, nil, err
	}
	return app, opts, zapLogger, nil
}

func runQuery(cmd *cobra.Command, args []string) error {
	app, opts, zapLogger, err := setup(cmd)
	if err != nil {
		return err
	}
	defer zapLogger.Sync() //nolint:errcheck
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	reg, _ := app.Registry.Get(app.Token.ID)
	names := args
	if len(names) == 0 {
		names = reg.QueryNames()
	}

	results := make(map[string]float64, len(names))
	for _, name := range names {
		value, err := app.Registry.Execute(ctx, app.Token.ID, name)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		results[name] = value
	}

	out := cmd.OutOrStdout()
	if opts.Output == "json" {
		return json.NewEncoder(out).Encode(map[string]any{
			"id":      app.Token.ID,
			"version": adapter.Version,
			"results": results,
		})
	}
	for _, name := range names {
		fmt.Fprintf(out, "%-22s %f\n", name, results[name])
	}
	return nil
}

func runSupply(cmd *cobra.Command, _ []string) error {
	app, opts, zapLogger, err := setup(cmd)
	if err != nil {
		return err
	}
	defer zapLogger.Sync() //nolint:errcheck
	defer app.Close()

	at := app.Calendar.Today()
	if opts.Date != "" {
		at, err = entity.ParsePointInTime(opts.Date)
		if err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	fig, err := app.Supply.ComputeSupply(ctx, app.Token, at)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.Output == "json" {
		return json.NewEncoder(out).Encode(fig)
	}
	fmt.Fprintf(out, "token:       %s\n", fig.TokenID)
	fmt.Fprintf(out, "date:        %s\n", fig.At)
	fmt.Fprintf(out, "total:       %s\n", fig.Total.String())
	fmt.Fprintf(out, "excluded:    %s\n", fig.Excluded.String())
	fmt.Fprintf(out, "circulating: %s\n", fig.Circulating.String())
	return nil
}
