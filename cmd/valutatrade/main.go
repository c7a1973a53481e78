package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"

	"github.com/google/subcommands"
	"github.com/valutatrade/valutatrade-hub/internal/adapters/ratesource"
	"github.com/valutatrade/valutatrade-hub/internal/adapters/storage/jsonfile"
	"github.com/valutatrade/valutatrade-hub/internal/cli"
	"github.com/valutatrade/valutatrade-hub/internal/core/ports"
	"github.com/valutatrade/valutatrade-hub/internal/core/services"
	"github.com/valutatrade/valutatrade-hub/internal/platform/config"
)

func main() {
	// Structured logs go to stderr; stdout belongs to command output.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	store, err := jsonfile.NewStore(cfg.DataDir)
	if err != nil {
		logger.Error("Failed to open data directory", slog.String("error", err.Error()))
		os.Exit(1)
	}
	userRepo := jsonfile.NewUserRepository(store)
	portfolioRepo := jsonfile.NewPortfolioRepository(store)
	rateRepo := jsonfile.NewRateRepository(store)

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	sources := make([]ports.RateSource, 0, 2)
	for _, src := range []ports.RateSource{
		ratesource.NewCoinGecko(cfg.CoinGeckoURL, cfg.BaseCurrency, cfg.CryptoIDMap, httpClient),
		ratesource.NewExchangeRateAPI(cfg.ExchangeRateAPIURL, cfg.BaseCurrency, cfg.FiatCurrencies, httpClient),
	} {
		throttled, err := ratesource.NewThrottled(src, cfg.SourceRateLimit)
		if err != nil {
			logger.Error("Failed to configure rate source",
				slog.String("source", src.Name()), slog.String("error", err.Error()))
			os.Exit(1)
		}
		sources = append(sources, throttled)
	}

	app := &cli.App{
		Auth:        services.NewAuthService(userRepo, portfolioRepo, cfg, logger),
		Trades:      services.NewTradeService(portfolioRepo, rateRepo, cfg.BaseCurrency, logger),
		Portfolios:  services.NewPortfolioService(portfolioRepo, rateRepo, cfg.BaseCurrency, logger),
		Rates:       services.NewRatesService(rateRepo, logger),
		Updater:     services.NewUpdaterService(sources, rateRepo, rateRepo, logger),
		SessionFile: filepath.Join(cfg.DataDir, ".session"),
		Out:         os.Stdout,
	}

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	for _, c := range app.Commands() {
		commander.Register(c, "")
	}

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
