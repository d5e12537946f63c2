// Command cryptofolio runs the crypto portfolio tracker: an append-only
// transaction log replayed into valued holdings with a risk profile,
// served over an HTTP dashboard.
//
// Usage:
//
//	cryptofolio setup               (interactive config wizard)
//	cryptofolio --config config.yaml
//	cryptofolio                     (uses CLI arguments)
//
// Optional environment variables (only for exchange price sources):
//
//	For Binance: BINANCE_API_KEY, BINANCE_API_SECRET
//	For Bybit: BYBIT_API_KEY, BYBIT_API_SECRET
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/akarpovich/cryptofolio/config"
	"github.com/akarpovich/cryptofolio/internal/auth"
	"github.com/akarpovich/cryptofolio/internal/clients"
	"github.com/akarpovich/cryptofolio/internal/portfolio"
	"github.com/akarpovich/cryptofolio/internal/services/pricer"
	"github.com/akarpovich/cryptofolio/internal/setup"
	"github.com/akarpovich/cryptofolio/internal/storage/transactions"
	"github.com/akarpovich/cryptofolio/internal/storage/valuations"
	"github.com/akarpovich/cryptofolio/internal/web"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "setup" {
		if err := setup.RunTUI(); err != nil {
			log.Fatal(err)
		}
		return
	}

	_ = godotenv.Load()

	cfg, err := config.Get()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	source, err := buildPriceSource(cfg, logger)
	if err != nil {
		logger.Fatal("build price source", zap.Error(err))
	}
	cached := pricer.NewCachedSource(source, cfg.PriceCacheTTL, logger)

	txLog, err := transactions.NewWALStore(filepath.Join(cfg.DataDir, "wal", "transactions"))
	if err != nil {
		logger.Fatal("open transaction log", zap.Error(err))
	}
	defer txLog.Close()

	valStore, err := valuations.NewWALStore(filepath.Join(cfg.DataDir, "wal", "valuations"))
	if err != nil {
		logger.Fatal("open valuation store", zap.Error(err))
	}
	defer valStore.Close()

	users := auth.NewRegistry(filepath.Join(cfg.DataDir, "users.json"))

	svc := portfolio.NewService(logger, txLog, cached, valStore, cfg.BenchmarkAsset)
	server := web.NewServer(cfg.ListenAddr, svc, valStore, users, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting dashboard",
		zap.String("addr", cfg.ListenAddr),
		zap.String("platform", cfg.Platform),
		zap.String("benchmark", cfg.BenchmarkAsset))

	if err := server.Start(ctx); err != nil {
		logger.Fatal("dashboard server", zap.Error(err))
	}
}

func buildPriceSource(cfg config.Config, logger *zap.Logger) (pricer.Source, error) {
	switch cfg.Platform {
	case config.PlatformBinance:
		client := clients.NewBinanceClient(os.Getenv("BINANCE_API_KEY"), os.Getenv("BINANCE_API_SECRET"))
		return pricer.NewBinanceSource(client, logger), nil
	case config.PlatformBybit:
		client := clients.NewBybitClient(os.Getenv("BYBIT_API_KEY"), os.Getenv("BYBIT_API_SECRET"))
		return pricer.NewBybitSource(client, logger), nil
	default:
		return pricer.NewCoingeckoSource(cfg.CoingeckoURL), nil
	}
}
