package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"BreadthTrader/internal/broker"
	"BreadthTrader/internal/cache"
	"BreadthTrader/internal/collector"
	"BreadthTrader/internal/config"
	"BreadthTrader/internal/notifier"
	"BreadthTrader/internal/recorder"
	"BreadthTrader/internal/runner"
	"BreadthTrader/internal/util"
)

func main() {
	noCache := flag.Bool("no-cache", false, "Ignore the price cache.")
	noSimul := flag.Bool("no-simul", false, "Trade live instead of in the simulation environment.")
	tradeAmount := flag.Int("trade-amount", 0, "The amount of odd-lot shares to trade.")
	cfgPath := flag.String("config", "configs/config.yaml", "Path to the YAML config file.")
	daemon := flag.Bool("daemon", false, "Keep running and execute on the configured cron schedule.")
	flag.Parse()

	// Secrets may come from a local .env file, as in development.
	_ = godotenv.Load()

	if v := os.Getenv("CONFIG_PATH"); v != "" {
		*cfgPath = v
	}
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		return
	}
	logger := util.NewLogger(cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		logger.Error().Err(err).Msg("config validation failed")
		return
	}

	creds, err := config.LoadCredentials()
	if err != nil {
		logger.Error().Err(err).Msg("missing credentials")
		return
	}

	opts := config.Options{
		UseCache:    !*noCache,
		Simulate:    !*noSimul,
		TradeAmount: *tradeAmount,
	}

	nt := notifier.NewLineNotifier(cfg.Notify.URL, creds.NotifyToken, cfg.Proxy, logger)

	fetcher := collector.NewStockAPIFetcher(cfg.DataSource.BaseURL, cfg.Proxy)
	col := collector.NewCollector(fetcher, cfg.DataSource.HistoryLimit, logger)
	logger.Info().Str("source", fetcher.Name()).Msg("data source ready")

	store := cache.NewStore(cfg.Cache.File)
	bk := broker.NewBridgeBroker(cfg.Broker.BaseURL, opts.Simulate, creds, cfg.Proxy)

	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			logger.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	run := runner.New(cfg, opts, col, store, bk, nt, rec, logger)
	if cfg.MarketStatus.Enabled {
		run.Status = collector.NewStatusChecker(cfg.MarketStatus.URL)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if !*daemon {
		runOnce(ctx, run, logger)
		return
	}

	c := cron.New(cron.WithSeconds())
	if _, err := c.AddFunc(cfg.Schedule.DailyCron, func() { runOnce(ctx, run, logger) }); err != nil {
		logger.Error().Err(err).Msg("register cron schedule failed")
		return
	}
	c.Start()
	defer c.Stop()
	logger.Info().Str("cron", cfg.Schedule.DailyCron).Msg("daemon mode, waiting for schedule")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	logger.Info().Msg("shutdown signal received, stopping")
	cancel()
}

// runOnce executes one full pipeline run behind a catch-all: whatever
// happens, the outcome reaches the notification channel and the process keeps
// its clean exit. Callers learn about failures from notifications, not exit
// codes.
func runOnce(ctx context.Context, run *runner.Runner, logger zerolog.Logger) {
	trySend(run, logger, "開始執行")
	start := time.Now()

	func() {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error().Interface("panic", rec).Msg("run panicked")
				trySend(run, logger, fmt.Sprintf("執行失敗: %v", rec))
			}
		}()
		run.Run(ctx)
	}()

	trySend(run, logger, fmt.Sprintf("執行結束, 花費 %.2f 秒", time.Since(start).Seconds()))
}

func trySend(run *runner.Runner, logger zerolog.Logger, text string) {
	if err := run.Notifier.Send(text); err != nil {
		logger.Error().Err(err).Msg("send notification failed")
	}
}
