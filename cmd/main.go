package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ldutos/market_reporter/config"
	"github.com/ldutos/market_reporter/data"
	"github.com/ldutos/market_reporter/data/cache"
	"github.com/ldutos/market_reporter/internal/dispatcher/smtpDispatcher"
	"github.com/ldutos/market_reporter/internal/externalApi/econScraper"
	"github.com/ldutos/market_reporter/internal/externalApi/quoteApi"
	"github.com/ldutos/market_reporter/internal/model"
	"github.com/ldutos/market_reporter/internal/orchestrator"
	"github.com/ldutos/market_reporter/internal/renderer/htmlRenderer"
	"github.com/ldutos/market_reporter/internal/reportGenerator/chartGenerator"
	"github.com/ldutos/market_reporter/internal/reportGenerator/xlsxGenerator"
	"github.com/ldutos/market_reporter/internal/scheduler"
	"github.com/ldutos/market_reporter/internal/service/reportService"
)

func main() {
	once := flag.Bool("once", false, "run a single report and exit instead of scheduling")
	flag.Parse()

	cfg := config.MustLoad()

	setupLogger(cfg)

	slog.Debug("config", slog.Any("cfg", cfg))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	lastValueCache := newCache(cfg)

	reportSrv := reportService.New(lastValueCache, config.Symbols(), config.Indicators())

	renderer := htmlRenderer.New(xlsxGenerator.New(), chartGenerator.New())

	orch := orchestrator.New(
		cfg,
		quoteApi.New(cfg),
		econScraper.New(cfg),
		reportSrv,
		renderer,
		smtpDispatcher.New(cfg),
	)

	if *once {
		outcome := orch.Run(ctx)
		os.Exit(exitCode(outcome))
	}

	sched := scheduler.New()
	sched.NewCrontabJob("market report", func(ctx context.Context) error {
		outcome := orch.Run(ctx)
		logOutcome(outcome)
		if outcome.Status == model.OutcomeFailed {
			return outcome.Cause
		}
		return nil
	}, cfg.Jobs.ReportCrontab)
	sched.Start()
	defer sched.Stop()

	// Waiting interruption signal
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	<-interrupt
	cancel()
}

func exitCode(outcome model.Outcome) int {
	logOutcome(outcome)
	if outcome.Status == model.OutcomeFailed {
		return 1
	}
	return 0
}

func logOutcome(outcome model.Outcome) {
	switch outcome.Status {
	case model.OutcomeSuccess:
		slog.Info("run outcome", slog.String("outcome", outcome.String()))
	case model.OutcomePartialSuccess:
		slog.Warn("run outcome", slog.String("outcome", outcome.String()))
	case model.OutcomeFailed:
		slog.Error("run outcome", slog.String("outcome", outcome.String()))
	}
}

func newCache(cfg *config.Config) reportService.Cache {
	switch cfg.Cache.Backend {
	case "redis":
		return cache.NewRedisCache(data.NewRedisClient(cfg), cfg)
	case "memory":
		return cache.NewMemoryCache(cfg.Cache.Expiration)
	default:
		panic(fmt.Sprintf("unknown cache backend %q", cfg.Cache.Backend))
	}
}

func setupLogger(cfg *config.Config) {
	var logLevel slog.Level

	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warning":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(log)
}
