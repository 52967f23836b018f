package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ldutos/market_reporter/config"
	"github.com/ldutos/market_reporter/internal/externalApi"
	"github.com/ldutos/market_reporter/internal/model"
	"github.com/ldutos/market_reporter/utils"
)

var ErrBelowThreshold = errors.New("error report completeness below threshold")

type QuoteApi interface {
	Fetch(ctx context.Context, symbols []model.Symbol) (map[string]model.QuoteRecord, map[string]error)
}

type EconScraper interface {
	Fetch(ctx context.Context, items []model.IndicatorKey) (map[model.IndicatorKey]model.EconomicFigure, map[model.IndicatorKey]error)
}

type Aggregator interface {
	Merge(ctx context.Context, quotes map[string]model.QuoteRecord, figures map[model.IndicatorKey]model.EconomicFigure) model.Report
}

type Renderer interface {
	Render(report model.Report) (model.Artifact, error)
}

type Dispatcher interface {
	Send(ctx context.Context, artifact model.Artifact, recipients []string) model.DeliveryResult
}

type Orchestrator struct {
	cfg        *config.Config
	quoteApi   QuoteApi
	scraper    EconScraper
	aggregator Aggregator
	renderer   Renderer
	dispatcher Dispatcher
	symbols    []model.Symbol
	indicators []model.IndicatorKey
}

func New(cfg *config.Config, quoteApi QuoteApi, scraper EconScraper, aggregator Aggregator, renderer Renderer, dispatcher Dispatcher) *Orchestrator {
	return &Orchestrator{
		cfg:        cfg,
		quoteApi:   quoteApi,
		scraper:    scraper,
		aggregator: aggregator,
		renderer:   renderer,
		dispatcher: dispatcher,
		symbols:    config.Symbols(),
		indicators: config.Indicators(),
	}
}

// Run drives one report run through fetching, aggregating, rendering and
// dispatching. Stages are strictly sequential; cancellation is honored at
// stage boundaries, never mid-batch. Per-item fetch failures only lower
// completeness — the run fails outright only when both sources come back
// empty, the completeness gate rejects the report, or dispatch fails.
func (o *Orchestrator) Run(ctx context.Context) model.Outcome {
	ctx = utils.CreateCtxWithRqID(ctx)
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Orchestrator.Run"

	slog.Info("run start", slog.String("rqID", rqID), slog.String("op", op))

	if err := ctx.Err(); err != nil {
		return model.Failed(model.StageInit, err)
	}

	quotes, figures := o.fetch(ctx)

	if len(quotes) == 0 && len(figures) == 0 {
		slog.Error("both sources unavailable", slog.String("rqID", rqID), slog.String("op", op))
		return model.Failed(model.StageFetching, externalApi.ErrSourceUnavailable)
	}

	if err := ctx.Err(); err != nil {
		return model.Failed(model.StageFetching, err)
	}

	report := o.aggregator.Merge(ctx, quotes, figures)

	if report.Completeness < o.cfg.Run.MinCompleteness {
		slog.Error("report completeness below threshold", slog.String("rqID", rqID), slog.String("op", op),
			slog.Float64("completeness", report.Completeness), slog.Float64("threshold", o.cfg.Run.MinCompleteness))
		return model.Failed(model.StageAggregating, fmt.Errorf("%w: %.2f < %.2f", ErrBelowThreshold, report.Completeness, o.cfg.Run.MinCompleteness))
	}

	if err := ctx.Err(); err != nil {
		return model.Failed(model.StageAggregating, err)
	}

	artifact, err := o.renderer.Render(report)
	if err != nil {
		slog.Error("render failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.Failed(model.StageRendering, err)
	}

	o.writeLocalCopy(ctx, artifact, report)

	if err := ctx.Err(); err != nil {
		return model.Failed(model.StageRendering, err)
	}

	result := o.dispatcher.Send(ctx, artifact, o.cfg.SMTP.Recipients)
	if !result.Accepted() {
		return model.Failed(model.StageDispatching, fmt.Errorf("%s: %w", result.Reason, result.Err))
	}

	slog.Info("run finished", slog.String("rqID", rqID), slog.String("op", op),
		slog.Float64("completeness", report.Completeness))

	if report.Completeness < 1 {
		return model.PartialSuccess(report.Completeness)
	}
	return model.Success()
}

// fetch runs both sources concurrently, then gives failed items one
// bounded retry pass with a fixed backoff before they are left to the
// aggregator as missing.
func (o *Orchestrator) fetch(ctx context.Context) (map[string]model.QuoteRecord, map[model.IndicatorKey]model.EconomicFigure) {
	var (
		wg         sync.WaitGroup
		quotes     map[string]model.QuoteRecord
		quoteErrs  map[string]error
		figures    map[model.IndicatorKey]model.EconomicFigure
		figureErrs map[model.IndicatorKey]error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		quotes, quoteErrs = o.quoteApi.Fetch(ctx, o.symbols)
	}()
	go func() {
		defer wg.Done()
		figures, figureErrs = o.scraper.Fetch(ctx, o.indicators)
	}()
	wg.Wait()

	for attempt := 0; attempt < o.cfg.Run.RetryAttempts; attempt++ {
		if len(quoteErrs) == 0 && len(figureErrs) == 0 {
			break
		}

		time.Sleep(o.cfg.Run.RetryBackoff)

		if len(quoteErrs) > 0 {
			retry := make([]model.Symbol, 0, len(quoteErrs))
			for _, symbol := range o.symbols {
				if _, failed := quoteErrs[symbol.Ticker]; failed {
					retry = append(retry, symbol)
				}
			}
			retried, errs := o.quoteApi.Fetch(ctx, retry)
			for ticker, record := range retried {
				quotes[ticker] = record
			}
			quoteErrs = errs
		}

		if len(figureErrs) > 0 {
			retry := make([]model.IndicatorKey, 0, len(figureErrs))
			for _, key := range o.indicators {
				if _, failed := figureErrs[key]; failed {
					retry = append(retry, key)
				}
			}
			retried, errs := o.scraper.Fetch(ctx, retry)
			for key, figure := range retried {
				figures[key] = figure
			}
			figureErrs = errs
		}
	}

	return quotes, figures
}

// writeLocalCopy mirrors the artifact into OUTPUT_DIR when configured.
// Best effort only: a full disk never blocks delivery.
func (o *Orchestrator) writeLocalCopy(ctx context.Context, artifact model.Artifact, report model.Report) {
	if o.cfg.Run.OutputDir == "" {
		return
	}

	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Orchestrator.writeLocalCopy"

	if err := os.MkdirAll(o.cfg.Run.OutputDir, 0o755); err != nil {
		slog.Warn("can't create output dir", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return
	}

	date := report.GeneratedAt.Format("2006-01-02")
	files := map[string][]byte{
		fmt.Sprintf("market_report_%s.html", date): []byte(artifact.Body),
	}
	for _, attachment := range artifact.Attachments {
		files[attachment.Filename] = attachment.Data
	}

	for name, data := range files {
		path := filepath.Join(o.cfg.Run.OutputDir, name)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			slog.Warn("can't write local copy", slog.String("rqID", rqID), slog.String("op", op),
				slog.String("path", path), slog.String("err", err.Error()))
		}
	}
}
