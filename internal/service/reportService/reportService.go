package reportService

import (
	"context"
	"log/slog"
	"time"

	"github.com/ldutos/market_reporter/internal/model"
	"github.com/ldutos/market_reporter/utils"
)

type Cache interface {
	SetQuote(ctx context.Context, record model.QuoteRecord) error
	GetQuote(ctx context.Context, ticker string) (model.QuoteRecord, error)
	SetFigure(ctx context.Context, figure model.EconomicFigure) error
	GetFigure(ctx context.Context, key model.IndicatorKey) (model.EconomicFigure, error)
}

type ReportService struct {
	cache      Cache
	symbols    []model.Symbol
	indicators []model.IndicatorKey
}

func New(cache Cache, symbols []model.Symbol, indicators []model.IndicatorKey) *ReportService {
	return &ReportService{
		cache:      cache,
		symbols:    symbols,
		indicators: indicators,
	}
}

// Merge reconciles both source result maps into one finalized Report.
// Entries follow the configured display order regardless of which fetch
// finished first. An expected item absent from its map downgrades to stale
// when the cache still holds a previous value, to missing otherwise. The
// report is always returned in full, even at completeness 0.
func (s *ReportService) Merge(ctx context.Context, quotes map[string]model.QuoteRecord, figures map[model.IndicatorKey]model.EconomicFigure) model.Report {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "ReportService.Merge"

	slog.Debug("Merge start", slog.String("rqID", rqID), slog.String("op", op))

	entries := make([]model.ReportEntry, 0, len(s.symbols)+len(s.indicators))

	for _, symbol := range s.symbols {
		entries = append(entries, s.quoteEntry(ctx, symbol, quotes))
	}

	for _, key := range s.indicators {
		entries = append(entries, s.figureEntry(ctx, key, figures))
	}

	report := model.Report{
		GeneratedAt: time.Now().UTC(),
		Entries:     entries,
	}
	if len(entries) > 0 {
		report.Completeness = float64(report.OKCount()) / float64(len(entries))
	}

	slog.Debug("Merge finished", slog.String("rqID", rqID), slog.String("op", op),
		slog.Int("entries", len(entries)), slog.Float64("completeness", report.Completeness))

	return report
}

func (s *ReportService) quoteEntry(ctx context.Context, symbol model.Symbol, quotes map[string]model.QuoteRecord) model.ReportEntry {
	rqID := utils.GetRequestIDFromCtx(ctx)

	entry := model.ReportEntry{Kind: model.KindQuote, Symbol: symbol}

	record, ok := quotes[symbol.Ticker]
	if ok {
		record = withCanonicalValue(record)
		entry.Status = model.StatusOK
		entry.Quote = &record
		if err := s.cache.SetQuote(ctx, record); err != nil {
			slog.Warn("can't cache quote", slog.String("rqID", rqID), slog.String("ticker", symbol.Ticker), slog.String("err", err.Error()))
		}
		return entry
	}

	cached, err := s.cache.GetQuote(ctx, symbol.Ticker)
	if err == nil {
		entry.Status = model.StatusStale
		entry.Quote = &cached
		return entry
	}

	entry.Status = model.StatusMissing
	return entry
}

func (s *ReportService) figureEntry(ctx context.Context, key model.IndicatorKey, figures map[model.IndicatorKey]model.EconomicFigure) model.ReportEntry {
	rqID := utils.GetRequestIDFromCtx(ctx)

	entry := model.ReportEntry{Kind: model.KindFigure, IndicatorKey: key}

	figure, ok := figures[key]
	if ok {
		entry.Status = model.StatusOK
		entry.Figure = &figure
		if err := s.cache.SetFigure(ctx, figure); err != nil {
			slog.Warn("can't cache figure", slog.String("rqID", rqID), slog.String("indicator", key.Indicator), slog.String("err", err.Error()))
		}
		return entry
	}

	cached, err := s.cache.GetFigure(ctx, key)
	if err == nil {
		entry.Status = model.StatusStale
		entry.Figure = &cached
		return entry
	}

	entry.Status = model.StatusMissing
	return entry
}

func withCanonicalValue(record model.QuoteRecord) model.QuoteRecord {
	if record.Symbol.Category != model.CategoryCommodity {
		return record
	}
	if v, ok := model.USDPerKg(record.Price, record.Symbol.Unit, record.Symbol.Name); ok {
		record.USDPerKg = v
	}
	return record
}
