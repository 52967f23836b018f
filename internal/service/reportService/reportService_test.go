package reportService_test

import (
	"context"
	"testing"
	"time"

	"github.com/ldutos/market_reporter/data/cache"
	"github.com/ldutos/market_reporter/internal/model"
	"github.com/ldutos/market_reporter/internal/service/reportService"
	"github.com/shopspring/decimal"
)

var testSymbols = []model.Symbol{
	{Ticker: "KC=F", Name: "Arabica Coffee", Category: model.CategoryCommodity, Unit: "¢/lb"},
	{Ticker: "CC=F", Name: "Cocoa", Category: model.CategoryCommodity, Unit: "USD/tonne"},
	{Ticker: "^GSPC", Name: "S&P 500", Category: model.CategoryIndex},
}

var testIndicators = []model.IndicatorKey{
	{Indicator: "Robusta Coffee", Region: "World"},
	{Indicator: "Bananas", Region: "World"},
}

func quoteFor(symbol model.Symbol, price string) model.QuoteRecord {
	return model.QuoteRecord{
		Symbol:    symbol,
		Price:     decimal.RequireFromString(price),
		Timestamp: time.Date(2026, 8, 30, 6, 0, 0, 0, time.UTC),
		Source:    model.SourceAPI,
	}
}

func figureFor(key model.IndicatorKey, value string) model.EconomicFigure {
	return model.EconomicFigure{
		Indicator: key.Indicator,
		Region:    key.Region,
		Value:     decimal.RequireFromString(value),
		Unit:      "USD/tonne",
		Source:    model.SourceScrape,
	}
}

func allQuotes() map[string]model.QuoteRecord {
	quotes := make(map[string]model.QuoteRecord)
	for _, s := range testSymbols {
		quotes[s.Ticker] = quoteFor(s, "100")
	}
	return quotes
}

func allFigures() map[model.IndicatorKey]model.EconomicFigure {
	figures := make(map[model.IndicatorKey]model.EconomicFigure)
	for _, k := range testIndicators {
		figures[k] = figureFor(k, "4506")
	}
	return figures
}

func newService() *reportService.ReportService {
	return reportService.New(cache.NewMemoryCache(time.Hour), testSymbols, testIndicators)
}

func TestMerge_DisplayOrderIndependentOfFetchOrder(t *testing.T) {
	srv := newService()

	report := srv.Merge(context.Background(), allQuotes(), allFigures())

	want := []string{"KC=F", "CC=F", "^GSPC", "Robusta Coffee", "Bananas"}
	if len(report.Entries) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(report.Entries))
	}
	for i, entry := range report.Entries {
		var got string
		if entry.Kind == model.KindQuote {
			got = entry.Symbol.Ticker
		} else {
			got = entry.IndicatorKey.Indicator
		}
		if got != want[i] {
			t.Errorf("entry %d: expected %s, got %s", i, want[i], got)
		}
	}
}

func TestMerge_CompletenessLaw(t *testing.T) {
	tests := []struct {
		name    string
		quotes  map[string]model.QuoteRecord
		figures map[model.IndicatorKey]model.EconomicFigure
		want    float64
	}{
		{name: "all ok", quotes: allQuotes(), figures: allFigures(), want: 1.0},
		{name: "all failed", quotes: map[string]model.QuoteRecord{}, figures: map[model.IndicatorKey]model.EconomicFigure{}, want: 0.0},
		{
			name:    "three of five",
			quotes:  map[string]model.QuoteRecord{"KC=F": quoteFor(testSymbols[0], "403.14"), "CC=F": quoteFor(testSymbols[1], "2700")},
			figures: map[model.IndicatorKey]model.EconomicFigure{testIndicators[0]: figureFor(testIndicators[0], "4506")},
			want:    3.0 / 5.0,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			report := newService().Merge(context.Background(), tc.quotes, tc.figures)
			if report.Completeness != tc.want {
				t.Errorf("completeness = %v, want %v", report.Completeness, tc.want)
			}
		})
	}
}

func TestMerge_MissingWithoutCache(t *testing.T) {
	srv := newService()

	quotes := allQuotes()
	delete(quotes, "CC=F")

	report := srv.Merge(context.Background(), quotes, allFigures())

	entry := report.Entries[1]
	if entry.Symbol.Ticker != "CC=F" {
		t.Fatalf("expected CC=F at index 1, got %s", entry.Symbol.Ticker)
	}
	if entry.Status != model.StatusMissing {
		t.Errorf("expected missing status, got %s", entry.Status)
	}
	if entry.Quote != nil {
		t.Error("missing entry must not carry a value")
	}
}

func TestMerge_StaleFromPreviousRun(t *testing.T) {
	srv := newService()
	ctx := context.Background()

	// First run populates the cache.
	srv.Merge(ctx, allQuotes(), allFigures())

	// Second run loses CC=F and Bananas.
	quotes := allQuotes()
	delete(quotes, "CC=F")
	figures := allFigures()
	delete(figures, testIndicators[1])

	report := srv.Merge(ctx, quotes, figures)

	cocoa := report.Entries[1]
	if cocoa.Status != model.StatusStale {
		t.Fatalf("expected stale cocoa entry, got %s", cocoa.Status)
	}
	if cocoa.Quote == nil || cocoa.Quote.Price.String() != "100" {
		t.Error("stale entry must carry last known value")
	}

	bananas := report.Entries[4]
	if bananas.Status != model.StatusStale {
		t.Fatalf("expected stale bananas entry, got %s", bananas.Status)
	}

	// Stale entries do not count towards completeness.
	if want := 3.0 / 5.0; report.Completeness != want {
		t.Errorf("completeness = %v, want %v", report.Completeness, want)
	}
}

func TestMerge_CommodityCanonicalValue(t *testing.T) {
	srv := newService()

	quotes := map[string]model.QuoteRecord{"KC=F": quoteFor(testSymbols[0], "403.14")}

	report := srv.Merge(context.Background(), quotes, map[model.IndicatorKey]model.EconomicFigure{})

	arabica := report.Entries[0]
	if arabica.Quote == nil {
		t.Fatal("expected arabica quote")
	}
	// 403.14 ¢/lb -> USD/kg
	if got := arabica.Quote.USDPerKg.Round(2).String(); got != "8.89" {
		t.Errorf("USDPerKg = %s, want 8.89", got)
	}
}

func TestMerge_NeverRefusesLowCompleteness(t *testing.T) {
	report := newService().Merge(context.Background(), map[string]model.QuoteRecord{}, map[model.IndicatorKey]model.EconomicFigure{})

	if len(report.Entries) != 5 {
		t.Fatalf("expected full entry list even at completeness 0, got %d", len(report.Entries))
	}
	for _, entry := range report.Entries {
		if entry.Status != model.StatusMissing {
			t.Errorf("expected missing, got %s", entry.Status)
		}
	}
}
