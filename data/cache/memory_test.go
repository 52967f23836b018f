package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ldutos/market_reporter/internal/model"
	"github.com/shopspring/decimal"
)

func TestMemoryCache_QuoteRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(time.Hour)

	record := model.QuoteRecord{
		Symbol: model.Symbol{Ticker: "KC=F", Name: "Arabica Coffee", Category: model.CategoryCommodity, Unit: "¢/lb"},
		Price:  decimal.RequireFromString("403.14"),
		Source: model.SourceAPI,
	}

	if err := c.SetQuote(ctx, record); err != nil {
		t.Fatalf("SetQuote failed: %v", err)
	}

	got, err := c.GetQuote(ctx, "KC=F")
	if err != nil {
		t.Fatalf("GetQuote failed: %v", err)
	}
	if !got.Price.Equal(record.Price) {
		t.Errorf("price = %s, want %s", got.Price, record.Price)
	}
}

func TestMemoryCache_MissAndExpiry(t *testing.T) {
	ctx := context.Background()

	c := NewMemoryCache(time.Hour)
	if _, err := c.GetQuote(ctx, "CC=F"); !errors.Is(err, ErrMiss) {
		t.Fatalf("expected ErrMiss, got %v", err)
	}

	expired := NewMemoryCache(-time.Second)
	_ = expired.SetFigure(ctx, model.EconomicFigure{Indicator: "Bananas", Region: "World", Value: decimal.NewFromInt(600)})
	if _, err := expired.GetFigure(ctx, model.IndicatorKey{Indicator: "Bananas", Region: "World"}); !errors.Is(err, ErrMiss) {
		t.Fatalf("expected ErrMiss for expired entry, got %v", err)
	}
}

func TestMemoryCache_FigureKeying(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(time.Hour)

	world := model.EconomicFigure{Indicator: "Robusta Coffee", Region: "World", Value: decimal.NewFromInt(4506)}
	europe := model.EconomicFigure{Indicator: "Robusta Coffee", Region: "Europe", Value: decimal.NewFromInt(4600)}

	_ = c.SetFigure(ctx, world)
	_ = c.SetFigure(ctx, europe)

	got, err := c.GetFigure(ctx, model.IndicatorKey{Indicator: "Robusta Coffee", Region: "Europe"})
	if err != nil {
		t.Fatalf("GetFigure failed: %v", err)
	}
	if !got.Value.Equal(europe.Value) {
		t.Errorf("regions must not collide: got %s", got.Value)
	}
}
