package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/ldutos/market_reporter/config"
	"github.com/ldutos/market_reporter/internal/model"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

func newTestRedisCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cfg := &config.Config{}
	cfg.Cache.Expiration = time.Hour

	return NewRedisCache(client, cfg), mr
}

func TestRedisCache_QuoteRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestRedisCache(t)

	record := model.QuoteRecord{
		Symbol:    model.Symbol{Ticker: "KC=F", Name: "Arabica Coffee", Category: model.CategoryCommodity, Unit: "¢/lb"},
		Price:     decimal.RequireFromString("403.14"),
		ChangePct: decimal.RequireFromString("0.62"),
		Timestamp: time.Date(2026, 8, 30, 6, 0, 0, 0, time.UTC),
		Source:    model.SourceAPI,
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
	if got.Symbol.Name != record.Symbol.Name {
		t.Errorf("symbol name = %q, want %q", got.Symbol.Name, record.Symbol.Name)
	}
}

func TestRedisCache_MissReturnsErrMiss(t *testing.T) {
	c, _ := newTestRedisCache(t)

	if _, err := c.GetQuote(context.Background(), "CC=F"); !errors.Is(err, ErrMiss) {
		t.Fatalf("expected ErrMiss, got %v", err)
	}
	if _, err := c.GetFigure(context.Background(), model.IndicatorKey{Indicator: "Bananas", Region: "World"}); !errors.Is(err, ErrMiss) {
		t.Fatalf("expected ErrMiss, got %v", err)
	}
}

func TestRedisCache_ValuesExpire(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestRedisCache(t)

	figure := model.EconomicFigure{Indicator: "Robusta Coffee", Region: "World", Value: decimal.NewFromInt(4506), Source: model.SourceScrape}
	if err := c.SetFigure(ctx, figure); err != nil {
		t.Fatalf("SetFigure failed: %v", err)
	}

	mr.FastForward(2 * time.Hour)

	if _, err := c.GetFigure(ctx, figure.Key()); !errors.Is(err, ErrMiss) {
		t.Fatalf("expected ErrMiss after expiry, got %v", err)
	}
}
