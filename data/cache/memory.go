package cache

import (
	"context"
	"sync"
	"time"

	"github.com/ldutos/market_reporter/internal/model"
)

type memoryEntry struct {
	value     any
	expiresAt time.Time
}

// MemoryCache is the process-local backend. Values vanish on restart, so
// the first run after a deploy can only produce ok or missing entries.
type MemoryCache struct {
	mu         sync.RWMutex
	entries    map[string]memoryEntry
	expiration time.Duration
}

func NewMemoryCache(expiration time.Duration) *MemoryCache {
	return &MemoryCache{
		entries:    make(map[string]memoryEntry),
		expiration: expiration,
	}
}

func (m *MemoryCache) SetQuote(_ context.Context, record model.QuoteRecord) error {
	m.set(quoteKey(record.Symbol.Ticker), record)
	return nil
}

func (m *MemoryCache) GetQuote(_ context.Context, ticker string) (model.QuoteRecord, error) {
	v, ok := m.get(quoteKey(ticker))
	if !ok {
		return model.QuoteRecord{}, ErrMiss
	}
	return v.(model.QuoteRecord), nil
}

func (m *MemoryCache) SetFigure(_ context.Context, figure model.EconomicFigure) error {
	m.set(figureKey(figure.Key()), figure)
	return nil
}

func (m *MemoryCache) GetFigure(_ context.Context, key model.IndicatorKey) (model.EconomicFigure, error) {
	v, ok := m.get(figureKey(key))
	if !ok {
		return model.EconomicFigure{}, ErrMiss
	}
	return v.(model.EconomicFigure), nil
}

func (m *MemoryCache) set(key string, value any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = memoryEntry{value: value, expiresAt: time.Now().Add(m.expiration)}
}

func (m *MemoryCache) get(key string) (any, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entry, ok := m.entries[key]
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.value, true
}
