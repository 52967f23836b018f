// Package cache holds last-known-good values between runs so the
// aggregator can downgrade a failed entry to stale instead of missing.
// The redis backend survives process restarts, the memory backend does not;
// which one runs is a deployment choice.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ldutos/market_reporter/config"
	"github.com/ldutos/market_reporter/internal/model"
	"github.com/ldutos/market_reporter/utils"
	"github.com/redis/go-redis/v9"
)

var ErrMiss = errors.New("error cache miss")

func quoteKey(ticker string) string {
	return "quote:" + ticker
}

func figureKey(key model.IndicatorKey) string {
	return fmt.Sprintf("figure:%s:%s", key.Indicator, key.Region)
}

type RedisCache struct {
	redis *redis.Client
	cfg   *config.Config
}

func NewRedisCache(redisClient *redis.Client, cfg *config.Config) *RedisCache {
	return &RedisCache{redis: redisClient, cfg: cfg}
}

func (r *RedisCache) SetQuote(ctx context.Context, record model.QuoteRecord) error {
	return r.set(ctx, quoteKey(record.Symbol.Ticker), record)
}

func (r *RedisCache) GetQuote(ctx context.Context, ticker string) (model.QuoteRecord, error) {
	record := model.QuoteRecord{}
	err := r.get(ctx, quoteKey(ticker), &record)
	return record, err
}

func (r *RedisCache) SetFigure(ctx context.Context, figure model.EconomicFigure) error {
	return r.set(ctx, figureKey(figure.Key()), figure)
}

func (r *RedisCache) GetFigure(ctx context.Context, key model.IndicatorKey) (model.EconomicFigure, error) {
	figure := model.EconomicFigure{}
	err := r.get(ctx, figureKey(key), &figure)
	return figure, err
}

func (r *RedisCache) set(ctx context.Context, key string, value any) error {
	rqID := utils.GetRequestIDFromCtx(ctx)

	raw, err := json.Marshal(value)
	if err != nil {
		slog.Error("can't marshall value for cache set", slog.String("rqID", rqID),
			slog.String("key", key), slog.String("err", err.Error()))
		return err
	}

	err = r.redis.Set(ctx, key, raw, r.cfg.Cache.Expiration).Err()
	if err != nil {
		slog.Error("failed on redis.Set", slog.String("rqID", rqID),
			slog.String("key", key), slog.String("err", err.Error()))
		return err
	}

	return nil
}

func (r *RedisCache) get(ctx context.Context, key string, dst any) error {
	rqID := utils.GetRequestIDFromCtx(ctx)

	raw, err := r.redis.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrMiss
		}
		slog.Error("failed on redis.Get", slog.String("rqID", rqID),
			slog.String("key", key), slog.String("err", err.Error()))
		return err
	}

	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		slog.Error("can't unmarshall cached value", slog.String("rqID", rqID),
			slog.String("key", key), slog.String("err", err.Error()))
		return err
	}

	return nil
}
