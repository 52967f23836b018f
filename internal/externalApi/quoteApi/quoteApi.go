package quoteApi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/ldutos/market_reporter/config"
	"github.com/ldutos/market_reporter/internal/externalApi"
	"github.com/ldutos/market_reporter/internal/model"
	"github.com/ldutos/market_reporter/internal/model/quoteModel"
	"github.com/ldutos/market_reporter/utils"
	"github.com/shopspring/decimal"
)

type QuoteApi struct {
	client  *resty.Client
	workers int
}

func New(cfg *config.Config) *QuoteApi {
	client := resty.New().
		SetDebug(cfg.API.Debug).
		SetTimeout(cfg.API.Timeout).
		SetBaseURL(cfg.API.Url)
	return &QuoteApi{client: client, workers: cfg.API.Workers}
}

// Fetch requests a quote for every symbol, at most workers requests in
// flight at once. Each symbol succeeds or fails independently; failures are
// reported in the second map and never abort the other symbols.
func (a *QuoteApi) Fetch(ctx context.Context, symbols []model.Symbol) (map[string]model.QuoteRecord, map[string]error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "QuoteApi.Fetch"

	slog.Debug("Fetch start", slog.String("rqID", rqID), slog.String("op", op), slog.Int("symbols", len(symbols)))

	quotes := make(map[string]model.QuoteRecord, len(symbols))
	errs := make(map[string]error)

	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, a.workers)

	for _, symbol := range symbols {
		wg.Add(1)
		sem <- struct{}{}
		go func(symbol model.Symbol) {
			defer wg.Done()
			defer func() { <-sem }()

			record, err := a.fetchOne(ctx, symbol)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs[symbol.Ticker] = err
				return
			}
			quotes[symbol.Ticker] = record
		}(symbol)
	}
	wg.Wait()

	slog.Debug("Fetch finished", slog.String("rqID", rqID), slog.String("op", op),
		slog.Int("ok", len(quotes)), slog.Int("failed", len(errs)))

	return quotes, errs
}

func (a *QuoteApi) fetchOne(ctx context.Context, symbol model.Symbol) (model.QuoteRecord, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "QuoteApi.fetchOne"

	resp, err := a.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetQueryParam("symbols", symbol.Ticker).
		Get("/v7/finance/quote")

	if err != nil {
		slog.Error("error while dialing quote api", slog.String("rqID", rqID), slog.String("op", op),
			slog.String("ticker", symbol.Ticker), slog.String("err", err.Error()))
		return model.QuoteRecord{}, fmt.Errorf("%w: %s", externalApi.ErrSourceUnavailable, err)
	}

	if resp.StatusCode() >= 500 {
		slog.Error("quote api returned server error", slog.String("rqID", rqID), slog.String("op", op),
			slog.String("ticker", symbol.Ticker), slog.Int("status", resp.StatusCode()))
		return model.QuoteRecord{}, fmt.Errorf("%w: status %d", externalApi.ErrSourceUnavailable, resp.StatusCode())
	}

	if resp.StatusCode() != 200 {
		return model.QuoteRecord{}, fmt.Errorf("%w: status %d for %s", externalApi.ErrNotFound, resp.StatusCode(), symbol.Ticker)
	}

	raw := quoteModel.RawQuote{}
	if err := json.Unmarshal(resp.Body(), &raw); err != nil {
		slog.Error("can't unmarshall response into quoteModel.RawQuote", slog.String("rqID", rqID),
			slog.String("op", op), slog.String("ticker", symbol.Ticker), slog.String("err", err.Error()))
		return model.QuoteRecord{}, fmt.Errorf("%w: %s", externalApi.ErrMalformedPayload, err)
	}

	return a.parseRawQuote(raw, symbol)
}

func (a *QuoteApi) parseRawQuote(raw quoteModel.RawQuote, symbol model.Symbol) (model.QuoteRecord, error) {
	if raw.QuoteResponse.Error != nil {
		return model.QuoteRecord{}, fmt.Errorf("%w: %s", externalApi.ErrMalformedPayload, raw.QuoteResponse.Error.Description)
	}

	if len(raw.QuoteResponse.Result) == 0 {
		return model.QuoteRecord{}, fmt.Errorf("%w: empty result for %s", externalApi.ErrNotFound, symbol.Ticker)
	}

	res := raw.QuoteResponse.Result[0]

	if res.Symbol != symbol.Ticker {
		return model.QuoteRecord{}, fmt.Errorf("%w: requested %s, got %s", externalApi.ErrMalformedPayload, symbol.Ticker, res.Symbol)
	}

	if res.MarketPrice == nil {
		return model.QuoteRecord{}, fmt.Errorf("%w: no price for %s", externalApi.ErrMalformedPayload, symbol.Ticker)
	}

	record := model.QuoteRecord{
		Symbol:    symbol,
		Price:     decimal.NewFromFloat(*res.MarketPrice),
		Timestamp: time.Unix(res.MarketTime, 0).UTC(),
		Source:    model.SourceAPI,
	}

	if res.MarketChange != nil {
		record.Change = decimal.NewFromFloat(*res.MarketChange)
	}

	if res.ChangePercent != nil {
		record.ChangePct = decimal.NewFromFloat(*res.ChangePercent)
	}

	return record, nil
}
