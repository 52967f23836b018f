package econScraper

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"github.com/ldutos/market_reporter/config"
	"github.com/ldutos/market_reporter/internal/externalApi"
	"github.com/ldutos/market_reporter/internal/model"
	"github.com/ldutos/market_reporter/utils"
	"github.com/shopspring/decimal"
)

// valueSelectors are tried in order against an indicator's table row. The
// page's markup is not a stable contract, so every selector is optimistic
// and a miss moves on to the next one.
var valueSelectors = []string{
	"td.value",
	"td.datatable-item",
	"td.last",
	"td:nth-child(2)",
}

type EconScraper struct {
	client *resty.Client
	url    string
}

func New(cfg *config.Config) *EconScraper {
	client := resty.New().
		SetTimeout(cfg.Scraper.Timeout).
		SetHeader("User-Agent", cfg.Scraper.UserAgent)
	return &EconScraper{client: client, url: cfg.Scraper.Url}
}

// Fetch loads the economics page once and extracts a figure for every
// requested (indicator, region) pair. A structural mismatch for one pair
// fails only that pair; absent keys in the returned map signal failure.
// The only way every pair fails at once is the page itself being
// unreachable.
func (s *EconScraper) Fetch(ctx context.Context, items []model.IndicatorKey) (map[model.IndicatorKey]model.EconomicFigure, map[model.IndicatorKey]error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "EconScraper.Fetch"

	slog.Debug("Fetch start", slog.String("rqID", rqID), slog.String("op", op), slog.Int("items", len(items)))

	figures := make(map[model.IndicatorKey]model.EconomicFigure, len(items))
	errs := make(map[model.IndicatorKey]error)

	doc, err := s.fetchPage(ctx)
	if err != nil {
		slog.Error("can't fetch economics page", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		for _, key := range items {
			errs[key] = err
		}
		return figures, errs
	}

	for _, key := range items {
		figure, err := s.extractFigure(doc, key)
		if err != nil {
			slog.Warn("can't extract figure", slog.String("rqID", rqID), slog.String("op", op),
				slog.String("indicator", key.Indicator), slog.String("region", key.Region), slog.String("err", err.Error()))
			errs[key] = err
			continue
		}
		figures[key] = figure
	}

	slog.Debug("Fetch finished", slog.String("rqID", rqID), slog.String("op", op),
		slog.Int("ok", len(figures)), slog.Int("failed", len(errs)))

	return figures, errs
}

func (s *EconScraper) fetchPage(ctx context.Context) (*goquery.Document, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		Get(s.url)

	if err != nil {
		return nil, fmt.Errorf("%w: %s", externalApi.ErrSourceUnavailable, err)
	}

	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("%w: status %d", externalApi.ErrSourceUnavailable, resp.StatusCode())
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body()))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", externalApi.ErrMalformedPayload, err)
	}

	return doc, nil
}

func (s *EconScraper) extractFigure(doc *goquery.Document, key model.IndicatorKey) (model.EconomicFigure, error) {
	scope := s.regionScope(doc, key.Region)
	if scope == nil {
		return model.EconomicFigure{}, fmt.Errorf("%w: no section for region %q", externalApi.ErrNotFound, key.Region)
	}

	row := s.indicatorRow(scope, key.Indicator)
	if row == nil {
		return model.EconomicFigure{}, fmt.Errorf("%w: no row for indicator %q", externalApi.ErrNotFound, key.Indicator)
	}

	text := s.valueText(row)
	if text == "" {
		return model.EconomicFigure{}, fmt.Errorf("%w: empty value cell for %q", externalApi.ErrMalformedPayload, key.Indicator)
	}

	value, err := ParseLocalizedNumber(text)
	if err != nil {
		return model.EconomicFigure{}, fmt.Errorf("%w: value %q for %q: %s", externalApi.ErrMalformedPayload, text, key.Indicator, err)
	}

	return model.EconomicFigure{
		Indicator: key.Indicator,
		Region:    key.Region,
		Value:     value,
		Unit:      strings.TrimSpace(row.Find("td.unit").First().Text()),
		Period:    strings.TrimSpace(row.Find("td.period").First().Text()),
		Source:    model.SourceScrape,
	}, nil
}

// regionScope narrows the document to the part covering one region. Pages
// with a single unmarked table are treated as global scope.
func (s *EconScraper) regionScope(doc *goquery.Document, region string) *goquery.Selection {
	sel := doc.Find(fmt.Sprintf("section[data-region=%q]", region))
	if sel.Length() > 0 {
		return sel.First()
	}

	var byHeading *goquery.Selection
	doc.Find("section, div.region").EachWithBreak(func(_ int, sec *goquery.Selection) bool {
		heading := strings.TrimSpace(sec.Find("h1, h2, h3").First().Text())
		if strings.EqualFold(heading, region) {
			byHeading = sec
			return false
		}
		return true
	})
	if byHeading != nil {
		return byHeading
	}

	if doc.Find("table").Length() == 1 {
		return doc.Selection
	}

	return nil
}

func (s *EconScraper) indicatorRow(scope *goquery.Selection, indicator string) *goquery.Selection {
	var row *goquery.Selection
	scope.Find("table tr").EachWithBreak(func(_ int, tr *goquery.Selection) bool {
		name := strings.TrimSpace(tr.Find("td, th").First().Text())
		if strings.EqualFold(name, indicator) {
			row = tr
			return false
		}
		return true
	})
	return row
}

func (s *EconScraper) valueText(row *goquery.Selection) string {
	for _, sel := range valueSelectors {
		cell := row.Find(sel).First()
		if text := strings.TrimSpace(cell.Text()); text != "" {
			return text
		}
	}
	// Meta-style fallback: a data-value attribute anywhere on the row.
	if v, ok := row.Attr("data-value"); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

var numberRe = regexp.MustCompile(`-?[0-9]+(?:\.[0-9]+)?`)

// ParseLocalizedNumber normalizes human-formatted numeric text to a
// decimal. It tolerates thousand separators (comma, space, NBSP,
// apostrophe), a comma decimal mark, percent signs, currency prefixes and
// parenthesized negatives. Text without a digit is an error, never a panic.
func ParseLocalizedNumber(text string) (decimal.Decimal, error) {
	t := strings.TrimSpace(text)
	if t == "" {
		return decimal.Decimal{}, fmt.Errorf("empty text")
	}

	negative := false
	if strings.HasPrefix(t, "(") && strings.HasSuffix(t, ")") {
		negative = true
		t = t[1 : len(t)-1]
	}

	t = strings.NewReplacer(" ", "", " ", "", "'", "", "%", "").Replace(t)

	// A single comma with no dot is a decimal mark, anything else is a
	// thousands separator.
	if strings.Count(t, ",") == 1 && !strings.Contains(t, ".") {
		idx := strings.Index(t, ",")
		if len(t)-idx-1 != 3 {
			t = strings.Replace(t, ",", ".", 1)
		}
	}
	t = strings.ReplaceAll(t, ",", "")

	match := numberRe.FindString(t)
	if match == "" {
		return decimal.Decimal{}, fmt.Errorf("no numeric content in %q", text)
	}

	value, err := decimal.NewFromString(match)
	if err != nil {
		return decimal.Decimal{}, err
	}

	if negative {
		value = value.Neg()
	}

	return value, nil
}
