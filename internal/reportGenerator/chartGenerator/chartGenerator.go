package chartGenerator

import (
	"bytes"
	"fmt"

	"github.com/ldutos/market_reporter/internal/model"
	"github.com/ldutos/market_reporter/internal/reportGenerator"
	chart "github.com/wcharczuk/go-chart/v2"
)

type ChartGenerator struct{}

func New() *ChartGenerator {
	return &ChartGenerator{}
}

// Generate renders a PNG bar chart of daily percent change for quote
// entries that carry a value. Figure entries and missing quotes have no
// change to plot; a report with no plottable quote yields ErrNoData.
func (g *ChartGenerator) Generate(report model.Report) (model.Attachment, error) {
	var bars []chart.Value
	var plottable bool

	for _, entry := range report.Entries {
		if entry.Kind != model.KindQuote || entry.Quote == nil {
			continue
		}
		v := entry.Quote.ChangePct.InexactFloat64()
		if v != 0 {
			plottable = true
		}
		bars = append(bars, chart.Value{
			Label: entry.Symbol.Ticker,
			Value: v,
		})
	}

	// A flat all-zero series gives the chart library a degenerate range.
	if !plottable {
		return model.Attachment{}, reportGenerator.ErrNoData
	}

	barChart := chart.BarChart{
		Title:    "Daily change, %",
		Width:    640,
		Height:   360,
		BarWidth: 48,
		Bars:     bars,
	}

	buf := &bytes.Buffer{}
	if err := barChart.Render(chart.PNG, buf); err != nil {
		return model.Attachment{}, fmt.Errorf("render bar chart: %w", err)
	}

	return model.Attachment{
		Filename: fmt.Sprintf("market_report_%s.png", report.GeneratedAt.Format("2006-01-02")),
		MIMEType: "image/png",
		Data:     buf.Bytes(),
	}, nil
}
