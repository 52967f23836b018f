package htmlRenderer

import (
	"errors"
	"fmt"
	"html/template"
	"strings"

	"github.com/ldutos/market_reporter/internal/model"
	"github.com/ldutos/market_reporter/internal/reportGenerator"
	"github.com/shopspring/decimal"
)

// AttachmentGenerator produces one attachment from a finalized report.
// Generators returning reportGenerator.ErrNoData are skipped.
type AttachmentGenerator interface {
	Generate(report model.Report) (model.Attachment, error)
}

type HtmlRenderer struct {
	tmpl       *template.Template
	generators []AttachmentGenerator
}

func New(generators ...AttachmentGenerator) *HtmlRenderer {
	return &HtmlRenderer{
		tmpl:       template.Must(template.New("report").Parse(reportTemplate)),
		generators: generators,
	}
}

type rowView struct {
	Name     string
	Source   string
	Value    string
	Change   string
	USDPerKg string
	Period   string
	Status   model.EntryStatus
	Marker   string
}

type reportView struct {
	Date         string
	Completeness string
	Rows         []rowView
}

// Render is a pure function of the report: same report in, same artifact
// out. Missing and stale entries keep their row with a visible marker so
// the recipient can see what a run failed to deliver.
func (r *HtmlRenderer) Render(report model.Report) (model.Artifact, error) {
	view := reportView{
		Date:         report.GeneratedAt.Format("2006-01-02"),
		Completeness: fmt.Sprintf("%d of %d entries", report.OKCount(), len(report.Entries)),
	}

	for _, entry := range report.Entries {
		view.Rows = append(view.Rows, rowFromEntry(entry))
	}

	var body strings.Builder
	if err := r.tmpl.Execute(&body, view); err != nil {
		return model.Artifact{}, fmt.Errorf("execute report template: %w", err)
	}

	artifact := model.Artifact{
		Subject:     "Market report " + view.Date,
		Body:        body.String(),
		ContentType: "text/html",
	}

	for _, gen := range r.generators {
		attachment, err := gen.Generate(report)
		if err != nil {
			if errors.Is(err, reportGenerator.ErrNoData) {
				continue
			}
			return model.Artifact{}, fmt.Errorf("generate attachment: %w", err)
		}
		artifact.Attachments = append(artifact.Attachments, attachment)
	}

	return artifact, nil
}

func rowFromEntry(entry model.ReportEntry) rowView {
	row := rowView{Status: entry.Status}

	switch entry.Kind {
	case model.KindQuote:
		row.Name = entry.Symbol.Name
		if entry.Quote != nil {
			row.Source = entry.Quote.Source
			row.Value = entry.Quote.Price.StringFixed(2)
			if entry.Symbol.Unit != "" {
				row.Value += " " + entry.Symbol.Unit
			}
			row.Change = formatPct(entry.Quote.ChangePct)
			if !entry.Quote.USDPerKg.IsZero() {
				row.USDPerKg = entry.Quote.USDPerKg.StringFixed(4)
			}
		}
	case model.KindFigure:
		row.Name = entry.IndicatorKey.Indicator + " (" + entry.IndicatorKey.Region + ")"
		if entry.Figure != nil {
			row.Source = entry.Figure.Source
			row.Value = entry.Figure.Value.StringFixed(2)
			if entry.Figure.Unit != "" {
				row.Value += " " + entry.Figure.Unit
			}
			row.Period = entry.Figure.Period
		}
	}

	switch entry.Status {
	case model.StatusMissing:
		row.Value = "—"
		row.Change = ""
		row.USDPerKg = ""
		row.Marker = "missing"
	case model.StatusStale:
		row.Marker = "stale"
	}

	return row
}

func formatPct(pct decimal.Decimal) string {
	if pct.IsZero() {
		return "0.00%"
	}
	s := pct.StringFixed(2) + "%"
	if !strings.HasPrefix(s, "-") {
		s = "+" + s
	}
	return s
}

const reportTemplate = `<html>
<body>
<h2>Market report — {{.Date}}</h2>
<p>Populated: {{.Completeness}}</p>
<table border="1" cellpadding="4" cellspacing="0">
<tr><th>Instrument</th><th>Value</th><th>Change</th><th>USD/kg</th><th>Period</th><th>Source</th><th></th></tr>
{{range .Rows}}<tr{{if eq .Status "missing"}} style="color:#999"{{end}}>
<td>{{.Name}}</td><td>{{.Value}}</td><td>{{.Change}}</td><td>{{.USDPerKg}}</td><td>{{.Period}}</td><td>{{.Source}}</td><td>{{if .Marker}}[{{.Marker}}]{{end}}</td>
</tr>
{{end}}</table>
</body>
</html>
`
