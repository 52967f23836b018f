package model

import "time"

type EntryStatus string

const (
	StatusOK      EntryStatus = "ok"
	StatusMissing EntryStatus = "missing"
	StatusStale   EntryStatus = "stale"
)

type EntryKind string

const (
	KindQuote  EntryKind = "quote"
	KindFigure EntryKind = "figure"
)

// ReportEntry is a tagged union over QuoteRecord and EconomicFigure.
// Exactly one of Quote/Figure is set, matching Kind. A missing entry
// carries neither value, only the identity of what was expected.
type ReportEntry struct {
	Kind   EntryKind
	Status EntryStatus

	Symbol       Symbol       // set for KindQuote
	IndicatorKey IndicatorKey // set for KindFigure

	Quote  *QuoteRecord
	Figure *EconomicFigure
}

// Report is built atomically by the aggregator and read-only afterwards.
// Entries follow the configured display order, not fetch order.
type Report struct {
	GeneratedAt  time.Time
	Entries      []ReportEntry
	Completeness float64
}

func (r Report) OKCount() int {
	n := 0
	for _, e := range r.Entries {
		if e.Status == StatusOK {
			n++
		}
	}
	return n
}
