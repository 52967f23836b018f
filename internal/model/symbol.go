package model

type Category string

const (
	CategoryIndex     Category = "index"
	CategoryFX        Category = "fx"
	CategoryCommodity Category = "commodity"
)

// Symbol identifies a tradable instrument tracked by the report.
// Defined once in static configuration, never mutated.
type Symbol struct {
	Ticker   string
	Name     string
	Category Category
	Unit     string
}

// IndicatorKey identifies an economic statistic scoped to a geography.
type IndicatorKey struct {
	Indicator string
	Region    string
}
