package model

import "github.com/shopspring/decimal"

const SourceScrape = "scrape"

type EconomicFigure struct {
	Indicator string
	Region    string
	Value     decimal.Decimal
	Unit      string
	Period    string
	Source    string
}

func (f EconomicFigure) Key() IndicatorKey {
	return IndicatorKey{Indicator: f.Indicator, Region: f.Region}
}
