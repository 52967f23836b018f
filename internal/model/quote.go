package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const SourceAPI = "api"

type QuoteRecord struct {
	Symbol    Symbol
	Price     decimal.Decimal
	Change    decimal.Decimal
	ChangePct decimal.Decimal
	Timestamp time.Time
	Source    string
	// USDPerKg is filled for commodity symbols whose unit has a known
	// conversion, zero otherwise.
	USDPerKg decimal.Decimal
}
