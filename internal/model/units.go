package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

var (
	kgPerPound      = decimal.RequireFromString("0.45359237")
	kgPerBushelCorn = decimal.RequireFromString("25.4")
	kgPerBushelSoy  = decimal.RequireFromString("27.2155")
	thousand        = decimal.NewFromInt(1000)
	hundred         = decimal.NewFromInt(100)
)

// USDPerKg converts a commodity price in the given quote unit to USD per
// kilogram. Bushel weights differ per crop, so the symbol name is consulted
// for bushel-quoted prices. Returns false when the unit has no known
// conversion.
func USDPerKg(price decimal.Decimal, unit, symbolName string) (decimal.Decimal, bool) {
	u := strings.ToLower(unit)
	name := strings.ToLower(symbolName)

	switch {
	case strings.Contains(u, "¢/lb") || strings.Contains(u, "cent"):
		return price.Div(hundred).Div(kgPerPound), true
	case strings.Contains(u, "lb"):
		return price.Div(kgPerPound), true
	case strings.Contains(u, "bushel"):
		switch {
		case strings.Contains(name, "corn"):
			return price.Div(kgPerBushelCorn), true
		case strings.Contains(name, "soy"):
			return price.Div(kgPerBushelSoy), true
		}
		return decimal.Decimal{}, false
	case strings.Contains(u, "tonne") || strings.Contains(u, "ton"):
		return price.Div(thousand), true
	case strings.Contains(u, "kg"):
		return price, true
	}

	return decimal.Decimal{}, false
}
