package entity

import "github.com/shopspring/decimal"

// Monetary values carry exactly 2 fractional digits, exchange rates 6.
// Rounding is half-up (away from zero) and is applied once, as the final
// step of each derived computation.
const (
	MoneyScale = 2
	RateScale  = 6
)

// Round2 rounds a derived monetary value to the shared 2-decimal policy.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyScale)
}

// RoundRate rounds an exchange rate to 6 decimal places.
func RoundRate(d decimal.Decimal) decimal.Decimal {
	return d.Round(RateScale)
}
