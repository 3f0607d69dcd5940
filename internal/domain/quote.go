package domain

import "math"

// Quote is a priced set of line items in a single currency.
type Quote struct {
	Currency string
	Rate     float64
	Lines    []LineItem
	Total    float64
}

// RoundCents rounds an amount to two decimal places.
func RoundCents(amount float64) float64 {
	return math.Round(amount*100) / 100
}
