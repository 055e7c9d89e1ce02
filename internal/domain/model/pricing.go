package model

import "github.com/shopspring/decimal"

// PriceQuote is the price computed by the external pricing service for
// a category and rental period. The engine consumes it as an input.
type PriceQuote struct {
	CategoryID int64
	Amount     decimal.Decimal
	Currency   string
}
