package domain

import "github.com/shopspring/decimal"

// PricePoint is one observed price for a ticker.
type PricePoint struct {
	Ticker string          `json:"ticker"`
	Date   string          `json:"date"`
	Price  decimal.Decimal `json:"price"`
}
