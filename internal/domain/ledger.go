package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

const (
	CategoryDeposit      = "ACCOUNT#DEPOSIT"
	CategoryWithdraw     = "ACCOUNT#WITHDRAW"
	CategoryPortfolioKey = "PORTFOLIO#KEY"

	// PrefixAccount matches both deposit and withdraw entries. Entries
	// matching a prefix may span categories, so callers cannot assume the
	// store returns them in one globally sorted sequence.
	PrefixAccount = "ACCOUNT#"
)

// LedgerEntry is one immutable row of a user's ledger. Entries are written
// once and never updated or deleted; the newest entry per sub-ledger carries
// the authoritative running balance.
type LedgerEntry struct {
	UserID string

	// EntryDate is an ISO-8601 UTC timestamp with nanosecond precision.
	// Lexicographic order equals chronological order.
	EntryDate string

	// Category identifies the sub-ledger: ACCOUNT#DEPOSIT, ACCOUNT#WITHDRAW,
	// <TICKER>#BUY or <TICKER>#SELL.
	Category string

	// ChangeAmount is the signed cash delta for account entries, or the unit
	// price for stock entries.
	ChangeAmount decimal.Decimal

	// Units is the number of shares bought or sold; zero for cash entries.
	Units decimal.Decimal

	// Balance is the running balance after this entry is applied.
	Balance decimal.Decimal

	// CorrelationID links the position leg and the cash leg of one trade.
	// Plain deposits and withdrawals without a caller-supplied token store
	// "null", as a reconciler only pairs trade legs.
	CorrelationID string
}

// IsTrade reports whether the entry is a position-side buy or sell leg.
func (e LedgerEntry) IsTrade() bool {
	return !strings.HasPrefix(e.Category, PrefixAccount) &&
		(strings.HasSuffix(e.Category, "#BUY") || strings.HasSuffix(e.Category, "#SELL"))
}

// Ticker returns the ticker symbol of a stock entry, or "" for cash entries.
func (e LedgerEntry) Ticker() string {
	if strings.HasPrefix(e.Category, PrefixAccount) {
		return ""
	}
	if i := strings.Index(e.Category, "#"); i > 0 {
		return e.Category[:i]
	}
	return ""
}

func BuyCategory(ticker string) string {
	return ticker + "#BUY"
}

func SellCategory(ticker string) string {
	return ticker + "#SELL"
}

// TickerPrefix matches every position entry for one ticker.
func TickerPrefix(ticker string) string {
	return ticker + "#"
}

// ValidTicker rejects symbols that would corrupt the compound category key.
func ValidTicker(ticker string) bool {
	return ticker != "" && !strings.Contains(ticker, "#") && ticker == strings.ToUpper(ticker)
}

// RoundUnits rounds share quantities to 3 decimal places, half away
// from zero. Applied to both the traded delta and the stored balance so
// floating error is never silently carried forward.
func RoundUnits(d decimal.Decimal) decimal.Decimal {
	return d.Round(3)
}

// RoundCash rounds cash values to 2 decimal places, half away from zero.
func RoundCash(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
