package domain

import "slices"

// PortfolioRecord is the cached set of tickers a user currently holds.
// It is derivable from the position sub-ledgers: a ticker is a member iff
// the latest position entry for it has a strictly positive balance.
type PortfolioRecord struct {
	UserID string

	// AnchorDate is the record's original creation date, preserved across
	// overwrites so age-based ordering of records stays meaningful.
	AnchorDate string

	Tickers []string
}

func (r PortfolioRecord) Holds(ticker string) bool {
	return slices.Contains(r.Tickers, ticker)
}

// WithTicker returns a copy of the record with ticker added; adding an
// existing member is a no-op.
func (r PortfolioRecord) WithTicker(ticker string) PortfolioRecord {
	out := r.copy()
	if !out.Holds(ticker) {
		out.Tickers = append(out.Tickers, ticker)
	}
	return out
}

// WithoutTicker returns a copy of the record with ticker removed.
func (r PortfolioRecord) WithoutTicker(ticker string) PortfolioRecord {
	out := r.copy()
	out.Tickers = slices.DeleteFunc(out.Tickers, func(t string) bool {
		return t == ticker
	})
	return out
}

func (r PortfolioRecord) copy() PortfolioRecord {
	return PortfolioRecord{
		UserID:     r.UserID,
		AnchorDate: r.AnchorDate,
		Tickers:    slices.Clone(r.Tickers),
	}
}
