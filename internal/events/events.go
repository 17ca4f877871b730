package events

import "context"

// TransactionCompleted is emitted after every fully-applied ledger
// operation. Downstream consumers use it for notifications and for feeding
// reconciliation tooling.
type TransactionCompleted struct {
	UserID        string `json:"userID"`
	Kind          string `json:"kind"` // deposit, withdraw, buy, sell
	Ticker        string `json:"ticker,omitempty"`
	CorrelationID string `json:"correlationID,omitempty"`
	EntryDate     string `json:"entryDate"`
	Amount        string `json:"amount"`
}

type Publisher interface {
	Publish(ctx context.Context, event TransactionCompleted) error
}
