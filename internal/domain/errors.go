package domain

import (
	"errors"
	"fmt"
)

// Typed failures returned by the transaction engine. Callers pick them apart
// with errors.Is / errors.As to decide between retrying, prompting the user
// and alerting an operator.
var (
	// ErrInvalidInput covers malformed identifiers and tickers.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidAmount covers zero, negative or non-finite amounts.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrUnknownTicker means the price collaborator has no price for the
	// requested symbol.
	ErrUnknownTicker = errors.New("no price found for ticker")

	// ErrNoPosition means the user has no ledger entries at all for the
	// ticker being sold.
	ErrNoPosition = errors.New("no units in portfolio for this ticker")

	// ErrNoCashAccount means no ACCOUNT# entry exists yet; the user needs an
	// initial deposit before trading.
	ErrNoCashAccount = errors.New("no cash account exists for this user")

	// ErrInsufficientFunds rejects a withdrawal exceeding the cash balance.
	// User-retriable with a smaller amount; nothing was written.
	ErrInsufficientFunds = errors.New("withdraw request exceeds available funds")

	// ErrInsufficientUnits rejects a sell exceeding the position balance.
	ErrInsufficientUnits = errors.New("amount requested exceeds available units")

	// ErrBalanceUnavailable means a store read failed. It is never folded
	// into a zero balance: a phantom zero would let withdrawals and sells
	// validate against state that was never observed.
	ErrBalanceUnavailable = errors.New("balance unavailable")

	// ErrStoreUnavailable means a write failed before anything was applied.
	// Safe to retry the whole operation.
	ErrStoreUnavailable = errors.New("entry store unavailable")
)

// PartialWriteError reports a multi-write operation that failed after some
// writes had already been applied. There is no compensating rollback; the
// committed legs stay in the store and are found later by reconciling
// correlation IDs.
type PartialWriteError struct {
	CorrelationID string
	// Committed names the legs that were durably written before the failure,
	// in write order.
	Committed []string
	Err       error
}

func (e *PartialWriteError) Error() string {
	return fmt.Sprintf("partial write (correlation %s, committed %v): %v",
		e.CorrelationID, e.Committed, e.Err)
}

func (e *PartialWriteError) Unwrap() error {
	return e.Err
}
