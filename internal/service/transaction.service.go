package service

import (
	"context"
	"fmt"

	"papertrade/internal/domain"
	"papertrade/internal/events"
	"papertrade/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// TransactionService orchestrates deposits, withdrawals, buys and sells.
// Each operation is a short sequence of independent store writes, not an
// atomic unit: the store offers no multi-item transaction, so a failure
// mid-sequence leaves a partially-applied state that is surfaced as a
// PartialWriteError and repaired by correlation-ID reconciliation, never by
// automatic rollback.
//
// Two concurrent operations for the same user can race between resolving a
// balance and appending the next entry; the second writer then computes from
// a stale read. This lost-update window is a known, accepted property of the
// store contract (no conditional append). The (user, entry date) primary key
// plus the monotonic Stamper rule out same-instant key collisions.
type TransactionService interface {
	Deposit(ctx context.Context, userID string, amount decimal.Decimal, correlationID *string) (*domain.LedgerEntry, error)
	Withdraw(ctx context.Context, userID string, amount decimal.Decimal) (*domain.LedgerEntry, error)
	Buy(ctx context.Context, userID string, ticker string, cashAmount decimal.Decimal) (*TradeResult, error)
	Sell(ctx context.Context, userID string, ticker string, unitAmount decimal.Decimal) (*TradeResult, error)
}

// TradeResult reports the two ledger legs of a buy or sell and the
// portfolio record as of the operation.
type TradeResult struct {
	CorrelationID string
	PositionEntry domain.LedgerEntry
	CashEntry     domain.LedgerEntry
	Portfolio     domain.PortfolioRecord
}

type transactionServiceHandler struct {
	BalanceService   BalanceService
	PortfolioService PortfolioService
	LedgerRepository repository.LedgerRepository
	PriceRepository  repository.PriceRepository
	Stamper          *domain.Stamper
	Publisher        events.Publisher
}

func NewTransactionService(
	balanceService BalanceService,
	portfolioService PortfolioService,
	ledgerRepository repository.LedgerRepository,
	priceRepository repository.PriceRepository,
	stamper *domain.Stamper,
	publisher events.Publisher,
) TransactionService {
	return transactionServiceHandler{
		BalanceService:   balanceService,
		PortfolioService: portfolioService,
		LedgerRepository: ledgerRepository,
		PriceRepository:  priceRepository,
		Stamper:          stamper,
		Publisher:        publisher,
	}
}

const nullCorrelationID = "null"

func (h transactionServiceHandler) Deposit(ctx context.Context, userID string, amount decimal.Decimal, correlationID *string) (*domain.LedgerEntry, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: deposit amount must be positive, got %s", domain.ErrInvalidAmount, amount)
	}
	return h.cashTransaction(ctx, userID, amount, correlationID)
}

func (h transactionServiceHandler) Withdraw(ctx context.Context, userID string, amount decimal.Decimal) (*domain.LedgerEntry, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: withdraw amount must be positive, got %s", domain.ErrInvalidAmount, amount)
	}
	return h.cashTransaction(ctx, userID, amount.Neg(), nil)
}

// cashTransaction appends one cash entry; the amount's sign encodes the
// direction.
func (h transactionServiceHandler) cashTransaction(ctx context.Context, userID string, signedAmount decimal.Decimal, correlationID *string) (*domain.LedgerEntry, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: missing user id", domain.ErrInvalidInput)
	}

	balance, _, err := h.BalanceService.ResolveCashBalance(ctx, userID)
	if err != nil {
		return nil, err
	}

	category := domain.CategoryDeposit
	kind := "deposit"
	if signedAmount.IsNegative() {
		category = domain.CategoryWithdraw
		kind = "withdraw"
		if signedAmount.Abs().GreaterThan(balance) {
			return nil, fmt.Errorf("%w: balance %s, requested %s", domain.ErrInsufficientFunds, balance, signedAmount.Abs())
		}
	}

	corr := nullCorrelationID
	if correlationID != nil {
		corr = *correlationID
	}

	entry := domain.LedgerEntry{
		UserID:        userID,
		EntryDate:     h.Stamper.Next(),
		Category:      category,
		ChangeAmount:  domain.RoundCash(signedAmount),
		Units:         decimal.Zero,
		Balance:       domain.RoundCash(balance.Add(signedAmount)),
		CorrelationID: corr,
	}
	if err := h.LedgerRepository.Append(ctx, entry); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrStoreUnavailable, err)
	}

	h.publish(ctx, events.TransactionCompleted{
		UserID:        userID,
		Kind:          kind,
		CorrelationID: corr,
		EntryDate:     entry.EntryDate,
		Amount:        entry.ChangeAmount.String(),
	})
	return &entry, nil
}

func (h transactionServiceHandler) Buy(ctx context.Context, userID string, ticker string, cashAmount decimal.Decimal) (*TradeResult, error) {
	if userID == "" || !domain.ValidTicker(ticker) {
		return nil, fmt.Errorf("%w: user %q ticker %q", domain.ErrInvalidInput, userID, ticker)
	}
	if cashAmount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: buy amount must be positive, got %s", domain.ErrInvalidAmount, cashAmount)
	}

	price, err := h.PriceRepository.LatestPrice(ctx, ticker)
	if err != nil {
		return nil, err
	}

	// All reads happen before the first write so a decline never leaves
	// partial state behind.
	record, err := h.PortfolioService.Load(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrBalanceUnavailable, err)
	}
	positionBalance, _, err := h.BalanceService.ResolveBalance(ctx, userID, PrefixKey(domain.TickerPrefix(ticker)))
	if err != nil {
		return nil, err
	}
	cashBalance, cashEntry, err := h.BalanceService.ResolveCashBalance(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cashEntry == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrNoCashAccount, userID)
	}

	// The rounded delta feeds a second rounding of the stored balance, so
	// the persisted units never carry accumulated float error.
	units := domain.RoundUnits(cashAmount.Div(price))
	newPositionBalance := domain.RoundUnits(positionBalance.Add(units))
	correlationID := uuid.NewString()

	positionEntry := domain.LedgerEntry{
		UserID:        userID,
		EntryDate:     h.Stamper.Next(),
		Category:      domain.BuyCategory(ticker),
		ChangeAmount:  price,
		Units:         units,
		Balance:       newPositionBalance,
		CorrelationID: correlationID,
	}
	// The position leg lands first: a crash between the legs leaves owned
	// shares with cash not yet debited, which a reconciler can repair from
	// the correlation ID. The reverse order would leave debited cash with
	// nothing showing why.
	if err := h.LedgerRepository.Append(ctx, positionEntry); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrStoreUnavailable, err)
	}

	// Overdraft is deliberately not checked here: a buy may drive the cash
	// balance negative, margin-style. Preserved behavior; do not add a
	// funds check without flagging the change to callers.
	cashLeg := domain.LedgerEntry{
		UserID:        userID,
		EntryDate:     h.Stamper.Next(),
		Category:      domain.CategoryWithdraw,
		ChangeAmount:  domain.RoundCash(cashAmount.Neg()),
		Units:         decimal.Zero,
		Balance:       domain.RoundCash(cashBalance.Sub(cashAmount)),
		CorrelationID: correlationID,
	}
	if err := h.LedgerRepository.Append(ctx, cashLeg); err != nil {
		return nil, &domain.PartialWriteError{
			CorrelationID: correlationID,
			Committed:     []string{"position"},
			Err:           err,
		}
	}

	if !record.Holds(ticker) {
		record, err = h.PortfolioService.Persist(ctx, record.WithTicker(ticker))
		if err != nil {
			return nil, &domain.PartialWriteError{
				CorrelationID: correlationID,
				Committed:     []string{"position", "cash"},
				Err:           err,
			}
		}
	}

	h.publish(ctx, events.TransactionCompleted{
		UserID:        userID,
		Kind:          "buy",
		Ticker:        ticker,
		CorrelationID: correlationID,
		EntryDate:     positionEntry.EntryDate,
		Amount:        cashAmount.String(),
	})
	return &TradeResult{
		CorrelationID: correlationID,
		PositionEntry: positionEntry,
		CashEntry:     cashLeg,
		Portfolio:     record,
	}, nil
}

func (h transactionServiceHandler) Sell(ctx context.Context, userID string, ticker string, unitAmount decimal.Decimal) (*TradeResult, error) {
	if userID == "" || !domain.ValidTicker(ticker) {
		return nil, fmt.Errorf("%w: user %q ticker %q", domain.ErrInvalidInput, userID, ticker)
	}
	if unitAmount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: sell amount must be positive, got %s", domain.ErrInvalidAmount, unitAmount)
	}

	price, err := h.PriceRepository.LatestPrice(ctx, ticker)
	if err != nil {
		return nil, err
	}

	record, err := h.PortfolioService.Load(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrBalanceUnavailable, err)
	}
	positionBalance, positionLatest, err := h.BalanceService.ResolveBalance(ctx, userID, PrefixKey(domain.TickerPrefix(ticker)))
	if err != nil {
		return nil, err
	}
	if positionLatest == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrNoPosition, ticker)
	}

	units := domain.RoundUnits(unitAmount)
	newPositionBalance := domain.RoundUnits(positionBalance.Sub(units))
	if newPositionBalance.IsNegative() {
		return nil, fmt.Errorf("%w: held %s, requested %s", domain.ErrInsufficientUnits, positionBalance, units)
	}

	cashBalance, cashEntry, err := h.BalanceService.ResolveCashBalance(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cashEntry == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrNoCashAccount, userID)
	}

	correlationID := uuid.NewString()
	committed := []string{}

	// A position selling down to exactly zero leaves the portfolio set
	// first: readers must never observe a zero-balance position still
	// listed as held.
	if newPositionBalance.IsZero() {
		record, err = h.PortfolioService.Persist(ctx, record.WithoutTicker(ticker))
		if err != nil {
			return nil, fmt.Errorf("%w: %s", domain.ErrStoreUnavailable, err)
		}
		committed = append(committed, "portfolio")
	}

	positionEntry := domain.LedgerEntry{
		UserID:        userID,
		EntryDate:     h.Stamper.Next(),
		Category:      domain.SellCategory(ticker),
		ChangeAmount:  price,
		Units:         units,
		Balance:       newPositionBalance,
		CorrelationID: correlationID,
	}
	if err := h.LedgerRepository.Append(ctx, positionEntry); err != nil {
		if len(committed) > 0 {
			return nil, &domain.PartialWriteError{
				CorrelationID: correlationID,
				Committed:     committed,
				Err:           err,
			}
		}
		return nil, fmt.Errorf("%w: %s", domain.ErrStoreUnavailable, err)
	}
	committed = append(committed, "position")

	proceeds := domain.RoundCash(units.Mul(price))
	cashLeg := domain.LedgerEntry{
		UserID:        userID,
		EntryDate:     h.Stamper.Next(),
		Category:      domain.CategoryDeposit,
		ChangeAmount:  proceeds,
		Units:         decimal.Zero,
		Balance:       domain.RoundCash(cashBalance.Add(proceeds)),
		CorrelationID: correlationID,
	}
	if err := h.LedgerRepository.Append(ctx, cashLeg); err != nil {
		return nil, &domain.PartialWriteError{
			CorrelationID: correlationID,
			Committed:     committed,
			Err:           err,
		}
	}

	h.publish(ctx, events.TransactionCompleted{
		UserID:        userID,
		Kind:          "sell",
		Ticker:        ticker,
		CorrelationID: correlationID,
		EntryDate:     positionEntry.EntryDate,
		Amount:        proceeds.String(),
	})
	return &TradeResult{
		CorrelationID: correlationID,
		PositionEntry: positionEntry,
		CashEntry:     cashLeg,
		Portfolio:     record,
	}, nil
}

// publish is best-effort: event delivery never fails a committed operation.
func (h transactionServiceHandler) publish(ctx context.Context, event events.TransactionCompleted) {
	if h.Publisher == nil {
		return
	}
	if err := h.Publisher.Publish(ctx, event); err != nil {
		zap.S().Warnw("failed to publish transaction event",
			"userID", event.UserID,
			"kind", event.Kind,
			"error", err,
		)
	}
}
