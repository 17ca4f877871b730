package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"papertrade/internal/domain"
	"papertrade/internal/events"
	"papertrade/internal/repository/memory"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type capturingPublisher struct {
	events []events.TransactionCompleted
}

func (p *capturingPublisher) Publish(ctx context.Context, event events.TransactionCompleted) error {
	p.events = append(p.events, event)
	return nil
}

type txTestEnv struct {
	ledger    *memory.LedgerStore
	portfolio *memory.PortfolioStore
	prices    *memory.PriceStore
	publisher *capturingPublisher
	handler   transactionServiceHandler
}

func newTxTestEnv() *txTestEnv {
	ledger := memory.NewLedgerStore()
	portfolio := memory.NewPortfolioStore()
	prices := memory.NewPriceStore()
	publisher := &capturingPublisher{}
	stamper := domain.NewStamper()

	return &txTestEnv{
		ledger:    ledger,
		portfolio: portfolio,
		prices:    prices,
		publisher: publisher,
		handler: transactionServiceHandler{
			BalanceService:   NewBalanceService(ledger),
			PortfolioService: NewPortfolioService(portfolio, stamper),
			LedgerRepository: ledger,
			PriceRepository:  prices,
			Stamper:          stamper,
			Publisher:        publisher,
		},
	}
}

func (env *txTestEnv) mustDeposit(t *testing.T, userID string, amount string) {
	t.Helper()
	_, err := env.handler.Deposit(context.Background(), userID, decimal.RequireFromString(amount), nil)
	require.NoError(t, err)
}

func Test_transactionServiceHandler_Deposit(t *testing.T) {
	t.Run("running balance is prior balance plus amount", func(t *testing.T) {
		env := newTxTestEnv()
		ctx := context.Background()

		first, err := env.handler.Deposit(ctx, "u1", decimal.NewFromInt(1000), nil)
		require.NoError(t, err)
		require.Equal(t, domain.CategoryDeposit, first.Category)
		require.Equal(t, "1000", first.Balance.String())
		require.Equal(t, "null", first.CorrelationID)

		second, err := env.handler.Deposit(ctx, "u1", decimal.RequireFromString("250.50"), nil)
		require.NoError(t, err)
		require.Equal(t, "1250.5", second.Balance.String())
		require.True(t, second.EntryDate > first.EntryDate)
	})

	t.Run("caller supplied correlation id is stored", func(t *testing.T) {
		env := newTxTestEnv()
		corr := "seed-token-1"

		entry, err := env.handler.Deposit(context.Background(), "u1", decimal.NewFromInt(100), &corr)
		require.NoError(t, err)
		require.Equal(t, corr, entry.CorrelationID)
	})

	t.Run("non-positive amounts are rejected", func(t *testing.T) {
		env := newTxTestEnv()

		_, err := env.handler.Deposit(context.Background(), "u1", decimal.Zero, nil)
		require.True(t, errors.Is(err, domain.ErrInvalidAmount))

		_, err = env.handler.Deposit(context.Background(), "u1", decimal.NewFromInt(-5), nil)
		require.True(t, errors.Is(err, domain.ErrInvalidAmount))
		require.Empty(t, env.ledger.AllInWriteOrder())
	})

	t.Run("missing user id is rejected", func(t *testing.T) {
		env := newTxTestEnv()
		_, err := env.handler.Deposit(context.Background(), "", decimal.NewFromInt(100), nil)
		require.True(t, errors.Is(err, domain.ErrInvalidInput))
	})
}

func Test_transactionServiceHandler_Withdraw(t *testing.T) {
	t.Run("withdraw debits the running balance", func(t *testing.T) {
		env := newTxTestEnv()
		env.mustDeposit(t, "u1", "1000")

		entry, err := env.handler.Withdraw(context.Background(), "u1", decimal.NewFromInt(300))
		require.NoError(t, err)
		require.Equal(t, domain.CategoryWithdraw, entry.Category)
		require.Equal(t, "-300", entry.ChangeAmount.String())
		require.Equal(t, "700", entry.Balance.String())
	})

	t.Run("overdraft is declined with no entry written", func(t *testing.T) {
		env := newTxTestEnv()
		env.mustDeposit(t, "u1", "100")

		_, err := env.handler.Withdraw(context.Background(), "u1", decimal.NewFromInt(101))
		require.True(t, errors.Is(err, domain.ErrInsufficientFunds))
		require.Len(t, env.ledger.AllInWriteOrder(), 1)
	})

	t.Run("replay of all entries equals the stored balance", func(t *testing.T) {
		env := newTxTestEnv()
		ctx := context.Background()
		env.mustDeposit(t, "u1", "1000")
		env.mustDeposit(t, "u1", "500")
		_, err := env.handler.Withdraw(ctx, "u1", decimal.NewFromInt(250))
		require.NoError(t, err)

		running := decimal.Zero
		var last domain.LedgerEntry
		for _, e := range env.ledger.AllInWriteOrder() {
			running = running.Add(e.ChangeAmount)
			last = e
		}
		require.Equal(t, "1250", running.String())
		require.Equal(t, running.String(), last.Balance.String())
	})
}

func Test_transactionServiceHandler_Buy(t *testing.T) {
	t.Run("buy converts cash to units at the latest price", func(t *testing.T) {
		env := newTxTestEnv()
		env.prices.SetPrice("XYZ", "2024-05-01", decimal.NewFromInt(50))
		env.mustDeposit(t, "u1", "1000")

		result, err := env.handler.Buy(context.Background(), "u1", "XYZ", decimal.NewFromInt(500))
		require.NoError(t, err)

		require.Equal(t, "XYZ#BUY", result.PositionEntry.Category)
		require.Equal(t, "10", result.PositionEntry.Units.String())
		require.Equal(t, "10", result.PositionEntry.Balance.String())
		require.Equal(t, "50", result.PositionEntry.ChangeAmount.String())

		require.Equal(t, domain.CategoryWithdraw, result.CashEntry.Category)
		require.Equal(t, "-500", result.CashEntry.ChangeAmount.String())
		require.Equal(t, "500", result.CashEntry.Balance.String())

		require.Equal(t, result.PositionEntry.CorrelationID, result.CashEntry.CorrelationID)
		require.NotEqual(t, "null", result.CashEntry.CorrelationID)
		require.Equal(t, []string{"XYZ"}, result.Portfolio.Tickers)
	})

	t.Run("fractional units round half away from zero at 3dp", func(t *testing.T) {
		env := newTxTestEnv()
		env.prices.SetPrice("XYZ", "2024-05-01", decimal.NewFromInt(3))
		env.mustDeposit(t, "u1", "1000")

		result, err := env.handler.Buy(context.Background(), "u1", "XYZ", decimal.NewFromInt(500))
		require.NoError(t, err)
		// 500 / 3 = 166.666...
		require.Equal(t, "166.667", result.PositionEntry.Units.String())
	})

	t.Run("position leg is written before the cash leg", func(t *testing.T) {
		env := newTxTestEnv()
		env.prices.SetPrice("XYZ", "2024-05-01", decimal.NewFromInt(50))
		env.mustDeposit(t, "u1", "1000")

		_, err := env.handler.Buy(context.Background(), "u1", "XYZ", decimal.NewFromInt(500))
		require.NoError(t, err)

		writes := env.ledger.AllInWriteOrder()
		require.Len(t, writes, 3)
		require.Equal(t, "XYZ#BUY", writes[1].Category)
		require.Equal(t, domain.CategoryWithdraw, writes[2].Category)
		require.True(t, writes[1].EntryDate < writes[2].EntryDate)
	})

	t.Run("a buy may overdraw the cash balance", func(t *testing.T) {
		env := newTxTestEnv()
		env.prices.SetPrice("XYZ", "2024-05-01", decimal.NewFromInt(50))
		env.mustDeposit(t, "u1", "100")

		result, err := env.handler.Buy(context.Background(), "u1", "XYZ", decimal.NewFromInt(500))
		require.NoError(t, err)
		require.Equal(t, "-400", result.CashEntry.Balance.String())
	})

	t.Run("no cash account declines before any write", func(t *testing.T) {
		env := newTxTestEnv()
		env.prices.SetPrice("XYZ", "2024-05-01", decimal.NewFromInt(50))

		_, err := env.handler.Buy(context.Background(), "u1", "XYZ", decimal.NewFromInt(500))
		require.True(t, errors.Is(err, domain.ErrNoCashAccount))
		require.Empty(t, env.ledger.AllInWriteOrder())
		require.Equal(t, 0, env.portfolio.WriteCount())
	})

	t.Run("unknown ticker declines before any write", func(t *testing.T) {
		env := newTxTestEnv()
		env.mustDeposit(t, "u1", "1000")

		_, err := env.handler.Buy(context.Background(), "u1", "NOPE", decimal.NewFromInt(500))
		require.True(t, errors.Is(err, domain.ErrUnknownTicker))
		require.Len(t, env.ledger.AllInWriteOrder(), 1)
	})

	t.Run("rebuying a held ticker does not rewrite the portfolio", func(t *testing.T) {
		env := newTxTestEnv()
		env.prices.SetPrice("XYZ", "2024-05-01", decimal.NewFromInt(50))
		env.mustDeposit(t, "u1", "1000")
		ctx := context.Background()

		_, err := env.handler.Buy(ctx, "u1", "XYZ", decimal.NewFromInt(200))
		require.NoError(t, err)
		require.Equal(t, 1, env.portfolio.WriteCount())

		result, err := env.handler.Buy(ctx, "u1", "XYZ", decimal.NewFromInt(200))
		require.NoError(t, err)
		require.Equal(t, 1, env.portfolio.WriteCount())
		require.Equal(t, "8", result.PositionEntry.Balance.String())
	})

	t.Run("cash leg failure surfaces a partial write with the position committed", func(t *testing.T) {
		env := newTxTestEnv()
		env.prices.SetPrice("XYZ", "2024-05-01", decimal.NewFromInt(50))
		env.mustDeposit(t, "u1", "1000")

		env.ledger.AppendHook = func(entry domain.LedgerEntry) error {
			if entry.Category == domain.CategoryWithdraw {
				return fmt.Errorf("store write failed")
			}
			return nil
		}

		_, err := env.handler.Buy(context.Background(), "u1", "XYZ", decimal.NewFromInt(500))
		var partial *domain.PartialWriteError
		require.True(t, errors.As(err, &partial))
		require.Equal(t, []string{"position"}, partial.Committed)
		require.NotEmpty(t, partial.CorrelationID)

		// the orphaned position leg stays in the ledger for reconciliation
		writes := env.ledger.AllInWriteOrder()
		require.Len(t, writes, 2)
		require.Equal(t, "XYZ#BUY", writes[1].Category)
		require.Equal(t, partial.CorrelationID, writes[1].CorrelationID)
	})

	t.Run("completed buy publishes an event", func(t *testing.T) {
		env := newTxTestEnv()
		env.prices.SetPrice("XYZ", "2024-05-01", decimal.NewFromInt(50))
		env.mustDeposit(t, "u1", "1000")

		_, err := env.handler.Buy(context.Background(), "u1", "XYZ", decimal.NewFromInt(500))
		require.NoError(t, err)

		require.Len(t, env.publisher.events, 2) // deposit + buy
		last := env.publisher.events[1]
		require.Equal(t, "buy", last.Kind)
		require.Equal(t, "XYZ", last.Ticker)
		require.NotEmpty(t, last.CorrelationID)
	})
}

func Test_transactionServiceHandler_Sell(t *testing.T) {
	t.Run("sell credits proceeds at the latest price", func(t *testing.T) {
		env := newTxTestEnv()
		env.prices.SetPrice("XYZ", "2024-05-01", decimal.NewFromInt(50))
		env.mustDeposit(t, "u1", "1000")
		ctx := context.Background()

		_, err := env.handler.Buy(ctx, "u1", "XYZ", decimal.NewFromInt(500))
		require.NoError(t, err)

		// price moves before the sell
		env.prices.SetPrice("XYZ", "2024-05-02", decimal.NewFromInt(60))

		result, err := env.handler.Sell(ctx, "u1", "XYZ", decimal.NewFromInt(4))
		require.NoError(t, err)
		require.Equal(t, "XYZ#SELL", result.PositionEntry.Category)
		require.Equal(t, "6", result.PositionEntry.Balance.String())
		require.Equal(t, domain.CategoryDeposit, result.CashEntry.Category)
		require.Equal(t, "240", result.CashEntry.ChangeAmount.String())
		require.Equal(t, "740", result.CashEntry.Balance.String())
		require.Equal(t, []string{"XYZ"}, result.Portfolio.Tickers)
	})

	t.Run("selling to zero removes the ticker before the sell entry lands", func(t *testing.T) {
		env := newTxTestEnv()
		env.prices.SetPrice("XYZ", "2024-05-01", decimal.NewFromInt(50))
		env.mustDeposit(t, "u1", "1000")
		ctx := context.Background()

		_, err := env.handler.Buy(ctx, "u1", "XYZ", decimal.NewFromInt(500))
		require.NoError(t, err)

		// arrange the sell entry append to observe the portfolio state at
		// that moment
		var portfolioAtSellWrite []string
		env.ledger.AppendHook = func(entry domain.LedgerEntry) error {
			if entry.Category == "XYZ#SELL" {
				record, err := env.portfolio.Get(ctx, "u1")
				require.NoError(t, err)
				portfolioAtSellWrite = record.Tickers
			}
			return nil
		}

		result, err := env.handler.Sell(ctx, "u1", "XYZ", decimal.NewFromInt(10))
		require.NoError(t, err)
		require.True(t, result.PositionEntry.Balance.IsZero())
		require.Empty(t, result.Portfolio.Tickers)
		require.Empty(t, portfolioAtSellWrite)
	})

	t.Run("overselling declines with no writes", func(t *testing.T) {
		env := newTxTestEnv()
		env.prices.SetPrice("XYZ", "2024-05-01", decimal.NewFromInt(50))
		env.mustDeposit(t, "u1", "1000")
		ctx := context.Background()

		_, err := env.handler.Buy(ctx, "u1", "XYZ", decimal.NewFromInt(500))
		require.NoError(t, err)
		writesBefore := len(env.ledger.AllInWriteOrder())
		portfolioWrites := env.portfolio.WriteCount()

		_, err = env.handler.Sell(ctx, "u1", "XYZ", decimal.RequireFromString("10.001"))
		require.True(t, errors.Is(err, domain.ErrInsufficientUnits))
		require.Len(t, env.ledger.AllInWriteOrder(), writesBefore)
		require.Equal(t, portfolioWrites, env.portfolio.WriteCount())
	})

	t.Run("selling a ticker never traded declines with no position", func(t *testing.T) {
		env := newTxTestEnv()
		env.prices.SetPrice("XYZ", "2024-05-01", decimal.NewFromInt(50))
		env.mustDeposit(t, "u1", "1000")

		_, err := env.handler.Sell(context.Background(), "u1", "XYZ", decimal.NewFromInt(1))
		require.True(t, errors.Is(err, domain.ErrNoPosition))
	})

	t.Run("cash leg failure reports the committed legs", func(t *testing.T) {
		env := newTxTestEnv()
		env.prices.SetPrice("XYZ", "2024-05-01", decimal.NewFromInt(50))
		env.mustDeposit(t, "u1", "1000")
		ctx := context.Background()

		_, err := env.handler.Buy(ctx, "u1", "XYZ", decimal.NewFromInt(500))
		require.NoError(t, err)

		env.ledger.AppendHook = func(entry domain.LedgerEntry) error {
			if entry.Category == domain.CategoryDeposit && entry.CorrelationID != "null" {
				return fmt.Errorf("store write failed")
			}
			return nil
		}

		_, err = env.handler.Sell(ctx, "u1", "XYZ", decimal.NewFromInt(10))
		var partial *domain.PartialWriteError
		require.True(t, errors.As(err, &partial))
		require.Equal(t, []string{"portfolio", "position"}, partial.Committed)
	})
}

// Walks a full account lifecycle and checks every intermediate balance.
func Test_transactionServiceHandler_lifecycle(t *testing.T) {
	env := newTxTestEnv()
	ctx := context.Background()
	env.prices.SetPrice("XYZ", "2024-05-01", decimal.NewFromInt(50))

	env.mustDeposit(t, "u1", "1000")

	buy, err := env.handler.Buy(ctx, "u1", "XYZ", decimal.NewFromInt(500))
	require.NoError(t, err)
	require.Equal(t, "10", buy.PositionEntry.Balance.String())
	require.Equal(t, "500", buy.CashEntry.Balance.String())
	require.Equal(t, []string{"XYZ"}, buy.Portfolio.Tickers)

	env.prices.SetPrice("XYZ", "2024-05-02", decimal.NewFromInt(60))

	sellPart, err := env.handler.Sell(ctx, "u1", "XYZ", decimal.NewFromInt(4))
	require.NoError(t, err)
	require.Equal(t, "6", sellPart.PositionEntry.Balance.String())
	require.Equal(t, "740", sellPart.CashEntry.Balance.String())
	require.Equal(t, []string{"XYZ"}, sellPart.Portfolio.Tickers)

	sellRest, err := env.handler.Sell(ctx, "u1", "XYZ", decimal.NewFromInt(6))
	require.NoError(t, err)
	require.True(t, sellRest.PositionEntry.Balance.IsZero())
	require.Equal(t, "1100", sellRest.CashEntry.Balance.String())
	require.Empty(t, sellRest.Portfolio.Tickers)

	// every correlation group pairs up after a clean run
	reconciler := reconciliationServiceHandler{LedgerRepository: env.ledger}
	unpaired, err := reconciler.FindUnpaired(ctx, "u1")
	require.NoError(t, err)
	require.Empty(t, unpaired)
}
