package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"papertrade/internal/db/models/postgres/public/model"
	"papertrade/internal/domain"
	"papertrade/internal/repository"
	"papertrade/internal/util"

	"github.com/montanaflynn/stats"
	"github.com/shopspring/decimal"
)

// ReportingService covers the read-only paths: balances, portfolio views,
// transaction history and aggregations. None of these affect the ledger
// invariants, with one exception: reading the cash balance of a brand-new
// user seeds the account with an initial deposit.
type ReportingService interface {
	CashBalance(ctx context.Context, userID string) (decimal.Decimal, error)
	PortfolioView(ctx context.Context, userID string) (*PortfolioView, error)
	TickerTransactions(ctx context.Context, userID string, ticker string) (*TickerTransactions, error)
	StockPerformance(ctx context.Context, userID string, ticker string) (*StockPerformance, error)
	PriceHistory(ctx context.Context, ticker string) ([]domain.PricePoint, error)
	PopularTickers(ctx context.Context, window time.Duration) ([]TickerActivity, error)
	TickerList(ctx context.Context) ([]model.Ticker, error)
}

type PortfolioView struct {
	UserID    string              `json:"userID"`
	Cash      decimal.Decimal     `json:"cash"`
	Positions []PortfolioPosition `json:"positions"`
}

type PortfolioPosition struct {
	Ticker string          `json:"ticker"`
	Units  decimal.Decimal `json:"units"`
	Price  decimal.Decimal `json:"price"`
	Value  decimal.Decimal `json:"value"`
}

type TickerTransactions struct {
	Buys  []domain.LedgerEntry `json:"buy"`
	Sells []domain.LedgerEntry `json:"sell"`
}

type StockPerformance struct {
	Ticker       string          `json:"ticker"`
	UnitsHeld    decimal.Decimal `json:"unitsHeld"`
	LatestPrice  decimal.Decimal `json:"latestPrice"`
	MarketValue  decimal.Decimal `json:"marketValue"`
	AvgBuyPrice  decimal.Decimal `json:"avgBuyPrice"`
	AvgSellPrice decimal.Decimal `json:"avgSellPrice"`
	BuyCount     int             `json:"buyCount"`
	SellCount    int             `json:"sellCount"`
}

type TickerActivity struct {
	Ticker string `json:"ticker"`
	Buys   int    `json:"buys"`
	Sells  int    `json:"sells"`
}

type reportingServiceHandler struct {
	BalanceService     BalanceService
	PortfolioService   PortfolioService
	TransactionService TransactionService
	LedgerRepository   repository.LedgerRepository
	PriceRepository    repository.PriceRepository
	TickerRepository   repository.TickerRepository
	InitialDeposit     decimal.Decimal
}

func NewReportingService(
	balanceService BalanceService,
	portfolioService PortfolioService,
	transactionService TransactionService,
	ledgerRepository repository.LedgerRepository,
	priceRepository repository.PriceRepository,
	tickerRepository repository.TickerRepository,
	initialDeposit decimal.Decimal,
) ReportingService {
	return reportingServiceHandler{
		BalanceService:     balanceService,
		PortfolioService:   portfolioService,
		TransactionService: transactionService,
		LedgerRepository:   ledgerRepository,
		PriceRepository:    priceRepository,
		TickerRepository:   tickerRepository,
		InitialDeposit:     initialDeposit,
	}
}

func (h reportingServiceHandler) CashBalance(ctx context.Context, userID string) (decimal.Decimal, error) {
	if userID == "" {
		return decimal.Zero, fmt.Errorf("%w: missing user id", domain.ErrInvalidInput)
	}
	balance, latest, err := h.BalanceService.ResolveCashBalance(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}
	if latest != nil {
		return balance, nil
	}

	// First contact: seed the cash account so new users start funded.
	entry, err := h.TransactionService.Deposit(ctx, userID, h.InitialDeposit, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to seed new account: %w", err)
	}
	return entry.Balance, nil
}

func (h reportingServiceHandler) PortfolioView(ctx context.Context, userID string) (*PortfolioView, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: missing user id", domain.ErrInvalidInput)
	}
	record, err := h.PortfolioService.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	cash, _, err := h.BalanceService.ResolveCashBalance(ctx, userID)
	if err != nil {
		return nil, err
	}

	view := &PortfolioView{
		UserID:    userID,
		Cash:      cash,
		Positions: []PortfolioPosition{},
	}
	for _, ticker := range record.Tickers {
		units, _, err := h.BalanceService.ResolveBalance(ctx, userID, PrefixKey(domain.TickerPrefix(ticker)))
		if err != nil {
			return nil, err
		}
		price, err := h.PriceRepository.LatestPrice(ctx, ticker)
		if err != nil {
			return nil, err
		}
		view.Positions = append(view.Positions, PortfolioPosition{
			Ticker: ticker,
			Units:  units,
			Price:  price,
			Value:  domain.RoundCash(units.Mul(price)),
		})
	}
	return view, nil
}

func (h reportingServiceHandler) TickerTransactions(ctx context.Context, userID string, ticker string) (*TickerTransactions, error) {
	if userID == "" || !domain.ValidTicker(ticker) {
		return nil, fmt.Errorf("%w: user %q ticker %q", domain.ErrInvalidInput, userID, ticker)
	}

	buys, err := h.LedgerRepository.List(ctx, userID, repository.LedgerEntryListFilter{
		Category: util.StringPointer(domain.BuyCategory(ticker)),
	})
	if err != nil {
		return nil, err
	}
	sells, err := h.LedgerRepository.List(ctx, userID, repository.LedgerEntryListFilter{
		Category: util.StringPointer(domain.SellCategory(ticker)),
	})
	if err != nil {
		return nil, err
	}

	return &TickerTransactions{Buys: buys, Sells: sells}, nil
}

func (h reportingServiceHandler) StockPerformance(ctx context.Context, userID string, ticker string) (*StockPerformance, error) {
	txns, err := h.TickerTransactions(ctx, userID, ticker)
	if err != nil {
		return nil, err
	}
	units, _, err := h.BalanceService.ResolveBalance(ctx, userID, PrefixKey(domain.TickerPrefix(ticker)))
	if err != nil {
		return nil, err
	}
	price, err := h.PriceRepository.LatestPrice(ctx, ticker)
	if err != nil {
		return nil, err
	}

	out := &StockPerformance{
		Ticker:      ticker,
		UnitsHeld:   units,
		LatestPrice: price,
		MarketValue: domain.RoundCash(units.Mul(price)),
		BuyCount:    len(txns.Buys),
		SellCount:   len(txns.Sells),
	}
	out.AvgBuyPrice = averageTradePrice(txns.Buys)
	out.AvgSellPrice = averageTradePrice(txns.Sells)
	return out, nil
}

// averageTradePrice is the mean unit price across trade legs, zero when
// there are none.
func averageTradePrice(entries []domain.LedgerEntry) decimal.Decimal {
	if len(entries) == 0 {
		return decimal.Zero
	}
	prices := make([]float64, 0, len(entries))
	for _, e := range entries {
		prices = append(prices, e.ChangeAmount.InexactFloat64())
	}
	mean, err := stats.Mean(prices)
	if err != nil {
		return decimal.Zero
	}
	return domain.RoundCash(decimal.NewFromFloat(mean))
}

// PriceHistory returns a ticker's full quote history, oldest first.
func (h reportingServiceHandler) PriceHistory(ctx context.Context, ticker string) ([]domain.PricePoint, error) {
	if !domain.ValidTicker(ticker) {
		return nil, fmt.Errorf("%w: ticker %q", domain.ErrInvalidInput, ticker)
	}
	return h.PriceRepository.List(ctx, ticker)
}

func (h reportingServiceHandler) PopularTickers(ctx context.Context, window time.Duration) ([]TickerActivity, error) {
	since := time.Now().UTC().Add(-window).Format(domain.EntryDateFormat)
	entries, err := h.LedgerRepository.ListSince(ctx, since)
	if err != nil {
		return nil, err
	}

	counts := map[string]*TickerActivity{}
	for _, e := range entries {
		if !e.IsTrade() {
			continue
		}
		ticker := e.Ticker()
		activity, ok := counts[ticker]
		if !ok {
			activity = &TickerActivity{Ticker: ticker}
			counts[ticker] = activity
		}
		if e.Category == domain.BuyCategory(ticker) {
			activity.Buys++
		} else {
			activity.Sells++
		}
	}

	out := make([]TickerActivity, 0, len(counts))
	for _, a := range counts {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool {
		ti, tj := out[i].Buys+out[i].Sells, out[j].Buys+out[j].Sells
		if ti != tj {
			return ti > tj
		}
		return out[i].Ticker < out[j].Ticker
	})
	return out, nil
}

func (h reportingServiceHandler) TickerList(ctx context.Context) ([]model.Ticker, error) {
	return h.TickerRepository.List(ctx)
}
