// Package memory holds in-memory implementations of the store-backed
// repositories. They keep the same contracts as the postgres handlers and
// back the engine's tests without a database.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"papertrade/internal/domain"
	"papertrade/internal/repository"

	"github.com/shopspring/decimal"
)

type LedgerStore struct {
	mu      sync.Mutex
	entries []domain.LedgerEntry

	// AppendHook, when set, runs before each append and can inject a
	// failure. Used to exercise partial-write behavior.
	AppendHook func(domain.LedgerEntry) error
	// ListErr, when set, fails every read. Used to exercise the
	// balance-unavailable path.
	ListErr error
}

func NewLedgerStore() *LedgerStore {
	return &LedgerStore{}
}

func (s *LedgerStore) Append(ctx context.Context, entry domain.LedgerEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.AppendHook != nil {
		if err := s.AppendHook(entry); err != nil {
			return err
		}
	}
	for _, e := range s.entries {
		if e.UserID == entry.UserID && e.EntryDate == entry.EntryDate {
			return fmt.Errorf("duplicate ledger key (%s, %s)", entry.UserID, entry.EntryDate)
		}
	}
	s.entries = append(s.entries, entry)
	return nil
}

func (s *LedgerStore) List(ctx context.Context, userID string, filter repository.LedgerEntryListFilter) ([]domain.LedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ListErr != nil {
		return nil, s.ListErr
	}

	var out []domain.LedgerEntry
	for _, e := range s.entries {
		if e.UserID != userID {
			continue
		}
		if filter.Category != nil && e.Category != *filter.Category {
			continue
		}
		if filter.CategoryPrefix != nil && !strings.HasPrefix(e.Category, *filter.CategoryPrefix) {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].EntryDate > out[j].EntryDate
	})
	if filter.Limit != nil && int64(len(out)) > *filter.Limit {
		out = out[:*filter.Limit]
	}
	return out, nil
}

func (s *LedgerStore) ListSince(ctx context.Context, sinceDate string) ([]domain.LedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ListErr != nil {
		return nil, s.ListErr
	}

	var out []domain.LedgerEntry
	for _, e := range s.entries {
		if e.EntryDate > sinceDate {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].EntryDate > out[j].EntryDate
	})
	return out, nil
}

// AllInWriteOrder returns every entry in the order it was appended.
func (s *LedgerStore) AllInWriteOrder() []domain.LedgerEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.LedgerEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

type portfolioWrite struct {
	Record domain.PortfolioRecord
}

type PortfolioStore struct {
	mu      sync.Mutex
	records map[string]domain.PortfolioRecord
	writes  []portfolioWrite
}

func NewPortfolioStore() *PortfolioStore {
	return &PortfolioStore{records: map[string]domain.PortfolioRecord{}}
}

func (s *PortfolioStore) Get(ctx context.Context, userID string) (*domain.PortfolioRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[userID]
	if !ok {
		return nil, nil
	}
	return &record, nil
}

func (s *PortfolioStore) Overwrite(ctx context.Context, record domain.PortfolioRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[record.UserID] = record
	s.writes = append(s.writes, portfolioWrite{Record: record})
	return nil
}

// WriteCount reports how many overwrites were issued.
func (s *PortfolioStore) WriteCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.writes)
}

type PriceStore struct {
	mu     sync.Mutex
	prices map[string][]domain.PricePoint
}

func NewPriceStore() *PriceStore {
	return &PriceStore{prices: map[string][]domain.PricePoint{}}
}

func (s *PriceStore) SetPrice(ticker string, date string, price decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prices[ticker] = append(s.prices[ticker], domain.PricePoint{
		Ticker: ticker,
		Date:   date,
		Price:  price,
	})
}

func (s *PriceStore) LatestPrice(ctx context.Context, ticker string) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	points := s.prices[ticker]
	if len(points) == 0 {
		return decimal.Zero, fmt.Errorf("%w: %s", domain.ErrUnknownTicker, ticker)
	}
	latest := points[0]
	for _, p := range points[1:] {
		if p.Date > latest.Date {
			latest = p
		}
	}
	return latest.Price, nil
}

func (s *PriceStore) List(ctx context.Context, ticker string) ([]domain.PricePoint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	points := s.prices[ticker]
	if len(points) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownTicker, ticker)
	}
	out := make([]domain.PricePoint, len(points))
	copy(out, points)
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

var (
	_ repository.LedgerRepository    = (*LedgerStore)(nil)
	_ repository.PortfolioRepository = (*PortfolioStore)(nil)
	_ repository.PriceRepository     = (*PriceStore)(nil)
)
