package service

import (
	"context"
	"fmt"

	"papertrade/internal/domain"
	"papertrade/internal/repository"

	"github.com/shopspring/decimal"
)

// SubLedgerKey selects one sub-ledger, either by exact category or by
// category prefix (e.g. "XYZ#" for all position entries of one ticker).
type SubLedgerKey struct {
	Category string
	Prefix   string
}

func ExactKey(category string) SubLedgerKey {
	return SubLedgerKey{Category: category}
}

func PrefixKey(prefix string) SubLedgerKey {
	return SubLedgerKey{Prefix: prefix}
}

// BalanceService resolves the current balance of a sub-ledger from its most
// recent entry.
type BalanceService interface {
	// ResolveBalance returns the authoritative balance and the entry that
	// carries it. A subject with no entries resolves to zero with a nil
	// entry; that is not an error. A failed store read is reported as
	// ErrBalanceUnavailable and never folded into a zero balance.
	ResolveBalance(ctx context.Context, userID string, key SubLedgerKey) (decimal.Decimal, *domain.LedgerEntry, error)

	// ResolveCashBalance resolves across both cash categories.
	ResolveCashBalance(ctx context.Context, userID string) (decimal.Decimal, *domain.LedgerEntry, error)
}

type balanceServiceHandler struct {
	LedgerRepository repository.LedgerRepository
}

func NewBalanceService(ledgerRepository repository.LedgerRepository) BalanceService {
	return balanceServiceHandler{LedgerRepository: ledgerRepository}
}

func (h balanceServiceHandler) ResolveBalance(ctx context.Context, userID string, key SubLedgerKey) (decimal.Decimal, *domain.LedgerEntry, error) {
	filter := repository.LedgerEntryListFilter{}
	if key.Category != "" {
		filter.Category = &key.Category
	} else {
		filter.CategoryPrefix = &key.Prefix
	}

	entries, err := h.LedgerRepository.List(ctx, userID, filter)
	if err != nil {
		return decimal.Zero, nil, fmt.Errorf("%w: %s", domain.ErrBalanceUnavailable, err)
	}

	latest := latestEntry(entries)
	if latest == nil {
		return decimal.Zero, nil, nil
	}
	return latest.Balance, latest, nil
}

func (h balanceServiceHandler) ResolveCashBalance(ctx context.Context, userID string) (decimal.Decimal, *domain.LedgerEntry, error) {
	return h.ResolveBalance(ctx, userID, PrefixKey(domain.PrefixAccount))
}

// latestEntry picks the entry with the greatest entry date by comparison.
// A prefix query spans categories (deposit and withdraw interleave under
// ACCOUNT#) and the store's returned order is not globally sorted in that
// case, so the order is never trusted when more than one row comes back.
func latestEntry(entries []domain.LedgerEntry) *domain.LedgerEntry {
	var latest *domain.LedgerEntry
	for i := range entries {
		if latest == nil || entries[i].EntryDate > latest.EntryDate {
			latest = &entries[i]
		}
	}
	return latest
}
