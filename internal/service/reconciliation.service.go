package service

import (
	"context"
	"sort"
	"strings"

	"papertrade/internal/domain"
	"papertrade/internal/repository"
)

// UnpairedTrade is a buy or sell whose two legs did not both land: one
// correlation ID with a position leg and no cash leg, or the reverse.
type UnpairedTrade struct {
	CorrelationID string
	// Missing names the absent leg: "cash" or "position".
	Missing string
	Entries []domain.LedgerEntry
}

// ReconciliationService finds trades that were only partially applied.
// There is no automatic repair: operators act on the report.
type ReconciliationService interface {
	FindUnpaired(ctx context.Context, userID string) ([]UnpairedTrade, error)
}

type reconciliationServiceHandler struct {
	LedgerRepository repository.LedgerRepository
}

func NewReconciliationService(ledgerRepository repository.LedgerRepository) ReconciliationService {
	return reconciliationServiceHandler{LedgerRepository: ledgerRepository}
}

func (h reconciliationServiceHandler) FindUnpaired(ctx context.Context, userID string) ([]UnpairedTrade, error) {
	entries, err := h.LedgerRepository.List(ctx, userID, repository.LedgerEntryListFilter{})
	if err != nil {
		return nil, err
	}

	byCorrelation := map[string][]domain.LedgerEntry{}
	for _, e := range entries {
		if e.CorrelationID == "" || e.CorrelationID == "null" {
			continue
		}
		byCorrelation[e.CorrelationID] = append(byCorrelation[e.CorrelationID], e)
	}

	var out []UnpairedTrade
	for id, group := range byCorrelation {
		var positions, cash int
		for _, e := range group {
			if strings.HasPrefix(e.Category, domain.PrefixAccount) {
				cash++
			} else if e.IsTrade() {
				positions++
			}
		}
		// Correlation-tagged cash entries without a position leg can be
		// legitimate idempotency-tokened deposits; only groups that contain
		// a trade leg are expected to pair.
		if positions == 0 {
			continue
		}
		if positions == 1 && cash == 1 {
			continue
		}
		missing := "cash"
		if cash > 0 && positions == 0 {
			missing = "position"
		}
		out = append(out, UnpairedTrade{
			CorrelationID: id,
			Missing:       missing,
			Entries:       group,
		})
	}

	// newest first, by the group's most recent entry
	sort.Slice(out, func(i, j int) bool {
		return newestDate(out[i].Entries) > newestDate(out[j].Entries)
	})
	return out, nil
}

func newestDate(entries []domain.LedgerEntry) string {
	newest := ""
	for _, e := range entries {
		if e.EntryDate > newest {
			newest = e.EntryDate
		}
	}
	return newest
}
