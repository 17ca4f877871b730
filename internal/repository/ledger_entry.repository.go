package repository

import (
	"context"
	"database/sql"
	"fmt"

	"papertrade/internal/db/models/postgres/public/model"
	"papertrade/internal/db/models/postgres/public/table"
	"papertrade/internal/domain"

	"github.com/go-jet/jet/v2/postgres"
)

// LedgerRepository is the entry store: an append-only log keyed by
// (user, entry date). No update or delete is exposed.
type LedgerRepository interface {
	Append(ctx context.Context, entry domain.LedgerEntry) error
	// List returns a user's entries matching the filter, newest first.
	List(ctx context.Context, userID string, filter LedgerEntryListFilter) ([]domain.LedgerEntry, error)
	// ListSince returns every entry across users with an entry date strictly
	// after sinceDate.
	ListSince(ctx context.Context, sinceDate string) ([]domain.LedgerEntry, error)
}

type LedgerEntryListFilter struct {
	// Category matches the metadata column exactly.
	Category *string
	// CategoryPrefix matches any metadata beginning with the prefix, e.g.
	// "ACCOUNT#" or "XYZ#".
	CategoryPrefix *string
	Limit          *int64
}

type ledgerRepositoryHandler struct {
	Db *sql.DB
}

func NewLedgerRepository(db *sql.DB) LedgerRepository {
	return ledgerRepositoryHandler{Db: db}
}

func (h ledgerRepositoryHandler) Append(ctx context.Context, entry domain.LedgerEntry) error {
	query := table.LedgerEntry.
		INSERT(table.LedgerEntry.AllColumns).
		MODEL(entryToModel(entry))

	_, err := query.ExecContext(ctx, h.Db)
	if err != nil {
		return fmt.Errorf("failed to append ledger entry: %w", err)
	}

	return nil
}

func (h ledgerRepositoryHandler) List(ctx context.Context, userID string, filter LedgerEntryListFilter) ([]domain.LedgerEntry, error) {
	where := table.LedgerEntry.UserID.EQ(postgres.String(userID))
	switch {
	case filter.Category != nil:
		where = where.AND(table.LedgerEntry.Metadata.EQ(postgres.String(*filter.Category)))
	case filter.CategoryPrefix != nil:
		where = where.AND(table.LedgerEntry.Metadata.LIKE(postgres.String(*filter.CategoryPrefix + "%")))
	}

	query := table.LedgerEntry.
		SELECT(table.LedgerEntry.AllColumns).
		WHERE(where).
		ORDER_BY(table.LedgerEntry.EntryDate.DESC())
	if filter.Limit != nil {
		query = query.LIMIT(*filter.Limit)
	}

	results := []model.LedgerEntry{}
	err := query.QueryContext(ctx, h.Db, &results)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}

	return entriesFromModels(results), nil
}

func (h ledgerRepositoryHandler) ListSince(ctx context.Context, sinceDate string) ([]domain.LedgerEntry, error) {
	query := table.LedgerEntry.
		SELECT(table.LedgerEntry.AllColumns).
		WHERE(table.LedgerEntry.EntryDate.GT(postgres.String(sinceDate))).
		ORDER_BY(table.LedgerEntry.EntryDate.DESC())

	results := []model.LedgerEntry{}
	err := query.QueryContext(ctx, h.Db, &results)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger entries since %s: %w", sinceDate, err)
	}

	return entriesFromModels(results), nil
}

func entryToModel(e domain.LedgerEntry) model.LedgerEntry {
	return model.LedgerEntry{
		UserID:        e.UserID,
		EntryDate:     e.EntryDate,
		Metadata:      e.Category,
		Value:         e.ChangeAmount,
		Units:         e.Units,
		Balance:       e.Balance,
		CorrelationID: e.CorrelationID,
	}
}

func entryFromModel(m model.LedgerEntry) domain.LedgerEntry {
	return domain.LedgerEntry{
		UserID:        m.UserID,
		EntryDate:     m.EntryDate,
		Category:      m.Metadata,
		ChangeAmount:  m.Value,
		Units:         m.Units,
		Balance:       m.Balance,
		CorrelationID: m.CorrelationID,
	}
}

func entriesFromModels(ms []model.LedgerEntry) []domain.LedgerEntry {
	out := make([]domain.LedgerEntry, 0, len(ms))
	for _, m := range ms {
		out = append(out, entryFromModel(m))
	}
	return out
}
