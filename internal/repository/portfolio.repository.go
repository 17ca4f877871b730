package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"papertrade/internal/db/models/postgres/public/model"
	"papertrade/internal/db/models/postgres/public/table"
	"papertrade/internal/domain"

	"github.com/go-jet/jet/v2/postgres"
	"github.com/go-jet/jet/v2/qrm"
)

// PortfolioRepository persists the portfolio membership record. The record
// is always written as a full replacement, never patched.
type PortfolioRepository interface {
	// Get returns nil, nil when the user has no record yet.
	Get(ctx context.Context, userID string) (*domain.PortfolioRecord, error)
	Overwrite(ctx context.Context, record domain.PortfolioRecord) error
}

type portfolioRepositoryHandler struct {
	Db *sql.DB
}

func NewPortfolioRepository(db *sql.DB) PortfolioRepository {
	return portfolioRepositoryHandler{Db: db}
}

func (h portfolioRepositoryHandler) Get(ctx context.Context, userID string) (*domain.PortfolioRecord, error) {
	query := table.PortfolioKey.
		SELECT(table.PortfolioKey.AllColumns).
		WHERE(table.PortfolioKey.UserID.EQ(postgres.String(userID)))

	result := model.PortfolioKey{}
	err := query.QueryContext(ctx, h.Db, &result)
	if errors.Is(err, qrm.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get portfolio record: %w", err)
	}

	record := recordFromModel(result)
	return &record, nil
}

func (h portfolioRepositoryHandler) Overwrite(ctx context.Context, record domain.PortfolioRecord) error {
	query := table.PortfolioKey.
		INSERT(table.PortfolioKey.AllColumns).
		MODEL(recordToModel(record)).
		ON_CONFLICT(table.PortfolioKey.UserID).
		DO_UPDATE(postgres.SET(
			table.PortfolioKey.AnchorDate.SET(table.PortfolioKey.EXCLUDED.AnchorDate),
			table.PortfolioKey.Tickers.SET(table.PortfolioKey.EXCLUDED.Tickers),
		))

	_, err := query.ExecContext(ctx, h.Db)
	if err != nil {
		return fmt.Errorf("failed to overwrite portfolio record: %w", err)
	}

	return nil
}

func recordToModel(r domain.PortfolioRecord) model.PortfolioKey {
	return model.PortfolioKey{
		UserID:     r.UserID,
		AnchorDate: r.AnchorDate,
		Tickers:    strings.Join(r.Tickers, ","),
	}
}

func recordFromModel(m model.PortfolioKey) domain.PortfolioRecord {
	record := domain.PortfolioRecord{
		UserID:     m.UserID,
		AnchorDate: m.AnchorDate,
	}
	if m.Tickers != "" {
		record.Tickers = strings.Split(m.Tickers, ",")
	}
	return record
}
