package service

import (
	"context"
	"fmt"

	"papertrade/internal/domain"
	"papertrade/internal/repository"
)

// PortfolioService maintains the portfolio membership record: the set of
// tickers a user currently holds. Membership mutation itself is pure (see
// domain.PortfolioRecord); this service owns loading and persisting.
type PortfolioService interface {
	// Load returns the user's record, or an empty record when none exists.
	Load(ctx context.Context, userID string) (domain.PortfolioRecord, error)

	// Persist overwrites the record with exactly one full-replace write.
	// A record that has never been persisted gets "now" as its anchor date;
	// an existing anchor date is preserved so the record keeps its original
	// creation date across updates.
	Persist(ctx context.Context, record domain.PortfolioRecord) (domain.PortfolioRecord, error)
}

type portfolioServiceHandler struct {
	PortfolioRepository repository.PortfolioRepository
	Stamper             *domain.Stamper
}

func NewPortfolioService(portfolioRepository repository.PortfolioRepository, stamper *domain.Stamper) PortfolioService {
	return portfolioServiceHandler{
		PortfolioRepository: portfolioRepository,
		Stamper:             stamper,
	}
}

func (h portfolioServiceHandler) Load(ctx context.Context, userID string) (domain.PortfolioRecord, error) {
	record, err := h.PortfolioRepository.Get(ctx, userID)
	if err != nil {
		return domain.PortfolioRecord{}, fmt.Errorf("failed to load portfolio record: %w", err)
	}
	if record == nil {
		return domain.PortfolioRecord{UserID: userID}, nil
	}
	return *record, nil
}

func (h portfolioServiceHandler) Persist(ctx context.Context, record domain.PortfolioRecord) (domain.PortfolioRecord, error) {
	if record.AnchorDate == "" {
		record.AnchorDate = h.Stamper.Next()
	}
	if err := h.PortfolioRepository.Overwrite(ctx, record); err != nil {
		return domain.PortfolioRecord{}, fmt.Errorf("failed to persist portfolio record: %w", err)
	}
	return record, nil
}
