package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"papertrade/internal/db/models/postgres/public/model"
	"papertrade/internal/db/models/postgres/public/table"
	"papertrade/internal/domain"

	"github.com/go-jet/jet/v2/postgres"
	"github.com/go-jet/jet/v2/qrm"
	gocache "github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
)

// PriceRepository is the price collaborator: latest quote per ticker plus
// the full history the reporting paths chart from.
type PriceRepository interface {
	LatestPrice(ctx context.Context, ticker string) (decimal.Decimal, error)
	List(ctx context.Context, ticker string) ([]domain.PricePoint, error)
}

type priceRepositoryHandler struct {
	Db    *sql.DB
	Cache *gocache.Cache
}

func NewPriceRepository(db *sql.DB) PriceRepository {
	return priceRepositoryHandler{
		Db:    db,
		Cache: gocache.New(30*time.Second, time.Minute),
	}
}

func (h priceRepositoryHandler) LatestPrice(ctx context.Context, ticker string) (decimal.Decimal, error) {
	if cached, ok := h.Cache.Get(ticker); ok {
		return cached.(decimal.Decimal), nil
	}

	query := table.StockPrice.
		SELECT(table.StockPrice.AllColumns).
		WHERE(table.StockPrice.Ticker.EQ(postgres.String(ticker))).
		ORDER_BY(table.StockPrice.PriceDate.DESC()).
		LIMIT(1)

	result := model.StockPrice{}
	err := query.QueryContext(ctx, h.Db, &result)
	if errors.Is(err, qrm.ErrNoRows) {
		return decimal.Zero, fmt.Errorf("%w: %s", domain.ErrUnknownTicker, ticker)
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to get latest price for %s: %w", ticker, err)
	}

	h.Cache.SetDefault(ticker, result.Price)
	return result.Price, nil
}

func (h priceRepositoryHandler) List(ctx context.Context, ticker string) ([]domain.PricePoint, error) {
	query := table.StockPrice.
		SELECT(table.StockPrice.AllColumns).
		WHERE(table.StockPrice.Ticker.EQ(postgres.String(ticker))).
		ORDER_BY(table.StockPrice.PriceDate.ASC())

	results := []model.StockPrice{}
	err := query.QueryContext(ctx, h.Db, &results)
	if err != nil {
		return nil, fmt.Errorf("failed to list prices for %s: %w", ticker, err)
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownTicker, ticker)
	}

	out := make([]domain.PricePoint, 0, len(results))
	for _, r := range results {
		out = append(out, domain.PricePoint{
			Ticker: r.Ticker,
			Date:   r.PriceDate,
			Price:  r.Price,
		})
	}
	return out, nil
}
