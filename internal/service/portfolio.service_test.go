package service

import (
	"context"
	"testing"
	"time"

	"papertrade/internal/domain"
	"papertrade/internal/repository/memory"

	"github.com/stretchr/testify/require"
)

func Test_portfolioServiceHandler_Load(t *testing.T) {
	t.Run("absent record loads as an empty record", func(t *testing.T) {
		store := memory.NewPortfolioStore()
		handler := portfolioServiceHandler{
			PortfolioRepository: store,
			Stamper:             domain.NewStamper(),
		}

		record, err := handler.Load(context.Background(), "u1")
		require.NoError(t, err)
		require.Equal(t, "u1", record.UserID)
		require.Empty(t, record.Tickers)
		require.Empty(t, record.AnchorDate)
	})
}

func Test_portfolioServiceHandler_Persist(t *testing.T) {
	t.Run("first persist stamps the anchor date", func(t *testing.T) {
		store := memory.NewPortfolioStore()
		frozen := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
		handler := portfolioServiceHandler{
			PortfolioRepository: store,
			Stamper:             domain.NewStamperAt(func() time.Time { return frozen }),
		}

		record, err := handler.Persist(context.Background(), domain.PortfolioRecord{
			UserID:  "u1",
			Tickers: []string{"XYZ"},
		})
		require.NoError(t, err)
		require.Equal(t, "2024-05-01T09:00:00.000000000Z", record.AnchorDate)
		require.Equal(t, 1, store.WriteCount())
	})

	t.Run("anchor date survives overwrites", func(t *testing.T) {
		store := memory.NewPortfolioStore()
		handler := portfolioServiceHandler{
			PortfolioRepository: store,
			Stamper:             domain.NewStamper(),
		}

		first, err := handler.Persist(context.Background(), domain.PortfolioRecord{
			UserID:  "u1",
			Tickers: []string{"XYZ"},
		})
		require.NoError(t, err)

		second, err := handler.Persist(context.Background(), first.WithTicker("AAPL"))
		require.NoError(t, err)
		require.Equal(t, first.AnchorDate, second.AnchorDate)

		stored, err := store.Get(context.Background(), "u1")
		require.NoError(t, err)
		require.Equal(t, first.AnchorDate, stored.AnchorDate)
		require.Equal(t, []string{"XYZ", "AAPL"}, stored.Tickers)
	})
}
