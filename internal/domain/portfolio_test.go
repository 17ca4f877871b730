package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPortfolioRecord_WithTicker(t *testing.T) {
	record := PortfolioRecord{UserID: "u1", Tickers: []string{"AAPL"}}

	updated := record.WithTicker("XYZ")
	require.Equal(t, []string{"AAPL", "XYZ"}, updated.Tickers)
	// original untouched
	require.Equal(t, []string{"AAPL"}, record.Tickers)

	t.Run("adding a member twice is a no-op", func(t *testing.T) {
		again := updated.WithTicker("XYZ")
		require.Equal(t, []string{"AAPL", "XYZ"}, again.Tickers)
	})
}

func TestPortfolioRecord_WithoutTicker(t *testing.T) {
	record := PortfolioRecord{UserID: "u1", AnchorDate: "2024-05-01T00:00:00.000000000Z", Tickers: []string{"AAPL", "XYZ"}}

	updated := record.WithoutTicker("AAPL")
	require.Equal(t, []string{"XYZ"}, updated.Tickers)
	require.Equal(t, record.AnchorDate, updated.AnchorDate)
	require.Equal(t, []string{"AAPL", "XYZ"}, record.Tickers)

	t.Run("removing a non-member is a no-op", func(t *testing.T) {
		same := updated.WithoutTicker("MSFT")
		require.Equal(t, []string{"XYZ"}, same.Tickers)
	})
}

func TestPortfolioRecord_Holds(t *testing.T) {
	record := PortfolioRecord{Tickers: []string{"AAPL"}}
	require.True(t, record.Holds("AAPL"))
	require.False(t, record.Holds("XYZ"))
	require.False(t, PortfolioRecord{}.Holds("AAPL"))
}
