package api

import (
	"context"

	"github.com/gin-gonic/gin"
)

func (m ApiHandler) stockHistory(c *gin.Context) {
	ctx := context.Background()

	ticker := c.Query("ticker")
	history, err := m.ReportingService.PriceHistory(ctx, ticker)
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	c.JSON(200, gin.H{
		"ticker": ticker,
		"prices": history,
	})
}
