package api

import (
	"context"

	"github.com/gin-gonic/gin"
)

func (m ApiHandler) getTransactions(c *gin.Context) {
	ctx := context.Background()

	userID, err := resolveUserID(c, c.Query("userID"))
	if err != nil {
		returnErrorJson(err, c)
		return
	}
	ticker := c.Query("ticker")

	txns, err := m.ReportingService.TickerTransactions(ctx, userID, ticker)
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	c.JSON(200, txns)
}
