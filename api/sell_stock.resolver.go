package api

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type sellStockRequest struct {
	UserID string `json:"userID"`
	Ticker string `json:"ticker"`
	// Amount is the number of units to sell.
	Amount decimal.Decimal `json:"amount"`
}

func (m ApiHandler) sellStock(c *gin.Context) {
	ctx := context.Background()

	var requestBody sellStockRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJsonCode(err, c, 400)
		return
	}
	userID, err := resolveUserID(c, requestBody.UserID)
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	result, err := m.TransactionService.Sell(ctx, userID, requestBody.Ticker, requestBody.Amount)
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	c.JSON(200, gin.H{
		"message":         "stock sale complete",
		"correlationID":   result.CorrelationID,
		"positionBalance": result.PositionEntry.Balance,
		"cashBalance":     result.CashEntry.Balance,
		"portfolio":       result.Portfolio.Tickers,
	})
}
