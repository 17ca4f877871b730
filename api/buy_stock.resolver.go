package api

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type buyStockRequest struct {
	UserID string `json:"userID"`
	Ticker string `json:"ticker"`
	// Amount is the cash to spend, not a unit count.
	Amount decimal.Decimal `json:"amount"`
}

func (m ApiHandler) buyStock(c *gin.Context) {
	ctx := context.Background()

	var requestBody buyStockRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJsonCode(err, c, 400)
		return
	}
	userID, err := resolveUserID(c, requestBody.UserID)
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	result, err := m.TransactionService.Buy(ctx, userID, requestBody.Ticker, requestBody.Amount)
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	c.JSON(200, gin.H{
		"message":         "stock purchase complete",
		"correlationID":   result.CorrelationID,
		"units":           result.PositionEntry.Units,
		"positionBalance": result.PositionEntry.Balance,
		"cashBalance":     result.CashEntry.Balance,
		"portfolio":       result.Portfolio.Tickers,
	})
}
