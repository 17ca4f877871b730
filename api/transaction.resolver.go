package api

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type cashTransactionRequest struct {
	UserID string          `json:"userID"`
	Amount decimal.Decimal `json:"amount"`
}

func (m ApiHandler) deposit(c *gin.Context) {
	ctx := context.Background()

	var requestBody cashTransactionRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJsonCode(err, c, 400)
		return
	}
	userID, err := resolveUserID(c, requestBody.UserID)
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	entry, err := m.TransactionService.Deposit(ctx, userID, requestBody.Amount, nil)
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	c.JSON(200, gin.H{
		"message": "account deposit successful",
		"balance": entry.Balance,
	})
}

func (m ApiHandler) withdraw(c *gin.Context) {
	ctx := context.Background()

	var requestBody cashTransactionRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJsonCode(err, c, 400)
		return
	}
	userID, err := resolveUserID(c, requestBody.UserID)
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	entry, err := m.TransactionService.Withdraw(ctx, userID, requestBody.Amount)
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	c.JSON(200, gin.H{
		"message": "account withdrawal successful",
		"balance": entry.Balance,
	})
}
