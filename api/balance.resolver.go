package api

import (
	"context"

	"github.com/gin-gonic/gin"
)

func (m ApiHandler) accountBalance(c *gin.Context) {
	ctx := context.Background()

	userID, err := resolveUserID(c, c.Query("userID"))
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	balance, err := m.ReportingService.CashBalance(ctx, userID)
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	c.JSON(200, gin.H{
		"balance": balance,
	})
}
