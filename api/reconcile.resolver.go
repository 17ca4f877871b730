package api

import (
	"context"

	"github.com/gin-gonic/gin"
)

func (m ApiHandler) reconcile(c *gin.Context) {
	ctx := context.Background()

	userID, err := resolveUserID(c, c.Query("userID"))
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	unpaired, err := m.ReconciliationService.FindUnpaired(ctx, userID)
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	c.JSON(200, gin.H{
		"unpaired": unpaired,
	})
}
