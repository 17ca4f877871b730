package api

import (
	"context"

	"github.com/gin-gonic/gin"
)

type getPortfolioRequest struct {
	UserID string `json:"userID"`
}

func (m ApiHandler) getPortfolio(c *gin.Context) {
	ctx := context.Background()

	var requestBody getPortfolioRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJsonCode(err, c, 400)
		return
	}
	userID, err := resolveUserID(c, requestBody.UserID)
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	view, err := m.ReportingService.PortfolioView(ctx, userID)
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	c.JSON(200, view)
}
