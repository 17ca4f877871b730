package api

import (
	"context"

	"github.com/gin-gonic/gin"
)

func (m ApiHandler) tickerList(c *gin.Context) {
	ctx := context.Background()

	tickers, err := m.ReportingService.TickerList(ctx)
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	c.JSON(200, tickers)
}
