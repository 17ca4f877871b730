package api

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
)

// popularWindow matches the 30-day activity window of the aggregation.
const popularWindow = 30 * 24 * time.Hour

func (m ApiHandler) popularTickers(c *gin.Context) {
	ctx := context.Background()

	activity, err := m.ReportingService.PopularTickers(ctx, popularWindow)
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	c.JSON(200, activity)
}
