package api

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"papertrade/internal/domain"
	"papertrade/internal/events"
	"papertrade/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ApiHandler struct {
	TransactionService    service.TransactionService
	ReportingService      service.ReportingService
	ReconciliationService service.ReconciliationService

	// Db and EventPublisher are held here so the cmd layer can shut them
	// down. EventPublisher may be nil when no brokers are configured.
	Db             *sql.DB
	EventPublisher events.Publisher

	// JwtSigningKey enables bearer-token auth when non-empty.
	JwtSigningKey      string
	CorsAllowedOrigins []string
}

func (m ApiHandler) InitializeRouterEngine() *gin.Engine {
	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     m.CorsAllowedOrigins,
		AllowMethods:     []string{"OPTIONS", "GET", "POST"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	router.Use(m.logRequestMiddleware)
	if m.JwtSigningKey != "" {
		router.Use(m.authMiddleware)
	}

	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(200, map[string]string{"message": "welcome to papertrade"})
	})
	router.POST("/deposit", m.deposit)
	router.POST("/withdraw", m.withdraw)
	router.POST("/buy", m.buyStock)
	router.POST("/sell", m.sellStock)
	router.POST("/portfolio", m.getPortfolio)
	router.GET("/balance", m.accountBalance)
	router.GET("/transactions", m.getTransactions)
	router.GET("/stock", m.stockHistory)
	router.GET("/performance", m.stockPerformance)
	router.GET("/popular", m.popularTickers)
	router.GET("/tickers", m.tickerList)
	router.GET("/reconcile", m.reconcile)

	return router
}

func (m ApiHandler) StartApi(port int) error {
	return m.InitializeRouterEngine().Run(fmt.Sprintf(":%d", port))
}

func (m ApiHandler) logRequestMiddleware(ctx *gin.Context) {
	start := time.Now()
	ctx.Next()
	zap.S().Infow("request",
		"method", ctx.Request.Method,
		"route", ctx.Request.URL.Path,
		"status", ctx.Writer.Status(),
		"durationMs", time.Since(start).Milliseconds(),
	)
}

// statusForError maps the engine's typed failures onto response codes so a
// caller can tell a retriable decline from a not-found from an internal
// fault.
func statusForError(err error) int {
	var partial *domain.PartialWriteError
	switch {
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInsufficientFunds),
		errors.Is(err, domain.ErrInsufficientUnits),
		errors.Is(err, domain.ErrNoCashAccount):
		return 400
	case errors.Is(err, domain.ErrUnknownTicker),
		errors.Is(err, domain.ErrNoPosition):
		return 404
	case errors.As(err, &partial):
		return 500
	default:
		return 500
	}
}

func returnErrorJson(err error, c *gin.Context) {
	returnErrorJsonCode(err, c, statusForError(err))
}

func returnErrorJsonCode(err error, c *gin.Context, code int) {
	zap.S().Warnw("request failed", "route", c.Request.URL.Path, "error", err)
	c.AbortWithStatusJSON(code, gin.H{
		"error": err.Error(),
	})
}

// resolveUserID prefers the authenticated identity over whatever the
// request body carried.
func resolveUserID(c *gin.Context, fromRequest string) (string, error) {
	if v, ok := c.Get(userIDContextKey); ok {
		if s, ok := v.(string); ok && s != "" {
			return s, nil
		}
	}
	if fromRequest == "" {
		return "", fmt.Errorf("%w: userID is required", domain.ErrInvalidInput)
	}
	return fromRequest, nil
}
