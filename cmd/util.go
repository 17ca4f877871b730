package cmd

import (
	"database/sql"
	"fmt"
	"io"
	"log"

	"papertrade/api"
	"papertrade/internal"
	"papertrade/internal/domain"
	"papertrade/internal/events"
	kafkaevents "papertrade/internal/events/kafka"
	_ "papertrade/internal/logger"
	"papertrade/internal/repository"
	"papertrade/internal/service"

	_ "github.com/lib/pq"
)

func CloseDependencies(handler *api.ApiHandler) {
	if closer, ok := handler.EventPublisher.(io.Closer); ok && closer != nil {
		if err := closer.Close(); err != nil {
			log.Printf("failed to close event publisher: %v", err)
		}
	}
	if err := handler.Db.Close(); err != nil {
		log.Fatalf("failed to close db: %v", err)
	}
}

func InitializeDependencies() (*api.ApiHandler, error) {
	secrets, err := internal.LoadSecrets()
	if err != nil {
		return nil, fmt.Errorf("failed to load secrets: %w", err)
	}

	dbConn, err := sql.Open("postgres", secrets.Db.ToConnectionStr())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to db: %w", err)
	}

	ledgerRepository := repository.NewLedgerRepository(dbConn)
	portfolioRepository := repository.NewPortfolioRepository(dbConn)
	priceRepository := repository.NewPriceRepository(dbConn)
	tickerRepository := repository.NewTickerRepository(dbConn)

	var publisher events.Publisher
	if len(secrets.Kafka.Brokers) > 0 {
		publisher = kafkaevents.NewPublisher(secrets.Kafka.Brokers, secrets.Kafka.Topic)
	}

	stamper := domain.NewStamper()
	balanceService := service.NewBalanceService(ledgerRepository)
	portfolioService := service.NewPortfolioService(portfolioRepository, stamper)
	transactionService := service.NewTransactionService(
		balanceService,
		portfolioService,
		ledgerRepository,
		priceRepository,
		stamper,
		publisher,
	)
	reportingService := service.NewReportingService(
		balanceService,
		portfolioService,
		transactionService,
		ledgerRepository,
		priceRepository,
		tickerRepository,
		secrets.InitialDeposit,
	)
	reconciliationService := service.NewReconciliationService(ledgerRepository)

	apiHandler := &api.ApiHandler{
		TransactionService:    transactionService,
		ReportingService:      reportingService,
		ReconciliationService: reconciliationService,
		Db:                    dbConn,
		EventPublisher:        publisher,
		JwtSigningKey:         secrets.JwtSigningKey,
		CorsAllowedOrigins:    secrets.CorsAllowedOrigins,
	}

	return apiHandler, nil
}
