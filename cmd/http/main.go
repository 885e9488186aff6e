package main

import (
	"context"
	"jaspel-service/internal/app/config"
	"jaspel-service/internal/app/delivery/http/controllers"
	"jaspel-service/internal/app/delivery/http/middlewares"
	"jaspel-service/internal/app/delivery/http/routers"
	"jaspel-service/internal/app/drivers/database"
	"jaspel-service/internal/app/drivers/logger"
	"jaspel-service/internal/app/drivers/messaging"
	"jaspel-service/internal/app/drivers/storage"
	"jaspel-service/internal/app/services/core/feecalc"
	"jaspel-service/internal/app/services/core/feerecords"
	"jaspel-service/internal/app/services/core/formulas"
	"jaspel-service/internal/app/services/core/integrity"
	"jaspel-service/internal/app/services/core/patientcounts"
	"jaspel-service/internal/app/services/core/procedures"
	"jaspel-service/internal/app/services/core/settlement"
	"jaspel-service/internal/app/services/core/validation"
	"jaspel-service/internal/app/services/shared/aggregatecache"
	"jaspel-service/internal/app/services/shared/events"
	"jaspel-service/internal/app/services/shared/locker"
	redisRepositoryPkg "jaspel-service/internal/app/services/shared/redis"
	"jaspel-service/internal/app/services/shared/settlementqueue"
	sharedStorage "jaspel-service/internal/app/services/shared/storage"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

func main() {
	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()

	consoleLog := logger.NewLogrusLogger(internalConfig)
	zapLog := logger.NewZapLogger(driverConfig, internalConfig)

	location, err := time.LoadLocation(internalConfig.App.Timezone)
	if err != nil {
		consoleLog.Fatalf("Error loading location: %v", err)
	}
	time.Local = location

	mongoDB := database.NewMongoDB(driverConfig)
	redisClient := database.NewRedisClient(driverConfig)
	rabbitMQ := messaging.NewRabbitMQ(driverConfig)
	minioClient := storage.NewMinio(driverConfig)
	chiRouter := chi.NewRouter()

	bootstrap := config.Bootstrap{
		Router:         chiRouter,
		MongoDB:        mongoDB,
		Redis:          redisClient,
		Logger:         zapLog,
		RabbitMQ:       rabbitMQ,
		InternalConfig: internalConfig,
		DriverConfig:   driverConfig,
	}

	// Shared services
	redisRepository := redisRepositoryPkg.NewRedisRepository(redisClient)
	lockerService := locker.NewLockService(redisRepository, zapLog)
	aggregateCache := aggregatecache.NewAggregateCache(redisRepository, zapLog, internalConfig.Jaspel.AggregateCacheTTLInMinutes)
	archiver := sharedStorage.NewMinioArchiver(minioClient, zapLog, internalConfig.Minio.ReconciliationBucket)

	eventPublisher, err := events.NewPublisher(rabbitMQ, zapLog, internalConfig.RabbitMQ.NotificationQueue)
	if err != nil {
		consoleLog.Fatalf("Failed to create event publisher: %v", err)
	}
	settlementQueue, err := settlementqueue.NewService(rabbitMQ, zapLog, internalConfig)
	if err != nil {
		consoleLog.Fatalf("Failed to create settlement queue: %v", err)
	}

	// Repositories
	dbName := driverConfig.MongoDB.DbName
	feeRecordRepository := feerecords.NewFeeRecordMongoRepository(mongoDB, dbName)
	procedureRepository := procedures.NewProcedureMongoRepository(mongoDB, dbName)
	procedureTypeRepository := formulas.NewProcedureTypeMongoRepository(mongoDB, dbName)
	feeFormulaRepository := formulas.NewFeeFormulaMongoRepository(mongoDB, dbName)
	patientCountRepository := patientcounts.NewPatientCountMongoRepository(mongoDB, dbName)

	// Core services
	formulaSelector := feecalc.NewFormulaSelector(feeFormulaRepository)
	guard := integrity.NewGuard(feeRecordRepository, redisRepository, zapLog, internalConfig)

	validationUsecase := validation.NewValidationUsecase(
		procedureRepository,
		procedureTypeRepository,
		feeRecordRepository,
		patientCountRepository,
		formulaSelector,
		guard,
		aggregateCache,
		eventPublisher,
		internalConfig,
		zapLog,
	)
	feeRecordUsecase := feerecords.NewFeeRecordUsecase(
		feeRecordRepository,
		guard,
		aggregateCache,
		eventPublisher,
		internalConfig,
		zapLog,
	)
	patientCountUsecase := patientcounts.NewPatientCountUsecase(patientCountRepository, settlementQueue, zapLog)
	settlementUsecase := settlement.NewSettlementUsecase(
		patientCountRepository,
		feeRecordRepository,
		formulaSelector,
		guard,
		aggregateCache,
		eventPublisher,
		settlementQueue,
		internalConfig,
		zapLog,
	)

	// Worker
	worker := settlement.NewWorker(zapLog, internalConfig, lockerService, settlementQueue, settlementUsecase, archiver)
	bootstrap.WorkerStop = worker.Start(context.Background())

	// Delivery
	middlewareInstance := middlewares.NewMiddlewares(internalConfig)
	validationController := controllers.NewValidationController(zapLog, validationUsecase)
	feeRecordController := controllers.NewFeeRecordController(zapLog, feeRecordUsecase)
	patientCountController := controllers.NewPatientCountController(zapLog, patientCountUsecase)
	settlementController := controllers.NewSettlementController(zapLog, settlementUsecase)

	routers.SetupRoutes(
		chiRouter,
		internalConfig,
		zapLog,
		middlewareInstance,
		validationController,
		feeRecordController,
		patientCountController,
		settlementController,
	)

	server := &http.Server{
		Addr:    internalConfig.App.Port,
		Handler: chiRouter,
	}

	go func() {
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			consoleLog.Fatalf("Server failed to start: %v", err)
		}
	}()
	consoleLog.Printf("Server listening on %s", internalConfig.App.Port)

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	<-c

	logrus.Println("Waiting for pending requests that already received by server to be processed..")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Second*time.Duration(internalConfig.App.ShutdownTimeoutInSeconds),
	)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		consoleLog.Fatalf("Server forced to shutdown: %v", err)
	}
	if err := bootstrap.Shutdown(shutdownCtx); err != nil {
		consoleLog.Printf("Error during dependency shutdown: %v", err)
	}

	consoleLog.Println("Server exiting")
}
