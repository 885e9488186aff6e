package routers

import (
	"fmt"
	"jaspel-service/internal/app/config"
	"jaspel-service/internal/app/delivery/http/controllers"
	"jaspel-service/internal/app/delivery/http/middlewares"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"go.uber.org/zap"
)

func SetupRoutes(
	router *chi.Mux,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
	middlewares *middlewares.Middlewares,
	validationController *controllers.ValidationController,
	feeRecordController *controllers.FeeRecordController,
	patientCountController *controllers.PatientCountController,
	settlementController *controllers.SettlementController,
) {
	corsOptions := cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	router.Use(cors.Handler(corsOptions))

	rateLimiter := httprate.LimitByIP(internalConfig.App.MaxRequests, time.Second)
	router.Use(rateLimiter)

	router.Use(middlewares.RequestIDMiddleware)
	router.Use(middlewares.Logging(logger))

	endpointPrefix := fmt.Sprintf("/%s", internalConfig.App.EndpointPrefix)
	versionPrefix := fmt.Sprintf("/%s", internalConfig.App.Version)

	router.Route(endpointPrefix, func(r chi.Router) {
		r.Route(versionPrefix, func(r chi.Router) {
			r.Route("/procedures", func(r chi.Router) {
				attachProcedureRoutes(r, middlewares, logger, validationController)
			})

			r.Route("/fees", func(r chi.Router) {
				attachFeeRoutes(r, middlewares, logger, validationController)
			})

			r.Route("/fee-records", func(r chi.Router) {
				attachFeeRecordRoutes(r, middlewares, logger, feeRecordController)
			})

			r.Route("/patient-counts", func(r chi.Router) {
				attachPatientCountRoutes(r, middlewares, logger, patientCountController)
			})

			r.Route("/settlements", func(r chi.Router) {
				attachSettlementRoutes(r, middlewares, logger, settlementController)
			})
		})
	})
}
