package routers

import (
	"jaspel-service/internal/app/delivery/http/controllers"
	"jaspel-service/internal/app/delivery/http/middlewares"
	"jaspel-service/internal/pkg/constvars"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func attachProcedureRoutes(router chi.Router, middlewares *middlewares.Middlewares, logger *zap.Logger, validationController *controllers.ValidationController) {
	router.With(middlewares.Authenticate(logger)).
		Post("/{"+constvars.URLParamProcedureID+"}/validation", validationController.SubmitProcedureValidation)
}

func attachFeeRoutes(router chi.Router, middlewares *middlewares.Middlewares, logger *zap.Logger, validationController *controllers.ValidationController) {
	router.With(middlewares.Authenticate(logger)).
		Post("/preview", validationController.PreviewFee)
}

func attachFeeRecordRoutes(router chi.Router, middlewares *middlewares.Middlewares, logger *zap.Logger, feeRecordController *controllers.FeeRecordController) {
	authenticate := middlewares.Authenticate(logger)
	router.With(authenticate).Post("/", feeRecordController.CreateFeeRecord)
	router.With(authenticate).Put("/{"+constvars.URLParamFeeRecordID+"}", feeRecordController.UpdateFeeRecord)
	router.With(authenticate).Delete("/{"+constvars.URLParamFeeRecordID+"}", feeRecordController.DeleteFeeRecord)
	router.With(authenticate).Post("/{"+constvars.URLParamFeeRecordID+"}/status-reset", feeRecordController.ResetFeeRecordStatus)
}

func attachPatientCountRoutes(router chi.Router, middlewares *middlewares.Middlewares, logger *zap.Logger, patientCountController *controllers.PatientCountController) {
	router.With(middlewares.Authenticate(logger)).
		Post("/{"+constvars.URLParamPatientCountID+"}/approval", patientCountController.ApprovePatientCount)
}

func attachSettlementRoutes(router chi.Router, middlewares *middlewares.Middlewares, logger *zap.Logger, settlementController *controllers.SettlementController) {
	router.With(middlewares.Authenticate(logger)).
		Post("/recalculate", settlementController.RecalculateSettlement)
}
