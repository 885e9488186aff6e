package controllers

import (
	"context"
	"jaspel-service/internal/app/services/core/patientcounts"
	"jaspel-service/internal/pkg/constvars"
	"jaspel-service/internal/pkg/exceptions"
	"jaspel-service/internal/pkg/utils"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type PatientCountController struct {
	Log                 *zap.Logger
	PatientCountUsecase patientcounts.Usecase
}

var (
	patientCountControllerInstance *PatientCountController
	oncePatientCountController     sync.Once
)

func NewPatientCountController(logger *zap.Logger, patientCountUsecase patientcounts.Usecase) *PatientCountController {
	oncePatientCountController.Do(func() {
		patientCountControllerInstance = &PatientCountController{
			Log:                 logger,
			PatientCountUsecase: patientCountUsecase,
		}
	})
	return patientCountControllerInstance
}

func (ctrl *PatientCountController) ApprovePatientCount(w http.ResponseWriter, r *http.Request) {
	patientCountID := chi.URLParam(r, constvars.URLParamPatientCountID)

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	count, err := ctrl.PatientCountUsecase.ApprovePatientCount(ctx, utils.ActorFromContext(r.Context()), patientCountID)
	if err != nil {
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusAccepted, constvars.ApprovePatientCountSuccessMessage, count)
}
