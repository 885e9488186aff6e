package controllers

import (
	"context"
	"jaspel-service/internal/app/services/core/validation"
	"jaspel-service/internal/pkg/constvars"
	"jaspel-service/internal/pkg/dto/requests"
	"jaspel-service/internal/pkg/exceptions"
	"jaspel-service/internal/pkg/utils"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type ValidationController struct {
	Log               *zap.Logger
	ValidationUsecase validation.Usecase
}

var (
	validationControllerInstance *ValidationController
	onceValidationController     sync.Once
)

func NewValidationController(logger *zap.Logger, validationUsecase validation.Usecase) *ValidationController {
	onceValidationController.Do(func() {
		validationControllerInstance = &ValidationController{
			Log:               logger,
			ValidationUsecase: validationUsecase,
		}
	})
	return validationControllerInstance
}

func (ctrl *ValidationController) SubmitProcedureValidation(w http.ResponseWriter, r *http.Request) {
	requestID := utils.RequestIDFromContext(r.Context())

	request := new(requests.SubmitProcedureValidationRequest)
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		ctrl.Log.Error("Failed to parse procedure validation request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}
	request.ProcedureID = chi.URLParam(r, constvars.URLParamProcedureID)

	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	response, err := ctrl.ValidationUsecase.SubmitProcedureValidation(ctx, utils.ActorFromContext(r.Context()), request)
	if err != nil {
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.SubmitProcedureValidationSuccessMessage, response)
}

func (ctrl *ValidationController) PreviewFee(w http.ResponseWriter, r *http.Request) {
	requestID := utils.RequestIDFromContext(r.Context())

	request := new(requests.PreviewFeeRequest)
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		ctrl.Log.Error("Failed to parse fee preview request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}
	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	response, err := ctrl.ValidationUsecase.PreviewFee(ctx, request)
	if err != nil {
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.PreviewFeeSuccessMessage, response)
}
