package controllers

import (
	"context"
	"jaspel-service/internal/app/services/core/feerecords"
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

type FeeRecordController struct {
	Log              *zap.Logger
	FeeRecordUsecase feerecords.Usecase
}

var (
	feeRecordControllerInstance *FeeRecordController
	onceFeeRecordController     sync.Once
)

func NewFeeRecordController(logger *zap.Logger, feeRecordUsecase feerecords.Usecase) *FeeRecordController {
	onceFeeRecordController.Do(func() {
		feeRecordControllerInstance = &FeeRecordController{
			Log:              logger,
			FeeRecordUsecase: feeRecordUsecase,
		}
	})
	return feeRecordControllerInstance
}

func (ctrl *FeeRecordController) CreateFeeRecord(w http.ResponseWriter, r *http.Request) {
	requestID := utils.RequestIDFromContext(r.Context())

	request := new(requests.CreateFeeRecordRequest)
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		ctrl.Log.Error("Failed to parse create fee record request",
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

	response, err := ctrl.FeeRecordUsecase.CreateFeeRecord(ctx, utils.ActorFromContext(r.Context()), request)
	if err != nil {
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.CreateFeeRecordSuccessMessage, response)
}

func (ctrl *FeeRecordController) UpdateFeeRecord(w http.ResponseWriter, r *http.Request) {
	requestID := utils.RequestIDFromContext(r.Context())

	request := new(requests.UpdateFeeRecordRequest)
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		ctrl.Log.Error("Failed to parse update fee record request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}
	request.FeeRecordID = chi.URLParam(r, constvars.URLParamFeeRecordID)

	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	response, err := ctrl.FeeRecordUsecase.UpdateFeeRecord(ctx, utils.ActorFromContext(r.Context()), request)
	if err != nil {
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.UpdateFeeRecordSuccessMessage, response)
}

func (ctrl *FeeRecordController) DeleteFeeRecord(w http.ResponseWriter, r *http.Request) {
	feeRecordID := chi.URLParam(r, constvars.URLParamFeeRecordID)

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	err := ctrl.FeeRecordUsecase.DeleteFeeRecord(ctx, utils.ActorFromContext(r.Context()), feeRecordID)
	if err != nil {
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.DeleteFeeRecordSuccessMessage, nil)
}

func (ctrl *FeeRecordController) ResetFeeRecordStatus(w http.ResponseWriter, r *http.Request) {
	feeRecordID := chi.URLParam(r, constvars.URLParamFeeRecordID)

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	response, err := ctrl.FeeRecordUsecase.ResetFeeRecordStatus(ctx, utils.ActorFromContext(r.Context()), feeRecordID)
	if err != nil {
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.ResetFeeRecordStatusSuccessMessage, response)
}
