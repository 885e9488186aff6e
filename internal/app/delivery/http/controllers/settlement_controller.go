package controllers

import (
	"context"
	"jaspel-service/internal/app/services/core/settlement"
	"jaspel-service/internal/pkg/constvars"
	"jaspel-service/internal/pkg/dto/requests"
	"jaspel-service/internal/pkg/exceptions"
	"jaspel-service/internal/pkg/utils"
	"net/http"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type SettlementController struct {
	Log               *zap.Logger
	SettlementUsecase settlement.Usecase
}

var (
	settlementControllerInstance *SettlementController
	onceSettlementController     sync.Once
)

func NewSettlementController(logger *zap.Logger, settlementUsecase settlement.Usecase) *SettlementController {
	onceSettlementController.Do(func() {
		settlementControllerInstance = &SettlementController{
			Log:               logger,
			SettlementUsecase: settlementUsecase,
		}
	})
	return settlementControllerInstance
}

func (ctrl *SettlementController) RecalculateSettlement(w http.ResponseWriter, r *http.Request) {
	requestID := utils.RequestIDFromContext(r.Context())

	request := new(requests.RecalculateSettlementRequest)
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		ctrl.Log.Error("Failed to parse settlement recalculation request",
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

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	response, err := ctrl.SettlementUsecase.RecalculateSettlement(ctx, request)
	if err != nil {
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusAccepted, constvars.RecalculateSettlementSuccessMessage, response)
}
