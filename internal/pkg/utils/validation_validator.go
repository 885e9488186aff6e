package utils

import (
	"jaspel-service/internal/app/models"
	"jaspel-service/internal/pkg/constvars"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("fee_category", validateFeeCategory)
	validate.RegisterValidation("validation_decision", validateValidationDecision)
	validate.RegisterValidation("shift_window", validateShiftWindow)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

func validateFeeCategory(fl validator.FieldLevel) bool {
	return models.FeeCategory(fl.Field().String()).IsValid()
}

func validateValidationDecision(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == constvars.ValidationDecisionApprove || value == constvars.ValidationDecisionReject
}

func validateShiftWindow(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == constvars.ShiftWindowMorning || value == constvars.ShiftWindowAfternoon
}
