package exceptions

import (
	"fmt"
	"jaspel-service/internal/pkg/constvars"
	"time"
)

// ValidationError family: the Integrity Guard rejected a write. These are
// user-correctable and must not be retried.
var (
	ErrAmountOutOfRange = func(nominal, ceiling int64) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusUnprocessableEntity, constvars.ErrClientAmountOutOfRange, fmt.Sprintf(constvars.ErrDevAmountOutOfRange, nominal, ceiling))
	}
	ErrDateOutOfRange = func(date time.Time) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusUnprocessableEntity, constvars.ErrClientDateOutOfRange, fmt.Sprintf(constvars.ErrDevDateOutOfRange, date.Format("2006-01-02"), constvars.SettlementDateMaxPastDays, constvars.SettlementDateMaxFutureDays))
	}
	ErrInvalidCategory = func(category string) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusUnprocessableEntity, constvars.ErrClientInvalidCategory, fmt.Sprintf(constvars.ErrDevInvalidCategory, category))
	}
	ErrSuspectedTestData = func(nominal int64) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusUnprocessableEntity, constvars.ErrClientSuspectedTestData, fmt.Sprintf(constvars.ErrDevSuspectedTestData, nominal))
	}
	ErrInvalidDecision = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, constvars.ErrClientInvalidDecision, constvars.ErrDevInvalidInput)
	}
	ErrPreviewTarget = func() *CustomError {
		return BuildNewCustomError(nil, constvars.StatusBadRequest, constvars.ErrClientPreviewTarget, constvars.ErrDevPreviewTarget)
	}
)

// AuthorizationError family.
var (
	ErrTokenMissing = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusUnauthorized, constvars.ErrClientNotAuthorized, constvars.ErrDevAuthTokenMissing)
	}
	ErrTokenInvalidOrExpired = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusUnauthorized, constvars.ErrClientNotAuthorized, constvars.ErrDevAuthTokenInvalidOrExpired)
	}
	ErrUnauthorizedCapability = func(capability string) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusForbidden, constvars.ErrClientNotAuthorized, fmt.Sprintf(constvars.ErrDevActorLacksCapability, capability))
	}
)

// ImmutabilityError family: mutation of settled or aged records.
var (
	ErrRecordImmutable = func(feeRecordID string) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusConflict, constvars.ErrClientRecordImmutable, fmt.Sprintf(constvars.ErrDevRecordImmutable, feeRecordID))
	}
)

// ConfigurationError family: missing or malformed fee formulas. Not
// user-correctable; requires operator action.
var (
	ErrNoActiveFormula = func() *CustomError {
		return BuildNewCustomError(nil, constvars.StatusServiceUnavailable, constvars.ErrClientNoActiveFormula, constvars.ErrDevNoActiveFormula)
	}
	ErrInvalidFormula = func(reason string) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusUnprocessableEntity, constvars.ErrClientInvalidFormula, fmt.Sprintf(constvars.ErrDevInvalidFormula, reason))
	}
)

// Not-found and conflict errors.
var (
	ErrProcedureNotFound = func(procedureID string) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusNotFound, constvars.ErrClientProcedureNotFound, fmt.Sprintf(constvars.ErrDevProcedureNotFound, procedureID))
	}
	ErrFeeRecordNotFound = func(feeRecordID string) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusNotFound, constvars.ErrClientFeeRecordNotFound, fmt.Sprintf(constvars.ErrDevFeeRecordNotFound, feeRecordID))
	}
	ErrPatientCountNotFound = func(patientCountID string) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusNotFound, constvars.ErrClientPatientCountNotFound, fmt.Sprintf(constvars.ErrDevPatientCountNotFound, patientCountID))
	}
	ErrProcedureVersionConflict = func(procedureID string) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusConflict, constvars.ErrClientProcedureConflict, fmt.Sprintf(constvars.ErrDevProcedureVersionConflict, procedureID))
	}
	ErrDuplicateFeeRecord = func() *CustomError {
		return BuildNewCustomError(nil, constvars.StatusConflict, constvars.ErrClientDuplicateFeeRecord, constvars.ErrDevDuplicateFeeRecord)
	}
)

// Request parsing and validation.
var (
	ErrInputValidation = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, FormatFirstValidationError(err), constvars.ErrDevValidationFailed)
	}
	ErrCannotParseJSON = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, constvars.ErrClientCannotProcessRequest, constvars.ErrDevCannotParseJSON)
	}
	ErrCannotMarshalJSON = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevCannotMarshalJSON)
	}
	ErrServerDeadlineExceeded = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusGatewayTimeout, constvars.ErrClientServerLongRespond, constvars.ErrDevServerDeadlineExceeded)
	}
)

// TransientError family: storage/queue failures surfaced to the retrying
// job scheduler.
var (
	ErrMongoDBFindDocument = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevDBFailedToFindDocument)
	}
	ErrMongoDBInsertDocument = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevDBFailedToInsertDocument)
	}
	ErrMongoDBUpdateDocument = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevDBFailedToUpdateDocument)
	}
	ErrMongoDBDeleteDocument = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevDBFailedToDeleteDocument)
	}
	ErrMongoDBIterateDocuments = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevDBFailedToIterateDocuments)
	}
	ErrMongoDBNotObjectID = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevDBStringNotObjectID)
	}
	ErrRedisGet = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevRedisGetData)
	}
	ErrRedisSet = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevRedisSetData)
	}
	ErrRedisDelete = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevRedisDeleteData)
	}
	ErrRedisIncrement = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevRedisIncrementValue)
	}
	ErrRabbitMQPublishMessage = func(err error, queueName string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, fmt.Sprintf(constvars.ErrDevRabbitMQPublishMessage, queueName))
	}
	ErrMinioCreateObject = func(err error, bucketName string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, fmt.Sprintf(constvars.ErrDevMinioFailedToCreateObject, bucketName))
	}
)
