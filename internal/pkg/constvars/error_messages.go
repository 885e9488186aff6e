package constvars

// Client-facing messages.
const (
	ErrClientCannotProcessRequest          = "We cannot process your request, please check and try again"
	ErrClientSomethingWrongWithApplication = "Something went wrong with the application, please try again later"
	ErrClientNotAuthorized                 = "You are not authorized to perform this action"
	ErrClientServerLongRespond             = "Server takes too long to respond, please try again later"

	ErrClientAmountOutOfRange   = "Fee amount is outside the allowed range"
	ErrClientDateOutOfRange     = "Settlement date is outside the allowed window"
	ErrClientInvalidCategory    = "Fee category is not recognized"
	ErrClientSuspectedTestData  = "Fee amount matches a known placeholder value and was rejected"
	ErrClientRecordImmutable    = "This fee record is already settled and can no longer be changed"
	ErrClientNoActiveFormula    = "No active fee formula is configured, please contact the administrator"
	ErrClientInvalidFormula     = "Fee formula configuration is invalid, please contact the administrator"
	ErrClientProcedureNotFound  = "Procedure is not found"
	ErrClientFeeRecordNotFound  = "Fee record is not found"
	ErrClientPatientCountNotFound = "Daily patient count is not found"
	ErrClientInvalidDecision    = "Validation decision must be either approve or reject"
	ErrClientProcedureConflict  = "Procedure was modified by another validation request, please retry"
	ErrClientPreviewTarget      = "Preview requires exactly one of procedure or patient count"
	ErrClientDuplicateFeeRecord = "A fee record for this settlement already exists"
)

// Developer-facing messages.
const (
	ErrDevValidationFailed     = "Request validation failed"
	ErrDevCannotParseJSON      = "Failed to parse JSON request body"
	ErrDevCannotMarshalJSON    = "Failed to marshal value to JSON"
	ErrDevServerDeadlineExceeded = "Server deadline exceeded while processing request"
	ErrDevInvalidInput         = "Invalid input"
	ErrDevPreviewTarget        = "Exactly one of procedure_id or patient_count_id must be set"
	ErrDevDuplicateFeeRecord   = "Fee record natural key already exists in storage"

	ErrDevAuthTokenMissing          = "Authorization token is missing"
	ErrDevAuthTokenInvalidOrExpired = "Authorization token is invalid or expired"
	ErrDevAuthSigningMethod         = "Unexpected JWT signing method"
	ErrDevActorLacksCapability      = "Actor does not hold capability: %s"

	ErrDevAmountOutOfRange  = "Nominal %d is outside (0, %d]"
	ErrDevDateOutOfRange    = "Settlement date %s is outside [-%dd, +%dd] of now"
	ErrDevInvalidCategory   = "Category %q is not a member of the fee category enum"
	ErrDevSuspectedTestData = "Nominal %d matches the placeholder blacklist"
	ErrDevRecordImmutable   = "Fee record %s is settled or past retention and cannot be mutated"
	ErrDevNoActiveFormula   = "No active threshold formula found for any shift window"
	ErrDevInvalidFormula    = "Formula rejected: %s"

	ErrDevProcedureNotFound    = "Procedure %s does not exist"
	ErrDevFeeRecordNotFound    = "Fee record %s does not exist"
	ErrDevPatientCountNotFound = "Daily patient count %s does not exist"
	ErrDevProcedureVersionConflict = "Procedure %s version check failed during status transition"

	ErrDevDBFailedToFindDocument    = "MongoDB failed to find document"
	ErrDevDBFailedToInsertDocument  = "MongoDB failed to insert document"
	ErrDevDBFailedToUpdateDocument  = "MongoDB failed to update document"
	ErrDevDBFailedToDeleteDocument  = "MongoDB failed to delete document"
	ErrDevDBFailedToIterateDocuments = "MongoDB failed to iterate documents"
	ErrDevDBStringNotObjectID       = "String cannot be converted to ObjectID"

	ErrDevRedisGetData        = "Redis failed to get data"
	ErrDevRedisSetData        = "Redis failed to set data"
	ErrDevRedisDeleteData     = "Redis failed to delete data"
	ErrDevRedisIncrementValue = "Redis failed to increment value"

	ErrDevRabbitMQPublishMessage = "RabbitMQ failed to publish message to queue %s"

	ErrDevMinioFailedToCreateObject = "Minio failed to create object in bucket %s"
)

var CustomValidationErrorMessages = map[string]string{
	"required": "is required",
	"min":      "must be at least %s",
	"max":      "maximum at %s",
	"oneof":    "must be one of [%s]",
	"gt":       "must be greater than %s",
	"gte":      "must be greater than or equal to %s",
	"lte":      "must be less than or equal to %s",
	"datetime": "must be a valid date in format %s",

	"fee_category":        "must be a recognized fee category",
	"validation_decision": "must be either approve or reject",
	"shift_window":        "must be either morning or afternoon",
}

var TagsWithParams = map[string]bool{
	"min":      true,
	"max":      true,
	"oneof":    true,
	"gt":       true,
	"gte":      true,
	"lte":      true,
	"datetime": true,
}
