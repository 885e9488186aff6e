package constvars

const (
	LoggingRequestIDKey          = "request_id"
	LoggingMethodKey             = "method"
	LoggingEndpointKey           = "endpoint"
	LoggingRemoteAddrKey         = "remote_addr"
	LoggingUserAgentKey          = "user_agent"
	LoggingQueryKey              = "query"
	LoggingStatusCodeKey         = "status_code"
	LoggingDurationKey           = "duration"
	LoggingSuccessKey            = "success"
	LoggingRedisKey              = "redis_key"
	LoggingLockExpirationTimeKey = "lock_expiration_time"

	LoggingProcedureIDKey    = "procedure_id"
	LoggingFeeRecordIDKey    = "fee_record_id"
	LoggingPatientCountIDKey = "patient_count_id"
	LoggingBeneficiaryIDKey  = "beneficiary_id"
	LoggingCategoryKey       = "category"
	LoggingNominalKey        = "nominal"
	LoggingAnomalyFlagsKey   = "anomaly_flags"
	LoggingDecisionKey       = "decision"
	LoggingValidatorKey      = "validator"
	LoggingMessageIDKey      = "message_id"
	LoggingFailedCountKey    = "failed_count"
)
