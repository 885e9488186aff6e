package constvars

type ContextKey string

const (
	CONTEXT_REQUEST_ID_KEY           ContextKey = "request_id"
	CONTEXT_IS_CLIENT_REQUEST_ID_KEY ContextKey = "is_client_request_id"
	CONTEXT_ACTOR_KEY                ContextKey = "actor"
)

const (
	ResourceProcedures    = "procedures"
	ResourceFeeRecords    = "fee-records"
	ResourcePatientCounts = "patient-counts"
	ResourceSettlements   = "settlements"
	ResourceFees          = "fees"
)

// Validation statuses shared by Procedure and FeeRecord.
const (
	ValidationStatusPending  = "pending"
	ValidationStatusApproved = "approved"
	ValidationStatusRejected = "rejected"
)

const (
	ValidationDecisionApprove = "approve"
	ValidationDecisionReject  = "reject"
)

// Capabilities carried as JWT claims.
const (
	CapabilityValidateFee = "validate_fee"
	CapabilityResetFee    = "reset_fee"
)

// Shift windows for threshold formulas.
const (
	ShiftWindowMorning   = "morning"
	ShiftWindowAfternoon = "afternoon"

	ShiftMorningStartHour   = 7
	ShiftAfternoonStartHour = 14
	ShiftAfternoonEndHour   = 21
)

// Integrity guard defaults. NominalCeiling and the date window are
// overridable through InternalConfig.
const (
	DefaultNominalCeiling        = 10_000_000
	SettlementDateMaxPastDays    = 365
	SettlementDateMaxFutureDays  = 7
	FeeRecordRetentionDays       = 30
	RapidCreationWindowInMinutes = 5
	RapidCreationFlagThreshold   = 5
	RapidCreationAlertThreshold  = 20
	RoundNumberMinimumNominal    = 100_000
	RoundNumberDivisor           = 10_000
)

// Anomaly flag names, logged with every suspicious FeeRecord write.
const (
	AnomalyFlagRoundNumber        = "round_number"
	AnomalyFlagDummyPattern       = "dummy_pattern"
	AnomalyFlagOrphanConsultation = "orphan_consultation"
	AnomalyFlagRapidCreation      = "rapid_creation"
	AnomalyFlagPossibleDuplicate  = "possible_duplicate"
)

const (
	MongoCollectionFeeRecords     = "fee_records"
	MongoCollectionProcedures     = "procedures"
	MongoCollectionProcedureTypes = "procedure_types"
	MongoCollectionPatientCounts  = "daily_patient_counts"
	MongoCollectionFeeFormulas    = "fee_formulas"
)

// Redis key formats.
const (
	RedisKeyAggregateMonthFormat   = "jaspel:aggregate:%s:%s"       // beneficiaryID, yyyy-mm
	RedisKeyAggregateDayFormat     = "jaspel:aggregate:%s:day:%s"   // beneficiaryID, yyyy-mm-dd
	RedisKeySummaryFormat          = "jaspel:summary:%s"            // beneficiaryID
	RedisKeyRapidCreationFormat    = "jaspel:rapid-creation:%s:%d"  // creatorID, window bucket
	RedisKeySettlementWorkerLock   = "jaspel:settlement:worker:lock"
	RedisFieldAggregateCount       = "count"
	RedisFieldAggregateTotal       = "total"
	RedisFieldAggregatePending     = "pending"
	RedisFieldAggregateApproved    = "approved"
)

const (
	URLParamProcedureID    = "procedureID"
	URLParamFeeRecordID    = "feeRecordID"
	URLParamPatientCountID = "patientCountID"
)

const (
	AppEnvProduction  = "production"
	AppEnvDevelopment = "development"
)

// Event types published to the notification queue.
const (
	EventFeeRecordCreated           = "fee_record.created"
	EventProcedureValidationChanged = "procedure.validation_changed"
	EventFeeRecordRejectedCascade   = "fee_record.rejected_cascade"
)

// Clock source for formula selection during batch settlement.
const (
	SettlementFormulaClockNow    = "now"
	SettlementFormulaClockRecord = "record"
)
