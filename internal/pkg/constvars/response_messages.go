package constvars

const (
	SubmitProcedureValidationSuccessMessage = "Successfully submitted procedure validation"
	PreviewFeeSuccessMessage                = "Successfully computed fee preview"
	CreateFeeRecordSuccessMessage           = "Successfully created fee record"
	UpdateFeeRecordSuccessMessage           = "Successfully updated fee record"
	DeleteFeeRecordSuccessMessage           = "Successfully deleted fee record"
	ResetFeeRecordStatusSuccessMessage      = "Successfully reset fee record status"
	ApprovePatientCountSuccessMessage       = "Successfully approved daily patient count, settlement is queued"
	RecalculateSettlementSuccessMessage     = "Successfully queued settlement recalculation"
)

const ResponseUnknown = "unknown"
