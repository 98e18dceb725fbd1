package constants

// Audit log actions.
const (
	Create           = "create"
	Update           = "update"
	Delete           = "delete"
	Deactivate       = "deactivate"
	Activate         = "activate"
	RecordAttendance = "record_attendance"
	TrialExpire      = "trial_expire"
)
