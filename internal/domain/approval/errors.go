package approval

import "errors"

// Approval domain errors
var (
	ErrDayLocked        = errors.New("business day is approved and locked against edits")
	ErrApprovalNotFound = errors.New("day approval record not found")
)
