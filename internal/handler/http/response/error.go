package response

import (
	"errors"
	"net/http"

	"github.com/nomitake/timeclock-backend-go/internal/domain/approval"
	"github.com/nomitake/timeclock-backend-go/internal/domain/auth"
	"github.com/nomitake/timeclock-backend-go/internal/domain/punch"
	"github.com/nomitake/timeclock-backend-go/internal/pkg/businessday"
	"github.com/nomitake/timeclock-backend-go/internal/pkg/validator"
	"github.com/nomitake/timeclock-backend-go/internal/service/file"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// A rejected punch carries the state that made it invalid
	var rejected *punch.RejectedError
	if errors.As(err, &rejected) {
		Conflict(w, rejected.Error())
		return
	}

	switch {
	// Auth
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrManagerRoleRequired):
		Forbidden(w, err.Error())
	case errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrRefreshTokenCookieNotFound),
		errors.Is(err, auth.ErrRefreshTokenCookieEmpty):
		BadRequest(w, err.Error(), nil)

	// Punch domain errors
	case errors.Is(err, punch.ErrPunchNotFound):
		NotFound(w, "Punch not found")
	case errors.Is(err, punch.ErrProofPhotoNotFound):
		NotFound(w, "Punch has no proof photo")
	case errors.Is(err, file.ErrFileNotFound):
		NotFound(w, "File not found")
	case errors.Is(err, punch.ErrMissingProofOfPresence):
		BadRequest(w, "Proof-of-presence photo is required on clock-in", nil)
	case errors.Is(err, punch.ErrUnknownPunchType):
		BadRequest(w, err.Error(), nil)

	// Approval domain errors
	case errors.Is(err, approval.ErrDayLocked):
		Conflict(w, "Business day is approved and locked")
	case errors.Is(err, approval.ErrApprovalNotFound):
		NotFound(w, "Day approval not found")

	// Business-day labels
	case errors.Is(err, businessday.ErrInvalidDateLabel):
		BadRequest(w, "Invalid business-day label, expected YYYY-MM-DD", nil)

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
