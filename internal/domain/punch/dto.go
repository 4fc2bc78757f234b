package punch

import (
	"mime/multipart"
	"strings"

	"github.com/nomitake/timeclock-backend-go/internal/pkg/validator"
)

// PunchRequest is a terminal punch: one clock action for the
// authenticated staff member, stamped with the server clock unless an
// explicit timestamp is supplied by an admin correction flow.
type PunchRequest struct {
	Type      string  `json:"type"`
	Companion bool    `json:"companion"`
	Timestamp *string `json:"timestamp,omitempty"` // RFC3339, optional

	// Proof-of-presence photo, required on clock-in.
	ProofPhotoURL *string               `json:"-"`
	File          multipart.File        `json:"-"`
	FileHeader    *multipart.FileHeader `json:"-"`
}

func (r *PunchRequest) Validate() error {
	var errs validator.ValidationErrors

	if !Type(r.Type).Valid() {
		errs = append(errs, validator.ValidationError{
			Field:   "type",
			Message: "type must be one of: clock_in, clock_out, break_start, break_end",
		})
	}

	if r.Timestamp != nil && *r.Timestamp != "" {
		if _, valid := validator.IsValidDateTime(*r.Timestamp); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "timestamp",
				Message: "timestamp must be a valid RFC3339 datetime",
			})
		}
	}

	if r.FileHeader != nil {
		filename := r.FileHeader.Filename
		idx := strings.LastIndex(filename, ".")
		ext := ""
		if idx >= 0 {
			ext = strings.ToLower(filename[idx:])
		}
		if ext != ".jpg" && ext != ".jpeg" && ext != ".png" {
			errs = append(errs, validator.ValidationError{
				Field:   "photo",
				Message: "invalid file type: only jpg, jpeg, png allowed",
			})
		} else if r.FileHeader.Size > 10<<20 { // 10MB
			errs = append(errs, validator.ValidationError{
				Field:   "photo",
				Message: "proof photo size must not exceed 10MB",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// EventResponse is the wire shape of one punch event.
type EventResponse struct {
	ID            string  `json:"id"`
	StaffID       string  `json:"staff_id"`
	StoreID       string  `json:"store_id"`
	Type          string  `json:"type"`
	Timestamp     string  `json:"timestamp"` // RFC3339 UTC
	BusinessDate  string  `json:"business_date"`
	Companion     bool    `json:"companion"`
	ProofPhotoURL *string `json:"proof_photo_url,omitempty"`
	ApprovedAt    *string `json:"approved_at,omitempty"`
	ApprovedBy    *string `json:"approved_by,omitempty"`
}

// PunchResult is returned from a successful punch. Events holds every
// event the punch persisted: usually one, two when a clock-out implicitly
// closed an open break.
type PunchResult struct {
	Events []EventResponse `json:"events"`
	State  PresenceState   `json:"state"`
}

// StatusResponse reports the staff member's live presence, derived from
// their most recent punch.
type StatusResponse struct {
	State         PresenceState `json:"state"`
	LastPunchType *string       `json:"last_punch_type,omitempty"`
	LastPunchAt   *string       `json:"last_punch_at,omitempty"`
	BusinessDate  string        `json:"business_date"`
	CanClockIn    bool          `json:"can_clock_in"`
	CanClockOut   bool          `json:"can_clock_out"`
	CanStartBreak bool          `json:"can_start_break"`
	CanEndBreak   bool          `json:"can_end_break"`
}

// ListFilter selects punches for the admin log view: either one business
// day by label, or an explicit label range, optionally one staff member.
type ListFilter struct {
	Date      *string `json:"date,omitempty"`       // YYYY-MM-DD business-day label
	StartDate *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate   *string `json:"end_date,omitempty"`   // YYYY-MM-DD
	StaffID   *string `json:"staff_id,omitempty"`
}

func (f *ListFilter) Validate() error {
	var errs validator.ValidationErrors

	for field, v := range map[string]*string{
		"date":       f.Date,
		"start_date": f.StartDate,
		"end_date":   f.EndDate,
	} {
		if v != nil && *v != "" {
			if _, valid := validator.IsValidDate(*v); !valid {
				errs = append(errs, validator.ValidationError{
					Field:   field,
					Message: field + " must be in YYYY-MM-DD format",
				})
			}
		}
	}

	if f.Date == nil && f.StartDate == nil && f.EndDate == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date or start_date/end_date is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ListResponse wraps the punches of a day or range, ascending by time.
type ListResponse struct {
	Events []EventResponse `json:"events"`
}

// UpdateRequest is an administrative correction of a recorded punch.
type UpdateRequest struct {
	ID        string  `json:"-"`
	Type      *string `json:"type,omitempty"`
	Timestamp *string `json:"timestamp,omitempty"` // RFC3339
	Companion *bool   `json:"companion,omitempty"`
}

func (r *UpdateRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}

	if r.Type != nil && !Type(*r.Type).Valid() {
		errs = append(errs, validator.ValidationError{
			Field:   "type",
			Message: "type must be one of: clock_in, clock_out, break_start, break_end",
		})
	}

	if r.Timestamp != nil && *r.Timestamp != "" {
		if _, valid := validator.IsValidDateTime(*r.Timestamp); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "timestamp",
				Message: "timestamp must be a valid RFC3339 datetime",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}
