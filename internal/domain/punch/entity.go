package punch

import (
	"time"
)

// Type is the closed set of clock actions a terminal can record.
type Type string

const (
	TypeClockIn    Type = "clock_in"
	TypeClockOut   Type = "clock_out"
	TypeBreakStart Type = "break_start"
	TypeBreakEnd   Type = "break_end"
)

func (t Type) Valid() bool {
	switch t {
	case TypeClockIn, TypeClockOut, TypeBreakStart, TypeBreakEnd:
		return true
	}
	return false
}

// PresenceState is derived from the most recent punch, never persisted.
type PresenceState string

const (
	StateOff     PresenceState = "off"
	StateWorking PresenceState = "working"
	StateOnBreak PresenceState = "on_break"
)

// Event is one recorded clock action in the attendance log.
type Event struct {
	ID        string
	StaffID   string
	StoreID   string
	Type      Type
	Timestamp time.Time // UTC-normalized absolute instant

	// Companion is only meaningful on clock-in; it rides along for the
	// sales pages and plays no part in timekeeping math.
	Companion bool

	ProofPhotoURL *string

	ApprovedAt *time.Time
	ApprovedBy *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Approved reports whether the event is inside a locked business day.
func (e Event) Approved() bool {
	return e.ApprovedAt != nil
}
