package punch

import (
	"errors"
	"fmt"
)

// Punch domain errors
var (
	ErrMissingProofOfPresence = errors.New("clock-in requires a proof-of-presence photo")
	ErrPunchNotFound          = errors.New("punch event not found")
	ErrProofPhotoNotFound     = errors.New("punch has no proof photo")
	ErrUnknownPunchType       = errors.New("unknown punch type")
)

// RejectedError signals an illegal punch transition. It carries the state
// the staff member was in so the terminal can tell them why.
type RejectedError struct {
	State     PresenceState
	Requested Type
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("punch rejected: cannot %s while %s", e.Requested, e.State)
}
