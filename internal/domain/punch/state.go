package punch

// DeriveState reconstructs a staff member's presence from their most
// recent punch. last is nil when no punch has ever been recorded.
func DeriveState(last *Type) PresenceState {
	if last == nil {
		return StateOff
	}
	switch *last {
	case TypeClockOut:
		return StateOff
	case TypeBreakStart:
		return StateOnBreak
	default: // clock_in, break_end
		return StateWorking
	}
}

// ValidateTransition checks whether the requested punch type is a legal
// move from the current presence state. It returns a *RejectedError on an
// illegal transition; callers must not persist anything in that case.
//
//	Off      -> clock_in
//	Working  -> clock_out | break_start
//	OnBreak  -> clock_out | break_end
//
// Clocking out while on break is legal but the break must be closed
// first; see NeedsImplicitBreakEnd.
func ValidateTransition(current PresenceState, requested Type) error {
	allowed := false
	switch current {
	case StateOff:
		allowed = requested == TypeClockIn
	case StateWorking:
		allowed = requested == TypeClockOut || requested == TypeBreakStart
	case StateOnBreak:
		allowed = requested == TypeClockOut || requested == TypeBreakEnd
	}
	if !allowed {
		return &RejectedError{State: current, Requested: requested}
	}
	return nil
}

// NeedsImplicitBreakEnd reports whether persisting the requested punch
// requires a synthesized break-end at the same instant first, so the
// duration calculator never sees an unterminated break.
func NeedsImplicitBreakEnd(current PresenceState, requested Type) bool {
	return current == StateOnBreak && requested == TypeClockOut
}
