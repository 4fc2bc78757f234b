package punch

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func typePtr(t Type) *Type { return &t }

func TestDeriveState(t *testing.T) {
	cases := []struct {
		name string
		last *Type
		want PresenceState
	}{
		{"no punches ever", nil, StateOff},
		{"after clock-out", typePtr(TypeClockOut), StateOff},
		{"after clock-in", typePtr(TypeClockIn), StateWorking},
		{"after break-end", typePtr(TypeBreakEnd), StateWorking},
		{"after break-start", typePtr(TypeBreakStart), StateOnBreak},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DeriveState(tc.last))
		})
	}
}

func TestValidateTransition(t *testing.T) {
	cases := []struct {
		state     PresenceState
		requested Type
		allow     bool
	}{
		{StateOff, TypeClockIn, true},
		{StateOff, TypeClockOut, false},
		{StateOff, TypeBreakStart, false},
		{StateOff, TypeBreakEnd, false},

		{StateWorking, TypeClockIn, false},
		{StateWorking, TypeClockOut, true},
		{StateWorking, TypeBreakStart, true},
		{StateWorking, TypeBreakEnd, false},

		{StateOnBreak, TypeClockIn, false},
		{StateOnBreak, TypeClockOut, true}, // auto-closes the break first
		{StateOnBreak, TypeBreakStart, false},
		{StateOnBreak, TypeBreakEnd, true},
	}

	for _, tc := range cases {
		err := ValidateTransition(tc.state, tc.requested)
		if tc.allow {
			assert.NoError(t, err, "%s -> %s", tc.state, tc.requested)
			continue
		}
		var rejected *RejectedError
		assert.True(t, errors.As(err, &rejected), "%s -> %s", tc.state, tc.requested)
		assert.Equal(t, tc.state, rejected.State)
		assert.Equal(t, tc.requested, rejected.Requested)
	}
}

func TestNeedsImplicitBreakEnd(t *testing.T) {
	assert.True(t, NeedsImplicitBreakEnd(StateOnBreak, TypeClockOut))
	assert.False(t, NeedsImplicitBreakEnd(StateWorking, TypeClockOut))
	assert.False(t, NeedsImplicitBreakEnd(StateOnBreak, TypeBreakEnd))
}
