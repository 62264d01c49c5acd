package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestState_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from State
		to   State
		want bool
	}{
		{StateCreated, StateConfirmed, true},
		{StateCreated, StateCancelled, true},
		{StateCreated, StateRescheduled, true},
		{StateCreated, StateCompleted, false},
		{StateCreated, StateAbsent, false},
		{StateConfirmed, StateCancelled, true},
		{StateConfirmed, StateRescheduled, true},
		{StateConfirmed, StateCompleted, true},
		{StateConfirmed, StateAbsent, true},
		{StateConfirmed, StateCreated, false},
		{StateRescheduled, StateRescheduled, true},
		{StateRescheduled, StateConfirmed, true},
		{StateRescheduled, StateCancelled, true},
		{StateRescheduled, StateCompleted, false},
		{StateCancelled, StateConfirmed, false},
		{StateCompleted, StateRescheduled, false},
		{StateAbsent, StateConfirmed, false},
	}

	for _, tt := range tests {
		t.Run(tt.from.String()+"->"+tt.to.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestState_IsTerminal(t *testing.T) {
	assert.True(t, StateCancelled.IsTerminal())
	assert.True(t, StateCompleted.IsTerminal())
	assert.True(t, StateAbsent.IsTerminal())
	assert.False(t, StateCreated.IsTerminal())
	assert.False(t, StateRescheduled.IsTerminal())
	assert.False(t, State(42).IsTerminal())
}

func TestParseState(t *testing.T) {
	state, err := ParseState("rescheduled")
	require.NoError(t, err)
	assert.Equal(t, StateRescheduled, state)

	_, err = ParseState("archived")
	assert.ErrorIs(t, err, ErrUnknownState)

	assert.Equal(t, "State(42)", State(42).String())
}

func TestState_AllowedTransitionsIsCopy(t *testing.T) {
	next := StateCreated.AllowedTransitions()
	next[0] = StateAbsent
	assert.True(t, StateCreated.CanTransitionTo(StateConfirmed))
	assert.False(t, StateCreated.CanTransitionTo(StateAbsent))
}
