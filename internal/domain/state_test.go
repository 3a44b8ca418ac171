package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestState_Transition(t *testing.T) {
	happyPath := []State{
		StateConfigured, StateCreating, StateCreated, StateStarting,
		StateAwaitingReadiness, StateReady, StateStopping, StateRemoved,
	}
	for i := 0; i < len(happyPath)-1; i++ {
		next, err := happyPath[i].Transition(happyPath[i+1])
		assert.NoError(t, err, "%s -> %s", happyPath[i], happyPath[i+1])
		assert.Equal(t, happyPath[i+1], next)
	}

	for _, s := range happyPath[:len(happyPath)-1] {
		assert.True(t, s.CanTransition(StateFailed), "%s should be able to fail", s)
	}
}

func TestState_IllegalTransitions(t *testing.T) {
	tests := []struct {
		from State
		to   State
	}{
		{StateConfigured, StateReady},
		{StateCreated, StateAwaitingReadiness},
		{StateReady, StateCreating},
		{StateRemoved, StateStopping},
		{StateFailed, StateRemoved},
		{StateFailed, StateFailed},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			got, err := tt.from.Transition(tt.to)
			assert.True(t, errors.Is(err, ErrIllegalTransition))
			assert.Equal(t, tt.from, got)
		})
	}
}

func TestState_Terminal(t *testing.T) {
	assert.True(t, StateRemoved.Terminal())
	assert.True(t, StateFailed.Terminal())
	assert.False(t, StateReady.Terminal())
}
