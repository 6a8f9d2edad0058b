package voice

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransitionForwardEdges(t *testing.T) {
	assert.NoError(t, transition(StateIdle, StateConnecting))
	assert.NoError(t, transition(StateConnecting, StateReady))
	assert.NoError(t, transition(StateReady, StateActive))
}

func TestTransitionAnyStateMayClose(t *testing.T) {
	for _, s := range []State{StateIdle, StateConnecting, StateReady, StateActive, StateClosed} {
		assert.NoError(t, transition(s, StateClosed), s.String())
	}
}

func TestTransitionRejectsSkipsAndReversals(t *testing.T) {
	assert.Error(t, transition(StateIdle, StateReady))
	assert.Error(t, transition(StateIdle, StateActive))
	assert.Error(t, transition(StateReady, StateConnecting))
	assert.Error(t, transition(StateActive, StateReady))
	assert.Error(t, transition(StateClosed, StateConnecting))
}
