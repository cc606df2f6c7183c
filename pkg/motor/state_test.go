package motor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/teslashibe/go-rover/pkg/steering"
)

func TestStateFor(t *testing.T) {
	tests := []struct {
		decision steering.Decision
		want     State
	}{
		{steering.Straight, State{Left: true, Right: true}},
		{steering.Left, State{Left: true, Right: false}},
		{steering.Right, State{Left: false, Right: true}},
		{steering.Decision(99), Off},
	}

	for _, tc := range tests {
		t.Run(tc.decision.String(), func(t *testing.T) {
			assert.Equal(t, tc.want, StateFor(tc.decision))
		})
	}
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "(off,off)", Off.String())
	assert.Equal(t, "(on,off)", LeftOnly.String())
	assert.Equal(t, "(off,on)", RightOnly.String())
	assert.Equal(t, "(on,on)", Both.String())
}
