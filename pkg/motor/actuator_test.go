package motor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teslashibe/go-rover/pkg/steering"
)

func TestActuator_Transitions(t *testing.T) {
	mock := NewMockDriver()
	a := NewActuator(mock, BackendMock, nil)

	assert.Equal(t, Off, a.State(), "initial state")

	require.NoError(t, a.Apply(steering.Straight))
	assert.Equal(t, Both, a.State())

	require.NoError(t, a.Apply(steering.Left))
	assert.Equal(t, LeftOnly, a.State())

	require.NoError(t, a.Apply(steering.Right))
	assert.Equal(t, RightOnly, a.State())

	assert.Equal(t, []State{Both, LeftOnly, RightOnly}, mock.History())

	applied, failures := a.Stats()
	assert.Equal(t, uint64(3), applied)
	assert.Equal(t, uint64(0), failures)
}

func TestActuator_ShutdownIdempotent(t *testing.T) {
	mock := NewMockDriver()
	a := NewActuator(mock, BackendMock, nil)
	require.NoError(t, a.Apply(steering.Straight))

	for i := 0; i < 3; i++ {
		require.NoError(t, a.Shutdown(), "shutdown call %d", i+1)
		assert.Equal(t, Off, a.State())
	}

	assert.True(t, a.Closed())
	assert.Equal(t, 1, mock.CloseCount(), "driver closed exactly once")
	assert.Equal(t, []State{Both, Off}, mock.History(), "stop issued exactly once")
}

func TestActuator_ApplyAfterShutdown(t *testing.T) {
	mock := NewMockDriver()
	a := NewActuator(mock, BackendMock, nil)
	require.NoError(t, a.Shutdown())

	err := a.Apply(steering.Left)
	assert.ErrorIs(t, err, ErrClosed)
	assert.Equal(t, Off, a.State())
}

func TestActuator_DriverFailure(t *testing.T) {
	boom := errors.New("pin busy")
	mock := NewMockDriver()
	a := NewActuator(mock, BackendMock, nil)

	require.NoError(t, a.Apply(steering.Left))
	mock.ApplyErr = boom

	err := a.Apply(steering.Right)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	var de *DriverError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, BackendMock, de.Backend)
	assert.Equal(t, "apply", de.Op)
	assert.Equal(t, LeftOnly, a.State(), "failed apply keeps previous state")

	_, failures := a.Stats()
	assert.Equal(t, uint64(1), failures)
}

func TestActuator_ShutdownForcesOffOnError(t *testing.T) {
	mock := NewMockDriver()
	a := NewActuator(mock, BackendMock, nil)
	require.NoError(t, a.Apply(steering.Straight))

	mock.ApplyErr = errors.New("bus error")
	mock.CloseErr = errors.New("release failed")

	err := a.Shutdown()
	require.Error(t, err)
	assert.Equal(t, Off, a.State())
	assert.Equal(t, 1, mock.CloseCount())

	assert.NoError(t, a.Shutdown(), "second shutdown is a no-op")
	assert.Equal(t, 1, mock.CloseCount())
}
