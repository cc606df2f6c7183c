package motor

import "sync"

// MockDriver records every joint state it receives. Use it to exercise the
// control loop without hardware.
type MockDriver struct {
	mu      sync.Mutex
	history []State
	closes  int

	// ApplyErr, when set, is returned by Apply and the state is not recorded.
	ApplyErr error

	// CloseErr, when set, is returned by Close.
	CloseErr error
}

// NewMockDriver creates an empty mock driver.
func NewMockDriver() *MockDriver {
	return &MockDriver{}
}

// Apply records s.
func (m *MockDriver) Apply(s State) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ApplyErr != nil {
		return m.ApplyErr
	}
	m.history = append(m.history, s)
	return nil
}

// Close counts calls.
func (m *MockDriver) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closes++
	return m.CloseErr
}

// History returns a copy of all recorded states.
func (m *MockDriver) History() []State {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]State, len(m.history))
	copy(out, m.history)
	return out
}

// Last returns the most recent state, or Off if none.
func (m *MockDriver) Last() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.history) == 0 {
		return Off
	}
	return m.history[len(m.history)-1]
}

// CloseCount returns how many times Close was called.
func (m *MockDriver) CloseCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closes
}
