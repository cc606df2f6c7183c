package motor

// Driver is the capability implemented by every motor backend.
// Drivers must accept any of the four joint states and must tolerate
// Close being called more than once.
type Driver interface {
	// Apply sets both channels at once.
	Apply(s State) error

	// Close stops both motors and releases the hardware.
	Close() error
}

// describe returns a human-readable summary of a joint state.
func describe(s State) string {
	switch s {
	case Both:
		return "both motors on"
	case LeftOnly:
		return "left motor on"
	case RightOnly:
		return "right motor on"
	default:
		return "motors stopped"
	}
}
