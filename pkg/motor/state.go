// Package motor drives the two binary motor channels of the rover.
//
// Backends:
//   - gpio (Raspberry Pi) - two digital output pins via periph.io
//   - serial - a microcontroller motor bridge over a serial port
//   - sim - log output only, used when no hardware is present
//   - mock - records every state for tests
//
// The Actuator owns the joint state and maps steering decisions onto it.
package motor

import (
	"fmt"

	"github.com/teslashibe/go-rover/pkg/steering"
)

// State is the joint on/off state of the left and right motors.
type State struct {
	Left  bool `json:"left"`
	Right bool `json:"right"`
}

// Joint states reachable by the actuator.
var (
	Off       = State{}
	LeftOnly  = State{Left: true}
	RightOnly = State{Right: true}
	Both      = State{Left: true, Right: true}
)

// StateFor maps a steering decision to its joint motor state.
func StateFor(d steering.Decision) State {
	switch d {
	case steering.Straight:
		return Both
	case steering.Left:
		return LeftOnly
	case steering.Right:
		return RightOnly
	default:
		return Off
	}
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

// String renders the state as "(left,right)", e.g. "(on,off)".
func (s State) String() string {
	return fmt.Sprintf("(%s,%s)", onOff(s.Left), onOff(s.Right))
}
