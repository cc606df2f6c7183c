// Package steering turns per-sector edge counts into a steering decision.
//
// Fewer edges in a sector is read as more open space in that direction.
// The policy steers toward the least cluttered sector and throttles how
// often a decision may be issued, independent of the camera frame rate.
package steering

import "time"

// DefaultMinInterval is the minimum time between two emitted decisions.
const DefaultMinInterval = time.Second

// Decision is a discrete steering command.
type Decision int

const (
	// Straight drives both motors.
	Straight Decision = iota
	// Left drives the left motor only.
	Left
	// Right drives the right motor only.
	Right
)

// String returns the lowercase name of the decision.
func (d Decision) String() string {
	switch d {
	case Straight:
		return "straight"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "unknown"
	}
}

// MarshalText lets decisions appear by name in JSON and logs.
func (d Decision) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Counts holds the edge-pixel count of each sector.
type Counts struct {
	Left   int `json:"left"`
	Center int `json:"center"`
	Right  int `json:"right"`
}

// Min returns the smallest of the three counts.
func (c Counts) Min() int {
	return min(c.Left, c.Center, c.Right)
}

// Choose picks the sector with the fewest edges.
// Ties resolve center first, then left, then right.
func Choose(c Counts) Decision {
	m := c.Min()
	switch m {
	case c.Center:
		return Straight
	case c.Left:
		return Left
	default:
		return Right
	}
}

// Policy applies Choose at most once per minimum interval.
// It is owned by a single control loop and is not safe for concurrent use.
type Policy struct {
	minInterval time.Duration
	last        time.Time
}

// NewPolicy creates a policy with the given debounce interval.
// A non-positive interval falls back to DefaultMinInterval.
func NewPolicy(minInterval time.Duration) *Policy {
	if minInterval <= 0 {
		minInterval = DefaultMinInterval
	}
	return &Policy{minInterval: minInterval}
}

// MinInterval returns the debounce interval.
func (p *Policy) MinInterval() time.Duration {
	return p.minInterval
}

// Reset sets the last-decision timestamp, typically at loop start.
func (p *Policy) Reset(now time.Time) {
	p.last = now
}

// Last returns the timestamp of the last emitted decision (or of Reset).
func (p *Policy) Last() time.Time {
	return p.last
}

// Decide returns a decision and true when more than the minimum interval
// has elapsed since the last one. Otherwise it returns false and leaves the
// timer untouched.
func (p *Policy) Decide(c Counts, now time.Time) (Decision, bool) {
	if now.Sub(p.last) <= p.minInterval {
		return 0, false
	}
	d := Choose(c)
	p.last = now
	return d, true
}
