package steering

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChoose(t *testing.T) {
	tests := []struct {
		name   string
		counts Counts
		want   Decision
	}{
		{"center lowest", Counts{Left: 10, Center: 2, Right: 7}, Straight},
		{"left lowest", Counts{Left: 1, Center: 9, Right: 4}, Left},
		{"right lowest", Counts{Left: 9, Center: 9, Right: 2}, Right},
		{"center ties left", Counts{Left: 5, Center: 5, Right: 8}, Straight},
		{"center ties right", Counts{Left: 8, Center: 5, Right: 5}, Straight},
		{"left ties right", Counts{Left: 5, Center: 6, Right: 5}, Left},
		{"left ties right below center", Counts{Left: 3, Center: 5, Right: 3}, Left},
		{"all equal", Counts{Left: 4, Center: 4, Right: 4}, Straight},
		{"all zero", Counts{}, Straight},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Choose(tc.counts))
		})
	}
}

func TestChoose_TieBreakOrder(t *testing.T) {
	assert.Equal(t, Straight, Choose(Counts{Left: 5, Center: 5, Right: 8}))
	assert.Equal(t, Right, Choose(Counts{Left: 9, Center: 9, Right: 2}))

	// Center shares the minimum, so it wins over both sides.
	assert.Equal(t, Straight, Choose(Counts{Left: 5, Center: 3, Right: 3}))

	// Left wins a left/right tie only when center is above both.
	assert.Equal(t, Left, Choose(Counts{Left: 3, Center: 5, Right: 3}))
}

func TestChoose_Properties(t *testing.T) {
	for l := 0; l <= 4; l++ {
		for c := 0; c <= 4; c++ {
			for r := 0; r <= 4; r++ {
				counts := Counts{Left: l, Center: c, Right: r}
				got := Choose(counts)
				switch {
				case c <= l && c <= r:
					assert.Equal(t, Straight, got, "%+v", counts)
				case l < c && l <= r:
					assert.Equal(t, Left, got, "%+v", counts)
				default:
					require.True(t, r < l && r < c, "%+v", counts)
					assert.Equal(t, Right, got, "%+v", counts)
				}
			}
		}
	}
}

func TestCounts_Min(t *testing.T) {
	assert.Equal(t, 3, Counts{Left: 7, Center: 3, Right: 9}.Min())
	assert.Equal(t, 0, Counts{Left: 0, Center: 3, Right: 9}.Min())
}

func TestDecision_String(t *testing.T) {
	assert.Equal(t, "straight", Straight.String())
	assert.Equal(t, "left", Left.String())
	assert.Equal(t, "right", Right.String())
	assert.Equal(t, "unknown", Decision(42).String())

	text, err := Left.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "left", string(text))
}

func TestNewPolicy_DefaultInterval(t *testing.T) {
	assert.Equal(t, DefaultMinInterval, NewPolicy(0).MinInterval())
	assert.Equal(t, DefaultMinInterval, NewPolicy(-time.Second).MinInterval())
	assert.Equal(t, 250*time.Millisecond, NewPolicy(250*time.Millisecond).MinInterval())
}

func TestPolicy_Throttle(t *testing.T) {
	start := time.Unix(1_700_000_000, 0)
	p := NewPolicy(time.Second)
	p.Reset(start)

	counts := Counts{Left: 1, Center: 5, Right: 5}

	// Inside the interval right after reset.
	_, ok := p.Decide(counts, start.Add(500*time.Millisecond))
	assert.False(t, ok, "decision inside interval after reset")

	// Exactly at the interval boundary is still throttled.
	_, ok = p.Decide(counts, start.Add(time.Second))
	assert.False(t, ok, "decision at interval boundary")

	t1 := start.Add(1100 * time.Millisecond)
	d, ok := p.Decide(counts, t1)
	require.True(t, ok)
	assert.Equal(t, Left, d)
	assert.Equal(t, t1, p.Last())

	// Second evaluation within the interval of the emission.
	_, ok = p.Decide(counts, t1.Add(900*time.Millisecond))
	assert.False(t, ok, "second decision inside interval")
	assert.Equal(t, t1, p.Last(), "throttled call must not move the timer")

	// Third evaluation past the interval.
	d, ok = p.Decide(Counts{Left: 4, Center: 4, Right: 1}, t1.Add(1001*time.Millisecond))
	require.True(t, ok)
	assert.Equal(t, Right, d)
}

func TestPolicy_ZeroValueTimer(t *testing.T) {
	// Without Reset the timer starts at the zero time, so the first call fires.
	p := NewPolicy(time.Second)
	d, ok := p.Decide(Counts{Left: 2, Center: 2, Right: 2}, time.Now())
	require.True(t, ok)
	assert.Equal(t, Straight, d)
}
