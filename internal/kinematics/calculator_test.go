package kinematics

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCounter is a drain-only stand-in for the encoder counter.
type fakeCounter struct {
	pulses int64
}

func (c *fakeCounter) Add(delta int64) {
	c.pulses += delta
}

func (c *fakeCounter) Drain() int64 {
	p := c.pulses
	c.pulses = 0
	return p
}

func primedCalculator(counter PulseSource, at time.Time) *Calculator {
	calc := NewCalculator(counter)
	_, ok := calc.Tick(at)
	if ok {
		panic("priming tick must not produce a sample")
	}
	return calc
}

func TestCalculatorPrimingTickDoesNotDrain(t *testing.T) {
	t.Parallel()

	counter := &fakeCounter{}
	counter.Add(42)

	calc := NewCalculator(counter)
	_, ok := calc.Tick(time.Unix(100, 0))

	assert.False(t, ok)
	assert.Equal(t, int64(42), counter.pulses, "priming tick must leave the counter alone")
	assert.Zero(t, calc.TotalDisplacement())
}

// 100 forward pulses over one 10 ms window, resolution 1000, radius
// 0.0093 m: distance ≈ 0.005844 m, raw velocity ≈ 0.5844 m/s. Above both
// noise floors, so it reaches the filter, the accumulator, and the gate.
func TestCalculatorEndToEndWindow(t *testing.T) {
	t.Parallel()

	counter := &fakeCounter{}
	t0 := time.Unix(100, 0)
	calc := primedCalculator(counter, t0)

	counter.Add(100)
	sample, published := calc.Tick(t0.Add(10 * time.Millisecond))

	wantDistance := (100.0 / EncoderResolution) * (2 * math.Pi * WheelRadius)
	wantVelocity := wantDistance / 0.010

	require.True(t, published)
	assert.InDelta(t, 0.005844, wantDistance, 1e-6)
	assert.InDelta(t, wantVelocity, calc.InstantaneousVelocity(), 1e-9)
	assert.InDelta(t, wantDistance, sample.Displacement, 1e-9)
	assert.InDelta(t, wantDistance, calc.TotalDisplacement(), 1e-9)
	// One real sample against four startup zeros.
	assert.InDelta(t, wantVelocity/FilterDepth, sample.Velocity, 1e-9)
	assert.InDelta(t, GravityCoefficient+wantVelocity, sample.Force, 1e-9)
}

func TestCalculatorZeroIntervalIdempotence(t *testing.T) {
	t.Parallel()

	counter := &fakeCounter{}
	t0 := time.Unix(100, 0)
	calc := primedCalculator(counter, t0)

	counter.Add(100)
	t1 := t0.Add(10 * time.Millisecond)
	first, _ := calc.Tick(t1)

	// Re-entrant invocation with no elapsed time: skipped outright, no
	// drain, no state mutation.
	counter.Add(50)
	_, ok := calc.Tick(t1)

	assert.False(t, ok)
	assert.Equal(t, int64(50), counter.pulses, "skipped tick must not drain")
	assert.InDelta(t, first.Velocity, calc.FilteredVelocity(), 1e-12)
	assert.InDelta(t, first.Displacement, calc.TotalDisplacement(), 1e-12)
}

func TestCalculatorNegativeIntervalSkipped(t *testing.T) {
	t.Parallel()

	counter := &fakeCounter{}
	t0 := time.Unix(100, 0)
	calc := primedCalculator(counter, t0)

	counter.Add(100)
	_, ok := calc.Tick(t0.Add(-time.Millisecond))

	assert.False(t, ok)
	assert.Equal(t, int64(100), counter.pulses)
}

// Pulses left undrained by a skipped tick carry into the next window and
// are divided by that window's longer elapsed time. Known edge case of the
// skip policy, preserved deliberately.
func TestCalculatorSkippedPulsesCarryOver(t *testing.T) {
	t.Parallel()

	counter := &fakeCounter{}
	t0 := time.Unix(100, 0)
	calc := primedCalculator(counter, t0)

	// An idle tick establishes t1 as the last successful tick time.
	t1 := t0.Add(10 * time.Millisecond)
	calc.Tick(t1)

	counter.Add(100)
	_, skipped := calc.Tick(t1) // dt == 0, no drain
	require.False(t, skipped)

	counter.Add(100)
	_, published := calc.Tick(t1.Add(10 * time.Millisecond))

	// 200 pulses over the 10 ms window since the last successful tick.
	wantDistance := (200.0 / EncoderResolution) * (2 * math.Pi * WheelRadius)
	require.True(t, published)
	assert.InDelta(t, wantDistance/0.010, calc.InstantaneousVelocity(), 1e-9)
}

func TestCalculatorVelocityNoiseFloor(t *testing.T) {
	t.Parallel()

	counter := &fakeCounter{}
	t0 := time.Unix(100, 0)
	calc := primedCalculator(counter, t0)

	// 100 pulses over a full second: distance ≈ 5.8 mm (above the
	// displacement floor) but velocity ≈ 0.0058 m/s (below the velocity
	// floor). The two thresholds act independently.
	counter.Add(100)
	sample, published := calc.Tick(t0.Add(time.Second))

	assert.Zero(t, calc.InstantaneousVelocity(), "sub-floor velocity must be exactly zero")
	assert.Zero(t, sample.Velocity)
	assert.InDelta(t, GravityCoefficient, sample.Force, 1e-12)
	assert.False(t, published)

	wantDistance := (100.0 / EncoderResolution) * (2 * math.Pi * WheelRadius)
	assert.InDelta(t, wantDistance, calc.TotalDisplacement(), 1e-9,
		"above-floor displacement accumulates even when velocity reads zero")
}

func TestCalculatorDisplacementFloor(t *testing.T) {
	t.Parallel()

	counter := &fakeCounter{}
	t0 := time.Unix(100, 0)
	calc := primedCalculator(counter, t0)

	// 30 pulses over 10 ms: distance ≈ 1.75 mm, below the 2 mm floor, but
	// velocity ≈ 0.175 m/s, well above the velocity floor.
	counter.Add(30)
	sample, published := calc.Tick(t0.Add(10 * time.Millisecond))

	assert.Zero(t, calc.TotalDisplacement(), "sub-floor travel is discarded, not deferred")
	assert.Greater(t, calc.InstantaneousVelocity(), VelocityNoiseFloor)
	assert.True(t, published)
	assert.Zero(t, sample.Displacement)
}

func TestCalculatorReverseMotionAccumulatesNegative(t *testing.T) {
	t.Parallel()

	counter := &fakeCounter{}
	t0 := time.Unix(100, 0)
	calc := primedCalculator(counter, t0)

	counter.Add(-400)
	_, published := calc.Tick(t0.Add(10 * time.Millisecond))

	require.True(t, published)
	assert.Negative(t, calc.TotalDisplacement())
	assert.GreaterOrEqual(t, math.Abs(calc.TotalDisplacement()), MinDisplacement)
	assert.Negative(t, calc.InstantaneousVelocity())
}

func TestCalculatorAccumulatesAcrossTicks(t *testing.T) {
	t.Parallel()

	counter := &fakeCounter{}
	now := time.Unix(100, 0)
	calc := primedCalculator(counter, now)

	perTick := (100.0 / EncoderResolution) * (2 * math.Pi * WheelRadius)
	for i := 0; i < 10; i++ {
		counter.Add(100)
		now = now.Add(10 * time.Millisecond)
		_, published := calc.Tick(now)
		require.True(t, published)
	}

	assert.InDelta(t, 10*perTick, calc.TotalDisplacement(), 1e-9)
}
