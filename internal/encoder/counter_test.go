package encoder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounterDrainResets(t *testing.T) {
	t.Parallel()

	counter := NewCounter()
	counter.Add(3)
	counter.Add(-1)

	assert.Equal(t, int64(2), counter.Drain())
	assert.Equal(t, int64(0), counter.Drain())
}

// TestCounterPulseConservation hammers the counter from a writer goroutine
// while the reader drains concurrently: every pulse must be observed
// exactly once across all drains, no matter how the calls interleave.
func TestCounterPulseConservation(t *testing.T) {
	t.Parallel()

	counter := NewCounter()
	const edges = 200000

	done := make(chan int64)
	go func() {
		var net int64
		for i := 0; i < edges; i++ {
			delta := int64(1)
			if i%3 == 0 {
				delta = -1
			}
			counter.Add(delta)
			net += delta
		}
		done <- net
	}()

	var drained int64
	for {
		select {
		case net := <-done:
			// Writer finished; one final drain collects the stragglers.
			drained += counter.Drain()
			require.Equal(t, net, drained)
			return
		default:
			drained += counter.Drain()
		}
	}
}
