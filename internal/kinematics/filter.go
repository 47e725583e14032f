// Copyright (c) 2026 Barsense Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package kinematics

// Filter is a fixed-depth circular moving average over the most recent
// instantaneous velocity samples. The buffer always holds FilterDepth
// values; it starts zero-filled, so output is biased toward zero for the
// first few ticks. That startup transient is expected behavior, not
// something to correct.
type Filter struct {
	samples [FilterDepth]float64
	cursor  int
	mean    float64
}

// Push overwrites the slot at the cursor, advances the cursor modulo
// depth, and recomputes the mean over all slots.
func (f *Filter) Push(v float64) {
	f.samples[f.cursor] = v
	f.cursor = (f.cursor + 1) % FilterDepth

	var sum float64
	for _, s := range f.samples {
		sum += s
	}
	f.mean = sum / FilterDepth
}

// Mean returns the unweighted average of the buffer's current contents.
func (f *Filter) Mean() float64 {
	return f.mean
}
