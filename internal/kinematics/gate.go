package kinematics

import "math"

// ShouldPublish decides whether a tick's results are significant enough to
// push downstream. Either threshold alone passes: the filtered signal
// catches sustained motion the instantaneous one has already smoothed
// away, and the instantaneous signal catches the first tick of a rep
// before the filter has caught up.
func ShouldPublish(filteredVelocity, instantaneousVelocity float64) bool {
	return math.Abs(filteredVelocity) > FilteredPublishThreshold ||
		math.Abs(instantaneousVelocity) > InstantPublishThreshold
}
