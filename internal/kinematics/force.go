package kinematics

import "math"

// ForceCoefficient is the force proxy: gravity plus the velocity
// magnitude. It is an uncalibrated coefficient meant to be combined with
// an externally known load mass downstream, not a force in newtons.
func ForceCoefficient(instantaneousVelocity float64) float64 {
	return GravityCoefficient + math.Abs(instantaneousVelocity)
}
