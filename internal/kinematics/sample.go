package kinematics

// Sample is one published kinematics result: the smoothed velocity, the
// force coefficient, and the running displacement at the tick it was
// computed. The core does not retain it after handoff.
type Sample struct {
	Velocity     float64 `json:"velocity_ms"`    // filtered, m/s
	Force        float64 `json:"force_coeff"`    // proxy coefficient, not newtons
	Displacement float64 `json:"displacement_m"` // total accumulated, m
}
