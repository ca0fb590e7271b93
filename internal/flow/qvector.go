package flow

import "math"

// QVector computes the flow vector Q_n = Σ_j exp(i·n·phi_j) over one
// event's azimuthal angles, in radians. An empty event yields complex
// zero. Direct summation; angles contribute independently, so computing
// per-event vectors for a batch is equivalent to computing each event
// separately.
func QVector(n int, phis []float64) complex128 {
	var re, im float64
	fn := float64(n)
	for _, phi := range phis {
		s, c := math.Sincos(fn * phi)
		re += c
		im += s
	}
	return complex(re, im)
}
