package flow

import "math"

// Coefficients are the reduced outputs for one harmonic: cumulants
// c_n{k} and flow coefficients v_n{k} up to the requested order, plus
// the statistical error on v_n{2} when requested. Fields above Order
// are left zero.
type Coefficients struct {
	Harmonic int
	Order    int

	C2, C4, C6 float64
	V2, V4, V6 float64

	WithError bool
	V2Error   float64
}

// Reduce converts raw correlators into cumulants and flow coefficients,
// reusing lower-order correlators as it climbs: c_n{4} subtracts the
// squared 2-particle correlation, c_n{6} subtracts both lower orders.
//
// Even roots of negative cumulants are a physically meaningful
// degenerate case, not an error: each v_n{k} takes the root of the
// cumulant's magnitude and reapplies a sign. The sign conventions
// differ by order and are deliberate: v_n{2} carries c_n{2}'s sign,
// v_n{4} carries the opposite of c_n{4}'s (genuine flow drives c_n{4}
// negative), and v_n{6} carries c_n{6}'s own sign again.
func Reduce(c Correlations) Coefficients {
	out := Coefficients{Harmonic: c.Harmonic, Order: c.Order}

	out.C2 = c.Two
	out.V2 = math.Copysign(math.Sqrt(math.Abs(out.C2)), out.C2)
	if c.Order < 4 {
		return out
	}

	out.C4 = c.Four - 2*c.Two*c.Two
	out.V4 = -math.Copysign(math.Pow(math.Abs(out.C4), 0.25), out.C4)
	if c.Order < 6 {
		return out
	}

	out.C6 = c.Six - 9*c.Two*c.Four + 12*c.Two*c.Two*c.Two
	out.V6 = math.Copysign(math.Pow(math.Abs(0.25*out.C6), 1.0/6.0), out.C6)
	return out
}
