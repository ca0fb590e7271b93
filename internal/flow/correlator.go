package flow

import (
	"fmt"
	"math"
)

// Correlations holds the raw k-particle azimuthal correlators of one
// harmonic over the whole batch: each is a batch-summed numerator
// divided by a batch-summed denominator, never a per-event average.
// Fields above Order are left zero.
type Correlations struct {
	Harmonic int
	Order    int

	Two  float64 // <2>, mean 2-particle correlation
	Four float64 // <4>, mean 4-particle correlation
	Six  float64 // <6>, mean 6-particle correlation
}

func absSq(q complex128) float64 {
	return real(q)*real(q) + imag(q)*imag(q)
}

// Correlations computes the raw correlators for harmonic n up to the
// given cumulant order, in ascending order. Order k for harmonic n
// draws on the recorded Q_n, Q_2n and Q_3n sequences; the multiplicity
// sums that form the denominators involve only M, so a zero denominator
// at some order fails every harmonic identically and is reported as
// ErrInsufficientMultiplicity.
func (a *Accumulator) Correlations(n, order int) (Correlations, error) {
	c := Correlations{Harmonic: n, Order: order}

	qn, ok := a.qvec[n]
	if !ok {
		return c, fmt.Errorf("%w: flow vectors for harmonic %d were not accumulated", ErrInvalidRequest, n)
	}

	var num, den float64
	for i, m := range a.mult {
		num += absSq(qn[i]) - m
		den += m * (m - 1)
	}
	if den == 0 {
		return c, fmt.Errorf("harmonic %d, order 2: %w", n, ErrInsufficientMultiplicity)
	}
	c.Two = num / den
	if order < 4 {
		return c, nil
	}

	q2n, ok := a.qvec[2*n]
	if !ok {
		return c, fmt.Errorf("%w: flow vectors for harmonic %d were not accumulated", ErrInvalidRequest, 2*n)
	}
	num, den = 0, 0
	for i, m := range a.mult {
		q, q2 := qn[i], q2n[i]
		qsq := absSq(q)
		cq := complex(real(q), -imag(q))
		num += qsq*qsq + absSq(q2) - 2*real(q2*cq*cq) - 4*(m-2)*qsq + 2*m*(m-3)
		den += m * (m - 1) * (m - 2) * (m - 3)
	}
	if den == 0 {
		return c, fmt.Errorf("harmonic %d, order 4: %w", n, ErrInsufficientMultiplicity)
	}
	c.Four = num / den
	if order < 6 {
		return c, nil
	}

	q3n, ok := a.qvec[3*n]
	if !ok {
		return c, fmt.Errorf("%w: flow vectors for harmonic %d were not accumulated", ErrInvalidRequest, 3*n)
	}
	num, den = 0, 0
	for i, m := range a.mult {
		q, q2, q3 := qn[i], q2n[i], q3n[i]
		qsq := absSq(q)
		cq := complex(real(q), -imag(q))
		cq2 := complex(real(q2), -imag(q2))
		cq3 := cq * cq * cq
		num += qsq*qsq*qsq +
			9*absSq(q2)*qsq -
			6*real(q2*q*cq3) +
			4*real(q3*cq3) -
			12*real(q3*cq2*cq) +
			18*(m-4)*real(q2*cq*cq) +
			4*absSq(q3) -
			9*(m-4)*(qsq*qsq+absSq(q2)) +
			18*(m-2)*(m-5)*qsq -
			6*m*(m-4)*(m-5)
		den += m * (m - 1) * (m - 2) * (m - 3) * (m - 4) * (m - 5)
	}
	if den == 0 {
		return c, fmt.Errorf("harmonic %d, order 6: %w", n, ErrInsufficientMultiplicity)
	}
	c.Six = num / den
	return c, nil
}

// twoParticleError propagates the statistical error of the 2-particle
// correlator onto v_n{2}. Per-event estimators x_i = (|Q_n|² − M)/w_i
// with weights w_i = M(M−1) enter a jackknife-style weighted variance
// whose denominator Σw − Σw²/Σw approximates the unbiased normalization;
// events with M < 2 carry zero weight and are skipped.
func (a *Accumulator) twoParticleError(n int, corr2 float64) float64 {
	qn := a.qvec[n]

	var sumW, sumW2, sumDev float64
	for i, m := range a.mult {
		w := m * (m - 1)
		if w == 0 {
			continue
		}
		x := (absSq(qn[i]) - m) / w
		d := x - corr2
		sumW += w
		sumW2 += w * w
		sumDev += w * d * d
	}
	variance := sumDev / (sumW - sumW2/sumW)
	return 0.5 * math.Sqrt(variance) * math.Sqrt(sumW2) / sumW / math.Sqrt(math.Abs(corr2))
}
