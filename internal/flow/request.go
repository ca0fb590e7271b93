package flow

import (
	"fmt"
	"sort"
)

// Supported cumulant orders. Order k correlates k particles; each order
// builds on the correlators of the orders below it.
const (
	MinOrder = 2
	MaxOrder = 6
)

// Request configures one cumulant analysis: a contiguous range of flow
// harmonics and the highest cumulant order to compute for each of them.
//
// An empty harmonic range (MaxHarmonic < MinHarmonic) is valid and
// produces no results.
type Request struct {
	// MinHarmonic and MaxHarmonic bound the inclusive range of flow
	// harmonics n to analyze. MinHarmonic must be at least 2 when the
	// range is non-empty.
	MinHarmonic int
	MaxHarmonic int

	// Order is the highest cumulant order to compute: 2, 4 or 6.
	// Lower orders are always computed alongside, since each cumulant
	// reuses the correlators below it.
	Order int

	// WithError requests the propagated statistical error on v_n{2}.
	// Errors for higher orders are not defined by this analysis.
	WithError bool
}

// Validate reports whether the request is well formed. It is called
// before any ingestion begins so that a bad configuration never wastes
// partial work.
func (r Request) Validate() error {
	switch r.Order {
	case 2, 4, 6:
	default:
		return fmt.Errorf("%w: cumulant order %d not one of {2, 4, 6}", ErrInvalidRequest, r.Order)
	}
	if r.Empty() {
		return nil
	}
	if r.MinHarmonic < 2 {
		return fmt.Errorf("%w: harmonic %d below minimum of 2", ErrInvalidRequest, r.MinHarmonic)
	}
	return nil
}

// Empty reports whether the harmonic range contains no harmonics.
func (r Request) Empty() bool {
	return r.MaxHarmonic < r.MinHarmonic
}

// Harmonics returns the requested harmonics in ascending order.
func (r Request) Harmonics() []int {
	if r.Empty() {
		return nil
	}
	ns := make([]int, 0, r.MaxHarmonic-r.MinHarmonic+1)
	for n := r.MinHarmonic; n <= r.MaxHarmonic; n++ {
		ns = append(ns, n)
	}
	return ns
}

// Orders returns the requested cumulant orders in ascending order.
func (r Request) Orders() []int {
	var ks []int
	for k := MinOrder; k <= r.Order; k += 2 {
		ks = append(ks, k)
	}
	return ks
}

// QIndices derives the set of flow-vector harmonic indices the batch
// must record per event: order k for harmonic n needs Q_{n·k/2} in
// addition to the indices of the lower orders. The set is derived once,
// before ingestion; it never changes mid-batch.
func (r Request) QIndices() []int {
	seen := make(map[int]bool)
	for _, n := range r.Harmonics() {
		for _, k := range r.Orders() {
			seen[n*k/2] = true
		}
	}
	qs := make([]int, 0, len(seen))
	for q := range seen {
		qs = append(qs, q)
	}
	sort.Ints(qs)
	return qs
}
