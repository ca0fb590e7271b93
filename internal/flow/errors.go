package flow

import "errors"

var (
	// ErrInvalidRequest indicates an analysis request that fails
	// validation before any event is read.
	ErrInvalidRequest = errors.New("invalid analysis request")

	// ErrInsufficientMultiplicity indicates a correlator whose batch-wide
	// denominator is exactly zero: every event in the batch has fewer
	// particles than the requested correlation order needs.
	ErrInsufficientMultiplicity = errors.New("insufficient multiplicity for requested correlation order")

	// ErrMismatchedBatches indicates an attempt to merge accumulators
	// built from different requests.
	ErrMismatchedBatches = errors.New("accumulators track different harmonic index sets")
)
