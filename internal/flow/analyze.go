package flow

// Results reduces the accumulated batch for every requested harmonic, in
// ascending order. The correlator denominators depend only on the
// multiplicity sequence, so an ErrInsufficientMultiplicity at some order
// would recur for every harmonic; the first one aborts the whole
// reduction rather than producing identical partial failures.
func (a *Accumulator) Results(req Request) ([]Coefficients, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	results := make([]Coefficients, 0, len(req.Harmonics()))
	for _, n := range req.Harmonics() {
		corr, err := a.Correlations(n, req.Order)
		if err != nil {
			return nil, err
		}
		coeff := Reduce(corr)
		if req.WithError {
			coeff.WithError = true
			coeff.V2Error = a.twoParticleError(n, corr.Two)
		}
		results = append(results, coeff)
	}
	return results, nil
}

// Analyze runs the full pipeline: validate the request, drain the event
// source into a fresh accumulator, and reduce every requested harmonic.
// An empty harmonic range yields an empty, non-nil result slice.
func Analyze(req Request, src EventSource) ([]Coefficients, error) {
	acc, err := NewAccumulator(req)
	if err != nil {
		return nil, err
	}
	if err := acc.Drain(src); err != nil {
		return nil, err
	}
	return acc.Results(req)
}
