// Package flow computes anisotropic-flow cumulants v_n{k} (k = 2, 4, 6)
// from batches of particle azimuthal angles grouped into independent
// events.
//
// The pipeline has three stages: an Accumulator ingests a lazy stream of
// events and records, per event, the multiplicity M and the complex flow
// vector Q_q = Σ exp(i·q·phi) for every required harmonic index q; the
// correlation stage combines the recorded sequences into batch-summed
// 2-, 4- and 6-particle correlators; the reduction stage converts the
// correlators into cumulants c_n{k} and flow coefficients v_n{k},
// including the propagated statistical error on v_n{2}.
//
// Formulas follow Bilandzic, Snellings and Voloshin, "Flow analysis with
// cumulants: direct calculations" (arXiv:1010.0233).
package flow
