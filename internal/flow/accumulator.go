package flow

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// EventSource yields a lazy, possibly unbounded sequence of events, one
// angle slice per event, in the shape of bufio.Scanner: Scan advances to
// the next event and reports false at end of stream or on error, Event
// returns the current event's angles, Err returns the terminal error, if
// any. The slice returned by Event is only valid until the next Scan.
type EventSource interface {
	Scan() bool
	Event() []float64
	Err() error
}

// Accumulator records the per-event state of one batch: the multiplicity
// of every event and, for every required harmonic index, the event's
// flow vector. All sequences grow in lockstep; index i refers to the
// same event in every sequence.
type Accumulator struct {
	indices []int
	mult    []float64
	qvec    map[int][]complex128
}

// NewAccumulator validates the request and prepares an empty batch for
// its derived set of flow-vector indices.
func NewAccumulator(req Request) (*Accumulator, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	indices := req.QIndices()
	qvec := make(map[int][]complex128, len(indices))
	for _, q := range indices {
		qvec[q] = nil
	}
	return &Accumulator{indices: indices, qvec: qvec}, nil
}

// Add records one event. Zero-multiplicity events are recorded like any
// other (M = 0, Q_q = 0): dropping them would bias the correlator
// denominators, so filtering is left to callers that explicitly want it.
func (a *Accumulator) Add(phis []float64) {
	a.mult = append(a.mult, float64(len(phis)))
	for _, q := range a.indices {
		a.qvec[q] = append(a.qvec[q], QVector(q, phis))
	}
}

// Events returns the number of events recorded so far.
func (a *Accumulator) Events() int {
	return len(a.mult)
}

// MeanMultiplicity returns the batch-averaged event multiplicity, or 0
// for an empty batch.
func (a *Accumulator) MeanMultiplicity() float64 {
	if len(a.mult) == 0 {
		return 0
	}
	var sum float64
	for _, m := range a.mult {
		sum += m
	}
	return sum / float64(len(a.mult))
}

// Drain consumes the source until it is exhausted, recording every
// event in arrival order. A stream error surfaces after all events read
// so far have been recorded.
func (a *Accumulator) Drain(src EventSource) error {
	for src.Scan() {
		a.Add(src.Event())
	}
	if err := src.Err(); err != nil {
		return fmt.Errorf("event stream: %w", err)
	}
	return nil
}

// Merge appends another accumulator's sequences to this one. Both must
// have been built from the same request. The batch-level correlator
// sums are permutation-invariant, so the relative order of the two
// batches does not affect results beyond floating-point rounding.
func (a *Accumulator) Merge(b *Accumulator) error {
	if len(a.indices) != len(b.indices) {
		return ErrMismatchedBatches
	}
	for i, q := range a.indices {
		if b.indices[i] != q {
			return ErrMismatchedBatches
		}
	}
	a.mult = append(a.mult, b.mult...)
	for _, q := range a.indices {
		a.qvec[q] = append(a.qvec[q], b.qvec[q]...)
	}
	return nil
}

// DrainParallel partitions the stream across workers, each filling a
// private accumulator, and merges the partial batches when the stream
// ends. Events are interleaved across workers nondeterministically, so
// the recorded event order differs from arrival order; correlator
// results are unaffected aside from floating-point rounding. The stream
// itself is still read sequentially by a single goroutine.
func (a *Accumulator) DrainParallel(ctx context.Context, src EventSource, workers int) error {
	if workers < 2 {
		return a.Drain(src)
	}

	events := make(chan []float64, workers)
	parts := make([]*Accumulator, workers)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(events)
		for src.Scan() {
			phis := append([]float64(nil), src.Event()...)
			select {
			case events <- phis:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if err := src.Err(); err != nil {
			return fmt.Errorf("event stream: %w", err)
		}
		return nil
	})
	for i := 0; i < workers; i++ {
		part := &Accumulator{indices: a.indices, qvec: make(map[int][]complex128, len(a.indices))}
		parts[i] = part
		g.Go(func() error {
			for phis := range events {
				part.Add(phis)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, part := range parts {
		if err := a.Merge(part); err != nil {
			return err
		}
	}
	return nil
}
