package reader

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// UrQMD file-14 particle records are fixed-width lines of at least 400
// characters; anything shorter is event header or footer and marks an
// event boundary. Momentum components are Fortran doubles (D exponent).
const (
	urqmdParticleLineLen = 400

	urqmdPxStart, urqmdPxEnd         = 121, 144
	urqmdPyStart, urqmdPyEnd         = 145, 168
	urqmdPzStart, urqmdPzEnd         = 169, 192
	urqmdChargeStart, urqmdChargeEnd = 225, 227
)

// URQMDOptions filter which particles enter an event.
type URQMDOptions struct {
	// EtaMax drops particles whose pseudorapidity exceeds it, via the
	// one-sided 2η = ln((p+pz)/(p−pz)) > 2·EtaMax cut of the reference
	// extractor. Zero disables the cut.
	EtaMax float64

	// PTMin and PTMax select the transverse-momentum window
	// [PTMin, PTMax). PTMax of zero disables the window.
	PTMin float64
	PTMax float64
}

// URQMDReader extracts, per event, the azimuthal angles of charged
// particles from an UrQMD file-14 stream.
type URQMDReader struct {
	scanner *bufio.Scanner
	opts    URQMDOptions
	event   []float64
	started bool
	line    int
	done    bool
	err     error
}

// NewURQMDReader wraps r in an UrQMD event reader.
func NewURQMDReader(r io.Reader, opts URQMDOptions) *URQMDReader {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 1024), 1024*1024)
	return &URQMDReader{scanner: s, opts: opts}
}

// Scan advances to the next event: particle lines accumulate until a
// short line (or end of input) closes the event. Events whose particles
// are all filtered out still count as events with multiplicity zero.
func (u *URQMDReader) Scan() bool {
	if u.done || u.err != nil {
		return false
	}
	u.event = u.event[:0]
	u.started = false
	for u.scanner.Scan() {
		u.line++
		text := u.scanner.Text()
		if len(text) < urqmdParticleLineLen {
			if u.started {
				return true
			}
			continue
		}
		u.started = true
		if err := u.particle(text); err != nil {
			u.err = err
			return false
		}
	}
	u.done = true
	if err := u.scanner.Err(); err != nil {
		u.err = err
		return false
	}
	return u.started
}

func (u *URQMDReader) particle(line string) error {
	charge, err := strconv.Atoi(strings.TrimSpace(line[urqmdChargeStart:urqmdChargeEnd]))
	if err != nil {
		return fmt.Errorf("line %d: %w: bad charge field %q", u.line, ErrMalformedInput, line[urqmdChargeStart:urqmdChargeEnd])
	}
	if charge == 0 {
		return nil
	}

	px, err := u.fortranFloat(line[urqmdPxStart:urqmdPxEnd])
	if err != nil {
		return err
	}
	py, err := u.fortranFloat(line[urqmdPyStart:urqmdPyEnd])
	if err != nil {
		return err
	}
	pz, err := u.fortranFloat(line[urqmdPzStart:urqmdPzEnd])
	if err != nil {
		return err
	}

	if u.opts.EtaMax > 0 {
		pmag := math.Sqrt(px*px + py*py + pz*pz)
		if math.Log((pmag+pz)/(pmag-pz)) > 2*u.opts.EtaMax {
			return nil
		}
	}
	if u.opts.PTMax > 0 {
		pt := math.Hypot(px, py)
		if pt < u.opts.PTMin || pt >= u.opts.PTMax {
			return nil
		}
	}

	u.event = append(u.event, math.Atan2(py, px))
	return nil
}

// fortranFloat parses a fixed-width Fortran double, mapping the D
// exponent marker to E.
func (u *URQMDReader) fortranFloat(field string) (float64, error) {
	tok := strings.TrimSpace(field)
	tok = strings.ReplaceAll(tok, "D", "E")
	tok = strings.ReplaceAll(tok, "d", "e")
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, fmt.Errorf("line %d: %w: bad momentum field %q", u.line, ErrMalformedInput, field)
	}
	return v, nil
}

// Event returns the current event's angles, valid until the next Scan.
func (u *URQMDReader) Event() []float64 { return u.event }

// Err returns the error that terminated scanning, if any.
func (u *URQMDReader) Err() error { return u.err }
