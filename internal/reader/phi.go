// Package reader produces per-event azimuthal-angle slices from text
// streams. Two formats are supported: plain whitespace-separated phi
// lists with blank-line event boundaries, and UrQMD fixed-width
// particle records. Both readers satisfy flow.EventSource.
package reader

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrMalformedInput indicates a token that cannot be parsed as the
// number its position requires. Malformed input is a hard failure;
// tokens are never coerced or skipped.
var ErrMalformedInput = errors.New("malformed input")

// PhiReader reads events as blocks of whitespace-separated phi values
// (radians). Blank lines separate events, with runs of blank lines
// acting as a single separator; lines starting with '#' are comments.
type PhiReader struct {
	scanner *bufio.Scanner
	event   []float64
	line    int
	done    bool
	err     error
}

// NewPhiReader wraps r in a phi-text event reader.
func NewPhiReader(r io.Reader) *PhiReader {
	return &PhiReader{scanner: bufio.NewScanner(r)}
}

// Scan advances to the next event, reporting false at end of input or
// on the first malformed token.
func (p *PhiReader) Scan() bool {
	if p.done || p.err != nil {
		return false
	}
	p.event = p.event[:0]
	for p.scanner.Scan() {
		p.line++
		text := strings.TrimSpace(p.scanner.Text())
		if text == "" {
			if len(p.event) > 0 {
				return true
			}
			continue
		}
		if strings.HasPrefix(text, "#") {
			continue
		}
		for _, tok := range strings.Fields(text) {
			phi, err := strconv.ParseFloat(tok, 64)
			if err != nil {
				p.err = fmt.Errorf("line %d: %w: %q is not a real number", p.line, ErrMalformedInput, tok)
				return false
			}
			p.event = append(p.event, phi)
		}
	}
	p.done = true
	if err := p.scanner.Err(); err != nil {
		p.err = err
		return false
	}
	return len(p.event) > 0
}

// Event returns the current event's angles, valid until the next Scan.
func (p *PhiReader) Event() []float64 { return p.event }

// Err returns the error that terminated scanning, if any.
func (p *PhiReader) Err() error { return p.err }
