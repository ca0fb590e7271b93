// Package report emits analysis results. The numeric core knows
// nothing about formatting; the observable output contract lives here:
// harmonics ascending, and within each harmonic v_n{2}, its error if
// requested, then v_n{4} and v_n{6} if computed.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/jbernhard/flow-cumulants/internal/flow"
)

// Writer formats flow coefficients onto an io.Writer.
type Writer struct {
	out       io.Writer
	precision int
	labels    bool
}

// New returns a writer emitting values with the given number of
// significant digits. With labels enabled each scalar gets its own
// annotated line; otherwise the whole report is one line of scalars.
func New(out io.Writer, precision int, labels bool) *Writer {
	return &Writer{out: out, precision: precision, labels: labels}
}

// Write emits the report. A non-nil dNchDeta is prepended before the
// per-harmonic values.
func (w *Writer) Write(results []flow.Coefficients, dNchDeta *float64) error {
	if w.labels {
		return w.writeLabeled(results, dNchDeta)
	}

	var fields []string
	if dNchDeta != nil {
		fields = append(fields, w.format(*dNchDeta))
	}
	for _, res := range results {
		fields = append(fields, w.format(res.V2))
		if res.WithError {
			fields = append(fields, w.format(res.V2Error))
		}
		if res.Order >= 4 {
			fields = append(fields, w.format(res.V4))
		}
		if res.Order >= 6 {
			fields = append(fields, w.format(res.V6))
		}
	}
	_, err := fmt.Fprintln(w.out, strings.Join(fields, " "))
	return err
}

func (w *Writer) writeLabeled(results []flow.Coefficients, dNchDeta *float64) error {
	if dNchDeta != nil {
		if _, err := fmt.Fprintf(w.out, "dNch/deta = %s\n", w.format(*dNchDeta)); err != nil {
			return err
		}
	}
	for _, res := range results {
		if _, err := fmt.Fprintf(w.out, "v%d{2} = %s\n", res.Harmonic, w.format(res.V2)); err != nil {
			return err
		}
		if res.WithError {
			if _, err := fmt.Fprintf(w.out, "v%d{2} error = %s\n", res.Harmonic, w.format(res.V2Error)); err != nil {
				return err
			}
		}
		if res.Order >= 4 {
			if _, err := fmt.Fprintf(w.out, "v%d{4} = %s\n", res.Harmonic, w.format(res.V4)); err != nil {
				return err
			}
		}
		if res.Order >= 6 {
			if _, err := fmt.Fprintf(w.out, "v%d{6} = %s\n", res.Harmonic, w.format(res.V6)); err != nil {
				return err
			}
		}
	}
	return nil
}

func (w *Writer) format(v float64) string {
	return fmt.Sprintf("%.*g", w.precision, v)
}
