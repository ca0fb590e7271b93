package reader

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, r *PhiReader) [][]float64 {
	t.Helper()
	var events [][]float64
	for r.Scan() {
		events = append(events, append([]float64(nil), r.Event()...))
	}
	return events
}

func TestPhiReader_BlankLineSeparatedEvents(t *testing.T) {
	input := "0.0 1.5708\n3.1416\n\n0.25\n"
	r := NewPhiReader(strings.NewReader(input))

	events := collect(t, r)
	require.NoError(t, r.Err())
	require.Len(t, events, 2)
	assert.Equal(t, []float64{0.0, 1.5708, 3.1416}, events[0])
	assert.Equal(t, []float64{0.25}, events[1])
}

func TestPhiReader_CommentsAndBlankRuns(t *testing.T) {
	input := "# header comment\n\n\n1.0\n# mid-event note\n2.0\n\n\n\n3.0\n"
	r := NewPhiReader(strings.NewReader(input))

	events := collect(t, r)
	require.NoError(t, r.Err())
	require.Len(t, events, 2)
	assert.Equal(t, []float64{1.0, 2.0}, events[0])
	assert.Equal(t, []float64{3.0}, events[1])
}

func TestPhiReader_LastEventNeedsNoTrailingSeparator(t *testing.T) {
	r := NewPhiReader(strings.NewReader("0.5 0.6"))

	events := collect(t, r)
	require.NoError(t, r.Err())
	require.Len(t, events, 1)
	assert.Equal(t, []float64{0.5, 0.6}, events[0])
}

func TestPhiReader_MalformedTokenIsAHardFailure(t *testing.T) {
	r := NewPhiReader(strings.NewReader("1.0\n2.0 oops 3.0\n"))

	for r.Scan() {
	}
	err := r.Err()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedInput)
	assert.Contains(t, err.Error(), "line 2")
	assert.Contains(t, err.Error(), "oops")
}

func TestPhiReader_EmptyInput(t *testing.T) {
	r := NewPhiReader(strings.NewReader(""))
	assert.False(t, r.Scan())
	assert.NoError(t, r.Err())
}
