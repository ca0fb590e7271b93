package reader

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// particleLine builds a fixed-width UrQMD file-14 particle record with
// the given momentum and charge, Fortran D exponents included.
func particleLine(px, py, pz float64, charge int) string {
	line := []byte(strings.Repeat(" ", 430))
	put := func(start int, s string) {
		copy(line[start:], s)
	}
	fortran := func(v float64) string {
		return strings.ReplaceAll(fmt.Sprintf("%23.16E", v), "E", "D")
	}
	put(urqmdPxStart, fortran(px))
	put(urqmdPyStart, fortran(py))
	put(urqmdPzStart, fortran(pz))
	put(urqmdChargeStart, fmt.Sprintf("%2d", charge))
	return string(line)
}

func drainURQMD(t *testing.T, r *URQMDReader) [][]float64 {
	t.Helper()
	var events [][]float64
	for r.Scan() {
		events = append(events, append([]float64(nil), r.Event()...))
	}
	return events
}

func TestURQMDReader_ExtractsChargedParticlePhi(t *testing.T) {
	input := strings.Join([]string{
		"header-ish short line",
		particleLine(1.0, 0.0, 0.1, 1),
		particleLine(0.0, 2.0, -0.3, -1),
		"event footer",
		particleLine(-1.0, -1.0, 0.0, 2),
		"",
	}, "\n")

	r := NewURQMDReader(strings.NewReader(input), URQMDOptions{})
	events := drainURQMD(t, r)
	require.NoError(t, r.Err())
	require.Len(t, events, 2)

	require.Len(t, events[0], 2)
	assert.InDelta(t, math.Atan2(0.0, 1.0), events[0][0], 1e-12)
	assert.InDelta(t, math.Atan2(2.0, 0.0), events[0][1], 1e-12)

	require.Len(t, events[1], 1)
	assert.InDelta(t, math.Atan2(-1.0, -1.0), events[1][0], 1e-12)
}

func TestURQMDReader_NeutralParticlesAreSkipped(t *testing.T) {
	input := strings.Join([]string{
		particleLine(1.0, 0.0, 0.0, 0),
		particleLine(0.0, 1.0, 0.0, 1),
		"",
	}, "\n")

	r := NewURQMDReader(strings.NewReader(input), URQMDOptions{})
	events := drainURQMD(t, r)
	require.NoError(t, r.Err())
	require.Len(t, events, 1)
	require.Len(t, events[0], 1)
	assert.InDelta(t, math.Pi/2, events[0][0], 1e-12)
}

func TestURQMDReader_EtaCut(t *testing.T) {
	// pz ≫ pT puts the particle far forward: 2η = ln((p+pz)/(p−pz))
	// blows past 2·EtaMax and the particle is dropped.
	input := strings.Join([]string{
		particleLine(0.1, 0.0, 50.0, 1),
		particleLine(1.0, 0.0, 0.0, 1),
		"",
	}, "\n")

	r := NewURQMDReader(strings.NewReader(input), URQMDOptions{EtaMax: 2.0})
	events := drainURQMD(t, r)
	require.NoError(t, r.Err())
	require.Len(t, events, 1)
	require.Len(t, events[0], 1)
	assert.InDelta(t, 0.0, events[0][0], 1e-12)
}

func TestURQMDReader_PTWindow(t *testing.T) {
	input := strings.Join([]string{
		particleLine(0.05, 0.0, 0.0, 1), // below window
		particleLine(0.45, 0.0, 0.0, 1), // inside
		particleLine(1.50, 0.0, 0.0, 1), // above
		"",
	}, "\n")

	r := NewURQMDReader(strings.NewReader(input), URQMDOptions{PTMin: 0.1, PTMax: 1.0})
	events := drainURQMD(t, r)
	require.NoError(t, r.Err())
	require.Len(t, events, 1)
	require.Len(t, events[0], 1)
}

func TestURQMDReader_FullyFilteredEventKeepsZeroMultiplicity(t *testing.T) {
	// An event whose particles are all neutral still counts as an
	// event; dropping it would bias the batch denominators.
	input := strings.Join([]string{
		particleLine(1.0, 0.0, 0.0, 0),
		"boundary",
		particleLine(1.0, 1.0, 0.0, 1),
		"",
	}, "\n")

	r := NewURQMDReader(strings.NewReader(input), URQMDOptions{})
	events := drainURQMD(t, r)
	require.NoError(t, r.Err())
	require.Len(t, events, 2)
	assert.Empty(t, events[0])
	assert.Len(t, events[1], 1)
}

func TestURQMDReader_MalformedChargeFails(t *testing.T) {
	bad := []byte(particleLine(1.0, 0.0, 0.0, 1))
	copy(bad[urqmdChargeStart:], "xx")

	r := NewURQMDReader(strings.NewReader(string(bad)+"\n"), URQMDOptions{})
	for r.Scan() {
	}
	assert.ErrorIs(t, r.Err(), ErrMalformedInput)
}

func TestURQMDReader_MalformedMomentumFails(t *testing.T) {
	bad := []byte(particleLine(1.0, 0.0, 0.0, 1))
	copy(bad[urqmdPxStart:], strings.Repeat("?", urqmdPxEnd-urqmdPxStart))

	r := NewURQMDReader(strings.NewReader(string(bad)+"\n"), URQMDOptions{})
	for r.Scan() {
	}
	assert.ErrorIs(t, r.Err(), ErrMalformedInput)
}
