package compute

import (
	"testing"

	"github.com/eburns009/ephemeris-service/internal/ayanamsha"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeNative is a deterministic stand-in for a kernel.BundleHandle-backed
// Native, used so core logic can be tested without a real kernel file.
type fakeNative struct {
	lo, hi float64
	states map[NativeBody][3]float64
}

func (f *fakeNative) StateVector(jd float64, target, center NativeBody) (pos, vel [3]float64, err error) {
	p, ok := f.states[target]
	if !ok {
		p = [3]float64{1, 0, 0}
	}
	return p, [3]float64{}, nil
}

func (f *fakeNative) Coverage() (float64, float64) { return f.lo, f.hi }

// testRegistry bundles a fixture ayanamsha.Registry with the values the
// tests need to check against, so the tests don't have to look the fixture
// entries back up through the registry.
type testRegistry struct {
	reg               *ayanamsha.Registry
	fixedID           string
	fixedOffsetAt2000 float64
}

func newTestRegistry(t *testing.T) *testRegistry {
	t.Helper()
	const offsetAt2000 = 24.04
	reg := ayanamsha.NewFromEntries([]ayanamsha.Entry{
		{ID: "lahiri", Kind: ayanamsha.KindFixed, RefJD: 2451545.0, Offset: offsetAt2000, RatePer: 0.01397},
	})
	return &testRegistry{reg: reg, fixedID: "lahiri", fixedOffsetAt2000: offsetAt2000}
}

func TestEvaluateRejectsSiderealEquatorial(t *testing.T) {
	core := NewCore(&fakeNative{lo: 0, hi: 1e7}, newTestRegistry(t).reg)
	_, err := core.Evaluate(Request{
		EpochJD: 2451545.0,
		Bodies:  []Body{Sun},
		Frame:   FrameSpec{Type: FrameEquatorial, EpochOf: EpochJ2000},
		System:  Sidereal,
	})
	require.ErrorIs(t, err, ErrSiderealEquatorial)
}

func TestEvaluateRejectsInvalidFrame(t *testing.T) {
	core := NewCore(&fakeNative{lo: 0, hi: 1e7}, newTestRegistry(t).reg)
	_, err := core.Evaluate(Request{
		EpochJD: 2451545.0,
		Bodies:  []Body{Sun},
		Frame:   FrameSpec{Type: FrameEclipticOfDate, EpochOf: EpochJ2000},
		System:  Tropical,
	})
	require.ErrorIs(t, err, ErrInvalidFrame)
}

func TestEvaluateOutsideCoverage(t *testing.T) {
	core := NewCore(&fakeNative{lo: 100, hi: 200}, newTestRegistry(t).reg)
	_, err := core.Evaluate(Request{
		EpochJD: 50,
		Bodies:  []Body{Sun},
		Frame:   FrameSpec{Type: FrameEclipticOfDate, EpochOf: EpochOfDate},
		System:  Tropical,
	})
	require.ErrorIs(t, err, ErrEpochOutsideCoverage)
}

func TestEvaluateTropicalEclipticPopulatesLonLat(t *testing.T) {
	core := NewCore(&fakeNative{lo: 0, hi: 1e7, states: map[NativeBody][3]float64{
		NativeSun: {1, 0, 0},
	}}, newTestRegistry(t).reg)
	res, err := core.Evaluate(Request{
		EpochJD: 2451545.0,
		Bodies:  []Body{Sun},
		Frame:   FrameSpec{Type: FrameEclipticOfDate, EpochOf: EpochOfDate},
		System:  Tropical,
	})
	require.NoError(t, err)
	require.Len(t, res.Bodies, 1)
	got := res.Bodies[0]
	require.NotNil(t, got.LonDeg)
	require.NotNil(t, got.LatDeg)
	assert.Nil(t, got.RAHours)
	assert.InDelta(t, 0.0, *got.LonDeg, 1.0)
}

func TestEvaluateSiderealSubtractsAyanamsha(t *testing.T) {
	reg := newTestRegistry(t)
	core := NewCore(&fakeNative{lo: 0, hi: 1e7, states: map[NativeBody][3]float64{
		NativeSun: {1, 0, 0},
	}}, reg.reg)

	tropical, err := core.Evaluate(Request{
		EpochJD: 2451545.0,
		Bodies:  []Body{Sun},
		Frame:   FrameSpec{Type: FrameEclipticOfDate, EpochOf: EpochOfDate},
		System:  Tropical,
	})
	require.NoError(t, err)

	sidereal, err := core.Evaluate(Request{
		EpochJD:   2451545.0,
		Bodies:    []Body{Sun},
		Frame:     FrameSpec{Type: FrameEclipticOfDate, EpochOf: EpochOfDate},
		System:    Sidereal,
		Ayanamsha: Ayanamsha{ID: reg.fixedID},
	})
	require.NoError(t, err)

	diff := degrees(*tropical.Bodies[0].LonDeg - *sidereal.Bodies[0].LonDeg)
	assert.InDelta(t, reg.fixedOffsetAt2000, diff, 0.5)
}

func TestEvaluateSiderealRequiresAyanamshaID(t *testing.T) {
	core := NewCore(&fakeNative{lo: 0, hi: 1e7}, newTestRegistry(t).reg)
	_, err := core.Evaluate(Request{
		EpochJD: 2451545.0,
		Bodies:  []Body{Sun},
		Frame:   FrameSpec{Type: FrameEclipticOfDate, EpochOf: EpochOfDate},
		System:  Sidereal,
	})
	require.Error(t, err)
}

func TestLunarNodesDoNotReachNative(t *testing.T) {
	core := NewCore(&fakeNative{lo: 0, hi: 1e7}, newTestRegistry(t).reg)
	res, err := core.Evaluate(Request{
		EpochJD: 2451545.0,
		Bodies:  []Body{MeanNode, TrueNode},
		Frame:   FrameSpec{Type: FrameEclipticOfDate, EpochOf: EpochOfDate},
		System:  Tropical,
	})
	require.NoError(t, err)
	require.Len(t, res.Bodies, 2)
	for _, b := range res.Bodies {
		assert.NotNil(t, b.LonDeg)
		assert.Equal(t, 0.0, *b.LatDeg)
	}
}
