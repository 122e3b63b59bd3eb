package timeresolve

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPatchTable() *PatchTable {
	return &PatchTable{patches: []Patch{
		{
			Name:          "fort_knox_pre_1967_central_practice",
			MinLat:        37.5,
			MaxLat:        38.1,
			MinLon:        -86.2,
			MaxLon:        -85.7,
			Until:         "1967-01-01",
			OffsetSeconds: -18000,
		},
	}}
}

func TestResolveUTCPassThrough(t *testing.T) {
	r := New(nil, ProfileAstroCom)
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	res, err := r.Resolve(Input{UTC: &now})
	require.NoError(t, err)
	assert.Equal(t, now, res.UTCEpoch)
	assert.Equal(t, ConfidenceHigh, res.Confidence)
}

func TestResolveFortKnoxStrictHistory(t *testing.T) {
	r := New(testPatchTable(), ProfileAstroCom)
	res, err := r.Resolve(Input{
		LocalDatetime: "1962-07-02T23:33:00",
		Place:         &Place{LatDeg: 37.840347, LonDeg: -85.949127},
		Profile:       ProfileStrictHistory,
	})
	require.NoError(t, err)
	expected := time.Date(1962, 7, 3, 4, 33, 0, 0, time.UTC)
	assert.Equal(t, expected, res.UTCEpoch)
	assert.Contains(t, res.Provenance.PatchesApplied, "fort_knox_pre_1967_central_practice")
}

func TestResolveAstroComSkipsPatches(t *testing.T) {
	r := New(testPatchTable(), ProfileAstroCom)
	res, err := r.Resolve(Input{
		LocalDatetime: "1962-07-02T23:33:00",
		Place:         &Place{LatDeg: 37.840347, LonDeg: -85.949127},
		Profile:       ProfileAstroCom,
	})
	require.NoError(t, err)
	assert.Empty(t, res.Provenance.PatchesApplied)
}

func TestResolveClairvisionAliasesAstroCom(t *testing.T) {
	r := New(testPatchTable(), ProfileAstroCom)
	astro, err := r.Resolve(Input{
		LocalDatetime: "2020-06-15T10:00:00",
		Place:         &Place{LatDeg: 40.7, LonDeg: -74.0},
		Profile:       ProfileAstroCom,
	})
	require.NoError(t, err)
	clair, err := r.Resolve(Input{
		LocalDatetime: "2020-06-15T10:00:00",
		Place:         &Place{LatDeg: 40.7, LonDeg: -74.0},
		Profile:       ProfileClairvision,
	})
	require.NoError(t, err)
	assert.Equal(t, astro.UTCEpoch, clair.UTCEpoch)
}

func TestResolveAsEnteredFlagsDisagreement(t *testing.T) {
	r := New(nil, ProfileAstroCom)
	res, err := r.Resolve(Input{
		LocalDatetime: "2020-06-15T10:00:00",
		Place:         &Place{LatDeg: 40.7, LonDeg: -74.0}, // America/New_York territory
		ExplicitZone:  "Europe/London",
		Profile:       ProfileAsEntered,
	})
	require.NoError(t, err)
	assert.Equal(t, ConfidenceLow, res.Confidence)
	assert.NotEmpty(t, res.Warnings)
}

func TestResolveAsEnteredAgreesWhenZoneMatches(t *testing.T) {
	r := New(nil, ProfileAstroCom)
	res, err := r.Resolve(Input{
		LocalDatetime: "2020-06-15T10:00:00",
		Place:         &Place{LatDeg: 40.7, LonDeg: -74.0},
		ExplicitZone:  "America/New_York",
		Profile:       ProfileAsEntered,
	})
	require.NoError(t, err)
	assert.Equal(t, ConfidenceMedium, res.Confidence)
	assert.Empty(t, res.Warnings)
}

func TestResolveRejectsUnparseableDatetime(t *testing.T) {
	r := New(nil, ProfileAstroCom)
	_, err := r.Resolve(Input{
		LocalDatetime: "not a date",
		Place:         &Place{LatDeg: 40.7, LonDeg: -74.0},
		Profile:       ProfileAstroCom,
	})
	require.Error(t, err)
}
