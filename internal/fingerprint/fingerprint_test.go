package fingerprint

import (
	"testing"

	"github.com/eburns009/ephemeris-service/internal/compute"
	"github.com/stretchr/testify/assert"
)

func baseRequest() compute.Request {
	return compute.Request{
		EpochJD: 2451545.0,
		Bodies:  []compute.Body{compute.Sun, compute.Moon},
		Frame:   compute.FrameSpec{Type: compute.FrameEclipticOfDate, EpochOf: compute.EpochOfDate},
		System:  compute.Tropical,
	}
}

func TestOfIsStableUnderBodyOrdering(t *testing.T) {
	a := baseRequest()
	a.Bodies = []compute.Body{compute.Sun, compute.Moon}

	b := baseRequest()
	b.Bodies = []compute.Body{compute.Moon, compute.Sun}

	assert.Equal(t, Of(a), Of(b))
}

func TestOfChangesWithEpoch(t *testing.T) {
	a := baseRequest()
	b := baseRequest()
	b.EpochJD += 1.0

	assert.NotEqual(t, Of(a), Of(b))
}

func TestOfChangesWithSystem(t *testing.T) {
	a := baseRequest()
	b := baseRequest()
	b.System = compute.Sidereal
	b.Ayanamsha = compute.Ayanamsha{ID: "lahiri"}

	assert.NotEqual(t, Of(a), Of(b))
}
