package api

import (
	"testing"

	"github.com/eburns009/ephemeris-service/internal/apierr"
	"github.com/eburns009/ephemeris-service/internal/compute"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseRequest() PositionsRequest {
	return PositionsRequest{
		When:   WhenRequest{UTC: "2024-01-01T00:00:00Z"},
		System: "tropical",
		Bodies: []string{"Sun"},
	}
}

func TestValidateRejectsTropicalWithAyanamsha(t *testing.T) {
	req := baseRequest()
	req.Ayanamsha = &AyanamshaRequest{ID: "lahiri"}

	err := validatePositionsRequest(req)
	require.Error(t, err)
	assert.ErrorIs(t, err, apierr.ErrSystemIncompatible)
}

func TestValidateRejectsSiderealWithoutAyanamsha(t *testing.T) {
	req := baseRequest()
	req.System = "sidereal"

	err := validatePositionsRequest(req)
	require.Error(t, err)
	assert.ErrorIs(t, err, apierr.ErrAyanamshaRequired)
}

func TestValidateAcceptsSiderealWithAyanamsha(t *testing.T) {
	req := baseRequest()
	req.System = "sidereal"
	req.Ayanamsha = &AyanamshaRequest{ID: "lahiri"}

	assert.NoError(t, validatePositionsRequest(req))
}

func TestValidateAcceptsTropicalWithoutAyanamsha(t *testing.T) {
	assert.NoError(t, validatePositionsRequest(baseRequest()))
}

func TestValidateRejectsUnknownBody(t *testing.T) {
	req := baseRequest()
	req.Bodies = []string{"Ceres"}

	err := validatePositionsRequest(req)
	require.Error(t, err)
	assert.ErrorIs(t, err, compute.ErrUnsupportedBody)
}
