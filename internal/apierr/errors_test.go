package apierr

import (
	"testing"

	"github.com/eburns009/ephemeris-service/internal/compute"
	"github.com/eburns009/ephemeris-service/internal/kernel"
	"github.com/stretchr/testify/assert"
)

func TestMapRestoresDocumentedCodesAndStatuses(t *testing.T) {
	cases := []struct {
		name       string
		cause      error
		code       Code
		httpStatus int
	}{
		{"epoch outside coverage (kernel)", kernel.ErrOutsideCoverage, CodeOutsideCoverage, 400},
		{"epoch outside coverage (compute)", compute.ErrEpochOutsideCoverage, CodeOutsideCoverage, 400},
		{"kernel file missing", kernel.ErrNotAvailable, CodeKernelNotAvailable, 500},
		{"kernel checksum mismatch", kernel.ErrCorruption, CodeKernelCorruption, 500},
		{"unsupported body", compute.ErrUnsupportedBody, CodeUnsupportedBody, 400},
		{"system/ayanamsha mismatch", ErrSystemIncompatible, CodeSystemIncompatible, 400},
		{"time resolution failed", ErrResolutionFailed, CodeResolutionFailed, 400},
		{"invalid request", ErrInvalidRequest, CodeInvalidRequest, 400},
		{"rate limited", ErrRateLimited, CodeRateLimited, 429},
		{"queue full", ErrQueueFull, CodeQueueFull, 503},
		{"native compute failure", compute.ErrNativeFailure, CodeComputeFailure, 500},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			mapped := Map(c.cause)
			assert.Equal(t, c.code, mapped.Code)
			assert.Equal(t, c.httpStatus, mapped.HTTPStatus)
		})
	}
}

func TestLookupSentinelRoundTripsKnownCodes(t *testing.T) {
	cause, ok := LookupSentinel(string(CodeResolutionFailed))
	assert.True(t, ok)
	assert.ErrorIs(t, cause, ErrResolutionFailed)
}

func TestMapFallsBackToInternalForUnknownCause(t *testing.T) {
	mapped := Map(assertNewErr("something else"))
	assert.Equal(t, CodeInternal, mapped.Code)
	assert.Equal(t, 500, mapped.HTTPStatus)
}

func assertNewErr(msg string) error {
	return &customErr{msg}
}

type customErr struct{ msg string }

func (e *customErr) Error() string { return e.msg }
