// Package apierr maps internal error causes onto the HTTP-facing error
// taxonomy: a stable code, an HTTP status, and a short remediation tip.
// Internal packages return plain wrapped errors (fmt.Errorf("%w", ...));
// this package is the single place that knows how to translate them for
// the wire.
package apierr

import (
	"errors"
	"fmt"

	"github.com/eburns009/ephemeris-service/internal/ayanamsha"
	"github.com/eburns009/ephemeris-service/internal/compute"
	"github.com/eburns009/ephemeris-service/internal/kernel"
)

// Sentinel causes used across package boundaries (pool, kernel, cache,
// ratelimit, timeresolve) so apierr can recognize them with errors.Is.
var (
	ErrTimeout            = errors.New("apierr: operation timed out")
	ErrWorkerCrashed      = errors.New("apierr: worker process crashed")
	ErrInvalidRequest     = errors.New("apierr: invalid request")
	ErrSystemIncompatible = errors.New("apierr: ayanamsha and system disagree")
	ErrResolutionFailed   = errors.New("apierr: time resolution failed")
	ErrRateLimited        = errors.New("apierr: rate limit exceeded")
	ErrGeocodeUnavailable = errors.New("apierr: geocoding backend unavailable")
	ErrAmbiguousLocalTime = errors.New("apierr: ambiguous local civil time")
	ErrQueueFull          = errors.New("apierr: job queue is full")
	ErrPoolClosed         = errors.New("apierr: worker pool is shut down")
)

// ErrAyanamshaRequired re-exports ayanamsha.ErrRequired under this package so
// callers building requests (internal/api) only need to import apierr for
// both the sentinel and its taxonomy entry.
var ErrAyanamshaRequired = ayanamsha.ErrRequired

// Code is a stable machine-readable taxonomy code, e.g. "RANGE.EPHEMERIS_OUTSIDE".
type Code string

const (
	CodeTimeout            Code = "WORKER.TIMEOUT"
	CodeWorkerCrashed      Code = "WORKER.CRASHED"
	CodeKernelNotAvailable Code = "KERNELS.NOT_AVAILABLE"
	CodeKernelCorruption   Code = "KERNELS.CORRUPTION"
	CodeOutsideCoverage    Code = "RANGE.EPHEMERIS_OUTSIDE"
	CodeInvalidRequest     Code = "INPUT.INVALID"
	CodeUnsupportedBody    Code = "BODIES.UNSUPPORTED"
	CodeSystemIncompatible Code = "SYSTEM.INCOMPATIBLE"
	CodeResolutionFailed   Code = "TIME.RESOLUTION_FAILED"
	CodeRateLimited        Code = "RATE.LIMITED"
	CodeGeocodeUnavailable Code = "GEOCODE.UNAVAILABLE"
	CodeAmbiguousLocalTime Code = "TIME.AMBIGUOUS_LOCAL"
	CodeAyanamshaRequired  Code = "AYANAMSHA.REQUIRED"
	CodeQueueFull          Code = "SERVICE.OVERLOADED"
	CodePoolClosed         Code = "WORKER.POOL_CLOSED"
	CodeComputeFailure     Code = "COMPUTE.EPHEMERIS_ERROR"
	CodeInternal           Code = "INTERNAL.UNEXPECTED"
)

type entry struct {
	code       Code
	httpStatus int
	tip        string
}

var taxonomy = []struct {
	cause error
	entry entry
}{
	{ErrTimeout, entry{CodeTimeout, 504, "retry the request; if it keeps timing out the worker pool may be saturated"}},
	{ErrWorkerCrashed, entry{CodeWorkerCrashed, 502, "retry the request; a replacement worker is started automatically"}},
	{kernel.ErrNotAvailable, entry{CodeKernelNotAvailable, 500, "retry; report if persistent"}},
	{kernel.ErrCorruption, entry{CodeKernelCorruption, 500, "retry; report if persistent"}},
	{kernel.ErrOutsideCoverage, entry{CodeOutsideCoverage, 400, "use a supported date range or enable the extended bundle"}},
	{compute.ErrEpochOutsideCoverage, entry{CodeOutsideCoverage, 400, "use a supported date range or enable the extended bundle"}},
	{compute.ErrUnsupportedBody, entry{CodeUnsupportedBody, 400, "use the supported body list"}},
	{ErrSystemIncompatible, entry{CodeSystemIncompatible, 400, "remove or add ayanamsha.id to match the requested system"}},
	{ErrResolutionFailed, entry{CodeResolutionFailed, 400, "provide an explicit zone or UTC offset"}},
	{ErrInvalidRequest, entry{CodeInvalidRequest, 400, "check the request body against the documented schema"}},
	{ErrRateLimited, entry{CodeRateLimited, 429, "slow down and retry after the Retry-After interval"}},
	{ErrGeocodeUnavailable, entry{CodeGeocodeUnavailable, 503, "supply explicit lat/lon/elevation instead of a place name"}},
	{ErrAmbiguousLocalTime, entry{CodeAmbiguousLocalTime, 422, "disambiguate by supplying a UTC offset or choosing a parity profile"}},
	{ErrAyanamshaRequired, entry{CodeAyanamshaRequired, 422, "supply ayanamsha.id when system is sidereal"}},
	{compute.ErrInvalidFrame, entry{CodeInvalidRequest, 400, "frame type and epoch_of must be one of the documented pairs"}},
	{compute.ErrSiderealEquatorial, entry{CodeInvalidRequest, 400, "sidereal system only applies to the ecliptic_of_date frame"}},
	{compute.ErrNativeFailure, entry{CodeComputeFailure, 500, "retry; report if persistent"}},
	{ErrQueueFull, entry{CodeQueueFull, 503, "the worker pool is saturated; retry shortly"}},
	{ErrPoolClosed, entry{CodePoolClosed, 503, "the server is shutting down; retry against another instance"}},
}

// Error is the typed, wire-ready error the HTTP layer serializes.
type Error struct {
	Code       Code
	HTTPStatus int
	Tip        string
	cause      error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Code, e.cause)
	}
	return string(e.Code)
}

func (e *Error) Unwrap() error { return e.cause }

// Map classifies err against the known taxonomy, falling back to a generic
// internal-error entry when nothing matches.
func Map(err error) *Error {
	for _, t := range taxonomy {
		if errors.Is(err, t.cause) {
			return &Error{Code: t.entry.code, HTTPStatus: t.entry.httpStatus, Tip: t.entry.tip, cause: err}
		}
	}
	return &Error{Code: CodeInternal, HTTPStatus: 500, Tip: "this is unexpected; please report it", cause: err}
}

// LookupSentinel resolves a wire taxonomy code back to its sentinel cause,
// used when a worker subprocess reports an error by code and the pool
// package needs to re-wrap it as a Go error.
func LookupSentinel(code string) (error, bool) {
	for _, t := range taxonomy {
		if string(t.entry.code) == code {
			return t.cause, true
		}
	}
	return nil, false
}
