package api

import (
	"fmt"

	"github.com/eburns009/ephemeris-service/internal/apierr"
	"github.com/eburns009/ephemeris-service/internal/compute"
)

// validatePositionsRequest hand-rolls the checks go-playground/validator's
// struct tags can't express cleanly: the "when" union type (utc XOR
// local_datetime+place) and the cross-field sidereal/ayanamsha requirement.
func validatePositionsRequest(req PositionsRequest) error {
	hasUTC := req.When.UTC != ""
	hasLocal := req.When.LocalDatetime != ""
	switch {
	case hasUTC == hasLocal:
		return fmt.Errorf("%w: when must set exactly one of utc or local_datetime+place", apierr.ErrInvalidRequest)
	case hasLocal && req.When.Place == nil:
		return fmt.Errorf("%w: local_datetime requires place", apierr.ErrInvalidRequest)
	}

	switch compute.System(req.System) {
	case compute.Tropical, compute.Sidereal:
	default:
		return fmt.Errorf("%w: system must be tropical or sidereal", apierr.ErrInvalidRequest)
	}

	if compute.System(req.System) == compute.Sidereal && (req.Ayanamsha == nil || req.Ayanamsha.ID == "") {
		return fmt.Errorf("%w: sidereal system requires ayanamsha.id", apierr.ErrAyanamshaRequired)
	}
	if compute.System(req.System) == compute.Tropical && req.Ayanamsha != nil && req.Ayanamsha.ID != "" {
		return fmt.Errorf("%w: tropical system does not take ayanamsha.id", apierr.ErrSystemIncompatible)
	}

	if len(req.Bodies) == 0 {
		return fmt.Errorf("%w: bodies must not be empty", apierr.ErrInvalidRequest)
	}
	for _, name := range req.Bodies {
		if _, err := compute.ParseBody(name); err != nil {
			return err
		}
	}

	if req.Frame != nil {
		switch compute.FrameType(req.Frame.Type) {
		case compute.FrameEclipticOfDate, compute.FrameEquatorial:
		default:
			return fmt.Errorf("%w: unknown frame type %q", apierr.ErrInvalidRequest, req.Frame.Type)
		}
	}

	return nil
}

// frameSpec resolves the optional FrameRequest onto a concrete FrameSpec,
// defaulting to ecliptic-of-date as the documented default frame.
func frameSpec(req *FrameRequest) compute.FrameSpec {
	if req == nil || req.Type == "" {
		return compute.FrameSpec{Type: compute.FrameEclipticOfDate, EpochOf: compute.EpochOfDate}
	}
	if compute.FrameType(req.Type) == compute.FrameEquatorial {
		return compute.FrameSpec{Type: compute.FrameEquatorial, EpochOf: compute.EpochJ2000}
	}
	return compute.FrameSpec{Type: compute.FrameEclipticOfDate, EpochOf: compute.EpochOfDate}
}
