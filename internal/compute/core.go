package compute

import (
	"fmt"

	"github.com/eburns009/ephemeris-service/internal/ayanamsha"
)

// ErrSiderealEquatorial means the caller asked for sidereal longitudes in
// the equatorial frame; ayanamsha correction only applies to ecliptic
// longitude, so the combination is rejected rather than silently ignored.
var ErrSiderealEquatorial = fmt.Errorf("compute: sidereal system requires the ecliptic_of_date frame")

// Core is the Compute Core: it turns a Request into ecliptic or equatorial
// coordinates for each requested body, using a Native implementation for
// raw state vectors and an ayanamsha.Registry for sidereal offsets.
type Core struct {
	native    Native
	ayanamsha *ayanamsha.Registry
}

// NewCore builds a Compute Core bound to one opened kernel bundle's Native
// adapter and the shared ayanamsha registry.
func NewCore(native Native, reg *ayanamsha.Registry) *Core {
	return &Core{native: native, ayanamsha: reg}
}

// Evaluate computes coordinates for every body in req.Bodies.
func (c *Core) Evaluate(req Request) (Result, error) {
	if err := req.Frame.Validate(); err != nil {
		return Result{}, err
	}
	if req.System == Sidereal && req.Frame.Type != FrameEclipticOfDate {
		return Result{}, ErrSiderealEquatorial
	}

	var ayanOffset float64
	ayanID := ""
	if req.System == Sidereal {
		id := req.Ayanamsha.ID
		if id == "" {
			return Result{}, ayanamsha.ErrRequired
		}
		off, err := c.ayanamsha.Resolve(id, req.EpochJD)
		if err != nil {
			return Result{}, err
		}
		ayanOffset = off
		ayanID = id
	}

	lo, hi := c.native.Coverage()
	if req.EpochJD < lo || req.EpochJD > hi {
		return Result{}, fmt.Errorf("%w: epoch %.4f outside [%.4f, %.4f]", ErrEpochOutsideCoverage, req.EpochJD, lo, hi)
	}

	results := make([]BodyResult, 0, len(req.Bodies))
	for _, body := range req.Bodies {
		br, err := c.evaluateOne(req, body, ayanOffset)
		if err != nil {
			return Result{}, fmt.Errorf("body %s: %w", body, err)
		}
		results = append(results, br)
	}

	return Result{
		Bodies: results,
		Provenance: Provenance{
			System:            req.System,
			Frame:             req.Frame,
			Ephemeris:         req.BundleID,
			Ayanamsha:         ayanID,
			ObserverFrameUsed: "fallback_simple",
		},
	}, nil
}

func (c *Core) evaluateOne(req Request, body Body, ayanOffset float64) (BodyResult, error) {
	if isLunarNode(body) {
		return c.evaluateNode(req, ayanOffset, body)
	}

	mapping, ok := bodyToNative[body]
	if !ok {
		return BodyResult{}, fmt.Errorf("%w: %s", ErrUnsupportedBody, body)
	}

	pos, _, err := c.native.StateVector(req.EpochJD, mapping.target, mapping.center)
	if err != nil {
		return BodyResult{}, err
	}

	topocentric := subtract(pos, observerVector(req.EpochJD, req.Observer))

	switch req.Frame.Type {
	case FrameEquatorial:
		ra, dec, dist := cartesianToEquatorial(topocentric)
		return BodyResult{Name: body, RAHours: ptr(ra), DecDeg: ptr(dec), DistanceAU: dist}, nil
	case FrameEclipticOfDate:
		t := julianCenturiesTT(req.EpochJD)
		obliquity := meanObliquityIAU1980(t)
		ecl := equatorialToEcliptic(topocentric, obliquity)
		lon, lat, dist := cartesianToSpherical(ecl)
		if req.System == Sidereal {
			lon = degrees(lon - ayanOffset)
		}
		return BodyResult{Name: body, LonDeg: ptr(lon), LatDeg: ptr(lat), DistanceAU: dist}, nil
	default:
		return BodyResult{}, ErrInvalidFrame
	}
}

// evaluateNode handles TrueNode/MeanNode, which have no state vector:
// their longitude is computed analytically and their latitude is always 0
// by definition of "node". Distance is left unset (0).
func (c *Core) evaluateNode(req Request, ayanOffset float64, body Body) (BodyResult, error) {
	lon, err := lunarNodeLongitude(body, req.EpochJD)
	if err != nil {
		return BodyResult{}, err
	}

	switch req.Frame.Type {
	case FrameEclipticOfDate:
		if req.System == Sidereal {
			lon = degrees(lon - ayanOffset)
		}
		return BodyResult{Name: body, LonDeg: ptr(lon), LatDeg: ptr(0.0)}, nil
	case FrameEquatorial:
		// A node has no latitude, so its equatorial RA/Dec are those of a
		// point at ecliptic latitude 0 at the node's ecliptic longitude.
		t := julianCenturiesTT(req.EpochJD)
		obliquity := meanObliquityIAU1980(t)
		ra, dec := eclipticPointToEquatorial(lon, 0, obliquity)
		return BodyResult{Name: body, RAHours: ptr(ra), DecDeg: ptr(dec)}, nil
	default:
		return BodyResult{}, ErrInvalidFrame
	}
}

func observerVector(jd float64, obs Observer) [3]float64 {
	if obs == (Observer{}) {
		return [3]float64{0, 0, 0}
	}
	fixed := observerGeocentricVector(obs)
	return siderealRotation(fixed, jd)
}

func subtract(a, b [3]float64) [3]float64 {
	return [3]float64{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func ptr(f float64) *float64 { return &f }
