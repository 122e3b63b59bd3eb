package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/eburns009/ephemeris-service/internal/apierr"
	"github.com/eburns009/ephemeris-service/internal/compute"
	"github.com/eburns009/ephemeris-service/internal/fingerprint"
	"github.com/eburns009/ephemeris-service/internal/timeresolve"
)

func (s *Server) handlePositions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestIDFrom(ctx)

	decision, err := s.limiter.Allow(ctx, r)
	if err != nil {
		writeError(w, requestID, err)
		return
	}
	if !decision.Allowed {
		w.Header().Set("Retry-After", strconv.Itoa(int(decision.RetryAfter.Seconds())))
		writeError(w, requestID, apierr.ErrRateLimited)
		return
	}

	var body PositionsRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, requestID, fmt.Errorf("%w: malformed JSON body: %v", apierr.ErrInvalidRequest, err))
		return
	}
	if err := validatePositionsRequest(body); err != nil {
		writeError(w, requestID, err)
		return
	}

	req, resolution, err := s.buildComputeRequest(ctx, body)
	if err != nil {
		writeError(w, requestID, err)
		return
	}

	key := fingerprint.Of(req)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == key {
		w.Header().Set("ETag", key)
		w.Header().Set("X-Request-Id", requestID)
		w.WriteHeader(http.StatusNotModified)
		return
	}

	result, err := s.cache.Fetch(ctx, key, func(ctx context.Context) (compute.Result, error) {
		return s.pool.Submit(ctx, req)
	})
	if err != nil {
		writeError(w, requestID, err)
		return
	}

	resp := PositionsResponse{
		UTC:    compute.TimeFromJD(req.EpochJD).Format(time.RFC3339),
		Bodies: result.Bodies,
		Provenance: ResponseProvenance{
			Provenance:     result.Provenance,
			TimeResolution: resolution,
		},
	}

	w.Header().Set("ETag", key)
	writeJSON(w, http.StatusOK, resp)
}

// buildComputeRequest resolves the "when" union into an epoch Julian Date
// (invoking the time resolver for a civil local_datetime), selects the
// kernel bundle for that epoch, and assembles a compute.Request.
func (s *Server) buildComputeRequest(ctx context.Context, body PositionsRequest) (compute.Request, *timeresolve.Resolution, error) {
	var (
		jd         float64
		resolution *timeresolve.Resolution
	)

	if body.When.UTC != "" {
		t, err := time.Parse(time.RFC3339, body.When.UTC)
		if err != nil {
			return compute.Request{}, nil, fmt.Errorf("%w: utc must be RFC3339: %v", apierr.ErrInvalidRequest, err)
		}
		jd = compute.JDFromTime(t)
	} else {
		profile := timeresolve.Profile(body.When.ParityProfile)
		res, err := s.resolver.Resolve(timeresolve.Input{
			LocalDatetime: body.When.LocalDatetime,
			Place:         &timeresolve.Place{LatDeg: body.When.Place.Lat, LonDeg: body.When.Place.Lon},
			Profile:       profile,
		})
		if err != nil {
			return compute.Request{}, nil, err
		}
		resolution = &res
		jd = compute.JDFromTime(res.UTCEpoch)
	}

	bundleID, err := s.selectBundle(jd)
	if err != nil {
		return compute.Request{}, nil, err
	}

	var observer compute.Observer
	if body.When.Place != nil {
		elev := 0.0
		if body.When.Place.Elev != nil {
			elev = *body.When.Place.Elev
		}
		observer = compute.Observer{LatDeg: body.When.Place.Lat, LonDeg: body.When.Place.Lon, ElevM: elev}
	}

	bodies := make([]compute.Body, 0, len(body.Bodies))
	for _, name := range body.Bodies {
		b, _ := compute.ParseBody(name) // already validated
		bodies = append(bodies, b)
	}

	ayan := compute.Ayanamsha{}
	if body.Ayanamsha != nil {
		ayan.ID = body.Ayanamsha.ID
	}

	return compute.Request{
		EpochJD:   jd,
		Observer:  observer,
		Bodies:    bodies,
		Frame:     frameSpec(body.Frame),
		System:    compute.System(body.System),
		Ayanamsha: ayan,
		BundleID:  bundleID,
	}, resolution, nil
}

// selectBundle implements the auto-handoff policy when bundleMode is
// "auto", else pins the configured bundle regardless of epoch.
func (s *Server) selectBundle(jd float64) (string, error) {
	if s.bundleMode != "auto" && s.bundleMode != "" {
		return s.bundleMode, nil
	}
	return s.kernels.SelectForEpoch(jd, primaryBundleID, extendedBundleID)
}

func (s *Server) handleTimeResolve(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestIDFrom(ctx)

	var body TimeResolveRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, requestID, fmt.Errorf("%w: malformed JSON body: %v", apierr.ErrInvalidRequest, err))
		return
	}

	in := timeresolve.Input{
		LocalDatetime: body.LocalDatetime,
		ExplicitZone:  body.ExplicitZone,
		Profile:       timeresolve.Profile(body.ParityProfile),
	}
	if body.UTC != "" {
		t, err := time.Parse(time.RFC3339, body.UTC)
		if err != nil {
			writeError(w, requestID, fmt.Errorf("%w: utc must be RFC3339: %v", apierr.ErrInvalidRequest, err))
			return
		}
		in.UTC = &t
	} else if body.Place != nil {
		in.Place = &timeresolve.Place{LatDeg: body.Place.Lat, LonDeg: body.Place.Lon}
	}

	res, err := s.resolver.Resolve(in)
	if err != nil {
		writeError(w, requestID, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleGeocodeSearch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestIDFrom(ctx)

	q := r.URL.Query().Get("q")
	if q == "" {
		writeError(w, requestID, fmt.Errorf("%w: q is required", apierr.ErrInvalidRequest))
		return
	}

	results, err := s.geocoder.Search(ctx, q)
	if err != nil {
		writeError(w, requestID, err)
		return
	}

	out := make([]GeocodeResult, 0, len(results))
	for _, res := range results {
		out = append(out, GeocodeResult{DisplayName: res.Name, Lat: res.LatDeg, Lon: res.LonDeg})
	}
	writeJSON(w, http.StatusOK, GeocodeResponse{Results: out})
}
