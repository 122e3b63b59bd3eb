package api

import (
	"github.com/eburns009/ephemeris-service/internal/compute"
	"github.com/eburns009/ephemeris-service/internal/timeresolve"
)

// PlaceRequest is the {lat, lon, elev?} shape nested under a local-datetime When.
type PlaceRequest struct {
	Lat  float64  `json:"lat"`
	Lon  float64  `json:"lon"`
	Elev *float64 `json:"elev,omitempty"`
}

// WhenRequest is the union-typed "when" field: either UTC, or a civil
// local_datetime paired with a place. Exactly one of the two shapes must be
// populated; validate.go enforces the XOR.
type WhenRequest struct {
	UTC           string        `json:"utc,omitempty"`
	LocalDatetime string        `json:"local_datetime,omitempty"`
	Place         *PlaceRequest `json:"place,omitempty"`
	ParityProfile string        `json:"parity_profile,omitempty"`
}

// AyanamshaRequest names the sidereal ayanāṃśa to apply.
type AyanamshaRequest struct {
	ID string `json:"id"`
}

// FrameRequest selects the reference frame for returned coordinates.
type FrameRequest struct {
	Type string `json:"type"`
}

// PositionsRequest is the POST /v1/positions request body.
type PositionsRequest struct {
	When      WhenRequest       `json:"when"`
	System    string            `json:"system"`
	Ayanamsha *AyanamshaRequest `json:"ayanamsha,omitempty"`
	Frame     *FrameRequest     `json:"frame,omitempty"`
	Epoch     string            `json:"epoch,omitempty"`
	Bodies    []string          `json:"bodies"`
}

// PositionsResponse is the POST /v1/positions response body.
type PositionsResponse struct {
	UTC        string               `json:"utc"`
	Bodies     []compute.BodyResult `json:"bodies"`
	Provenance ResponseProvenance   `json:"provenance"`
}

// ResponseProvenance extends the Compute Core's Provenance with the
// optional time_resolution block, populated only when the request carried
// a civil local_datetime (the union branch that invokes the resolver).
type ResponseProvenance struct {
	compute.Provenance
	TimeResolution *timeresolve.Resolution `json:"time_resolution,omitempty"`
}

// ErrorResponse is the user-visible error payload: code, title, detail, tip
// only, per the documented policy of never leaking a raw native message.
type ErrorResponse struct {
	Code   string `json:"code"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
	Tip    string `json:"tip"`
}

// TimeResolveRequest is the POST /v1/time/resolve request body.
type TimeResolveRequest struct {
	UTC           string        `json:"utc,omitempty"`
	LocalDatetime string        `json:"local_datetime,omitempty"`
	Place         *PlaceRequest `json:"place,omitempty"`
	ExplicitZone  string        `json:"explicit_zone,omitempty"`
	ParityProfile string        `json:"parity_profile,omitempty"`
}

// GeocodeResponse wraps the geocoder's raw results under a "results" key.
type GeocodeResponse struct {
	Results []GeocodeResult `json:"results"`
}

// GeocodeResult is one candidate place match.
type GeocodeResult struct {
	DisplayName string  `json:"display_name"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	PlaceRank   int     `json:"place_rank,omitempty"`
}

// HealthResponse is the GET /healthz aggregate status payload.
type HealthResponse struct {
	Status     string                     `json:"status"`
	UptimeSecs float64                    `json:"uptime_secs"`
	Components map[string]ComponentHealth `json:"components"`
}

// ComponentHealth is one subsystem's contribution to /healthz.
type ComponentHealth struct {
	Status  string                 `json:"status"`
	Details map[string]interface{} `json:"details,omitempty"`
}
