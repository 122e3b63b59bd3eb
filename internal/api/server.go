// Package api wires the HTTP surface: request parsing and validation,
// rate limiting, fingerprinting, cache lookup, and dispatch to the worker
// pool, plus the time-resolution and geocode passthrough endpoints.
package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"github.com/eburns009/ephemeris-service/internal/ayanamsha"
	"github.com/eburns009/ephemeris-service/internal/cache"
	"github.com/eburns009/ephemeris-service/internal/geocode"
	"github.com/eburns009/ephemeris-service/internal/kernel"
	"github.com/eburns009/ephemeris-service/internal/pool"
	"github.com/eburns009/ephemeris-service/internal/ratelimit"
	"github.com/eburns009/ephemeris-service/internal/timeresolve"
)

// Server holds every dependency a request handler needs. It is built once
// at startup by the Runtime and is safe for concurrent use: every field is
// either immutable after construction or internally synchronized.
type Server struct {
	log *logrus.Logger

	pool      *pool.Pool
	cache     *cache.Cache
	limiter   *ratelimit.Limiter
	ayanamsha *ayanamsha.Registry
	resolver  *timeresolve.Resolver
	geocoder  *geocode.Client
	kernels   *kernel.Manager
	manifest  *kernel.Manifest

	bundleMode string // "auto", or a fixed bundle id like "DE440"
	startedAt  time.Time
}

// Auto handoff is always between exactly these two bundles, matching the
// manifest entries every deployment of this service is expected to carry.
const (
	primaryBundleID  = "DE440"
	extendedBundleID = "DE441"
)

// Deps bundles the Server's constructor arguments.
type Deps struct {
	Log        *logrus.Logger
	Pool       *pool.Pool
	Cache      *cache.Cache
	Limiter    *ratelimit.Limiter
	Ayanamsha  *ayanamsha.Registry
	Resolver   *timeresolve.Resolver
	Geocoder   *geocode.Client
	Kernels    *kernel.Manager
	Manifest   *kernel.Manifest
	BundleMode string
}

// NewServer builds a Server from its dependencies.
func NewServer(d Deps) *Server {
	return &Server{
		log:        d.Log,
		pool:       d.Pool,
		cache:      d.Cache,
		limiter:    d.Limiter,
		ayanamsha:  d.Ayanamsha,
		resolver:   d.Resolver,
		geocoder:   d.Geocoder,
		kernels:    d.Kernels,
		manifest:   d.Manifest,
		bundleMode: d.BundleMode,
		startedAt:  time.Now(),
	}
}

// Router builds the top-level http.Handler: gorilla/mux routing, rs/cors,
// and the request-id/logging/recovery middleware chain.
func (s *Server) Router(allowedOrigins []string) http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/v1/positions", s.handlePositions).Methods(http.MethodPost)
	r.HandleFunc("/v1/time/resolve", s.handleTimeResolve).Methods(http.MethodPost)
	r.HandleFunc("/v1/geocode/search", s.handleGeocodeSearch).Methods(http.MethodGet)
	r.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)

	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type", "If-None-Match"},
	})

	return s.withRequestID(c.Handler(r))
}

// withRequestID assigns (or echoes) an X-Request-Id, sets it on the response
// and the request context, and recovers any handler panic into a 500
// (logged with the request id) rather than taking the server down.
func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get("X-Request-Id")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", reqID)

		defer func() {
			if rec := recover(); rec != nil {
				s.log.WithFields(logrus.Fields{"request_id": reqID, "panic": rec}).Error("handler panic recovered")
				writeError(w, reqID, &recoveredError{})
			}
		}()

		next.ServeHTTP(w, r.WithContext(withRequestID(r.Context(), reqID)))
	})
}
