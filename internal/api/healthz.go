package api

import (
	"net/http"
	"time"
)

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	components := map[string]ComponentHealth{
		"pool":  s.poolHealth(),
		"cache": s.cacheHealth(),
	}
	if s.limiter != nil {
		components["rate_limit"] = s.rateLimitHealth()
	}
	if s.manifest != nil {
		components["kernels"] = s.kernelsHealth()
	}

	status := "healthy"
	for _, c := range components {
		if c.Status == "unhealthy" {
			status = "unhealthy"
			break
		}
		if c.Status == "degraded" {
			status = "degraded"
		}
	}

	writeJSON(w, http.StatusOK, HealthResponse{
		Status:     status,
		UptimeSecs: time.Since(s.startedAt).Seconds(),
		Components: components,
	})
}

func (s *Server) poolHealth() ComponentHealth {
	st := s.pool.Status()
	status := "healthy"
	if st.SlotsByState["idle"]+st.SlotsByState["busy"] == 0 {
		status = "unhealthy"
	} else if st.SlotsByState["dead"] > 0 {
		status = "degraded"
	}
	return ComponentHealth{
		Status: status,
		Details: map[string]interface{}{
			"slots_by_state": st.SlotsByState,
			"queue_depth":    st.QueueDepth,
			"queue_size":     st.QueueSize,
		},
	}
}

func (s *Server) cacheHealth() ComponentHealth {
	stats := s.cache.Stats()
	status := "healthy"
	if stats.L2Errors > 0 {
		status = "degraded"
	}
	return ComponentHealth{
		Status: status,
		Details: map[string]interface{}{
			"l1_hits":   stats.L1Hits,
			"l2_hits":   stats.L2Hits,
			"misses":    stats.Misses,
			"l2_errors": stats.L2Errors,
		},
	}
}

func (s *Server) rateLimitHealth() ComponentHealth {
	degraded := s.limiter.DegradedCount()
	status := "healthy"
	if degraded > 0 {
		status = "degraded"
	}
	return ComponentHealth{
		Status:  status,
		Details: map[string]interface{}{"degraded_decisions": degraded},
	}
}

func (s *Server) kernelsHealth() ComponentHealth {
	checksums := make(map[string]string)
	for _, b := range s.manifest.Bundles {
		for _, f := range b.Files {
			checksums[f.Path] = f.SHA256
		}
	}
	return ComponentHealth{
		Status:  "healthy",
		Details: map[string]interface{}{"bundle_checksums": checksums},
	}
}
