// Package fingerprint derives a stable cache key and ETag from a
// compute.Request by canonicalizing its fields into a deterministic tuple
// before hashing, so requests that are semantically identical but arrived
// with, say, a different body ordering or JSON key order still collapse to
// the same key.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/eburns009/ephemeris-service/internal/compute"
)

// Of returns the hex-encoded SHA-256 digest of req's canonical form. The
// same string doubles as the HTTP ETag value.
func Of(req compute.Request) string {
	sum := sha256.Sum256([]byte(canonicalize(req)))
	return hex.EncodeToString(sum[:])
}

// canonicalize produces a deterministic, human-auditable string encoding of
// the parts of a request that affect its computed result. Field order is
// fixed; body names are sorted so request.Bodies order never changes the
// fingerprint.
func canonicalize(req compute.Request) string {
	bodies := make([]string, len(req.Bodies))
	for i, b := range req.Bodies {
		bodies[i] = string(b)
	}
	sort.Strings(bodies)

	var sb strings.Builder
	fmt.Fprintf(&sb, "epoch_jd=%.8f;", req.EpochJD)
	fmt.Fprintf(&sb, "observer=%.6f,%.6f,%.3f;", req.Observer.LatDeg, req.Observer.LonDeg, req.Observer.ElevM)
	fmt.Fprintf(&sb, "bodies=%s;", strings.Join(bodies, ","))
	fmt.Fprintf(&sb, "frame=%s/%s;", req.Frame.Type, req.Frame.EpochOf)
	fmt.Fprintf(&sb, "system=%s;", req.System)
	fmt.Fprintf(&sb, "ayanamsha=%s;", req.Ayanamsha.ID)
	fmt.Fprintf(&sb, "bundle=%s;", req.BundleID)
	return sb.String()
}
