package timeresolve

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Patch is a declarative correction to a zone's historically-modeled UTC
// offset for a bounded region and date range, used by the strict_history
// profile for pre-standardization anomalies the IANA tzdata rules don't
// capture (e.g. a locality that observed a different zone's clock in
// practice before a given date).
type Patch struct {
	Name          string  `koanf:"name"`
	MinLat        float64 `koanf:"min_lat"`
	MaxLat        float64 `koanf:"max_lat"`
	MinLon        float64 `koanf:"min_lon"`
	MaxLon        float64 `koanf:"max_lon"`
	Until         string  `koanf:"until"` // RFC3339 date; patch applies strictly before this
	OffsetSeconds int     `koanf:"offset_seconds"`
}

type patchFile struct {
	Patches []Patch `koanf:"patches"`
}

// PatchTable holds the loaded set of historical corrections.
type PatchTable struct {
	patches []Patch
}

// LoadPatchTable reads the declarative patch file.
func LoadPatchTable(path string) (*PatchTable, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("timeresolve: load patch table %s: %w", path, err)
	}
	var pf patchFile
	if err := k.Unmarshal("", &pf); err != nil {
		return nil, fmt.Errorf("timeresolve: parse patch table %s: %w", path, err)
	}
	return &PatchTable{patches: pf.Patches}, nil
}

// Find returns the first patch covering (lat, lon) whose Until date is
// after localNaive, or ok=false if none applies.
func (t *PatchTable) Find(latDeg, lonDeg float64, localNaive time.Time) (Patch, bool) {
	if t == nil {
		return Patch{}, false
	}
	for _, p := range t.patches {
		if latDeg < p.MinLat || latDeg > p.MaxLat || lonDeg < p.MinLon || lonDeg > p.MaxLon {
			continue
		}
		until, err := time.Parse("2006-01-02", strings.TrimSpace(p.Until))
		if err != nil {
			continue
		}
		if localNaive.Before(until) {
			return p, true
		}
	}
	return Patch{}, false
}
