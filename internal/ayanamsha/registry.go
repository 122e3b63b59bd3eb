// Package ayanamsha resolves a sidereal zodiac's offset from the tropical
// zodiac at a given epoch. Entries come from a declarative config file so
// adding a new ayanāṃśa needs no code change for the common "fixed" kind.
package ayanamsha

import (
	"errors"
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// ErrUnsupported means the requested id has no matching registry entry.
var ErrUnsupported = errors.New("ayanamsha: unsupported id")

// ErrRequired means a sidereal request omitted the ayanamsha id entirely.
var ErrRequired = errors.New("ayanamsha: id required for sidereal system")

// Kind distinguishes the two ways an entry's offset can be computed.
type Kind string

const (
	KindFixed   Kind = "fixed"
	KindFormula Kind = "formula"
)

// Entry is one ayanāṃśa definition.
type Entry struct {
	ID      string  `koanf:"id"`
	Kind    Kind    `koanf:"kind"`
	RefJD   float64 `koanf:"reference_epoch"`   // Julian Ephemeris Date
	Offset  float64 `koanf:"offset_at_epoch"`   // degrees, at RefJD
	RatePer float64 `koanf:"precession_rate_per_year"`
	Formula string  `koanf:"formula"` // only meaningful when Kind == KindFormula
}

type fileSchema struct {
	Ayanamshas []Entry `koanf:"ayanamshas"`
}

// Registry resolves ayanāṃśa ids to their degree offset at a given epoch.
type Registry struct {
	byID map[string]Entry // keyed lower-case
}

// Load reads the declarative registry file.
func Load(path string) (*Registry, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("ayanamsha: load %s: %w", path, err)
	}
	var fs fileSchema
	if err := k.Unmarshal("", &fs); err != nil {
		return nil, fmt.Errorf("ayanamsha: parse %s: %w", path, err)
	}

	r := &Registry{byID: make(map[string]Entry, len(fs.Ayanamshas))}
	for _, e := range fs.Ayanamshas {
		r.byID[strings.ToLower(e.ID)] = e
	}
	return r, nil
}

// NewFromEntries builds a Registry directly from in-memory entries, without
// reading a config file. Useful for embedding a small built-in default set
// or for tests.
func NewFromEntries(entries []Entry) *Registry {
	r := &Registry{byID: make(map[string]Entry, len(entries))}
	for _, e := range entries {
		r.byID[strings.ToLower(e.ID)] = e
	}
	return r
}

// List returns every registered entry.
func (r *Registry) List() []Entry {
	out := make([]Entry, 0, len(r.byID))
	for _, e := range r.byID {
		out = append(out, e)
	}
	return out
}

// Validate reports whether id resolves to a known entry.
func (r *Registry) Validate(id string) error {
	if _, ok := r.byID[strings.ToLower(id)]; !ok {
		return fmt.Errorf("%w: %q", ErrUnsupported, id)
	}
	return nil
}

// Resolve returns the ayanāṃśa offset, in degrees, at the given Julian
// Ephemeris Date. Lookup is case-insensitive.
func (r *Registry) Resolve(id string, jd float64) (float64, error) {
	e, ok := r.byID[strings.ToLower(id)]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnsupported, id)
	}
	switch e.Kind {
	case KindFixed:
		return fixedOffset(e, jd), nil
	case KindFormula:
		return formulaOffset(e, jd)
	default:
		return 0, fmt.Errorf("ayanamsha: entry %q has unknown kind %q", e.ID, e.Kind)
	}
}

// years converts a Julian Ephemeris Date to a Julian-year count, consistent
// with how reference_epoch/precession_rate_per_year are defined in the
// registry file (Julian years of 365.25 days from J2000.0).
func years(jd float64) float64 {
	const j2000 = 2451545.0
	return 2000.0 + (jd-j2000)/365.25
}

func fixedOffset(e Entry, jd float64) float64 {
	return e.Offset + e.RatePer*(years(jd)-years(e.RefJD))
}

// formulaOffset evaluates one of a small enumerated set of closed-form
// ayanāṃśa definitions that aren't well modeled as a single linear rate.
// Every formula currently known in this registry reduces to the fixed-entry
// computation with its own reference point, so the two code paths share
// fixedOffset; a genuinely non-linear formula would get its own case here.
func formulaOffset(e Entry, jd float64) (float64, error) {
	switch strings.ToLower(e.Formula) {
	case "", "linear":
		return fixedOffset(e, jd), nil
	default:
		return 0, fmt.Errorf("ayanamsha: unknown formula %q for entry %q", e.Formula, e.ID)
	}
}
