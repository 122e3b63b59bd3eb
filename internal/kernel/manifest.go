// Package kernel loads and verifies ephemeris kernel bundles and resolves
// which bundle covers a given epoch.
//
// A bundle is a named set of kernel files (e.g. DE440) plus the date
// interval it covers. Before a bundle is opened every declared file is
// hashed and compared against the manifest's recorded checksum; a mismatch
// or missing file fails the bundle open rather than the first compute call.
package kernel

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// FileEntry is one kernel file declared in a bundle manifest.
type FileEntry struct {
	Path   string `koanf:"path"`
	SHA256 string `koanf:"sha256"`
}

// BundleSpec is the declarative description of one kernel bundle, as read
// from the manifest file.
type BundleSpec struct {
	ID       string      `koanf:"id"`
	Files    []FileEntry `koanf:"files"`
	Coverage [2]float64  `koanf:"coverage"` // Julian Ephemeris Date [t_lo, t_hi]
}

// Manifest is the full set of declared bundles.
type Manifest struct {
	Bundles []BundleSpec `koanf:"bundles"`
}

// LoadManifest reads and parses a bundle manifest file. It does not touch
// the kernel files themselves; that happens in Manager.Open.
func LoadManifest(path string) (*Manifest, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("kernel: load manifest %s: %w", path, err)
	}
	var m Manifest
	if err := k.Unmarshal("", &m); err != nil {
		return nil, fmt.Errorf("kernel: parse manifest %s: %w", path, err)
	}
	if len(m.Bundles) == 0 {
		return nil, fmt.Errorf("kernel: manifest %s declares no bundles", path)
	}
	return &m, nil
}

// Find returns the bundle spec with the given id, case-sensitive (bundle
// ids are short fixed tokens like "DE440", not user-facing free text).
func (m *Manifest) Find(id string) (BundleSpec, bool) {
	for _, b := range m.Bundles {
		if b.ID == id {
			return b, true
		}
	}
	return BundleSpec{}, false
}

// ForEpoch returns the first bundle (in manifest order) whose coverage
// interval includes the given Julian Ephemeris Date.
func (m *Manifest) ForEpoch(jd float64) (BundleSpec, bool) {
	for _, b := range m.Bundles {
		if jd >= b.Coverage[0] && jd <= b.Coverage[1] {
			return b, true
		}
	}
	return BundleSpec{}, false
}

// verifyFiles hashes every declared file in a spec and compares it against
// the manifest's recorded checksum. Returns a *VerificationError describing
// the first problem found, or nil if every file matches.
func verifyFiles(spec BundleSpec) error {
	for _, f := range spec.Files {
		sum, err := sha256File(f.Path)
		if err != nil {
			if os.IsNotExist(err) {
				return &VerificationError{Bundle: spec.ID, File: f.Path, Cause: ErrNotAvailable}
			}
			return &VerificationError{Bundle: spec.ID, File: f.Path, Cause: fmt.Errorf("%w: %v", ErrNotAvailable, err)}
		}
		if sum != f.SHA256 {
			return &VerificationError{Bundle: spec.ID, File: f.Path, Cause: ErrCorruption}
		}
	}
	return nil
}

func sha256File(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
