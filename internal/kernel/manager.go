package kernel

import (
	"fmt"
	"sync"

	"github.com/eburns009/ephemeris-service/internal/nativeeph"
)

// BundleHandle is an opened, verified kernel bundle. The native ephemeris
// context is not safe for concurrent use, so a BundleHandle is meant to
// live inside exactly one worker process.
type BundleHandle struct {
	ID        string
	Coverage  [2]float64
	Checksums map[string]string // file path -> sha256, for provenance
	Ephemeris *nativeeph.Ephemeris
}

// Release tears down the native ephemeris context. Safe to call multiple
// times; only the first call does work.
func (h *BundleHandle) Release() error {
	if h.Ephemeris == nil {
		return nil
	}
	err := h.Ephemeris.Close()
	h.Ephemeris = nil
	return err
}

// Manager opens and verifies kernel bundles declared in a manifest.
type Manager struct {
	manifest *Manifest

	mu   sync.Mutex
	open map[string]*BundleHandle
}

// NewManager constructs a Manager over an already-loaded manifest.
func NewManager(m *Manifest) *Manager {
	return &Manager{manifest: m, open: make(map[string]*BundleHandle)}
}

// Open verifies and opens the named bundle. Exactly one bundle is active per
// worker process: callers in this service open one bundle per worker at
// startup and never call Open again for that process.
func (mgr *Manager) Open(bundleID string) (*BundleHandle, error) {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()

	if h, ok := mgr.open[bundleID]; ok {
		return h, nil
	}

	spec, ok := mgr.manifest.Find(bundleID)
	if !ok {
		return nil, fmt.Errorf("kernel: unknown bundle %q", bundleID)
	}
	if err := verifyFiles(spec); err != nil {
		return nil, err
	}

	eph, err := nativeeph.NewEphemeris(spec.Files[0].Path, true)
	if err != nil {
		return nil, fmt.Errorf("kernel: open bundle %s: %w", bundleID, err)
	}

	checksums := make(map[string]string, len(spec.Files))
	for _, f := range spec.Files {
		checksums[f.Path] = f.SHA256
	}

	h := &BundleHandle{
		ID:        spec.ID,
		Coverage:  spec.Coverage,
		Checksums: checksums,
		Ephemeris: eph,
	}
	mgr.open[bundleID] = h
	return h, nil
}

// Verify checks a bundle's declared files against their manifest checksums
// without opening the native ephemeris context. The parent server process
// calls this at startup so a missing or corrupt kernel file is caught
// before any worker subprocess is spawned, rather than surfacing as a
// worker crash on its first job.
func (mgr *Manager) Verify(bundleID string) error {
	spec, ok := mgr.manifest.Find(bundleID)
	if !ok {
		return fmt.Errorf("kernel: unknown bundle %q", bundleID)
	}
	return verifyFiles(spec)
}

// SelectForEpoch implements the auto-handoff policy: prefer DE440 if its
// coverage includes the epoch, else DE441, else fail. "primary" and
// "extended" name the two manifest entries used for handoff; callers that
// want a single named bundle should call Open directly instead.
func (mgr *Manager) SelectForEpoch(jd float64, primary, extended string) (string, error) {
	if spec, ok := mgr.manifest.Find(primary); ok {
		if jd >= spec.Coverage[0] && jd <= spec.Coverage[1] {
			return primary, nil
		}
	}
	if spec, ok := mgr.manifest.Find(extended); ok {
		if jd >= spec.Coverage[0] && jd <= spec.Coverage[1] {
			return extended, nil
		}
	}
	return "", ErrOutsideCoverage
}

// ReleaseAll releases every bundle this manager has opened. Registered with
// the process shutdown sequence so native state is always torn down,
// including on signal-triggered shutdown.
func (mgr *Manager) ReleaseAll() error {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()
	var firstErr error
	for id, h := range mgr.open {
		if err := h.Release(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("kernel: release bundle %s: %w", id, err)
		}
		delete(mgr.open, id)
	}
	return firstErr
}
