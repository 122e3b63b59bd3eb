package kernel

import "errors"

// ErrNotAvailable means a declared kernel file is missing from disk.
var ErrNotAvailable = errors.New("kernel file not available")

// ErrCorruption means a declared kernel file's checksum didn't match the manifest.
var ErrCorruption = errors.New("kernel file checksum mismatch")

// ErrOutsideCoverage means no bundle's interval covers the requested epoch.
var ErrOutsideCoverage = errors.New("epoch outside all declared kernel bundles")

// VerificationError names the bundle and file that failed verification.
type VerificationError struct {
	Bundle string
	File   string
	Cause  error
}

func (e *VerificationError) Error() string {
	return "kernel: bundle " + e.Bundle + " file " + e.File + ": " + e.Cause.Error()
}

func (e *VerificationError) Unwrap() error { return e.Cause }
