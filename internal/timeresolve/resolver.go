package timeresolve

import (
	"fmt"
	"time"

	_ "time/tzdata" // embed the IANA database so LoadLocation works without an external tzdata file

	"github.com/eburns009/ephemeris-service/internal/apierr"
	"github.com/eburns009/ephemeris-service/internal/timeresolve/tzlookup"
)

// ErrResolutionFailed is the sentinel surfaced when no input combination
// can be resolved to a UTC instant. It aliases apierr's own sentinel so
// apierr's taxonomy can classify it without importing this package back.
var ErrResolutionFailed = apierr.ErrResolutionFailed

// Resolver resolves Input to a Resolution.
type Resolver struct {
	patches        *PatchTable
	defaultProfile Profile
}

// New builds a Resolver. patches may be nil (strict_history then behaves
// like astro_com, with no patches ever applying).
func New(patches *PatchTable, defaultProfile Profile) *Resolver {
	return &Resolver{patches: patches, defaultProfile: defaultProfile}
}

// Resolve implements the civil→UTC pipeline described by the four parity
// profiles.
func (r *Resolver) Resolve(in Input) (Resolution, error) {
	profile := in.Profile
	if profile == "" {
		profile = r.defaultProfile
	}

	if in.UTC != nil {
		return Resolution{
			UTCEpoch:      *in.UTC,
			ZoneID:        "UTC",
			OffsetSeconds: 0,
			Confidence:    ConfidenceHigh,
			Reason:        "utc instant passed through unchanged",
			Provenance:    Provenance{Profile: profile, Sources: []string{"input"}},
		}, nil
	}

	if in.Place == nil {
		return Resolution{}, fmt.Errorf("%w: local datetime requires a place", ErrResolutionFailed)
	}
	naive, err := parseCivil(in.LocalDatetime)
	if err != nil {
		return Resolution{}, fmt.Errorf("%w: %v", ErrResolutionFailed, err)
	}

	zoneID, err := tzlookup.Lookup(in.Place.LatDeg, in.Place.LonDeg)
	if err != nil {
		return Resolution{}, fmt.Errorf("%w: %v", ErrResolutionFailed, err)
	}

	switch profile {
	case ProfileAsEntered:
		return r.resolveAsEntered(in, naive, zoneID)
	case ProfileStrictHistory:
		return r.resolveZoneBased(in, naive, zoneID, profile, true)
	case ProfileAstroCom, ProfileClairvision:
		return r.resolveZoneBased(in, naive, zoneID, profile, false)
	default:
		return Resolution{}, fmt.Errorf("%w: unknown parity profile %q", apierr.ErrInvalidRequest, profile)
	}
}

// resolveZoneBased applies the coordinate-derived IANA zone's historical
// DST rules, then the patch table if applyPatches is set.
func (r *Resolver) resolveZoneBased(in Input, naive time.Time, zoneID string, profile Profile, applyPatches bool) (Resolution, error) {
	loc, err := time.LoadLocation(zoneID)
	if err != nil {
		return Resolution{}, fmt.Errorf("%w: load zone %s: %v", ErrResolutionFailed, zoneID, err)
	}

	utc, offsetSeconds, dstActive, warnings := resolveInLocation(naive, loc)
	sources := []string{"tzlookup", "tzdata"}
	var patchesApplied []string
	confidence := ConfidenceHigh
	if len(warnings) > 0 {
		confidence = ConfidenceMedium
	}

	if applyPatches {
		if patch, ok := r.patches.Find(in.Place.LatDeg, in.Place.LonDeg, naive); ok {
			offsetSeconds = patch.OffsetSeconds
			utc = naive.Add(-time.Duration(offsetSeconds) * time.Second)
			dstActive = false
			patchesApplied = append(patchesApplied, patch.Name)
			sources = append(sources, "tz_patches")
		}
	}

	return Resolution{
		UTCEpoch:      utc,
		ZoneID:        zoneID,
		OffsetSeconds: offsetSeconds,
		DSTActive:     dstActive,
		Confidence:    confidence,
		Reason:        reasonFor(profile, warnings),
		Warnings:      warnings,
		Provenance:    Provenance{Profile: profile, Sources: sources, PatchesApplied: patchesApplied},
	}, nil
}

// resolveAsEntered trusts the caller's own zone/offset and only records the
// coordinate-derived zone as a cross-check, flagging low confidence when
// they disagree (per the documented open-question resolution).
func (r *Resolver) resolveAsEntered(in Input, naive time.Time, derivedZoneID string) (Resolution, error) {
	zoneID := in.ExplicitZone
	if zoneID == "" {
		zoneID = derivedZoneID
	}
	loc, err := time.LoadLocation(zoneID)
	if err != nil {
		return Resolution{}, fmt.Errorf("%w: load zone %s: %v", ErrResolutionFailed, zoneID, err)
	}

	utc, offsetSeconds, dstActive, warnings := resolveInLocation(naive, loc)
	confidence := ConfidenceMedium
	if zoneID != derivedZoneID {
		warnings = append(warnings, fmt.Sprintf("coordinate-derived zone %s disagrees with supplied zone %s", derivedZoneID, zoneID))
		confidence = ConfidenceLow
	}

	return Resolution{
		UTCEpoch:      utc,
		ZoneID:        zoneID,
		OffsetSeconds: offsetSeconds,
		DSTActive:     dstActive,
		Confidence:    confidence,
		Reason:        "as_entered: using caller-supplied zone verbatim",
		Warnings:      warnings,
		Provenance:    Provenance{Profile: ProfileAsEntered, Sources: []string{"as_entered", "tzlookup(cross-check)"}},
	}, nil
}

// resolveInLocation interprets naive as a wall-clock time in loc, handling
// the DST fall-back (ambiguous) and spring-forward (nonexistent) cases per
// the documented policy: ambiguous resolves to the earlier instant,
// nonexistent advances to the gap's end, both with a warning.
func resolveInLocation(naive time.Time, loc *time.Location) (utc time.Time, offsetSeconds int, dstActive bool, warnings []string) {
	wall := time.Date(naive.Year(), naive.Month(), naive.Day(), naive.Hour(), naive.Minute(), naive.Second(), naive.Nanosecond(), loc)

	// Go's time.Date silently advances a nonexistent wall-clock time (the
	// spring-forward gap) past the gap; detect that by checking whether the
	// resolved instant's own wall-clock fields still match what was asked for.
	if y, mo, d := wall.Date(); y != naive.Year() || mo != naive.Month() || d != naive.Day() ||
		wall.Hour() != naive.Hour() || wall.Minute() != naive.Minute() {
		warnings = append(warnings, "nonexistent local time in spring-forward gap; advanced to the gap's end")
		_, offset := wall.Zone()
		return wall.UTC(), offset, isDST(wall), warnings
	}

	// A fall-back ambiguous time has two valid UTC instants sharing this
	// wall-clock reading, one hour apart. If the instant one hour earlier
	// reads back with the same wall-clock fields, the policy is to prefer
	// it (the earlier instant).
	earlier := wall.Add(-time.Hour)
	_, wallOffset := wall.Zone()
	_, earlierOffset := earlier.Zone()
	if eh, em := earlier.Hour(), earlier.Minute(); eh == naive.Hour() && em == naive.Minute() && earlierOffset != wallOffset {
		warnings = append(warnings, "ambiguous local time in fall-back window; resolved to the earlier instant")
		wall = earlier
	}

	_, offset := wall.Zone()
	return wall.UTC(), offset, isDST(wall), warnings
}

// isDST reports whether loc's standard-time offset differs from wall's
// offset at this instant, i.e. wall falls in a daylight-saving period.
func isDST(wall time.Time) bool {
	jan := time.Date(wall.Year(), time.January, 1, 0, 0, 0, 0, wall.Location())
	_, janOffset := jan.Zone()
	_, wallOffset := wall.Zone()
	return wallOffset != janOffset
}

func reasonFor(profile Profile, warnings []string) string {
	if len(warnings) > 0 {
		return fmt.Sprintf("%s: %s", profile, warnings[0])
	}
	return fmt.Sprintf("%s: resolved via coordinate-derived zone", profile)
}
