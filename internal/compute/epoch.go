package compute

import "time"

// unixEpochJD is the Julian Date of 1970-01-01T00:00:00 UTC.
const unixEpochJD = 2440587.5

// JDFromTime converts a UTC instant to a Julian Date, the epoch
// representation the Compute Core and the native ephemeris backend use
// throughout.
func JDFromTime(t time.Time) float64 {
	return unixEpochJD + float64(t.UTC().UnixNano())/86400e9
}

// TimeFromJD is JDFromTime's inverse, used to render a resolved epoch back
// onto the wire as a UTC timestamp.
func TimeFromJD(jd float64) time.Time {
	seconds := (jd - unixEpochJD) * 86400
	return time.Unix(0, int64(seconds*1e9)).UTC()
}
