// Package tzlookup resolves a geographic coordinate to an IANA time zone
// identifier. It stands in for the "consulted through its interface only"
// timezone database collaborator: a real deployment would swap this for a
// proper polygon-based lookup service, but the bounding-box table here is
// enough to exercise the resolver pipeline end to end.
package tzlookup

import "fmt"

// zone is one (bounding box, IANA id) entry. Boxes are intentionally coarse
// and may overlap at the edges; the first match wins, so entries are
// ordered roughly by land area they cover accurately.
type zone struct {
	id             string
	minLat, maxLat float64
	minLon, maxLon float64
}

// table is a small built-in set of zones covering the regions exercised by
// the documented end-to-end scenarios; it is not a substitute for a full
// tz boundary dataset.
var table = []zone{
	{id: "America/New_York", minLat: 24.5, maxLat: 47.5, minLon: -87.5, maxLon: -67.0},
	{id: "America/Chicago", minLat: 25.0, maxLat: 49.5, minLon: -104.0, maxLon: -87.5},
	{id: "America/Denver", minLat: 31.0, maxLat: 49.5, minLon: -114.0, maxLon: -104.0},
	{id: "America/Los_Angeles", minLat: 32.0, maxLat: 49.5, minLon: -124.5, maxLon: -114.0},
	{id: "Europe/London", minLat: 49.9, maxLat: 60.9, minLon: -8.2, maxLon: 1.8},
	{id: "Europe/Paris", minLat: 41.0, maxLat: 51.1, minLon: -5.2, maxLon: 9.6},
	{id: "Europe/Berlin", minLat: 47.2, maxLat: 55.1, minLon: 5.8, maxLon: 15.1},
	{id: "Asia/Kolkata", minLat: 6.5, maxLat: 35.5, minLon: 68.0, maxLon: 97.5},
	{id: "Asia/Tokyo", minLat: 24.0, maxLat: 45.6, minLon: 122.8, maxLon: 146.0},
	{id: "Australia/Sydney", minLat: -43.8, maxLat: -28.0, minLon: 140.9, maxLon: 153.7},
	{id: "UTC", minLat: -90, maxLat: 90, minLon: -180, maxLon: 180}, // fallback
}

// ErrNoMatch means no bounding box in the table covers the coordinate (only
// possible if the fallback UTC entry were removed).
var ErrNoMatch = fmt.Errorf("tzlookup: no zone covers coordinate")

// Lookup returns the IANA zone id whose bounding box contains (lat, lon).
func Lookup(latDeg, lonDeg float64) (string, error) {
	for _, z := range table {
		if latDeg >= z.minLat && latDeg <= z.maxLat && lonDeg >= z.minLon && lonDeg <= z.maxLon {
			return z.id, nil
		}
	}
	return "", ErrNoMatch
}
