// Command kernel-inspect is an operator diagnostic: it opens a bundle named
// in the kernel manifest and prints its coverage, checksums, and sample
// positions for every body, the same path a worker subprocess exercises
// when it opens its one bundle, without requiring a running server.
package main

import (
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/eburns009/ephemeris-service/internal/kernel"
	"github.com/eburns009/ephemeris-service/internal/nativeeph"
)

var sampleBodies = []struct {
	planet nativeeph.Planet
	name   string
}{
	{nativeeph.Mercury, "Mercury"}, {nativeeph.Venus, "Venus"}, {nativeeph.Earth, "Earth"},
	{nativeeph.Mars, "Mars"}, {nativeeph.Jupiter, "Jupiter"}, {nativeeph.Saturn, "Saturn"},
	{nativeeph.Uranus, "Uranus"}, {nativeeph.Neptune, "Neptune"}, {nativeeph.Pluto, "Pluto"},
	{nativeeph.Moon, "Moon"}, {nativeeph.Sun, "Sun"},
}

func main() {
	manifestPath := flag.String("manifest", "config/kernels.yaml", "path to the kernel manifest")
	bundleID := flag.String("bundle", "", "bundle id from the manifest, e.g. DE440")
	epoch := flag.Float64("epoch", 2451545.0, "Julian Ephemeris Date to sample")
	flag.Parse()

	if *bundleID == "" {
		fmt.Fprintln(os.Stderr, "kernel-inspect: --bundle is required")
		os.Exit(1)
	}

	manifest, err := kernel.LoadManifest(*manifestPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load manifest: %v\n", err)
		os.Exit(1)
	}

	mgr := kernel.NewManager(manifest)
	handle, err := mgr.Open(*bundleID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open bundle %s: %v\n", *bundleID, err)
		os.Exit(1)
	}
	defer handle.Release()

	fmt.Printf("Bundle %s\n", handle.ID)
	fmt.Printf("Coverage: JD %.1f to %.1f\n", handle.Coverage[0], handle.Coverage[1])
	fmt.Println("Checksums:")
	for path, sum := range handle.Checksums {
		fmt.Printf("  %s  %s\n", sum, path)
	}

	fmt.Printf("\nSample barycentric positions at JD %.3f:\n", *epoch)
	for _, b := range sampleBodies {
		pos, vel, err := handle.Ephemeris.CalculatePV(*epoch, b.planet, nativeeph.CenterSolarSystemBarycenter, true)
		if err != nil {
			fmt.Printf("  %-10s error: %v\n", b.name, err)
			continue
		}
		dist := math.Sqrt(pos.X*pos.X + pos.Y*pos.Y + pos.Z*pos.Z)
		fmt.Printf("  %-10s pos=[%10.6f %10.6f %10.6f] AU  |r|=%.6f AU  vel=[%9.6f %9.6f %9.6f] AU/day\n",
			b.name, pos.X, pos.Y, pos.Z, dist, vel.DX, vel.DY, vel.DZ)
	}
}
