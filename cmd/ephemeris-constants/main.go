// Command ephemeris-constants dumps the planetary mass table embedded in a
// kernel bundle, the same GM-constant parsing the Compute Core would need
// if it ever derived masses from the kernel instead of a fixed table; kept
// as a standalone diagnostic since no SPEC_FULL.md operation depends on it.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/eburns009/ephemeris-service/internal/kernel"
	"github.com/eburns009/ephemeris-service/internal/nativeeph"
)

const numBodies = 16

var bodyNames = [numBodies]string{
	"Sun ", "Merc", "Venu", "EMB ", "Mars",
	"Jupi", "Satu", "Uran", "Nept", "Plut", "Eart", "Moon",
	"Cere", "Pall", "Juno", "Vest",
}

func main() {
	manifestPath := flag.String("manifest", "config/kernels.yaml", "path to the kernel manifest")
	bundleID := flag.String("bundle", "", "bundle id from the manifest, e.g. DE440")
	flag.Parse()

	if *bundleID == "" {
		fmt.Fprintln(os.Stderr, "ephemeris-constants: --bundle is required")
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

	eph := handle.Ephemeris
	nConstants := int(eph.GetEphemerisLong(nativeeph.NumberOfConstants))
	auInKM := eph.GetEphemerisDouble(nativeeph.AUinKM)
	emrat := 0.0
	gmb := 0.0
	masses := make([]float64, numBodies)

	for i := 0; i < nConstants; i++ {
		name, err := eph.GetConstantName(i)
		if err != nil {
			continue
		}
		value, err := eph.GetConstantValue(i)
		if err != nil {
			continue
		}

		if len(name) >= 4 && strings.HasPrefix(name, "GM") && (name[3] == ' ' || len(name) == 3) {
			switch name[2] {
			case 'B':
				gmb = value
			case 'S':
				masses[0] = value
			case '1', '2', '4', '5', '6', '7', '8', '9':
				idx, _ := strconv.Atoi(string(name[2]))
				masses[idx] = value
			}
		}

		trimmed := strings.TrimSpace(name)
		switch trimmed {
		case "EMRAT":
			emrat = value
		case "AU":
			auInKM = value
		}

		if len(name) >= 6 && strings.HasPrefix(name, "MA000") {
			if idx, err := strconv.Atoi(name[5:6]); err == nil && idx >= 1 && idx <= 4 {
				masses[idx+11] = value
			}
		}
	}

	masses[3] = gmb
	masses[11] = gmb / (1 + emrat)
	masses[10] = gmb - masses[11]

	const secondsPerDay = 86400.0
	fmt.Printf("Bundle %s\n", handle.ID)
	fmt.Printf("%5s %21s %18s %19s %20s %20s\n",
		"Body", "mass(obj)/mass(sun)", "mass(sun)/mass(obj)", "GM (km3/s2)", "GM (AU3/day2)", "mass(obj)")

	for i := 0; i < numBodies; i++ {
		if masses[i] == 0 {
			continue
		}
		massRatioSun := masses[i] / masses[0]
		sunRatioMass := masses[0] / masses[i]
		gmKM := masses[i] * auInKM * auInKM * auInKM / (secondsPerDay * secondsPerDay)
		gmAU := masses[i] * secondsPerDay * secondsPerDay / (auInKM * auInKM * auInKM)
		fmt.Printf("%5s %21.15e %21.15e %21.15e %21.15e %21.15e\n",
			bodyNames[i], massRatioSun, sunRatioMass, gmKM, gmAU, masses[i])
	}
}
