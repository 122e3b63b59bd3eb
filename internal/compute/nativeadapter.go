package compute

import (
	"fmt"

	"github.com/eburns009/ephemeris-service/internal/kernel"
	"github.com/eburns009/ephemeris-service/internal/nativeeph"
)

// bundleNative adapts a kernel.BundleHandle (nativeeph.Ephemeris underneath)
// to the Native interface.
type bundleNative struct {
	handle *kernel.BundleHandle
}

// NewBundleNative wraps an opened kernel bundle as a Native implementation.
func NewBundleNative(h *kernel.BundleHandle) Native {
	return &bundleNative{handle: h}
}

var nativeBodyMap = map[NativeBody]nativeeph.Planet{
	NativeMercury: nativeeph.Mercury,
	NativeVenus:   nativeeph.Venus,
	NativeEarth:   nativeeph.Earth,
	NativeMars:    nativeeph.Mars,
	NativeJupiter: nativeeph.Jupiter,
	NativeSaturn:  nativeeph.Saturn,
	NativeUranus:  nativeeph.Uranus,
	NativeNeptune: nativeeph.Neptune,
	NativePluto:   nativeeph.Pluto,
	NativeMoon:    nativeeph.Moon,
	NativeSun:     nativeeph.Sun,
}

var nativeCenterMap = map[NativeBody]nativeeph.CenterBody{
	NativeMercury:               nativeeph.CenterMercury,
	NativeVenus:                 nativeeph.CenterVenus,
	NativeEarth:                 nativeeph.CenterEarth,
	NativeMars:                  nativeeph.CenterMars,
	NativeJupiter:               nativeeph.CenterJupiter,
	NativeSaturn:                nativeeph.CenterSaturn,
	NativeUranus:                nativeeph.CenterUranus,
	NativeNeptune:               nativeeph.CenterNeptune,
	NativePluto:                 nativeeph.CenterPluto,
	NativeMoon:                  nativeeph.CenterMoon,
	NativeSun:                   nativeeph.CenterSun,
	NativeSolarSystemBarycenter: nativeeph.CenterSolarSystemBarycenter,
	NativeEarthMoonBarycenter:   nativeeph.CenterEarthMoonBarycenter,
}

func (b *bundleNative) StateVector(jd float64, target, center NativeBody) (pos, vel [3]float64, err error) {
	tgt, ok := nativeBodyMap[target]
	if !ok {
		return pos, vel, fmt.Errorf("%w: native target %d has no planet mapping", ErrNativeFailure, target)
	}
	ctr, ok := nativeCenterMap[center]
	if !ok {
		return pos, vel, fmt.Errorf("%w: native center %d has no center mapping", ErrNativeFailure, center)
	}
	p, v, err := b.handle.Ephemeris.CalculatePV(jd, tgt, ctr, true)
	if err != nil {
		return pos, vel, fmt.Errorf("%w: %v", ErrNativeFailure, err)
	}
	return [3]float64{p.X, p.Y, p.Z}, [3]float64{v.DX, v.DY, v.DZ}, nil
}

func (b *bundleNative) Coverage() (lo, hi float64) {
	return b.handle.Coverage[0], b.handle.Coverage[1]
}
