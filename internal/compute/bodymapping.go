package compute

// bodyToNative maps the API-facing Body to the native target/center pair
// used for the StateVector call. Every body is taken relative to the Earth's
// center, so the observer vector can be subtracted from the result; beyond
// the Moon and Sun, the planet targets are the kernel's planet entries
// (system barycenters in a JPL-family file). TrueNode and
// MeanNode have no state vector in a JPL-family kernel file at all, they're
// computed analytically (see nodes.go) and never reach Native.
var bodyToNative = map[Body]struct {
	target, center NativeBody
}{
	Sun:     {NativeSun, NativeEarth},
	Moon:    {NativeMoon, NativeEarth},
	Mercury: {NativeMercury, NativeEarth},
	Venus:   {NativeVenus, NativeEarth},
	Mars:    {NativeMars, NativeEarth},
	Jupiter: {NativeJupiter, NativeEarth},
	Saturn:  {NativeSaturn, NativeEarth},
	Uranus:  {NativeUranus, NativeEarth},
	Neptune: {NativeNeptune, NativeEarth},
	Pluto:   {NativePluto, NativeEarth},
}

// isLunarNode reports whether a body is computed analytically rather than
// via a Native state vector.
func isLunarNode(b Body) bool {
	return b == TrueNode || b == MeanNode
}
