package timeresolve

// Profile names a parity policy for resolving civil local time to UTC.
type Profile string

const (
	ProfileStrictHistory Profile = "strict_history"
	ProfileAstroCom      Profile = "astro_com"
	// ProfileClairvision is reserved and currently an alias of ProfileAstroCom.
	// TODO: adopt its own rule set once an authoritative definition is available.
	ProfileClairvision Profile = "clairvision"
	ProfileAsEntered   Profile = "as_entered"
)

// Confidence grades how much the resolver trusts its own answer.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)
