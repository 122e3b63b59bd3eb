// Package config loads the service's declarative YAML configuration and
// layers environment-variable overrides on top, producing a typed Config
// the rest of the service wires up at startup.
package config

import (
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/v2"

	"github.com/eburns009/ephemeris-service/internal/ratelimit"
)

// Config is the fully-resolved, typed runtime configuration.
type Config struct {
	API struct {
		Bind           string   `koanf:"bind"`
		AllowedOrigins []string `koanf:"allowed_origins"`
	} `koanf:"api"`

	Worker struct {
		Count                 int           `koanf:"count"`
		QueueSize             int           `koanf:"queue_size"`
		JobTimeout            time.Duration `koanf:"job_timeout"`
		MaxReplacementsPerMin int           `koanf:"max_replacements_per_min"`
	} `koanf:"worker"`

	Kernels struct {
		ManifestPath string `koanf:"manifest_path"`
		Bundle       string `koanf:"bundle"`
	} `koanf:"kernels"`

	Ayanamsha struct {
		RegistryPath string `koanf:"registry_path"`
	} `koanf:"ayanamsha"`

	Cache struct {
		L1Size int           `koanf:"l1_size"`
		L1TTL  time.Duration `koanf:"l1_ttl"`
		L2URL  string        `koanf:"l2_url"`
		L2TTL  time.Duration `koanf:"l2_ttl"`
	} `koanf:"cache"`

	RateLimit struct {
		Disabled   bool             `koanf:"disabled"`
		StorageURI string           `koanf:"storage_uri"`
		Rules      []ratelimit.Rule `koanf:"rules"`
	} `koanf:"rate_limit"`

	TimeResolver struct {
		DefaultParityProfile string `koanf:"default_parity_profile"`
		TZPatchPath          string `koanf:"tz_patch_path"`
		GeocodeURL           string `koanf:"geocode_url"`
	} `koanf:"time_resolver"`
}

// envOverrides maps the explicitly named legacy-style environment variables
// onto their koanf dotted-path equivalents, layered on top of the generic
// EPHEMERIS_-prefixed provider.
var envOverrides = map[string]string{
	"KERNEL_BUNDLE":          "kernels.bundle",
	"WORKERS":                "worker.count",
	"QUEUE_SIZE":             "worker.queue_size",
	"REDIS_URL":              "cache.l2_url",
	"RATE_LIMIT_STORAGE_URI": "rate_limit.storage_uri",
	"TIME_RESOLVER_URL":      "time_resolver.geocode_url",
	"DISABLE_RATE_LIMIT":     "rate_limit.disabled",
	"ALLOWED_ORIGINS":        "api.allowed_origins",
}

// Load reads path as YAML, then layers the EPHEMERIS_-prefixed environment
// provider, then the explicitly named legacy variables on top (so a bare
// WORKERS=4 overrides without requiring the EPHEMERIS_ prefix).
func Load(path string, getenv func(string) string) (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, err
	}
	if err := k.Load(env.Provider("EPHEMERIS_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, "EPHEMERIS_")), "_", ".")
	}), nil); err != nil {
		return nil, err
	}
	for envVar, dottedPath := range envOverrides {
		if v := getenv(envVar); v != "" {
			if err := k.Set(dottedPath, coerce(dottedPath, v)); err != nil {
				return nil, err
			}
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// coerce turns a raw environment string into the type koanf.Set expects for
// known boolean/int/list-valued paths; every other path stays a string.
func coerce(path, v string) interface{} {
	switch path {
	case "rate_limit.disabled":
		b, err := strconv.ParseBool(v)
		if err != nil {
			return v
		}
		return b
	case "worker.count", "worker.queue_size":
		n, err := strconv.Atoi(v)
		if err != nil {
			return v
		}
		return n
	case "api.allowed_origins":
		return strings.Split(v, ",")
	default:
		return v
	}
}
