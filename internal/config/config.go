// Package config builds the harness configuration once at process start.
// The platform host and API key come from environment variables and are
// passed explicitly into every component that needs them; nothing in this
// repository reads the environment after startup.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Environment variable names. The legacy names are accepted as fallbacks
// for compatibility with older automation that exported them.
const (
	EnvHost             = "PLATFORM_HOST"
	EnvHostLegacy       = "PLATFORM_API_HOST"
	EnvAPIKey           = "PLATFORM_API_KEY"
	EnvAPIKeyLegacy     = "PLATFORM_USER_API_KEY"
	EnvDefaultTier      = "UAT_DEFAULT_HARDWARE_TIER"
	EnvRestrictedPolicy = "UAT_RESTRICTED_POLICY"
)

// RestrictedPolicy decides how operations that hit a 403/404 on optional
// or permission-gated platform features are folded into scenario results.
// Many deployments lack optional features, so a hard failure is rarely the
// right default.
type RestrictedPolicy string

const (
	// RestrictedWarn records the operation as a warning with guidance text.
	RestrictedWarn RestrictedPolicy = "warn"
	// RestrictedSkip records the operation as skipped.
	RestrictedSkip RestrictedPolicy = "skip"
	// RestrictedFail records the operation as a hard failure.
	RestrictedFail RestrictedPolicy = "fail"
)

// Config holds everything the harness needs to talk to the platform.
type Config struct {
	// Host is the platform base URL, e.g. "https://platform.example.com".
	Host string
	// APIKey authenticates every request.
	APIKey string
	// DefaultHardwareTier is used when a scenario does not name a tier.
	DefaultHardwareTier string
	// RestrictedPolicy controls how 403/404 responses on optional
	// features are classified. Defaults to RestrictedWarn.
	RestrictedPolicy RestrictedPolicy
	// HTTPTimeout bounds every individual platform request.
	HTTPTimeout time.Duration
}

// Load builds a Config from the environment. A missing host or API key is
// a fatal configuration error: the harness cannot do anything useful
// without them, so startup should abort.
func Load() (*Config, error) {
	host := firstNonEmpty(os.Getenv(EnvHost), os.Getenv(EnvHostLegacy))
	if host == "" {
		return nil, fmt.Errorf("%s environment variable not set", EnvHost)
	}

	apiKey := firstNonEmpty(os.Getenv(EnvAPIKey), os.Getenv(EnvAPIKeyLegacy))
	if apiKey == "" {
		return nil, fmt.Errorf("%s environment variable not set", EnvAPIKey)
	}

	cfg := &Config{
		Host:                strings.TrimRight(host, "/"),
		APIKey:              apiKey,
		DefaultHardwareTier: firstNonEmpty(os.Getenv(EnvDefaultTier), "small"),
		RestrictedPolicy:    RestrictedPolicy(firstNonEmpty(os.Getenv(EnvRestrictedPolicy), string(RestrictedWarn))),
		HTTPTimeout:         60 * time.Second,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks a configuration for internal consistency.
func (c *Config) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("host must not be empty")
	}
	if c.APIKey == "" {
		return fmt.Errorf("api key must not be empty")
	}
	switch c.RestrictedPolicy {
	case RestrictedWarn, RestrictedSkip, RestrictedFail, "":
	default:
		return fmt.Errorf("unknown restricted policy %q", c.RestrictedPolicy)
	}
	if c.HTTPTimeout < 0 {
		return fmt.Errorf("http timeout must not be negative")
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
