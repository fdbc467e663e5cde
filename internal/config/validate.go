package config

import (
	"fmt"
	"strings"
	"time"
)

// Validate checks a raw FileConfig and produces the validated Config.
//
// URI, key, and secret are required; the timeout must parse as a positive Go
// duration when present. The CA file path is checked for existence by the
// transport, not here, because the transport is what reads it.
func Validate(fc FileConfig) (Config, error) {
	uri := strings.TrimSpace(fc.URI)
	if uri == "" {
		return Config{}, fmt.Errorf("%w: URI not specified (set %s)", ErrInvalidConfig, EnvURI)
	}
	key := strings.TrimSpace(fc.Key)
	if key == "" {
		return Config{}, fmt.Errorf("%w: access key not specified (set %s)", ErrInvalidConfig, EnvKey)
	}
	secret := strings.TrimSpace(fc.Secret)
	if secret == "" {
		return Config{}, fmt.Errorf("%w: secret key not specified (set %s)", ErrInvalidConfig, EnvSecret)
	}

	cfg := Config{
		URI:       uri,
		Key:       key,
		Secret:    secret,
		SSLCAFile: strings.TrimSpace(fc.SSLCAFile),
		Version:   strings.TrimSpace(fc.Version),
	}

	if t := strings.TrimSpace(fc.Timeout); t != "" {
		d, err := time.ParseDuration(t)
		if err != nil {
			return Config{}, fmt.Errorf("%w: bad timeout %q: %v", ErrInvalidConfig, t, err)
		}
		if d <= 0 {
			return Config{}, fmt.Errorf("%w: timeout must be positive, got %q", ErrInvalidConfig, t)
		}
		cfg.Timeout = d
	}

	return cfg, nil
}
