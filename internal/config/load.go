package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load reads and parses a configuration file.
func Load(path string) (FileConfig, error) {
	var cfg FileConfig

	cleanPath := filepath.Clean(path)
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// FromEnvironment gathers configuration from the LANDSCAPE_API_* variables.
func FromEnvironment() FileConfig {
	return FromGetenv(os.Getenv)
}

// FromGetenv is FromEnvironment with an injectable environment, for tests.
func FromGetenv(getenv func(string) string) FileConfig {
	return FileConfig{
		URI:       getenv(EnvURI),
		Key:       getenv(EnvKey),
		Secret:    getenv(EnvSecret),
		SSLCAFile: getenv(EnvSSLCAFile),
		Version:   getenv(EnvVersion),
	}
}

// Merge overlays override on top of base: any field set in override wins.
func Merge(base, override FileConfig) FileConfig {
	out := base
	if override.URI != "" {
		out.URI = override.URI
	}
	if override.Key != "" {
		out.Key = override.Key
	}
	if override.Secret != "" {
		out.Secret = override.Secret
	}
	if override.SSLCAFile != "" {
		out.SSLCAFile = override.SSLCAFile
	}
	if override.Timeout != "" {
		out.Timeout = override.Timeout
	}
	if override.Version != "" {
		out.Version = override.Version
	}
	return out
}

// Resolve merges env on top of the file named by LANDSCAPE_API_CONFIG (when
// set) and validates the result. This is the path NewFromEnvironment takes.
func Resolve(env FileConfig) (Config, error) {
	base := FileConfig{}
	if path := os.Getenv(EnvConfig); path != "" {
		loaded, err := Load(path)
		if err != nil {
			return Config{}, err
		}
		base = loaded
	}
	return Validate(Merge(base, env))
}
