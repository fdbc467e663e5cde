// Package config loads client configuration from a YAML file and from
// LANDSCAPE_API_* environment variables. It only gathers and validates
// already-external inputs; the signing core receives the results as parsed
// values and never touches the environment itself.
package config

import (
	"errors"
	"time"
)

// Environment variables understood by FromEnvironment. They match the
// variables the classic Landscape command-line client reads.
const (
	EnvConfig    = "LANDSCAPE_API_CONFIG"
	EnvURI       = "LANDSCAPE_API_URI"
	EnvKey       = "LANDSCAPE_API_KEY"
	EnvSecret    = "LANDSCAPE_API_SECRET"
	EnvSSLCAFile = "LANDSCAPE_API_SSL_CA_FILE"
	EnvVersion   = "LANDSCAPE_API_VERSION"
)

// ErrInvalidConfig is returned when configuration validation fails.
var ErrInvalidConfig = errors.New("invalid config")

// FileConfig is the raw, unvalidated configuration shape. The same shape is
// produced by the YAML file and by the environment, so the two can be merged
// before validation.
//
// File format (path given via LANDSCAPE_API_CONFIG or --config):
//
//	uri: https://landscape.example.com/api/
//	key: 24LP4N3HUM9BAJRJJ6AC
//	secret: <secret key>
//	ssl_ca_file: /etc/landscape/server-ca.crt
//	timeout: 60s
//	version: 2011-08-01
type FileConfig struct {
	URI       string `yaml:"uri"`
	Key       string `yaml:"key"`
	Secret    string `yaml:"secret"`
	SSLCAFile string `yaml:"ssl_ca_file"`

	// Timeout is a Go duration string ("30s", "5m"). Empty means the
	// client's default.
	Timeout string `yaml:"timeout"`

	// Version is the API version; empty means the client's default.
	Version string `yaml:"version"`
}

// Config is the validated configuration handed to the client.
type Config struct {
	URI       string
	Key       string
	Secret    string
	SSLCAFile string
	Timeout   time.Duration
	Version   string
}
