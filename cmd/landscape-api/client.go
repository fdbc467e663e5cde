package main

import (
	"flag"
	"os"
	"time"

	"github.com/sufield/landscape"
	"github.com/sufield/landscape/internal/config"
)

// clientFlags carries the connection settings shared by every invoking
// command. Flags beat environment variables, which beat the config file.
type clientFlags struct {
	uri        string
	key        string
	secret     string
	caFile     string
	apiVersion string
	configPath string
	timeout    time.Duration
	get        bool
}

func (cf *clientFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&cf.uri, "uri", "", "API endpoint URI (default $LANDSCAPE_API_URI)")
	fs.StringVar(&cf.key, "key", "", "API access key (default $LANDSCAPE_API_KEY)")
	fs.StringVar(&cf.secret, "secret", "", "API secret key (default $LANDSCAPE_API_SECRET)")
	fs.StringVar(&cf.caFile, "ssl-ca-file", "", "PEM CA bundle for the server certificate (default $LANDSCAPE_API_SSL_CA_FILE)")
	fs.StringVar(&cf.apiVersion, "api-version", "", "API version to request (default $LANDSCAPE_API_VERSION)")
	fs.StringVar(&cf.configPath, "config", "", "YAML configuration file (default $LANDSCAPE_API_CONFIG)")
	fs.DurationVar(&cf.timeout, "timeout", 0, "request timeout, e.g. 90s (default 600s)")
	fs.BoolVar(&cf.get, "get", false, "send a GET with query parameters instead of a POST form")
}

// newClient resolves config file, environment, and flags into a Client.
func (cf *clientFlags) newClient() (*landscape.Client, error) {
	base := config.FileConfig{}
	path := cf.configPath
	if path == "" {
		path = os.Getenv(config.EnvConfig)
	}
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		base = loaded
	}

	merged := config.Merge(config.Merge(base, config.FromEnvironment()), config.FileConfig{
		URI:       cf.uri,
		Key:       cf.key,
		Secret:    cf.secret,
		SSLCAFile: cf.caFile,
		Version:   cf.apiVersion,
	})
	cfg, err := config.Validate(merged)
	if err != nil {
		return nil, err
	}

	var opts []landscape.Option
	if cfg.Version != "" {
		opts = append(opts, landscape.WithVersion(cfg.Version))
	}
	if cfg.SSLCAFile != "" {
		opts = append(opts, landscape.WithCAFile(cfg.SSLCAFile))
	}
	timeout := cfg.Timeout
	if cf.timeout != 0 {
		timeout = cf.timeout
	}
	if timeout != 0 {
		opts = append(opts, landscape.WithTimeout(timeout))
	}
	if cf.get {
		opts = append(opts, landscape.WithGet())
	}

	return landscape.New(cfg.URI, cfg.Key, cfg.Secret, opts...)
}
