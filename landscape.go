// Package landscape is a client for the Landscape fleet-management API.
//
// The API exposes a catalog of named actions ("GetComputers", "AddTagsToComputers",
// ...) invoked over HTTPS. Every request is authenticated with an HMAC-SHA256
// signature computed over a canonical form of the request parameters; the
// subpackages params and signing implement that canonicalization and signing
// scheme, and this package ties them together into a client.
//
// The action vocabulary is defined by the server and passed through opaquely:
// any action name is forwarded, and the server alone decides whether it
// exists. Unknown actions come back as ordinary API errors.
//
// Quick start:
//
//	client, err := landscape.New(
//	    "https://landscape.canonical.com/api/",
//	    os.Getenv("LANDSCAPE_API_KEY"),
//	    os.Getenv("LANDSCAPE_API_SECRET"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := client.Invoke(ctx, "GetComputers", params.Map{
//	    "limit": params.Int(5),
//	    "tags":  params.List{params.String("web")},
//	})
//
// Or, with LANDSCAPE_API_URI / LANDSCAPE_API_KEY / LANDSCAPE_API_SECRET set
// (and optionally LANDSCAPE_API_SSL_CA_FILE and LANDSCAPE_API_VERSION):
//
//	client, err := landscape.NewFromEnvironment()
//
// Failures are classified with sentinel errors: ErrClientError and
// ErrServerError (carrying an *APIError with the server's code and message),
// ErrMalformedResponse, ErrTransport, and params.ErrInvalidParameterKind for
// unsupported parameter shapes, which fail before any network activity.
//
// A Client is immutable after construction. Calls share only the read-only
// credentials, endpoint, and transport, so a single Client is safe for any
// number of concurrent goroutines.
package landscape

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/sufield/landscape/internal/config"
	"github.com/sufield/landscape/params"
	"github.com/sufield/landscape/signing"
)

// Client invokes remote actions against one endpoint with one set of
// credentials.
type Client struct {
	endpoint  signing.Endpoint
	signer    signing.Signer
	method    string
	transport Transport
	logger    *slog.Logger
}

// Option customizes a Client.
type Option func(*clientOptions)

type clientOptions struct {
	version   string
	method    string
	timeout   time.Duration
	caFile    string
	transport Transport
	logger    *slog.Logger
}

// WithVersion selects the API version sent with every request.
// The default is signing.LatestVersion.
func WithVersion(version string) Option {
	return func(o *clientOptions) { o.version = version }
}

// WithGet switches calls to GET with the signed parameters in the query
// string instead of the default POST form body. The signature is identical
// either way.
func WithGet() Option {
	return func(o *clientOptions) { o.method = http.MethodGet }
}

// WithTimeout bounds each exchange performed by the default transport.
func WithTimeout(d time.Duration) Option {
	return func(o *clientOptions) { o.timeout = d }
}

// WithCAFile points the default transport at a PEM CA bundle for validating
// a self-hosted server's certificate.
func WithCAFile(path string) Option {
	return func(o *clientOptions) { o.caFile = path }
}

// WithTransport replaces the transport entirely. Timeout and CA options are
// ignored when a custom transport is supplied; cancellation and TLS policy
// become its responsibility.
func WithTransport(t Transport) Option {
	return func(o *clientOptions) { o.transport = t }
}

// WithLogger sets the structured logger. The default discards nothing but
// logs at the handler's configured level; the secret key is never logged.
func WithLogger(logger *slog.Logger) Option {
	return func(o *clientOptions) { o.logger = logger }
}

// New builds a Client for the given endpoint URI and credentials.
func New(uri, key, secret string, opts ...Option) (*Client, error) {
	if key == "" {
		return nil, fmt.Errorf("access key not specified")
	}
	if secret == "" {
		return nil, fmt.Errorf("secret key not specified")
	}
	endpoint, err := signing.ParseEndpoint(uri)
	if err != nil {
		return nil, err
	}

	var o clientOptions
	for _, opt := range opts {
		opt(&o)
	}

	if o.transport == nil {
		transport, err := NewHTTPTransport(HTTPTransportConfig{
			Timeout: o.timeout,
			CAFile:  o.caFile,
		})
		if err != nil {
			return nil, err
		}
		o.transport = transport
	}
	if o.method == "" {
		o.method = http.MethodPost
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	return &Client{
		endpoint:  endpoint,
		signer:    signing.Signer{Credentials: signing.Credentials{Key: key, Secret: secret}, Version: o.version},
		method:    o.method,
		transport: o.transport,
		logger:    o.logger,
	}, nil
}

// NewFromEnvironment builds a Client from the LANDSCAPE_API_* environment
// variables, optionally merged over the YAML file named by
// LANDSCAPE_API_CONFIG. Explicit options still win.
func NewFromEnvironment(opts ...Option) (*Client, error) {
	cfg, err := config.Resolve(config.FromEnvironment())
	if err != nil {
		return nil, err
	}
	merged := make([]Option, 0, len(opts)+4)
	if cfg.Version != "" {
		merged = append(merged, WithVersion(cfg.Version))
	}
	if cfg.SSLCAFile != "" {
		merged = append(merged, WithCAFile(cfg.SSLCAFile))
	}
	if cfg.Timeout != 0 {
		merged = append(merged, WithTimeout(cfg.Timeout))
	}
	merged = append(merged, opts...)
	return New(cfg.URI, cfg.Key, cfg.Secret, merged...)
}

// Endpoint returns the parsed endpoint the client talks to.
func (c *Client) Endpoint() signing.Endpoint {
	return c.endpoint
}

// Invoke calls a remote action and decodes the JSON response into a generic
// value tree (numbers as json.Number). The action name is forwarded opaquely.
//
// Each call flattens and signs its parameters with a fresh timestamp; nothing
// is shared or reused between calls, so Invoke is safe to run concurrently.
func (c *Client) Invoke(ctx context.Context, action string, p params.Map) (any, error) {
	status, body, err := c.exchange(ctx, action, p)
	if err != nil {
		return nil, err
	}
	return decodeResponse(status, body)
}

// InvokeRaw calls a remote action and returns the raw response body on
// success. Use it for actions whose payload is not JSON, such as
// GetScriptCode, or when the caller wants to defer decoding.
func (c *Client) InvokeRaw(ctx context.Context, action string, p params.Map) ([]byte, error) {
	status, body, err := c.exchange(ctx, action, p)
	if err != nil {
		return nil, err
	}
	if status < 200 || status > 299 {
		return nil, newAPIError(status, body)
	}
	return body, nil
}

// exchange runs the canonicalize -> sign -> build -> perform pipeline.
// All failures before Perform are local and happen before any I/O.
func (c *Client) exchange(ctx context.Context, action string, p params.Map) (int, []byte, error) {
	flat, err := params.Flatten(p)
	if err != nil {
		return 0, nil, err
	}

	_, signed, err := c.signer.Sign(c.method, c.endpoint.SignedHost(), c.endpoint.Path, action, flat, time.Now().UTC())
	if err != nil {
		return 0, nil, err
	}

	req := signing.Build(c.endpoint, c.method, signed)
	c.logger.Debug("invoking action",
		"action", action,
		"endpoint", c.endpoint.URL(),
		"method", req.Method,
		"parameters", len(flat),
	)

	status, body, err := c.transport.Perform(ctx, req)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	c.logger.Debug("action completed", "action", action, "status", status, "bytes", len(body))
	return status, body, nil
}
