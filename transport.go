package landscape

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/sufield/landscape/signing"
)

// Transport performs the network exchange for a signed request. It is the
// only suspension point of a call: everything before Perform is local,
// synchronous computation. Implementations own TLS trust-store selection,
// proxying, timeouts, and cancellation; the core hands off a fully-formed
// request and has nothing left to cancel afterwards.
//
// A Transport must be safe for concurrent use; the client performs no
// locking around it.
type Transport interface {
	Perform(ctx context.Context, req signing.SignedRequest) (status int, body []byte, err error)
}

// HTTPTransport is the default Transport over net/http.
type HTTPTransport struct {
	client *http.Client
}

// HTTPTransportConfig configures NewHTTPTransport.
type HTTPTransportConfig struct {
	// Timeout bounds the whole exchange. Zero means DefaultTimeout.
	Timeout time.Duration

	// CAFile is an optional path to a PEM bundle for validating the server
	// certificate, for self-hosted servers with private CAs. Empty means the
	// system trust store.
	CAFile string
}

// DefaultTimeout bounds a request when no timeout is configured.
const DefaultTimeout = 600 * time.Second

// NewHTTPTransport builds the default HTTP transport. The CA bundle, when
// given, is read once here so that a bad path fails at construction rather
// than on the first call.
func NewHTTPTransport(cfg HTTPTransportConfig) (*HTTPTransport, error) {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	client := &http.Client{Timeout: timeout}
	if cfg.CAFile != "" {
		pem, err := os.ReadFile(cfg.CAFile)
		if err != nil {
			return nil, fmt.Errorf("read CA bundle: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("CA bundle %q contains no certificates", cfg.CAFile)
		}
		client.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{RootCAs: pool, MinVersion: tls.VersionTLS12},
		}
	}
	return &HTTPTransport{client: client}, nil
}

// Perform executes the request and returns the HTTP status and body. A nil
// error with a non-2xx status is a completed exchange; errors are reserved
// for failures where no HTTP response exists.
func (t *HTTPTransport) Perform(ctx context.Context, req signing.SignedRequest) (int, []byte, error) {
	var bodyReader io.Reader
	if req.Body != nil {
		bodyReader = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, bodyReader)
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	for k, vs := range req.Header {
		if k == "Host" {
			// net/http carries the Host header on the request value.
			httpReq.Host = vs[0]
			continue
		}
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("read response body: %w", err)
	}
	return resp.StatusCode, body, nil
}
