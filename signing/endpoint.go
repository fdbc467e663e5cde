package signing

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Sentinel errors for endpoint parsing.
var (
	// ErrInvalidEndpoint indicates the endpoint URI cannot be used.
	ErrInvalidEndpoint = errors.New("invalid endpoint URI")
)

// Endpoint is the parsed root URI of the remote API. It is parsed once at
// client construction and shared read-only across calls.
type Endpoint struct {
	// Scheme is "https" unless the URI explicitly says "http" (accepted for
	// self-hosted servers on private networks; everything in the docs and
	// defaults uses https).
	Scheme string

	// Host is the lowercased hostname, without port.
	Host string

	// Port is the explicit port from the URI, or 0 when absent.
	Port int

	// Path is the endpoint path, "/" when the URI has none. The path
	// participates in the string-to-sign byte-for-byte.
	Path string
}

// ParseEndpoint parses a root URI such as "https://landscape.example.com/api/".
func ParseEndpoint(uri string) (Endpoint, error) {
	uri = strings.TrimSpace(uri)
	low := strings.ToLower(uri)
	if !strings.HasPrefix(low, "http://") && !strings.HasPrefix(low, "https://") {
		return Endpoint{}, fmt.Errorf("%w: %q must start with http:// or https://", ErrInvalidEndpoint, uri)
	}
	u, err := url.Parse(uri)
	if err != nil {
		return Endpoint{}, fmt.Errorf("%w: %v", ErrInvalidEndpoint, err)
	}
	if u.Hostname() == "" {
		return Endpoint{}, fmt.Errorf("%w: %q has no host", ErrInvalidEndpoint, uri)
	}

	ep := Endpoint{
		Scheme: strings.ToLower(u.Scheme),
		Host:   strings.ToLower(u.Hostname()),
		Path:   u.Path,
	}
	if p := u.Port(); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil || port < 1 || port > 65535 {
			return Endpoint{}, fmt.Errorf("%w: bad port %q", ErrInvalidEndpoint, p)
		}
		ep.Port = port
	}
	if ep.Path == "" {
		ep.Path = "/"
	}
	return ep, nil
}

// SignedHost is the host as it appears in the string-to-sign and in the Host
// header: lowercased, with ":port" appended only when the URI carried an
// explicit port.
func (e Endpoint) SignedHost() string {
	if e.Port != 0 {
		return e.Host + ":" + strconv.Itoa(e.Port)
	}
	return e.Host
}

// URL is the request URL without a query string.
func (e Endpoint) URL() string {
	return e.Scheme + "://" + e.SignedHost() + e.Path
}

// String implements fmt.Stringer.
func (e Endpoint) String() string {
	return e.URL()
}
