package signing

import (
	"net/http"

	"github.com/sufield/landscape/params"
)

// SignedRequest is a fully-formed request ready for a transport to perform.
// It is immutable by convention: built once per call, never reused, because
// the embedded timestamp and signature are only valid inside the server's
// acceptance window.
type SignedRequest struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

// Build assembles a SignedRequest from a signed parameter set.
//
// For POST (the default) the parameters are percent-encoded into the body as
// application/x-www-form-urlencoded. For GET the identical set becomes the
// URL query string. The parameter bytes are the same either way; only the
// transport placement differs. No signature-related headers are set -- the
// signature is an ordinary parameter.
func Build(endpoint Endpoint, method string, signed params.FlatSet) SignedRequest {
	encoded := EncodePairs(signed)
	header := http.Header{}
	header.Set("Host", endpoint.SignedHost())

	if method == http.MethodGet {
		return SignedRequest{
			Method: http.MethodGet,
			URL:    endpoint.URL() + "?" + encoded,
			Header: header,
		}
	}

	header.Set("Content-Type", "application/x-www-form-urlencoded")
	return SignedRequest{
		Method: http.MethodPost,
		URL:    endpoint.URL(),
		Header: header,
		Body:   []byte(encoded),
	}
}
