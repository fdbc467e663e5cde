// Package signing implements the request-signing scheme of the Landscape
// fleet-management API: canonical string-to-sign construction, HMAC-SHA256
// signature computation, and assembly of transport-ready signed requests.
//
// The scheme is the classic query-signature design: every parameter --
// user-supplied and authentication alike -- travels as a flat key/value
// pair, the pairs are sorted byte-wise, percent-encoded per RFC 3986
// unreserved rules, and joined into
//
//	METHOD + "\n" + host + "\n" + path + "\n" + k1=v1&k2=v2&...
//
// The base64 HMAC-SHA256 of that string under the secret key is appended as
// one more "signature" parameter. No custom headers are involved; the
// signature is just another parameter.
//
// Sign is a pure function of its inputs. Given the same timestamp it always
// produces the identical signature, which is what makes golden-vector
// regression tests possible.
package signing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sufield/landscape/params"
)

// Fixed protocol constants, defined by the server.
const (
	// SignatureVersion identifies the signing scheme.
	SignatureVersion = "2"

	// SignatureMethod names the MAC algorithm as the server spells it.
	SignatureMethod = "HmacSHA256"

	// LatestVersion is the current stable API version.
	LatestVersion = "2011-08-01"

	// FutureVersion is the in-development API version.
	FutureVersion = "2013-11-04"
)

// Parameter names injected by the signer. User parameters must not collide
// with them.
var reservedParameters = []string{
	"access_key_id",
	"action",
	"signature",
	"signature_method",
	"signature_version",
	"timestamp",
	"version",
}

// ErrReservedParameter indicates a user parameter collides with one of the
// authentication parameters the signer injects.
var ErrReservedParameter = errors.New("parameter name is reserved for authentication")

// Credentials hold the API access key pair. They are immutable for the
// lifetime of a client. The secret must never be logged or echoed.
type Credentials struct {
	// Key is the access key identifier, sent as access_key_id.
	Key string

	// Secret is the HMAC key. It never appears on the wire.
	Secret string
}

// Signer computes request signatures for one set of credentials.
// The zero Version means LatestVersion.
type Signer struct {
	Credentials Credentials
	Version     string
}

// Sign injects the authentication parameters into flat, computes the
// signature over the canonical string-to-sign, and returns the signature
// together with the complete parameter set to transmit (signature included,
// re-sorted).
//
// The timestamp is stamped by the caller; the server enforces its own
// acceptance window and this function does not validate it. host must be the
// endpoint's SignedHost, path the endpoint path.
//
// Sign never performs I/O and either fully succeeds or fails before any
// request could be built.
func (s Signer) Sign(method, host, path, action string, flat params.FlatSet, timestamp time.Time) (string, params.FlatSet, error) {
	for _, p := range flat {
		for _, r := range reservedParameters {
			if p.Key == r {
				return "", nil, fmt.Errorf("%w: %q", ErrReservedParameter, p.Key)
			}
		}
	}

	version := s.Version
	if version == "" {
		version = LatestVersion
	}

	signed := flat.Clone()
	signed = append(signed,
		params.Pair{Key: "access_key_id", Value: s.Credentials.Key},
		params.Pair{Key: "action", Value: action},
		params.Pair{Key: "signature_method", Value: SignatureMethod},
		params.Pair{Key: "signature_version", Value: SignatureVersion},
		params.Pair{Key: "timestamp", Value: timestamp.UTC().Format(params.TimeFormat)},
		params.Pair{Key: "version", Value: version},
	)
	signed.Sort()

	toSign := StringToSign(method, host, path, signed)
	mac := hmac.New(sha256.New, []byte(s.Credentials.Secret))
	mac.Write([]byte(toSign))
	signature := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	signed = append(signed, params.Pair{Key: "signature", Value: signature})
	signed.Sort()
	return signature, signed, nil
}

// StringToSign builds the canonical byte sequence the signature covers.
// flat must already be sorted; the host is folded to lower case, an empty
// path becomes "/". Exposed for tests and for debugging signature mismatches
// against a real server.
func StringToSign(method, host, path string, flat params.FlatSet) string {
	if path == "" {
		path = "/"
	}
	return method + "\n" + strings.ToLower(host) + "\n" + path + "\n" + EncodePairs(flat)
}
