package signing_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sufield/landscape/params"
	"github.com/sufield/landscape/signing"
)

// Golden credentials shared by the vector tests. The expected strings-to-sign
// and signatures below were produced by running the reference implementation
// of the signing scheme over these exact inputs; they must never change.
var goldenCreds = signing.Credentials{
	Key:    "24LP4N3HUM9BAJRJJ6AC",
	Secret: "VV7KYgMENAh8Sr2jiQ4PMYpPpmUnL3ZSQDnDSWAN",
}

func TestSign_GoldenVectors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		method        string
		host          string
		path          string
		action        string
		flat          params.FlatSet
		timestamp     time.Time
		wantToSign    string
		wantSignature string
	}{
		{
			name:   "get computers with list and limit",
			method: http.MethodPost,
			host:   "landscape.example.com",
			path:   "/api/",
			action: "GetComputers",
			flat: params.FlatSet{
				{Key: "limit", Value: "5"},
				{Key: "tags.1", Value: "a"},
				{Key: "tags.2", Value: "b"},
			},
			timestamp: time.Date(2013, 11, 4, 0, 0, 0, 0, time.UTC),
			wantToSign: "POST\nlandscape.example.com\n/api/\n" +
				"access_key_id=24LP4N3HUM9BAJRJJ6AC&action=GetComputers&limit=5&" +
				"signature_method=HmacSHA256&signature_version=2&tags.1=a&tags.2=b&" +
				"timestamp=2013-11-04T00%3A00%3A00Z&version=2011-08-01",
			wantSignature: "cGMaSk8W8fAdUec4t0rq/yuCqjAXqwcKx7VaUW242Y8=",
		},
		{
			name:   "special characters and explicit port over GET",
			method: http.MethodGet,
			host:   "landscape.example.com:8443",
			path:   "/api/",
			action: "ExecuteScript",
			flat: params.FlatSet{
				{Key: "deliver_after", Value: "2016-03-01T00:00:00Z"},
				{Key: "query", Value: "name:web server"},
				{Key: "username", Value: "dev-ops_1"},
			},
			timestamp: time.Date(2016, 2, 29, 23, 59, 59, 0, time.UTC),
			wantToSign: "GET\nlandscape.example.com:8443\n/api/\n" +
				"access_key_id=24LP4N3HUM9BAJRJJ6AC&action=ExecuteScript&" +
				"deliver_after=2016-03-01T00%3A00%3A00Z&query=name%3Aweb%20server&" +
				"signature_method=HmacSHA256&signature_version=2&" +
				"timestamp=2016-02-29T23%3A59%3A59Z&username=dev-ops_1&version=2011-08-01",
			wantSignature: "TXz1OKGjEu3GLYi3GnVpjSgm2wWPs+WYH5QBRZPlDVA=",
		},
		{
			name:      "no user parameters and root path",
			method:    http.MethodPost,
			host:      "localhost:9080",
			path:      "/",
			action:    "GetAPIInfo",
			flat:      nil,
			timestamp: time.Date(2020, 1, 1, 12, 0, 0, 0, time.UTC),
			wantToSign: "POST\nlocalhost:9080\n/\n" +
				"access_key_id=24LP4N3HUM9BAJRJJ6AC&action=GetAPIInfo&" +
				"signature_method=HmacSHA256&signature_version=2&" +
				"timestamp=2020-01-01T12%3A00%3A00Z&version=2011-08-01",
			wantSignature: "+691g74DCf18/3xPGORi3x2QHLy+HaDovUZ9grIR8NQ=",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			signer := signing.Signer{Credentials: goldenCreds}
			sig, signed, err := signer.Sign(tt.method, tt.host, tt.path, tt.action, tt.flat, tt.timestamp)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSignature, sig)

			// Reconstruct the string-to-sign from the signed set minus the
			// signature pair; it must match the recorded bytes exactly.
			var withoutSig params.FlatSet
			for _, p := range signed {
				if p.Key != "signature" {
					withoutSig = append(withoutSig, p)
				}
			}
			assert.Equal(t, tt.wantToSign, signing.StringToSign(tt.method, tt.host, tt.path, withoutSig))

			gotSig, ok := signed.Get("signature")
			require.True(t, ok, "signature must travel as an ordinary parameter")
			assert.Equal(t, tt.wantSignature, gotSig)
		})
	}
}

// TestSign_Invariant_Deterministic verifies that Sign is a pure function:
// identical inputs, including the timestamp, yield byte-identical signatures.
func TestSign_Invariant_Deterministic(t *testing.T) {
	t.Parallel()

	signer := signing.Signer{Credentials: goldenCreds}
	flat := params.FlatSet{{Key: "limit", Value: "1"}}
	ts := time.Date(2021, 6, 15, 8, 30, 0, 0, time.UTC)

	sig1, signed1, err := signer.Sign(http.MethodPost, "host.example.com", "/api/", "GetComputers", flat, ts)
	require.NoError(t, err)
	sig2, signed2, err := signer.Sign(http.MethodPost, "host.example.com", "/api/", "GetComputers", flat, ts)
	require.NoError(t, err)

	assert.Equal(t, sig1, sig2)
	assert.Equal(t, signed1, signed2)
}

func TestSign_HostIsLowercased(t *testing.T) {
	t.Parallel()

	signer := signing.Signer{Credentials: goldenCreds}
	ts := time.Date(2021, 6, 15, 8, 30, 0, 0, time.UTC)

	sigMixed, _, err := signer.Sign(http.MethodPost, "Landscape.Example.COM", "/api/", "GetComputers", nil, ts)
	require.NoError(t, err)
	sigLower, _, err := signer.Sign(http.MethodPost, "landscape.example.com", "/api/", "GetComputers", nil, ts)
	require.NoError(t, err)

	assert.Equal(t, sigLower, sigMixed, "host case must not influence the signature")
}

func TestSign_TimestampNormalizedToUTC(t *testing.T) {
	t.Parallel()

	signer := signing.Signer{Credentials: goldenCreds}
	utc := time.Date(2021, 6, 15, 8, 30, 0, 0, time.UTC)
	offset := utc.In(time.FixedZone("CEST", 2*60*60))

	_, signedUTC, err := signer.Sign(http.MethodPost, "h", "/", "A", nil, utc)
	require.NoError(t, err)
	_, signedOffset, err := signer.Sign(http.MethodPost, "h", "/", "A", nil, offset)
	require.NoError(t, err)

	assert.Equal(t, signedUTC, signedOffset)
	ts, _ := signedUTC.Get("timestamp")
	assert.Equal(t, "2021-06-15T08:30:00Z", ts)
}

func TestSign_ReservedParameterRejected(t *testing.T) {
	t.Parallel()

	tests := []string{
		"access_key_id", "action", "signature",
		"signature_method", "signature_version", "timestamp", "version",
	}

	for _, reserved := range tests {
		reserved := reserved
		t.Run(reserved, func(t *testing.T) {
			t.Parallel()

			signer := signing.Signer{Credentials: goldenCreds}
			flat := params.FlatSet{{Key: reserved, Value: "x"}}
			_, _, err := signer.Sign(http.MethodPost, "h", "/", "A", flat, time.Now())
			require.Error(t, err)
			assert.ErrorIs(t, err, signing.ErrReservedParameter)
		})
	}
}

func TestSign_VersionOverride(t *testing.T) {
	t.Parallel()

	signer := signing.Signer{Credentials: goldenCreds, Version: signing.FutureVersion}
	_, signed, err := signer.Sign(http.MethodPost, "h", "/", "A", nil, time.Now().UTC())
	require.NoError(t, err)

	v, ok := signed.Get("version")
	require.True(t, ok)
	assert.Equal(t, "2013-11-04", v)
}

func TestEncode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"unreserved pass through", "AZaz09-._~", "AZaz09-._~"},
		{"space is percent-twenty", "web server", "web%20server"},
		{"colon", "2013-11-04T00:00:00Z", "2013-11-04T00%3A00%3A00Z"},
		{"plus slash equals from base64", "a+b/c=", "a%2Bb%2Fc%3D"},
		{"uppercase hex", "\x01\xff", "%01%FF"},
		{"utf-8 bytes encoded individually", "café", "caf%C3%A9"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, signing.Encode(tt.input))
		})
	}
}

func TestStringToSign_EmptyPathBecomesRoot(t *testing.T) {
	t.Parallel()

	got := signing.StringToSign(http.MethodPost, "h.example.com", "", nil)
	assert.Equal(t, "POST\nh.example.com\n/\n", got)
}
