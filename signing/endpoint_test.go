package signing_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sufield/landscape/params"
	"github.com/sufield/landscape/signing"
)

func TestParseEndpoint(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		uri     string
		want    signing.Endpoint
		wantErr bool
	}{
		{
			name: "hosted endpoint",
			uri:  "https://landscape.canonical.com/api/",
			want: signing.Endpoint{Scheme: "https", Host: "landscape.canonical.com", Path: "/api/"},
		},
		{
			name: "explicit port",
			uri:  "https://landscape.example.com:8443/api/",
			want: signing.Endpoint{Scheme: "https", Host: "landscape.example.com", Port: 8443, Path: "/api/"},
		},
		{
			name: "missing path becomes root",
			uri:  "https://landscape.example.com",
			want: signing.Endpoint{Scheme: "https", Host: "landscape.example.com", Path: "/"},
		},
		{
			name: "host folded to lower case",
			uri:  "https://Landscape.Example.COM/api/",
			want: signing.Endpoint{Scheme: "https", Host: "landscape.example.com", Path: "/api/"},
		},
		{
			name: "http accepted for self-hosted servers",
			uri:  "http://localhost:9080/",
			want: signing.Endpoint{Scheme: "http", Host: "localhost", Port: 9080, Path: "/"},
		},
		{
			name:    "missing scheme rejected",
			uri:     "landscape.example.com/api/",
			wantErr: true,
		},
		{
			name:    "unsupported scheme rejected",
			uri:     "ftp://landscape.example.com/",
			wantErr: true,
		},
		{
			name:    "empty rejected",
			uri:     "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := signing.ParseEndpoint(tt.uri)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, signing.ErrInvalidEndpoint)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEndpoint_SignedHost(t *testing.T) {
	t.Parallel()

	withPort := signing.Endpoint{Scheme: "https", Host: "h.example.com", Port: 8443, Path: "/"}
	assert.Equal(t, "h.example.com:8443", withPort.SignedHost())

	withoutPort := signing.Endpoint{Scheme: "https", Host: "h.example.com", Path: "/"}
	assert.Equal(t, "h.example.com", withoutPort.SignedHost())
}

func TestBuild_PostPlacesParametersInBody(t *testing.T) {
	t.Parallel()

	ep := signing.Endpoint{Scheme: "https", Host: "landscape.example.com", Path: "/api/"}
	signed := params.FlatSet{
		{Key: "action", Value: "GetComputers"},
		{Key: "limit", Value: "5"},
		{Key: "signature", Value: "a+b/c="},
	}

	req := signing.Build(ep, http.MethodPost, signed)

	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "https://landscape.example.com/api/", req.URL)
	assert.Equal(t, "application/x-www-form-urlencoded", req.Header.Get("Content-Type"))
	assert.Equal(t, "landscape.example.com", req.Header.Get("Host"))
	assert.Equal(t, "action=GetComputers&limit=5&signature=a%2Bb%2Fc%3D", string(req.Body))
}

func TestBuild_GetPlacesParametersInQuery(t *testing.T) {
	t.Parallel()

	ep := signing.Endpoint{Scheme: "https", Host: "landscape.example.com", Port: 8443, Path: "/api/"}
	signed := params.FlatSet{
		{Key: "action", Value: "GetComputers"},
		{Key: "limit", Value: "5"},
	}

	req := signing.Build(ep, http.MethodGet, signed)

	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "https://landscape.example.com:8443/api/?action=GetComputers&limit=5", req.URL)
	assert.Nil(t, req.Body)
	assert.Empty(t, req.Header.Get("Content-Type"))
}

// TestBuild_EncodingsCarryIdenticalParameterBytes verifies the two transport
// placements serialize the same canonical parameter bytes.
func TestBuild_EncodingsCarryIdenticalParameterBytes(t *testing.T) {
	t.Parallel()

	ep := signing.Endpoint{Scheme: "https", Host: "h.example.com", Path: "/api/"}
	signed := params.FlatSet{
		{Key: "action", Value: "ExecuteScript"},
		{Key: "query", Value: "name:web server"},
	}

	post := signing.Build(ep, http.MethodPost, signed)
	get := signing.Build(ep, http.MethodGet, signed)

	wantQuery := "action=ExecuteScript&query=name%3Aweb%20server"
	assert.Equal(t, wantQuery, string(post.Body))
	assert.Equal(t, ep.URL()+"?"+wantQuery, get.URL)
}
