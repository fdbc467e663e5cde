// Package landscapetest provides an in-process fake of the Landscape API
// server for tests. The fake verifies request signatures exactly the way the
// real server does -- same canonicalization, same string-to-sign, same
// HMAC-SHA256 -- so a client that passes against it will produce signatures
// a real server accepts.
package landscapetest

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sufield/landscape/params"
	"github.com/sufield/landscape/signing"
)

// Call records one verified action invocation.
type Call struct {
	Method string
	Action string
	// Params holds every transmitted parameter, auth and signature included.
	Params map[string]string
}

// Handler produces the response for one action. The returned value is
// JSON-encoded unless it is a Raw.
type Handler func(call Call) (status int, body any)

// Raw marks a response body to be written verbatim instead of JSON-encoded,
// for actions such as GetScriptCode that return plain text.
type Raw []byte

// Server is a fake Landscape API server bound to one set of credentials.
type Server struct {
	// URL is the endpoint URI clients should be pointed at.
	URL string

	creds signing.Credentials
	srv   *httptest.Server

	mu       sync.Mutex
	calls    []Call
	handlers map[string]Handler
}

// NewServer starts a fake server that accepts requests signed with creds.
// It is shut down automatically when the test finishes.
func NewServer(t interface{ Cleanup(func()) }, creds signing.Credentials) *Server {
	s := &Server{
		creds:    creds,
		handlers: make(map[string]Handler),
	}

	// Canned handlers for the actions the client wraps; tests override or
	// extend with Handle.
	s.handlers["GetComputers"] = func(Call) (int, any) {
		return http.StatusOK, []any{}
	}
	s.handlers["AddTagsToComputers"] = func(Call) (int, any) {
		return http.StatusOK, map[string]any{
			"id":                uuid.NewString(),
			"type":              "ActivityGroup",
			"summary":           "Adding tags",
			"completion_status": "undelivered",
		}
	}

	r := chi.NewRouter()
	r.Post("/*", s.handle)
	r.Get("/*", s.handle)

	s.srv = httptest.NewServer(r)
	s.URL = s.srv.URL + "/"
	t.Cleanup(s.srv.Close)
	return s
}

// Handle installs or replaces the handler for an action.
func (s *Server) Handle(action string, h Handler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[action] = h
}

// Calls returns the verified invocations received so far.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Call, len(s.calls))
	copy(out, s.calls)
	return out
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.fail(w, http.StatusBadRequest, "InvalidRequest", "unparseable parameters")
		return
	}

	received := make(map[string]string, len(r.Form))
	for k, vs := range r.Form {
		received[k] = vs[0]
	}

	if received["access_key_id"] != s.creds.Key {
		s.fail(w, http.StatusUnauthorized, "InvalidCredentials", "unknown access key")
		return
	}

	// Recompute the signature over everything except the signature itself,
	// using the same canonicalization the client signs with.
	var flat params.FlatSet
	for k, v := range received {
		if k != "signature" {
			flat = append(flat, params.Pair{Key: k, Value: v})
		}
	}
	flat.Sort()
	toSign := signing.StringToSign(r.Method, strings.ToLower(r.Host), r.URL.Path, flat)
	mac := hmac.New(sha256.New, []byte(s.creds.Secret))
	mac.Write([]byte(toSign))
	want := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(want), []byte(received["signature"])) {
		s.fail(w, http.StatusForbidden, "SignatureDoesNotMatch", "signature verification failed")
		return
	}

	call := Call{Method: r.Method, Action: received["action"], Params: received}

	s.mu.Lock()
	s.calls = append(s.calls, call)
	handler, ok := s.handlers[call.Action]
	s.mu.Unlock()

	if !ok {
		s.fail(w, http.StatusBadRequest, "InvalidAction", "unknown action "+call.Action)
		return
	}

	status, body := handler(call)
	if raw, isRaw := body.(Raw); isRaw {
		w.WriteHeader(status)
		w.Write(raw) //nolint:errcheck
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body) //nolint:errcheck
}

func (s *Server) fail(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{ //nolint:errcheck
		"error":   code,
		"message": message,
	})
}
