package landscape

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors classifying call failures.
// Use with errors.Is() for checking and fmt.Errorf("%w", ...) for wrapping.
var (
	// ErrClientError indicates the server rejected the request (4xx).
	ErrClientError = errors.New("client error")

	// ErrServerError indicates the server failed to process the request (5xx).
	ErrServerError = errors.New("server error")

	// ErrMalformedResponse indicates a 2xx body that could not be parsed.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrTransport indicates the network exchange itself failed and no HTTP
	// response was received.
	ErrTransport = errors.New("transport failure")
)

// APIError is a structured failure returned by the remote API. The server
// reports errors as a JSON body {"error": <code>, "message": <text>}; when
// the body is not JSON the raw text becomes the message.
type APIError struct {
	// StatusCode is the HTTP status of the failed exchange.
	StatusCode int

	// Code is the server's error code, such as "InvalidCredentials" or
	// "SignatureDoesNotMatch". Empty when the body carried no JSON error.
	Code string

	// Message is the human-readable error text.
	Message string

	// Body is the raw response body, kept for diagnostics.
	Body []byte
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api error %d (%s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// Unwrap classifies the error as ErrClientError or ErrServerError so callers
// can branch with errors.Is without inspecting status codes.
func (e *APIError) Unwrap() error {
	if e.StatusCode >= 500 {
		return ErrServerError
	}
	return ErrClientError
}

// newAPIError builds an APIError from a non-2xx response, extracting the
// server's error code and message when the body is the JSON error shape.
func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{
		StatusCode: status,
		Message:    http.StatusText(status),
		Body:       body,
	}
	if len(body) > 0 {
		apiErr.Message = string(body)
	}
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '{' && json.Unmarshal(trimmed, &payload) == nil && payload.Error != "" {
		apiErr.Code = payload.Error
		apiErr.Message = payload.Message
	}
	return apiErr
}
