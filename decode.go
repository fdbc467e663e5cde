package landscape

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// decodeResponse interprets a completed HTTP exchange into a generic value
// tree or a classified error. It never panics and never retries: remote
// failures surface verbatim.
//
//   - 2xx with a JSON body: the decoded tree (numbers as json.Number).
//   - 2xx with an empty body: nil.
//   - 2xx with an unparseable body: ErrMalformedResponse.
//   - 4xx/5xx: *APIError wrapping ErrClientError/ErrServerError.
func decodeResponse(status int, body []byte) (any, error) {
	if status < 200 || status > 299 {
		return nil, newAPIError(status, body)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var value any
	if err := dec.Decode(&value); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	// Trailing garbage after the JSON document is as malformed as a parse
	// failure.
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data after JSON document", ErrMalformedResponse)
	}
	return value, nil
}
