// Package params models action parameters for the Landscape API and their
// canonical flattened form.
//
// The remote API accepts only flat key/value string pairs. Structured
// parameters are flattened with dotted paths and 1-based indexes:
//
//	{"tags": ["a", "b"], "limit": 5}
//
// becomes
//
//	limit=5, tags.1=a, tags.2=b
//
// The flattened set is sorted ascending by key using byte-wise comparison.
// That ordering is part of the wire contract: the request signature is
// computed over the sorted pairs, and the server performs the same
// canonicalization before verifying. Any divergence makes every signature
// invalid, so Flatten is deliberately strict.
//
// Parameter values form a closed union: String, Int, Float, Bool, Time,
// List, and Map. Native Go values can be converted with FromMap, which
// rejects anything outside the union before a request is attempted.
package params

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// TimeFormat is the wire representation of timestamps: UTC, second
// resolution, trailing "Z". The server defines this format; it is not
// negotiable.
const TimeFormat = "2006-01-02T15:04:05Z"

// Sentinel errors for canonicalization failures.
// Use with errors.Is() for checking and fmt.Errorf("%w", ...) for wrapping.
var (
	// ErrInvalidParameterKind indicates a value outside the supported
	// scalar/sequence/mapping union.
	ErrInvalidParameterKind = errors.New("unsupported parameter kind")

	// ErrDuplicateKey indicates two parameters flattened to the same key.
	ErrDuplicateKey = errors.New("duplicate flattened parameter key")

	// ErrEmptyKey indicates a mapping contains an empty key.
	ErrEmptyKey = errors.New("empty parameter key")
)

// Value is a parameter value: a scalar, an ordered sequence, or a nested
// mapping. The union is closed; the canonicalizer handles every member
// exhaustively. A nil Value means "absent" and is omitted from the
// flattened output.
type Value interface {
	isValue()
}

// String is a plain string scalar. It passes through flattening unchanged;
// percent-encoding happens only when a request is serialized.
type String string

// Int is an integer scalar, rendered in minimal decimal form.
type Int int64

// Float is a floating-point scalar, rendered in the shortest decimal form
// that round-trips.
type Float float64

// Bool is a boolean scalar, rendered as "true" or "false".
type Bool bool

// Time is a timestamp scalar, rendered in TimeFormat (UTC).
type Time time.Time

// List is an ordered sequence. Elements are flattened as "<key>.<index>"
// with 1-based indexes in sequence order.
type List []Value

// Map is a nested mapping. Entries are flattened as "<key>.<subkey>".
// A top-level Map is what callers pass to Client.Invoke.
type Map map[string]Value

func (String) isValue() {}
func (Int) isValue()    {}
func (Float) isValue()  {}
func (Bool) isValue()   {}
func (Time) isValue()   {}
func (List) isValue()   {}
func (Map) isValue()    {}

// stringify renders a scalar in its canonical wire form.
func stringify(v Value) (string, bool) {
	switch s := v.(type) {
	case String:
		return string(s), true
	case Int:
		return strconv.FormatInt(int64(s), 10), true
	case Float:
		return strconv.FormatFloat(float64(s), 'g', -1, 64), true
	case Bool:
		if s {
			return "true", true
		}
		return "false", true
	case Time:
		return time.Time(s).UTC().Format(TimeFormat), true
	}
	return "", false
}

// FromMap converts a mapping of native Go values into a Map.
//
// Supported kinds: string, bool, all integer types, float32/float64,
// time.Time, []any, []string, map[string]any, nil (treated as absent), and
// any Value. Anything else fails with ErrInvalidParameterKind; the failure
// happens before any network activity.
func FromMap(m map[string]any) (Map, error) {
	out := make(Map, len(m))
	for k, v := range m {
		val, err := fromGo(v)
		if err != nil {
			return nil, fmt.Errorf("parameter %q: %w", k, err)
		}
		out[k] = val
	}
	return out, nil
}

func fromGo(v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case Value:
		return x, nil
	case string:
		return String(x), nil
	case bool:
		return Bool(x), nil
	case int:
		return Int(x), nil
	case int8:
		return Int(x), nil
	case int16:
		return Int(x), nil
	case int32:
		return Int(x), nil
	case int64:
		return Int(x), nil
	case uint:
		return Int(x), nil
	case uint8:
		return Int(x), nil
	case uint16:
		return Int(x), nil
	case uint32:
		return Int(x), nil
	case float32:
		return Float(x), nil
	case float64:
		return Float(x), nil
	case time.Time:
		return Time(x), nil
	case []string:
		list := make(List, len(x))
		for i, item := range x {
			list[i] = String(item)
		}
		return list, nil
	case []any:
		list := make(List, 0, len(x))
		for i, item := range x {
			val, err := fromGo(item)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i+1, err)
			}
			list = append(list, val)
		}
		return list, nil
	case map[string]any:
		nested, err := FromMap(x)
		if err != nil {
			return nil, err
		}
		return nested, nil
	}
	return nil, fmt.Errorf("%w: %T", ErrInvalidParameterKind, v)
}
