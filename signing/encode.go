package signing

import (
	"strings"

	"github.com/sufield/landscape/params"
)

// unreserved marks the RFC 3986 unreserved characters: ALPHA / DIGIT /
// "-" / "." / "_" / "~". Everything else is percent-encoded with uppercase
// hex. net/url.QueryEscape is not usable here: it encodes space as "+" and
// escapes "~", both of which diverge from the server's canonicalization.
var unreserved [256]bool

func init() {
	for c := 'A'; c <= 'Z'; c++ {
		unreserved[c] = true
	}
	for c := 'a'; c <= 'z'; c++ {
		unreserved[c] = true
	}
	for c := '0'; c <= '9'; c++ {
		unreserved[c] = true
	}
	for _, c := range []byte{'-', '.', '_', '~'} {
		unreserved[c] = true
	}
}

const upperhex = "0123456789ABCDEF"

// Encode percent-encodes s following RFC 3986 unreserved-character rules.
func Encode(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if unreserved[c] {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&0xF])
	}
	return b.String()
}

// EncodePairs serializes a flat parameter set as
// "encode(k1)=encode(v1)&encode(k2)=encode(v2)&...", preserving the set's
// order. Given a sorted set this is both the query-string form and the final
// component of the string-to-sign.
func EncodePairs(fs params.FlatSet) string {
	var b strings.Builder
	for i, p := range fs {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(Encode(p.Key))
		b.WriteByte('=')
		b.WriteString(Encode(p.Value))
	}
	return b.String()
}
