// Package datauri recognizes inline data: URIs in message values and
// re-encodes their payload so it can sit inside a quoted CSS url().
package datauri

import (
	"regexp"
	"strings"
)

// The media type and parameter groups only admit characters that are safe
// inside a quoted url(), so only the payload needs encoding.
var pattern = regexp.MustCompile(`data:([a-zA-Z\-/+.]*)([a-zA-Z0-9\-_;=.+]+)?,(.*)`)

// Parts are the components of a matched data URI.
type Parts struct {
	MediaType string
	Params    string
	Payload   string
}

// Match finds the first data URI in input.
func Match(input string) (Parts, bool) {
	m := pattern.FindStringSubmatch(input)
	if m == nil {
		return Parts{}, false
	}
	return Parts{MediaType: m[1], Params: m[2], Payload: m[3]}, true
}

// Encode reassembles the URI with an encoded payload.
func Encode(p Parts) string {
	return "data:" + p.MediaType + p.Params + "," + EncodeURI(p.Payload)
}

// EncodeURI behaves like a browser's encodeURI with space kept literal.
// Input is decoded first so already encoded payloads are not encoded twice.
func EncodeURI(s string) string {
	decoded := decodePercent(s)

	var b strings.Builder
	b.Grow(len(decoded))
	for i := 0; i < len(decoded); i++ {
		c := decoded[i]
		if keepLiteral(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&0x0f])
	}
	return b.String()
}

const upperhex = "0123456789ABCDEF"

func keepLiteral(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("-_.!~*'();,/?:@&=+$ ", c) >= 0
}

// decodePercent decodes %XX sequences. Malformed escapes stay as they are
// and '+' is not treated as a space.
func decodePercent(s string) string {
	if strings.IndexByte(s, '%') < 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]) {
			b.WriteByte(unhex(s[i+1])<<4 | unhex(s[i+2]))
			i += 2
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}
