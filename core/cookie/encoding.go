package cookie

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"
)

// Encoding controls how values are made cookie-safe before chunking.
type Encoding string

const (
	// EncodingBase64URL prefixes values with "base64-" and encodes them with
	// unpadded base64url.
	EncodingBase64URL Encoding = "base64url"
	// EncodingRaw query-escapes values.
	EncodingRaw Encoding = "raw"
)

// base64Prefix marks base64url-encoded values.
const base64Prefix = "base64-"

// Encode makes value safe for a cookie.
func (e Encoding) Encode(value string) string {
	if e == EncodingRaw {
		return url.QueryEscape(value)
	}
	return base64Prefix + base64.RawURLEncoding.EncodeToString([]byte(value))
}

// Decode reverses Encode. Values carrying the base64 prefix are decoded as
// base64url whatever the receiver, so switching encodings keeps old cookies readable.
func (e Encoding) Decode(value string) (string, error) {
	if encoded, ok := strings.CutPrefix(value, base64Prefix); ok {
		// Accept padded input written by other clients.
		raw, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(encoded, "="))
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrInvalidFormat, err)
		}
		return string(raw), nil
	}

	decoded, err := url.QueryUnescape(value)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidFormat, err)
	}
	return decoded, nil
}

// ParseEncoding maps a config string to an Encoding, defaulting to base64url.
func ParseEncoding(s string) Encoding {
	if strings.EqualFold(strings.TrimSpace(s), string(EncodingRaw)) {
		return EncodingRaw
	}
	return EncodingBase64URL
}
