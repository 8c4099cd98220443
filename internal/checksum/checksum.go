// Package checksum computes content digests used as HTTP entity tags.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Sum returns the hex-encoded SHA-256 digest of data.
func Sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// ETag returns a strong entity tag for data.
func ETag(data []byte) string {
	return `"` + Sum(data) + `"`
}

// Matches reports whether an If-None-Match header value matches etag.
// The header may list several tags or be "*"; weak tags compare by value.
func Matches(header, etag string) bool {
	header = strings.TrimSpace(header)
	if header == "" {
		return false
	}
	if header == "*" {
		return true
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimPrefix(strings.TrimSpace(candidate), "W/")
		if candidate == etag {
			return true
		}
	}
	return false
}
