package util

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

// HashLeadKey creates an MD5 hash from a lead's email and address, used as a
// fallback document ID when a lead arrives without one.
func HashLeadKey(email, address string) string {
	builder := strings.Builder{}
	builder.WriteString(strings.TrimSpace(strings.ToLower(email)))
	builder.WriteString("|")
	builder.WriteString(strings.TrimSpace(strings.ToLower(address)))
	return hashString(builder.String())
}

// HashString returns the MD5 hash of an arbitrary string.
func HashString(input string) string {
	return hashString(strings.TrimSpace(strings.ToLower(input)))
}

func hashString(input string) string {
	sum := md5.Sum([]byte(input))
	return hex.EncodeToString(sum[:])
}
