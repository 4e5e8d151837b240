// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package contact extracts contact addresses from free text.
package contact

import (
	"regexp"
	"strings"
)

// emailPattern matches a conventional address: local part, "@", domain,
// and a TLD-like suffix of at least two letters.
var emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)

// Extract returns the first contact address found in text. It is total:
// empty input yields ("", false) and no input ever causes an error.
func Extract(text string) (string, bool) {
	if text == "" {
		return "", false
	}
	m := emailPattern.FindString(text)
	if m == "" {
		return "", false
	}
	return m, true
}

// Redact masks the local part of an address for log output, keeping the
// first character and the domain (e.g. "a***@example.com").
func Redact(addr string) string {
	at := strings.IndexByte(addr, '@')
	if at <= 0 {
		return addr
	}
	return addr[:1] + "***" + addr[at:]
}
