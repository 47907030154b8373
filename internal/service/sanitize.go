package service

import (
	"regexp"
	"strings"
)

var scriptTagPattern = regexp.MustCompile(`(?i)<\s*script`)

// sanitizeText neutralizes script tags and strips NUL bytes from
// admin-entered content. Minimal hardening in case the text is ever
// rendered as HTML; not a general HTML sanitizer.
func sanitizeText(s string) string {
	s = scriptTagPattern.ReplaceAllString(s, "&lt;script")
	return strings.ReplaceAll(s, "\x00", "")
}
