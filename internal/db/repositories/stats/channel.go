package stats

import "strings"

// NormalizeChannel lowercases and trims a channel id so "#Go" and "#go" share
// one row.
func NormalizeChannel(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
