package config

import "strings"

// NormalizeURL trims raw and prefixes "https://" when it has no http or
// https scheme. The second result reports whether a scheme was added so
// the caller can tell the user.
func NormalizeURL(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}

	lower := strings.ToLower(raw)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return raw, false
	}
	return "https://" + raw, true
}
