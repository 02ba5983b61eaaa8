package content

import "strings"

// ImageURL turns a media path from the API into a URL the browser can load.
// Absolute URLs (with a scheme, or protocol-relative) pass through unchanged; relative
// paths are joined to origin with exactly one slash between them. An empty path stays
// empty so callers can skip the image.
func ImageURL(origin, path string) string {
	if path == "" {
		return ""
	}
	if isAbsoluteURL(path) {
		return path
	}
	return strings.TrimRight(origin, "/") + "/" + strings.TrimLeft(path, "/")
}

func isAbsoluteURL(s string) bool {
	if strings.HasPrefix(s, "//") {
		return true
	}
	i := strings.Index(s, "://")
	if i <= 0 {
		return false
	}
	for j, r := range s[:i] {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case j > 0 && (r >= '0' && r <= '9' || r == '+' || r == '-' || r == '.'):
		default:
			return false
		}
	}
	return true
}
