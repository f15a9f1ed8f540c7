package utils

import "strings"

// Slugify derives a URL-safe identifier from a human-readable name: lowercase,
// runs of non-alphanumeric characters collapsed to single hyphens, leading and
// trailing hyphens trimmed.
func Slugify(name string) string {
	var b strings.Builder
	b.Grow(len(name))

	hyphenPending := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if hyphenPending && b.Len() > 0 {
				b.WriteByte('-')
			}
			hyphenPending = false
			b.WriteRune(r)
		default:
			hyphenPending = true
		}
	}

	return b.String()
}
