package token

import "strings"

// DefaultName is used when a requested token name sanitizes to nothing.
const DefaultName = "default"

// maxNameLength bounds sanitized token names to the column size.
const maxNameLength = 100

// SanitizeName normalizes a requested token name to a stable identifier.
//
// The name is lowercased and trimmed, every character outside [a-z0-9-_.]
// is replaced with a hyphen, runs of hyphens are collapsed and leading or
// trailing hyphens removed. Differently cased or spaced variants of the
// same logical name therefore collide to the same stored record. An empty
// result falls back to DefaultName.
func SanitizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))

	var b strings.Builder

	lastHyphen := false

	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '.':
			b.WriteRune(r)

			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
			}

			lastHyphen = true
		}
	}

	out := strings.Trim(b.String(), "-")

	if len(out) > maxNameLength {
		out = out[:maxNameLength]
	}

	if out == "" {
		return DefaultName
	}

	return out
}
