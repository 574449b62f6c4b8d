package utils

import "strings"

const maxContextLen = 500

// SanitizeContext cleans user-supplied free text before it is embedded into
// the model prompt. It removes the syntax that could break out of the prompt
// template (control characters, braces, brackets, backticks and the ${
// interpolation marker), trims whitespace and caps the length at 500
// characters. It is idempotent: sanitizing an already-sanitized string is a
// no-op. It does not try to remove attacker-controlled words, only syntax
// meaningful to the embedding format.
func SanitizeContext(s string) string {
	s = strings.ReplaceAll(s, "${", "")

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7f {
			continue
		}
		switch r {
		case '{', '}', '[', ']', '`':
			continue
		}
		b.WriteRune(r)
	}

	out := strings.TrimSpace(b.String())
	if runes := []rune(out); len(runes) > maxContextLen {
		out = strings.TrimSpace(string(runes[:maxContextLen]))
	}
	return out
}
