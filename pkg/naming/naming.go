// Package naming canonicalizes human-entered module names to the snake_case,
// pluralized form persisted on permissions and matched against table names.
package naming

import (
	"strings"
	"unicode"

	"github.com/jinzhu/inflection"
)

// Resolve converts a raw module name to its canonical form: snake_case, then
// pluralized. Pluralization that leaves the word unchanged (already plural or
// an invariant noun) keeps the snake form as-is. Empty input stays empty.
// Resolve is idempotent, and every module-name comparison in the system must
// go through it; permission lookups match on the canonical form only.
func Resolve(raw string) string {
	if raw == "" {
		return ""
	}
	return inflection.Plural(toSnake(raw))
}

// toSnake lowercases a name, inserting underscores at word boundaries.
// Spaces and dashes count as boundaries too, so "User Group", "user-group"
// and "UserGroup" all normalize alike.
func toSnake(s string) string {
	runes := []rune(strings.TrimSpace(s))
	out := make([]rune, 0, len(runes)+4)

	for i, r := range runes {
		switch {
		case r == ' ' || r == '-' || r == '_':
			if len(out) > 0 && out[len(out)-1] != '_' {
				out = append(out, '_')
			}
		case unicode.IsUpper(r):
			prevLower := i > 0 && (unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1]))
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if len(out) > 0 && out[len(out)-1] != '_' && (prevLower || nextLower) {
				out = append(out, '_')
			}
			out = append(out, unicode.ToLower(r))
		default:
			out = append(out, r)
		}
	}
	return string(out)
}
