// internal/app/system/normalize/normalize.go

// Package normalize provides input normalization helpers used at every write
// boundary: store Create/Update paths, the import engine's duplicate keys, and
// query-parameter handling. Normalizing in one place keeps stored values and
// lookup keys byte-identical.
package normalize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// Email lowercases and trims an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims surrounding whitespace and strips any markup. Case is preserved;
// case-insensitive matching goes through the folded *_ci shadow fields.
func Name(s string) string {
	return strings.TrimSpace(strict.Sanitize(s))
}

// Phone reduces a phone number to digits with an optional leading +.
// "050-111 1111" and "0501111111" normalize to the same key.
func Phone(s string) string {
	s = strings.TrimSpace(s)
	var b strings.Builder
	for i, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
			continue
		}
		if r == '+' && i == 0 {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// QueryParam trims a query or form parameter.
func QueryParam(s string) string {
	return strings.TrimSpace(s)
}
