package adaptation

import (
	"strings"

	pdomain "github.com/claireundgeorge/accessible-site/internal/domain/persona"
)

// ReadableText formats s for the visitor. Dyslexia readers get lower-case
// text with whitespace runs collapsed; everyone else gets s unchanged.
func ReadableText(c pdomain.Category, s string) string {
	if c != pdomain.Dyslexia {
		return s
	}
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

func readableAll(c pdomain.Category, in []string) []string {
	if in == nil {
		return []string{}
	}
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = ReadableText(c, s)
	}
	return out
}
