package cleanup

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// control drops C0 controls except \t \n \r, DEL and the C1 block
var control = runes.Predicate(func(r rune) bool {
	if r == '\t' || r == '\n' || r == '\r' {
		return false
	}
	return unicode.IsControl(r)
})

var sanitizers = sync.Pool{
	New: func() any {
		return transform.Chain(runes.Remove(control), norm.NFC)
	},
}

// Sanitize drops invalid UTF-8 and control characters, then NFC-normalizes
func Sanitize(s string) string {
	if s == "" {
		return s
	}
	s = strings.ToValidUTF8(s, "")
	t := sanitizers.Get().(transform.Transformer)
	out, _, err := transform.String(t, s)
	sanitizers.Put(t)
	if err != nil {
		return s
	}
	return out
}
