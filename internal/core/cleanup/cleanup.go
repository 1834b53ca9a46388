// Package cleanup holds the destructive text passes applied to summaries and comments
package cleanup

import (
	"regexp"
	"strings"

	"bugsift/internal/core/vocab"
	perr "bugsift/internal/platform/errors"
)

// Func rewrites one text field
type Func func(string) string

// urlRe matches a maximal run of non-whitespace starting with "http"; the class
// is the full Unicode whitespace set (including \x1c-\x1f and \x85)
var urlRe = regexp.MustCompile(`http[^\t\n\v\f\r\x1c-\x1f\x85\p{Z}]+`)

// URL replaces URL-like tokens with "URL"
func URL(s string) string { return urlRe.ReplaceAllLiteralString(s, "URL") }

var fileRefRe = regexp.MustCompile(`\w+\.(?:py|json|js|jsm|html|css|c|cpp|h)\b`)

// FileRef replaces source file names with "__FILE_REFERENCE__"
func FileRef(s string) string { return fileRefRe.ReplaceAllLiteralString(s, "__FILE_REFERENCE__") }

// Synonyms returns a pass replacing each synonym word (whole word, any case) with its canonical form
func Synonyms(v *vocab.Vocab) Func {
	type rule struct {
		re  *regexp.Regexp
		out string
	}
	rules := make([]rule, 0, len(v.Synonyms))
	for _, s := range v.Synonyms {
		alts := make([]string, len(s.Words))
		for i, w := range s.Words {
			alts[i] = regexp.QuoteMeta(w)
		}
		rules = append(rules, rule{
			re:  regexp.MustCompile(`(?i)\b(?:` + strings.Join(alts, "|") + `)\b`),
			out: s.Canonical,
		})
	}
	return func(s string) string {
		for _, r := range rules {
			s = r.re.ReplaceAllLiteralString(s, r.out)
		}
		return s
	}
}

// Chain applies fns left to right
func Chain(fns ...Func) Func {
	return func(s string) string {
		for _, f := range fns {
			s = f(s)
		}
		return s
	}
}

// Pass names accepted by Build
const (
	NameURL      = "url"
	NameFileRef  = "fileref"
	NameSynonyms = "synonyms"
	NameSanitize = "sanitize"
)

// ErrUnknownPass is returned by Build for a name it does not know
var ErrUnknownPass = perr.New(perr.ErrorCodeInvalidArgument, "unknown cleanup pass")

// Names lists the known pass names
func Names() []string { return []string{NameURL, NameFileRef, NameSynonyms, NameSanitize} }

// Default is the chain used when none is configured
func Default() []Func { return []Func{URL} }

// Build resolves pass names in order; no names yields Default
func Build(names []string, v *vocab.Vocab) ([]Func, error) {
	if len(names) == 0 {
		return Default(), nil
	}
	if v == nil {
		v = vocab.Default()
	}
	out := make([]Func, 0, len(names))
	for _, n := range names {
		switch strings.ToLower(strings.TrimSpace(n)) {
		case NameURL:
			out = append(out, URL)
		case NameFileRef:
			out = append(out, FileRef)
		case NameSynonyms:
			out = append(out, Synonyms(v))
		case NameSanitize:
			out = append(out, Sanitize)
		default:
			return nil, perr.WithField(ErrUnknownPass, n)
		}
	}
	return out, nil
}
