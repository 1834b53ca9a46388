package vocab

import (
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// casers are stateful, so each goroutine borrows one
var casers = sync.Pool{
	New: func() any {
		c := cases.Lower(language.Und)
		return &c
	},
}

// Fold lower-cases s with full Unicode rules
func Fold(s string) string {
	c := casers.Get().(*cases.Caser)
	out := c.String(s)
	casers.Put(c)
	return out
}

// Matcher reports which of a fixed list of terms occur as substrings of a text
type Matcher struct {
	terms []string
	fold  bool
	ac    *automaton
}

// NewMatcher compiles terms; with fold set both terms and texts are lower-cased before matching
func NewMatcher(terms []string, fold bool) *Matcher {
	m := &Matcher{terms: append([]string(nil), terms...), fold: fold, ac: newAutomaton()}
	for i, t := range m.terms {
		if fold {
			t = Fold(t)
		}
		m.ac.add([]byte(t), i)
	}
	m.ac.build()
	return m
}

// Terms returns the configured terms in order
func (m *Matcher) Terms() []string { return append([]string(nil), m.terms...) }

func (m *Matcher) prepare(text string) string {
	if m.fold {
		return Fold(text)
	}
	return text
}

// Present returns the terms found in text, in configuration order, each once
func (m *Matcher) Present(text string) []string {
	if len(m.terms) == 0 || text == "" {
		return nil
	}
	seen := make([]bool, len(m.terms))
	n := 0
	m.ac.scan(m.prepare(text), func(id int) bool {
		if !seen[id] {
			seen[id] = true
			n++
		}
		return n < len(m.terms)
	})
	if n == 0 {
		return nil
	}
	out := make([]string, 0, n)
	for i, ok := range seen {
		if ok {
			out = append(out, m.terms[i])
		}
	}
	return out
}

// Any reports whether any term occurs in any of texts
func (m *Matcher) Any(texts ...string) bool {
	for _, t := range texts {
		found := false
		m.ac.scan(m.prepare(t), func(int) bool {
			found = true
			return false
		})
		if found {
			return true
		}
	}
	return false
}
