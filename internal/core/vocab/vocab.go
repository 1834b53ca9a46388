// Package vocab loads the embedded keyword vocabularies and compiles them into matchers
package vocab

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

//go:embed vocab.json
var embedded []byte

type rawGroup struct {
	Tag      string   `json:"tag"`
	Patterns []string `json:"patterns"`
}

type rawSynonym struct {
	Canonical string   `json:"canonical"`
	Words     []string `json:"words"`
}

type rawVocab struct {
	Version int                 `json:"version"`
	Slots   map[string][]string `json:"slots"`
	Title   struct {
		Keywords []string    `json:"keywords"`
		Pairs    [][2]string `json:"pairs"`
	} `json:"title"`
	Comments struct {
		First      []string   `json:"first"`
		FirstCased []string   `json:"first_cased"`
		Groups     []rawGroup `json:"groups"`
	} `json:"comments"`
	Whiteboard         []string     `json:"whiteboard"`
	ReviewContentTypes []string     `json:"review_content_types"`
	LandingMarker      string       `json:"landing_marker"`
	Synonyms           []rawSynonym `json:"synonyms"`
}

// Pair is a compound title rule: both terms present yields "A^B"
type Pair struct {
	A, B string
}

// Tag joins the pair the way it appears in feature names
func (p Pair) Tag() string { return p.A + "^" + p.B }

// Group collapses several patterns into one tag
type Group struct {
	Tag     string
	Matcher *Matcher
}

// Synonym maps a set of words onto one canonical word
type Synonym struct {
	Canonical string
	Words     []string
}

// Vocab is the compiled vocabulary set; it is read-only after Load
type Vocab struct {
	Version int

	Title      *Matcher
	TitlePairs []Pair

	FirstComment      *Matcher
	FirstCommentCased *Matcher
	CommentGroups     []Group

	Whiteboard *Matcher

	ReviewContentTypes map[string]struct{}
	LandingMarker      string
	Synonyms           []Synonym
}

// Load parses and compiles a vocabulary document
func Load(data []byte) (*Vocab, error) {
	var rv rawVocab
	if err := json.Unmarshal(data, &rv); err != nil {
		return nil, fmt.Errorf("vocab: parse: %w", err)
	}
	if rv.Version != 1 {
		return nil, fmt.Errorf("vocab: unsupported version %d (want 1)", rv.Version)
	}
	if rv.LandingMarker == "" {
		return nil, fmt.Errorf("vocab: landing_marker is required")
	}

	title, err := expand(rv.Title.Keywords, rv.Slots)
	if err != nil {
		return nil, fmt.Errorf("vocab: title: %w", err)
	}
	first, err := expand(rv.Comments.First, rv.Slots)
	if err != nil {
		return nil, fmt.Errorf("vocab: comments.first: %w", err)
	}

	v := &Vocab{
		Version:            rv.Version,
		Title:              NewMatcher(title, true),
		FirstComment:       NewMatcher(first, true),
		FirstCommentCased:  NewMatcher(rv.Comments.FirstCased, false),
		Whiteboard:         NewMatcher(rv.Whiteboard, true),
		ReviewContentTypes: make(map[string]struct{}, len(rv.ReviewContentTypes)),
		LandingMarker:      rv.LandingMarker,
	}
	for _, p := range rv.Title.Pairs {
		if p[0] == "" || p[1] == "" {
			return nil, fmt.Errorf("vocab: empty title pair term")
		}
		v.TitlePairs = append(v.TitlePairs, Pair{A: p[0], B: p[1]})
	}
	for _, g := range rv.Comments.Groups {
		if g.Tag == "" || len(g.Patterns) == 0 {
			return nil, fmt.Errorf("vocab: comment group needs a tag and patterns")
		}
		v.CommentGroups = append(v.CommentGroups, Group{Tag: g.Tag, Matcher: NewMatcher(g.Patterns, true)})
	}
	for _, ct := range rv.ReviewContentTypes {
		v.ReviewContentTypes[ct] = struct{}{}
	}
	for _, s := range rv.Synonyms {
		if s.Canonical == "" || len(s.Words) == 0 {
			return nil, fmt.Errorf("vocab: synonym group needs a canonical word and words")
		}
		v.Synonyms = append(v.Synonyms, Synonym{Canonical: s.Canonical, Words: append([]string(nil), s.Words...)})
	}
	return v, nil
}

// expand replaces whole-item {slot} references with the slot's terms, keeping the first occurrence of duplicates
func expand(items []string, slots map[string][]string) ([]string, error) {
	out := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	add := func(s string) {
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	for _, it := range items {
		if strings.HasPrefix(it, "{") && strings.HasSuffix(it, "}") {
			name := it[1 : len(it)-1]
			terms, ok := slots[name]
			if !ok {
				return nil, fmt.Errorf("unknown slot %q", name)
			}
			for _, t := range terms {
				add(t)
			}
			continue
		}
		add(it)
	}
	return out, nil
}

var (
	defOnce sync.Once
	def     *Vocab
	defErr  error
)

// Default returns the embedded vocabulary, compiled once
func Default() *Vocab {
	defOnce.Do(func() { def, defErr = Load(embedded) })
	if defErr != nil {
		panic(defErr)
	}
	return def
}
