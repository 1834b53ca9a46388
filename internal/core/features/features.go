// Package features runs a configured extractor set over bug batches
package features

import (
	"fmt"
	"strings"

	"bugsift/internal/core/bug"
	"bugsift/internal/core/cleanup"
	"bugsift/internal/core/extract"
	perr "bugsift/internal/platform/errors"
)

// Mapping is the flat feature set of one bug
type Mapping map[string]string

// Result is the per-bug output record
type Result struct {
	Data     Mapping `json:"data"`
	Title    string  `json:"title"`
	Comments string  `json:"comments"`
	Commits  *string `json:"commits,omitempty"`
}

var (
	// ErrDuplicateExtractor is returned by New when two extractors share a name
	ErrDuplicateExtractor = perr.New(perr.ErrorCodeInvalidArgument, "duplicate extractor")

	// ErrNilExtractor is returned by New for a nil entry
	ErrNilExtractor = perr.New(perr.ErrorCodeInvalidArgument, "nil extractor")
)

// Option configures an Extractor
type Option func(*Extractor)

// WithCommits attaches a bug id to commit message lookup; results then carry Commits
func WithCommits(lookup map[int64]string) Option {
	return func(e *Extractor) {
		e.commits = lookup
		e.hasCommits = true
	}
}

// WithCleanup replaces the default cleanup passes
func WithCleanup(fns ...cleanup.Func) Option {
	return func(e *Extractor) { e.clean = cleanup.Chain(fns...) }
}

// Extractor is the aggregator; it is safe for concurrent use on disjoint batches
type Extractor struct {
	extractors []extract.Extractor
	clean      cleanup.Func
	commits    map[int64]string
	hasCommits bool
}

// New checks the extractor set and applies options
func New(extractors []extract.Extractor, opts ...Option) (*Extractor, error) {
	seen := make(map[string]struct{}, len(extractors))
	for i, x := range extractors {
		if x == nil {
			return nil, perr.WithField(ErrNilExtractor, fmt.Sprintf("extractors[%d]", i))
		}
		if _, dup := seen[x.Name()]; dup {
			return nil, perr.WithField(ErrDuplicateExtractor, x.Name())
		}
		seen[x.Name()] = struct{}{}
	}
	e := &Extractor{
		extractors: append([]extract.Extractor(nil), extractors...),
		clean:      cleanup.Chain(cleanup.Default()...),
	}
	for _, o := range opts {
		o(e)
	}
	return e, nil
}

// Names returns the configured extractor names in order
func (e *Extractor) Names() []string {
	out := make([]string, len(e.extractors))
	for i, x := range e.extractors {
		out[i] = x.Name()
	}
	return out
}

// HasCommits reports whether results carry a commits field
func (e *Extractor) HasCommits() bool { return e.hasCommits }

// Transform computes one Result per bug, in input order
//
// Every extractor sees the raw bug. Cleanup then rewrites the summary and each
// comment text in place, so callers must not reuse the batch expecting the
// original text. The first failing bug aborts the batch.
func (e *Extractor) Transform(bugs []bug.Bug) ([]Result, error) {
	out := make([]Result, 0, len(bugs))
	for i, b := range bugs {
		r, err := e.one(b)
		if err != nil {
			return nil, perr.Keep(err, where(i, b))
		}
		out = append(out, r)
	}
	return out, nil
}

func where(i int, b bug.Bug) string {
	if id, err := b.ID(); err == nil {
		return fmt.Sprintf("bug %d at index %d", id, i)
	}
	return fmt.Sprintf("bug at index %d", i)
}

func (e *Extractor) one(b bug.Bug) (Result, error) {
	data := Mapping{}
	for _, x := range e.extractors {
		v, err := x.Extract(b)
		if err != nil {
			return Result{}, perr.WithOp(err, x.Name())
		}
		Flatten(data, x.Name(), v)
	}

	summary, err := b.String(bug.KeySummary)
	if err != nil {
		return Result{}, err
	}
	comments, err := b.Comments()
	if err != nil {
		return Result{}, err
	}

	title := e.clean(summary)
	b.Set(bug.KeySummary, title)

	texts := make([]string, len(comments))
	for i, c := range comments {
		t, err := c.Text()
		if err != nil {
			return Result{}, err
		}
		texts[i] = e.clean(t)
		c.SetText(texts[i])
	}

	r := Result{Data: data, Title: title, Comments: strings.Join(texts, " ")}
	if e.hasCommits {
		id, err := b.ID()
		if err != nil {
			return Result{}, err
		}
		msg := e.commits[id]
		r.Commits = &msg
	}
	return r, nil
}

// Flatten writes v into m under name
func Flatten(m Mapping, name string, v extract.Value) {
	switch v.Kind() {
	case extract.KindList:
		for _, it := range v.Items() {
			m[name+"-"+it] = "True"
		}
	case extract.KindBool:
		if v.Bool() {
			m[name] = "True"
		} else {
			m[name] = "False"
		}
	case extract.KindScalar:
		m[name] = v.Scalar()
	}
}
