// Package extract implements the per-bug signal policies
//
// Each policy is a small struct carrying only its own configuration. Policies
// read the bug and never modify it. A required field that is missing or has
// the wrong type comes back as an error from the bug package.
package extract

import (
	"strings"

	"bugsift/internal/core/bug"
	"bugsift/internal/core/vocab"
	perr "bugsift/internal/platform/errors"
)

// Extractor computes one named signal from a bug
type Extractor interface {
	// Name is the stable prefix of the feature keys this extractor produces
	Name() string
	Extract(b bug.Bug) (Value, error)
}

// Options configures the policies that take configuration
type Options struct {
	// IgnoreKeywords are dropped by Keywords
	IgnoreKeywords []string

	// Vocab overrides the embedded vocabulary
	Vocab *vocab.Vocab
}

func (o Options) vocab() *vocab.Vocab {
	if o.Vocab != nil {
		return o.Vocab
	}
	return vocab.Default()
}

// Extractor names, in default order
const (
	NameHasSTR             = "HasSTR"
	NameHasRegressionRange = "HasRegressionRange"
	NameHasCrashSignature  = "HasCrashSignature"
	NameKeywords           = "Keywords"
	NameSeverity           = "Severity"
	NameIsCoverityIssue    = "IsCoverityIssue"
	NameHasURL             = "HasUrl"
	NameHasW3CURL          = "HasW3CUrl"
	NameHasGithubURL       = "HasGithubUrl"
	NameWhiteboard         = "Whiteboard"
	NamePatches            = "Patches"
	NameLandings           = "Landings"
	NameTitle              = "Title"
	NameComments           = "Comments"
	NameProduct            = "Product"
	NameComponent          = "Component"
)

// Presets accepted by Build in place of a name
const (
	PresetAll       = "all"
	PresetComponent = "component"
)

type entry struct {
	name string
	make func(Options) Extractor
}

var registry = []entry{
	{NameHasSTR, func(Options) Extractor { return HasSTR{} }},
	{NameHasRegressionRange, func(Options) Extractor { return HasRegressionRange{} }},
	{NameHasCrashSignature, func(Options) Extractor { return HasCrashSignature{} }},
	{NameKeywords, func(o Options) Extractor { return NewKeywords(o.IgnoreKeywords...) }},
	{NameSeverity, func(Options) Extractor { return Severity{} }},
	{NameIsCoverityIssue, func(Options) Extractor { return IsCoverityIssue{} }},
	{NameHasURL, func(Options) Extractor { return HasURL{} }},
	{NameHasW3CURL, func(Options) Extractor { return HasW3CURL{} }},
	{NameHasGithubURL, func(Options) Extractor { return HasGithubURL{} }},
	{NameWhiteboard, func(o Options) Extractor { return NewWhiteboard(o.vocab()) }},
	{NamePatches, func(o Options) Extractor { return NewPatches(o.vocab()) }},
	{NameLandings, func(o Options) Extractor { return NewLandings(o.vocab()) }},
	{NameTitle, func(o Options) Extractor { return NewTitle(o.vocab()) }},
	{NameComments, func(o Options) Extractor { return NewComments(o.vocab()) }},
	{NameProduct, func(Options) Extractor { return Product{} }},
	{NameComponent, func(Options) Extractor { return Component{} }},
}

var presets = map[string][]string{
	PresetComponent: {
		NameHasSTR, NameSeverity, NameKeywords, NameIsCoverityIssue, NameHasCrashSignature,
		NameHasURL, NameHasW3CURL, NameHasGithubURL, NameWhiteboard, NamePatches,
		NameLandings, NameTitle,
	},
}

// presetCleanup is the cleanup chain a preset was tuned with, by pass name
var presetCleanup = map[string][]string{
	PresetComponent: {"fileref", "url", "synonyms"},
}

// PresetCleanup returns the cleanup passes of the first preset in names that
// carries a chain, or nil. Matching follows Build, so "Component" is not the preset
func PresetCleanup(names []string) []string {
	for _, n := range names {
		if passes, ok := presetCleanup[strings.TrimSpace(n)]; ok {
			return append([]string(nil), passes...)
		}
	}
	return nil
}

// ErrUnknownExtractor is returned by Build for a name that is neither an extractor nor a preset
var ErrUnknownExtractor = perr.New(perr.ErrorCodeInvalidArgument, "unknown extractor")

// Names lists every extractor name in default order
func Names() []string {
	out := make([]string, len(registry))
	for i, e := range registry {
		out[i] = e.name
	}
	return out
}

// Presets lists the preset names
func Presets() []string { return []string{PresetAll, PresetComponent} }

// Defaults builds every extractor in default order
func Defaults(opts Options) []Extractor {
	out := make([]Extractor, len(registry))
	for i, e := range registry {
		out[i] = e.make(opts)
	}
	return out
}

// Build resolves names and presets in order; no names means all
//
// Extractor names match case-insensitively. "component" in lower case is the
// preset; any other casing names the Component extractor.
func Build(names []string, opts Options) ([]Extractor, error) {
	var resolved []string
	for _, n := range names {
		n = strings.TrimSpace(n)
		switch {
		case n == "":
		case strings.EqualFold(n, PresetAll):
			resolved = append(resolved, Names()...)
		case n == PresetComponent:
			resolved = append(resolved, presets[PresetComponent]...)
		default:
			resolved = append(resolved, n)
		}
	}
	if len(resolved) == 0 {
		return Defaults(opts), nil
	}

	out := make([]Extractor, 0, len(resolved))
	for _, n := range resolved {
		e, ok := lookup(n)
		if !ok {
			return nil, perr.WithField(ErrUnknownExtractor, n)
		}
		out = append(out, e.make(opts))
	}
	return out, nil
}

func lookup(name string) (entry, bool) {
	for _, e := range registry {
		if strings.EqualFold(e.name, name) {
			return e, true
		}
	}
	return entry{}, false
}
