package extract

import (
	"regexp"
	"strings"

	"bugsift/internal/core/bug"
	"bugsift/internal/core/vocab"
	pstrings "bugsift/internal/platform/strings"
)

// HasSTR passes through the steps-to-reproduce flag
type HasSTR struct{}

func (HasSTR) Name() string { return NameHasSTR }

func (HasSTR) Extract(b bug.Bug) (Value, error) { return optional(b, bug.KeyHasSTR), nil }

// HasRegressionRange passes through the regression-range flag
type HasRegressionRange struct{}

func (HasRegressionRange) Name() string { return NameHasRegressionRange }

func (HasRegressionRange) Extract(b bug.Bug) (Value, error) {
	return optional(b, bug.KeyHasRegressionRange), nil
}

// Severity passes through the severity field
type Severity struct{}

func (Severity) Name() string { return NameSeverity }

func (Severity) Extract(b bug.Bug) (Value, error) { return optional(b, bug.KeySeverity), nil }

func optional(b bug.Bug, key string) Value {
	v, ok := bug.Field(b, key)
	if !ok {
		return Absent()
	}
	return Of(v)
}

// HasCrashSignature reports a non-empty crash signature; an absent key yields no signal
type HasCrashSignature struct{}

func (HasCrashSignature) Name() string { return NameHasCrashSignature }

func (HasCrashSignature) Extract(b bug.Bug) (Value, error) {
	raw, ok := b.Raw(bug.KeyCrashSignature)
	if !ok {
		return Absent(), nil
	}
	s, isStr := raw.(string)
	return Bool(!isStr || s != ""), nil
}

// Keywords lists tracker keywords minus an ignore set, plus security family markers
type Keywords struct {
	ignore map[string]struct{}
}

// NewKeywords builds a Keywords policy dropping the given keywords
func NewKeywords(ignore ...string) Keywords {
	set := make(map[string]struct{}, len(ignore))
	for _, k := range ignore {
		set[k] = struct{}{}
	}
	return Keywords{ignore: set}
}

func (Keywords) Name() string { return NameKeywords }

func (k Keywords) Extract(b bug.Bug) (Value, error) {
	kws, err := b.Strings(bug.KeyKeywords)
	if err != nil {
		return Value{}, err
	}
	out := make([]string, 0, len(kws)+1)
	for _, kw := range kws {
		if _, skip := k.ignore[kw]; skip {
			continue
		}
		out = append(out, kw)
		if strings.HasPrefix(kw, "sec-") {
			out = append(out, "sec-")
		} else if strings.HasPrefix(kw, "csectype-") {
			out = append(out, "csectype-")
		}
	}
	return List(out...), nil
}

// Brackets are unescaped: any run of C, I, D, space, '?', '[' or digits followed by ']'
var coverityRe = regexp.MustCompile(`[CID ?[0-9]+]`)

// IsCoverityIssue reports a Coverity reference in the summary or whiteboard
type IsCoverityIssue struct{}

func (IsCoverityIssue) Name() string { return NameIsCoverityIssue }

func (IsCoverityIssue) Extract(b bug.Bug) (Value, error) {
	summary, err := b.String(bug.KeySummary)
	if err != nil {
		return Value{}, err
	}
	if coverityRe.MatchString(summary) {
		return Bool(true), nil
	}
	wb, err := b.String(bug.KeyWhiteboard)
	if err != nil {
		return Value{}, err
	}
	return Bool(coverityRe.MatchString(wb)), nil
}

// HasURL reports a non-empty url field
type HasURL struct{}

func (HasURL) Name() string { return NameHasURL }

func (HasURL) Extract(b bug.Bug) (Value, error) {
	u, err := b.String(bug.KeyURL)
	if err != nil {
		return Value{}, err
	}
	return Bool(u != ""), nil
}

// HasW3CURL reports a url mentioning w3c anywhere
type HasW3CURL struct{}

func (HasW3CURL) Name() string { return NameHasW3CURL }

func (HasW3CURL) Extract(b bug.Bug) (Value, error) { return urlContains(b, "w3c") }

// HasGithubURL reports a url mentioning github anywhere
type HasGithubURL struct{}

func (HasGithubURL) Name() string { return NameHasGithubURL }

func (HasGithubURL) Extract(b bug.Bug) (Value, error) { return urlContains(b, "github") }

func urlContains(b bug.Bug, sub string) (Value, error) {
	u, err := b.String(bug.KeyURL)
	if err != nil {
		return Value{}, err
	}
	return Bool(strings.Contains(u, sub)), nil
}

// Whiteboard lists the whiteboard vocabulary terms found in the whiteboard
type Whiteboard struct {
	terms *vocab.Matcher
}

// NewWhiteboard builds a Whiteboard policy over v
func NewWhiteboard(v *vocab.Vocab) Whiteboard { return Whiteboard{terms: v.Whiteboard} }

func (Whiteboard) Name() string { return NameWhiteboard }

func (w Whiteboard) Extract(b bug.Bug) (Value, error) {
	wb, err := b.String(bug.KeyWhiteboard)
	if err != nil {
		return Value{}, err
	}
	return List(w.terms.Present(wb)...), nil
}

// Patches counts attachments that are patches or review requests
type Patches struct {
	review map[string]struct{}
}

// NewPatches builds a Patches policy over v
func NewPatches(v *vocab.Vocab) Patches { return Patches{review: v.ReviewContentTypes} }

func (Patches) Name() string { return NamePatches }

func (p Patches) Extract(b bug.Bug) (Value, error) {
	atts, err := b.Attachments()
	if err != nil {
		return Value{}, err
	}
	n := 0
	for _, a := range atts {
		isPatch, err := a.IsPatch()
		if err != nil {
			return Value{}, err
		}
		if isPatch {
			n++
			continue
		}
		ct, err := a.ContentType()
		if err != nil {
			return Value{}, err
		}
		if _, ok := p.review[ct]; ok {
			n++
		}
	}
	return Count(n), nil
}

// Landings counts comments that reference a landed changeset
type Landings struct {
	marker string
}

// NewLandings builds a Landings policy over v
func NewLandings(v *vocab.Vocab) Landings { return Landings{marker: v.LandingMarker} }

func (Landings) Name() string { return NameLandings }

func (l Landings) Extract(b bug.Bug) (Value, error) {
	comments, err := b.Comments()
	if err != nil {
		return Value{}, err
	}
	n := 0
	for _, c := range comments {
		text, err := c.Text()
		if err != nil {
			return Value{}, err
		}
		if strings.Contains(text, l.marker) {
			n++
		}
	}
	return Count(n), nil
}

// Title lists the title vocabulary terms found in the summary, then compound pairs
type Title struct {
	terms *vocab.Matcher
	pairs []vocab.Pair
}

// NewTitle builds a Title policy over v
func NewTitle(v *vocab.Vocab) Title { return Title{terms: v.Title, pairs: v.TitlePairs} }

func (Title) Name() string { return NameTitle }

func (t Title) Extract(b bug.Bug) (Value, error) {
	summary, err := b.String(bug.KeySummary)
	if err != nil {
		return Value{}, err
	}
	out := t.terms.Present(summary)
	if len(t.pairs) > 0 {
		folded := vocab.Fold(summary)
		for _, p := range t.pairs {
			if strings.Contains(folded, vocab.Fold(p.A)) && strings.Contains(folded, vocab.Fold(p.B)) {
				out = append(out, p.Tag())
			}
		}
	}
	return List(out...), nil
}

// Comments lists first-comment vocabulary hits and group tags found in any comment
type Comments struct {
	first  *vocab.Matcher
	cased  *vocab.Matcher
	groups []vocab.Group
}

// NewComments builds a Comments policy over v
func NewComments(v *vocab.Vocab) Comments {
	return Comments{first: v.FirstComment, cased: v.FirstCommentCased, groups: v.CommentGroups}
}

func (Comments) Name() string { return NameComments }

func (c Comments) Extract(b bug.Bug) (Value, error) {
	comments, err := b.Comments()
	if err != nil {
		return Value{}, err
	}
	if len(comments) == 0 {
		return Value{}, bug.ErrNoComments
	}
	texts := make([]string, len(comments))
	for i, cm := range comments {
		if texts[i], err = cm.Text(); err != nil {
			return Value{}, err
		}
	}

	var out []string
	for _, t := range c.first.Present(texts[0]) {
		out = append(out, "first^"+t)
	}
	for _, t := range c.cased.Present(texts[0]) {
		out = append(out, "first^"+t)
	}
	for _, g := range c.groups {
		if g.Matcher.Any(texts...) {
			out = append(out, g.Tag)
		}
	}
	return List(pstrings.Dedup(out)...), nil
}

// Product passes through the product name
type Product struct{}

func (Product) Name() string { return NameProduct }

func (Product) Extract(b bug.Bug) (Value, error) { return required(b, bug.KeyProduct) }

// Component passes through the component name
type Component struct{}

func (Component) Name() string { return NameComponent }

func (Component) Extract(b bug.Bug) (Value, error) { return required(b, bug.KeyComponent) }

func required(b bug.Bug, key string) (Value, error) {
	s, err := b.String(key)
	if err != nil {
		return Value{}, err
	}
	return Scalar(s), nil
}
