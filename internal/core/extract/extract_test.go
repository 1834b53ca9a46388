package extract

import (
	"encoding/json"
	"strings"
	"testing"

	"bugsift/internal/core/bug"
	"bugsift/internal/core/vocab"
	perr "bugsift/internal/platform/errors"

	"github.com/google/go-cmp/cmp"
)

const sampleJSON = `{
  "id": 1401,
  "summary": "Crash in tracker: add test for UAF",
  "whiteboard": "[MemShrink:P1][ux]",
  "url": "https://github.com/w3c/csswg-drafts/issues/1",
  "product": "Core",
  "component": "DOM: Events",
  "severity": "---",
  "keywords": ["crash", "sec-high", "csectype-uaf", "regression"],
  "cf_has_str": "yes",
  "cf_has_regression_range": "---",
  "cf_crash_signature": "[@ js::gc::Mark]",
  "attachments": [
    {"is_patch": 1, "content_type": "text/plain"},
    {"is_patch": 0, "content_type": "text/x-phabricator-request"},
    {"is_patch": false, "content_type": "text/plain"}
  ],
  "comments": [
    {"text": "Steps to reproduce: open it. FAIL with assertion"},
    {"text": "Ran mozregression, First bad revision: abc"},
    {"text": "Landed: https://hg.mozilla.org/integration/autoland/rev/1"},
    {"text": "still broken in Safe Mode"}
  ]
}`

func sample(t *testing.T) bug.Bug {
	t.Helper()
	var b bug.Bug
	dec := json.NewDecoder(strings.NewReader(sampleJSON))
	dec.UseNumber()
	if err := dec.Decode(&b); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return b
}

type out struct {
	Kind   Kind
	Bool   bool
	Scalar string
	Items  []string
}

func view(v Value) out {
	return out{Kind: v.Kind(), Bool: v.Bool(), Scalar: v.Scalar(), Items: v.Items()}
}

func TestDefaults_OnSample(t *testing.T) {
	b := sample(t)
	want := map[string]out{
		NameHasSTR:             {Kind: KindScalar, Scalar: "yes"},
		NameHasRegressionRange: {Kind: KindAbsent},
		NameHasCrashSignature:  {Kind: KindBool, Bool: true},
		NameKeywords:           {Kind: KindList, Items: []string{"crash", "sec-high", "sec-", "csectype-uaf", "csectype-"}},
		NameSeverity:           {Kind: KindAbsent},
		NameIsCoverityIssue:    {Kind: KindBool, Bool: true},
		NameHasURL:             {Kind: KindBool, Bool: true},
		NameHasW3CURL:          {Kind: KindBool, Bool: true},
		NameHasGithubURL:       {Kind: KindBool, Bool: true},
		NameWhiteboard:         {Kind: KindList, Items: []string{"memshrink", "[ux]"}},
		NamePatches:            {Kind: KindScalar, Scalar: "2"},
		NameLandings:           {Kind: KindScalar, Scalar: "1"},
		NameTitle:              {Kind: KindList, Items: []string{"tracker", "uaf", "crash", "add^test"}},
		NameComments: {Kind: KindList, Items: []string{
			"first^steps to reproduce", "first^assertion", "first^to reproduce:", "first^FAIL",
			"mozregression", "safemode",
		}},
		NameProduct:   {Kind: KindScalar, Scalar: "Core"},
		NameComponent: {Kind: KindScalar, Scalar: "DOM: Events"},
	}

	exs := Defaults(Options{IgnoreKeywords: []string{"regression"}})
	if len(exs) != len(want) {
		t.Fatalf("Defaults len = %d", len(exs))
	}
	for _, e := range exs {
		got, err := e.Extract(b)
		if err != nil {
			t.Fatalf("%s: %v", e.Name(), err)
		}
		if diff := cmp.Diff(want[e.Name()], view(got)); diff != "" {
			t.Fatalf("%s mismatch (-want +got):\n%s", e.Name(), diff)
		}
	}
}

func TestExtract_DoesNotMutate(t *testing.T) {
	b := sample(t)
	before, _ := json.Marshal(b)
	for _, e := range Defaults(Options{}) {
		if _, err := e.Extract(b); err != nil {
			t.Fatalf("%s: %v", e.Name(), err)
		}
	}
	after, _ := json.Marshal(b)
	if string(before) != string(after) {
		t.Fatalf("extractors modified the bug")
	}
}

func TestHasCrashSignature(t *testing.T) {
	cases := []struct {
		name string
		b    bug.Bug
		want out
	}{
		{"absent", bug.Bug{}, out{Kind: KindAbsent}},
		{"empty", bug.Bug{"cf_crash_signature": ""}, out{Kind: KindBool}},
		{"set", bug.Bug{"cf_crash_signature": "[@ f]"}, out{Kind: KindBool, Bool: true}},
		{"null", bug.Bug{"cf_crash_signature": nil}, out{Kind: KindBool, Bool: true}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := HasCrashSignature{}.Extract(c.b)
			if err != nil {
				t.Fatalf("err: %v", err)
			}
			if diff := cmp.Diff(c.want, view(got)); diff != "" {
				t.Fatalf("(-want +got):\n%s", diff)
			}
		})
	}
}

func TestIsCoverityIssue(t *testing.T) {
	cases := []struct {
		summary, wb string
		want        bool
	}{
		{"[CID 1234] null deref", "", true},
		{"plain", "[CID1234]", true},
		{"plain", "[memshrink:P2]", true},
		{"plain", "", false},
		{"no brackets 1234", "none", false},
	}
	for _, c := range cases {
		got, err := IsCoverityIssue{}.Extract(bug.Bug{"summary": c.summary, "whiteboard": c.wb})
		if err != nil {
			t.Fatalf("err: %v", err)
		}
		if got.Bool() != c.want {
			t.Fatalf("IsCoverityIssue(%q, %q) = %v", c.summary, c.wb, got.Bool())
		}
	}

	// whiteboard is only needed when the summary does not match
	if _, err := (IsCoverityIssue{}).Extract(bug.Bug{"summary": "[CID 1]"}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	_, err := IsCoverityIssue{}.Extract(bug.Bug{"summary": "x"})
	if !perr.Is(err, bug.ErrMissingField) {
		t.Fatalf("want missing whiteboard, got %v", err)
	}
}

func TestKeywords_Families(t *testing.T) {
	k := NewKeywords("sec-low")
	got, err := k.Extract(bug.Bug{"keywords": []any{"sec-low", "csectype-bounds", "dev-doc-needed"}})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	want := []string{"csectype-bounds", "csectype-", "dev-doc-needed"}
	if diff := cmp.Diff(want, got.Items()); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}

	empty, err := k.Extract(bug.Bug{"keywords": []any{}})
	if err != nil || empty.Kind() != KindList || len(empty.Items()) != 0 {
		t.Fatalf("empty keywords = %+v, %v", view(empty), err)
	}
}

func TestTitle_PairNeedsBoth(t *testing.T) {
	tl := NewTitle(vocab.Default())
	got, err := tl.Extract(bug.Bug{"summary": "Add a flag"})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(got.Items()) != 0 {
		t.Fatalf("unexpected items %v", got.Items())
	}
	got, _ = tl.Extract(bug.Bug{"summary": "TESTS: ADD coverage"})
	if diff := cmp.Diff([]string{"add^test"}, got.Items()); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestComments_CaseRules(t *testing.T) {
	c := NewComments(vocab.Default())

	got, err := c.Extract(bug.Bug{"comments": []any{
		map[string]any{"text": "fail uaf"},
		map[string]any{"text": "MOZREGRESSION says so"},
	}})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if diff := cmp.Diff([]string{"mozregression"}, got.Items()); diff != "" {
		t.Fatalf("lowercase FAIL/UAF must not match (-want +got):\n%s", diff)
	}

	got, _ = c.Extract(bug.Bug{"comments": []any{map[string]any{"text": "UAF in Crash handler"}}})
	if diff := cmp.Diff([]string{"first^crash", "first^UAF"}, got.Items()); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}

	got, _ = c.Extract(bug.Bug{"comments": []any{
		map[string]any{"text": "nothing here"},
		map[string]any{"text": "first BAD revision: 4f2a"},
		map[string]any{"text": "looks like the following bug has the changes which introduced the regression"},
	}})
	if diff := cmp.Diff([]string{"mozregression"}, got.Items()); diff != "" {
		t.Fatalf("mixed-case group patterns must fold (-want +got):\n%s", diff)
	}

	_, err = c.Extract(bug.Bug{"comments": []any{}})
	if !perr.Is(err, bug.ErrNoComments) {
		t.Fatalf("want ErrNoComments, got %v", err)
	}
}

func TestURLSubstrings(t *testing.T) {
	cases := []struct {
		url         string
		w3c, github bool
	}{
		{"https://w3c.github.io/webappsec/", true, true},
		{"https://github.io/x", false, true},
		{"https://www.w3.org/TR/?from=w3c", true, false},
		{"https://github.com/w3c/csswg-drafts/issues/1", true, true},
		{"https://example.test/", false, false},
		{"", false, false},
	}
	for _, c := range cases {
		b := bug.Bug{"url": c.url}
		w, err := HasW3CURL{}.Extract(b)
		if err != nil {
			t.Fatalf("HasW3CURL(%q): %v", c.url, err)
		}
		g, err := HasGithubURL{}.Extract(b)
		if err != nil {
			t.Fatalf("HasGithubURL(%q): %v", c.url, err)
		}
		if w.Kind() != KindBool || g.Kind() != KindBool || w.Bool() != c.w3c || g.Bool() != c.github {
			t.Fatalf("url %q: w3c=%v github=%v, want %v %v", c.url, w.Bool(), g.Bool(), c.w3c, c.github)
		}
	}
}

func TestRequiredFields_Errors(t *testing.T) {
	cases := []struct {
		ex    Extractor
		b     bug.Bug
		field string
	}{
		{NewKeywords(), bug.Bug{}, "keywords"},
		{HasURL{}, bug.Bug{}, "url"},
		{HasGithubURL{}, bug.Bug{"url": 3}, "url"},
		{Product{}, bug.Bug{}, "product"},
		{Component{}, bug.Bug{"component": nil}, "component"},
		{NewLandings(vocab.Default()), bug.Bug{"comments": []any{map[string]any{}}}, "text"},
		{NewPatches(vocab.Default()), bug.Bug{"attachments": []any{map[string]any{"is_patch": false}}}, "content_type"},
		{NewWhiteboard(vocab.Default()), bug.Bug{}, "whiteboard"},
	}
	for _, c := range cases {
		_, err := c.ex.Extract(c.b)
		e, ok := perr.As(err)
		if !ok || e.Code() != perr.ErrorCodeInvalidArgument || e.Field() != c.field {
			t.Fatalf("%s: err = %v, want field %q", c.ex.Name(), err, c.field)
		}
	}
}

func TestOf(t *testing.T) {
	cases := []struct {
		in   any
		want out
	}{
		{nil, out{Kind: KindAbsent}},
		{true, out{Kind: KindBool, Bool: true}},
		{"x", out{Kind: KindScalar, Scalar: "x"}},
		{json.Number("12"), out{Kind: KindScalar, Scalar: "12"}},
		{float64(2.5), out{Kind: KindScalar, Scalar: "2.5"}},
		{7, out{Kind: KindScalar, Scalar: "7"}},
		{[]any{"a", 1}, out{Kind: KindList, Items: []string{"a", "1"}}},
		{map[string]any{"k": "v"}, out{Kind: KindScalar, Scalar: "map[k:v]"}},
	}
	for _, c := range cases {
		if diff := cmp.Diff(c.want, view(Of(c.in))); diff != "" {
			t.Fatalf("Of(%#v) (-want +got):\n%s", c.in, diff)
		}
	}
}

func TestPresetCleanup(t *testing.T) {
	cases := []struct {
		names []string
		want  []string
	}{
		{nil, nil},
		{[]string{"all"}, nil},
		{[]string{"Component"}, nil},
		{[]string{"Title", " component "}, []string{"fileref", "url", "synonyms"}},
	}
	for _, c := range cases {
		if diff := cmp.Diff(c.want, PresetCleanup(c.names)); diff != "" {
			t.Fatalf("PresetCleanup(%v) (-want +got):\n%s", c.names, diff)
		}
	}
	got := PresetCleanup([]string{"component"})
	got[0] = "x"
	if PresetCleanup([]string{"component"})[0] != "fileref" {
		t.Fatalf("PresetCleanup must return a copy")
	}
}

func TestBuild(t *testing.T) {
	names := func(exs []Extractor) []string {
		out := make([]string, len(exs))
		for i, e := range exs {
			out[i] = e.Name()
		}
		return out
	}

	all, err := Build(nil, Options{})
	if err != nil || len(all) != 16 {
		t.Fatalf("Build(nil) = %d, %v", len(all), err)
	}
	if diff := cmp.Diff(Names(), names(all)); diff != "" {
		t.Fatalf("default order (-want +got):\n%s", diff)
	}

	got, err := Build([]string{" title ", "HASURL", "", "product"}, Options{})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if diff := cmp.Diff([]string{"Title", "HasUrl", "Product"}, names(got)); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}

	comp, err := Build([]string{"Component"}, Options{})
	if err != nil || len(comp) != 1 || comp[0].Name() != NameComponent {
		t.Fatalf("extractor name must win over preset: %v %v", names(comp), err)
	}
	comp, err = Build([]string{PresetComponent, "ALL"}, Options{})
	if err != nil || len(comp) != 12+16 {
		t.Fatalf("component preset = %v, %v", names(comp), err)
	}

	_, err = Build([]string{"Title", "Nope"}, Options{})
	e, ok := perr.As(err)
	if !perr.Is(err, ErrUnknownExtractor) || !ok || e.Field() != "Nope" {
		t.Fatalf("unknown name err = %v", err)
	}
}
