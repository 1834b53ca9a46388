package component

import (
	"testing"

	"bugsift/internal/core/bug"
	perr "bugsift/internal/platform/errors"

	"github.com/google/go-cmp/cmp"
)

func TestFilter(t *testing.T) {
	cases := []struct {
		product, component string
		want               string
		ok                 bool
	}{
		{"Core", "DOM: Events", "Core::DOM: Events", true},
		{"Core", "JavaScript Engine", "Core::JavaScript", true},
		{"Core", "Graphics: Layers", "Core::Graphics", true},
		{"DevTools", "Netmonitor", "DevTools::Netmonitor", true},
		{"DevTools", "General", "DevTools", true},
		{"WebExtensions", "Untriaged", "WebExtensions", true},
		{"Firefox", "General", "", false},
		{"Thunderbird", "Mail", "", false},
	}
	for _, c := range cases {
		got, ok := Filter(c.product, c.component)
		if got != c.want || ok != c.ok {
			t.Fatalf("Filter(%q, %q) = %q,%v want %q,%v", c.product, c.component, got, ok, c.want, c.ok)
		}
	}
}

func TestCanonical(t *testing.T) {
	if got := Canonical("Core::JavaScript"); got != "Core::JavaScript Engine" {
		t.Fatalf("Canonical = %q", got)
	}
	if got := Canonical("Core::DOM"); got != "Core::DOM" {
		t.Fatalf("unmapped label changed: %q", got)
	}
}

func mk(id int, product, comp string) bug.Bug {
	return bug.Bug{"id": id, "product": product, "component": comp}
}

func TestLabels(t *testing.T) {
	bugs := []bug.Bug{
		mk(1, "Core", "DOM: Events"),
		mk(2, "DevTools", "General"),
		mk(3, "Core", "DOM: Events"),
		mk(4, "Firefox", "General"),
		mk(5, "DevTools", "Debugger"),
		mk(6, "SeaMonkey", "General"),
	}
	got, err := Labels(bugs, false)
	if err != nil {
		t.Fatalf("Labels: %v", err)
	}
	want := Labeling{
		ByBug: map[int64]string{1: "Core::DOM: Events", 2: "DevTools", 3: "Core::DOM: Events", 5: "DevTools::Debugger"},
		Counts: []Count{
			{"Core::DOM: Events", 2},
			{"DevTools", 1},
			{"DevTools::Debugger", 1},
		},
		Skipped:   2,
		Untracked: 1,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}

	canon, _ := Labels(bugs[:2], true)
	if canon.ByBug[2] != "DevTools::General" {
		t.Fatalf("canonical label = %q", canon.ByBug[2])
	}

	_, err = Labels([]bug.Bug{{"id": 9, "product": "Core"}}, false)
	e, ok := perr.As(err)
	if !ok || e.Field() != "component" {
		t.Fatalf("want missing component, got %v", err)
	}
}

func TestLoad_Rejects(t *testing.T) {
	for _, doc := range []string{
		`{`,
		`{"version": 2}`,
		`{"version": 1, "conflated": ["A"], "mapping": {"B": "C"}}`,
	} {
		if _, err := Load([]byte(doc)); err == nil {
			t.Fatalf("Load(%s) should fail", doc)
		}
	}
}
