package module

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"bugsift/internal/core/bug"
	"bugsift/internal/modkit"
	"bugsift/internal/platform/config"
	phttp "bugsift/internal/platform/net/http"
	"bugsift/internal/platform/store"
	kit "bugsift/internal/platform/testkit"
	"bugsift/internal/services/features/domain"
	"bugsift/internal/services/features/repo"

	"github.com/google/go-cmp/cmp"
)

func TestFromConfig(t *testing.T) {
	o := FromConfig(config.New())
	if diff := cmp.Diff([]string{"all"}, o.Extractors); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
	if o.Workers != 2 || o.PageSize != 1000 || o.MaxBatch != 500 || o.Persist || o.ExportCH {
		t.Fatalf("defaults = %+v", o)
	}

	t.Setenv("CORE_FEATURES_EXTRACTORS", "Title, Keywords")
	t.Setenv("CORE_FEATURES_IGNORE_KEYWORDS", "crash,regression")
	t.Setenv("CORE_FEATURES_CLEANUP", "url,fileref")
	t.Setenv("CORE_FEATURES_WORKERS", "4")
	t.Setenv("CORE_FEATURES_PERSIST", "true")
	o = FromConfig(config.New())
	want := Options{
		Extractors:     []string{"Title", "Keywords"},
		IgnoreKeywords: []string{"crash", "regression"},
		Cleanup:        []string{"url", "fileref"},
		Workers:        4,
		PageSize:       1000,
		MaxBatch:       500,
		MaxBodyBytes:   32 << 20,
		Persist:        true,
	}
	if diff := cmp.Diff(want, o); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
	sc := o.ServiceConfig("cli")
	if sc.Source != "cli" || sc.Workers != 4 || len(sc.Defaults.IgnoreKeywords) != 2 {
		t.Fatalf("service config = %+v", sc)
	}
}

type nopCH struct{ store.Clickhouse }

func TestWriter(t *testing.T) {
	if Writer(modkit.Deps{}, Options{Persist: true, ExportCH: true}) != nil {
		t.Fatalf("no backends should yield no writer")
	}
	w := Writer(modkit.Deps{CH: nopCH{}}, Options{ExportCH: true})
	if _, ok := w.(*repo.CHExporter); !ok {
		t.Fatalf("want CH exporter, got %T", w)
	}
	if Migrate(context.Background(), modkit.Deps{}, Options{Persist: true}) != nil {
		t.Fatalf("migrate without backends should be a no-op")
	}
}

func TestModule_MountsRoutes(t *testing.T) {
	m := New(modkit.Deps{Cfg: config.New()})
	if m.Name() != "features" {
		t.Fatalf("name = %q", m.Name())
	}
	p, ok := m.Ports().(Ports)
	if !ok || p.Extractor == nil || p.Commits != nil {
		t.Fatalf("ports = %+v", m.Ports())
	}

	s := phttp.NewServer(config.New())
	m.MountRoutes(s.Router())

	body := `{"extractors":["Severity"],"bugs":[{"id":1,"summary":"s","severity":"S3","comments":[]}]}`
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest("POST", "/features/extract", strings.NewReader(body)))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	kit.MustContain(t, rec.Body.String(), `"Severity":"S3"`)

	// persistence is off, so a persist request is refused
	body = `{"bugs":[{"id":1,"summary":"s"}],"persist":true}`
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest("POST", "/features/extract", strings.NewReader(body)))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
}

type stubCommits struct{}

func (stubCommits) Messages(context.Context, []int64) (map[int64]string, error) {
	return map[int64]string{1: "fix"}, nil
}

func TestModule_InjectedCommits(t *testing.T) {
	m := New(modkit.Deps{Cfg: config.New()}, modkit.WithPorts(Ports{Commits: stubCommits{}}))
	ext := m.Ports().(Ports).Extractor
	out, err := ext.Extract(context.Background(), domain.ExtractInput{
		Spec:        domain.Spec{Extractors: []string{"Severity"}},
		Bugs:        []bug.Bug{{"id": 1, "summary": "s", "comments": []any{}}},
		WithCommits: true,
	})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if c := out.Results[0].Commits; c == nil || *c != "fix" {
		t.Fatalf("commits = %v", c)
	}
}
