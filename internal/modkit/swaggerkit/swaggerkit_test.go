package swaggerkit

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"bugsift/internal/platform/config"
	phttp "bugsift/internal/platform/net/http"
	kit "bugsift/internal/platform/testkit"
)

func getDoc(t *testing.T) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	s := phttp.NewServer(config.New())
	Mount(s.Router(), true)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/api/docs/doc.json", nil))
	var spec map[string]any
	if rec.Code == http.StatusOK {
		if err := json.Unmarshal(rec.Body.Bytes(), &spec); err != nil {
			t.Fatalf("decode doc: %v", err)
		}
	}
	return rec, spec
}

func TestDocJSON_RegisteredDocument(t *testing.T) {
	rec, spec := getDoc(t)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if spec["openapi"] != "3.0.3" {
		t.Fatalf("openapi = %v", spec["openapi"])
	}
	paths := spec["paths"].(map[string]any)
	op := paths["/features/extract"].(map[string]any)["post"].(map[string]any)
	resps := op["responses"].(map[string]any)
	for _, code := range []string{"200", "400", "422", "500"} {
		if _, ok := resps[code]; !ok {
			t.Fatalf("missing %s response", code)
		}
	}
	kit.MustContain(t, rec.Body.String(), `"url":"/api/v1"`)
	kit.MustContain(t, rec.Body.String(), `"title":"bugsift API"`)
}

func TestDocJSON_Normalize(t *testing.T) {
	kit.Swap(t, &docReader, func() string {
		return `{"swagger":"2.0","info":{"title":"T"},"paths":{"/x":{"get":{}}}}`
	})
	t.Setenv("CORE_API_DOCS_TITLE_SUFFIX", "(dev)")
	rec, spec := getDoc(t)
	if rec.Code != http.StatusOK || spec["openapi"] != "3.0.3" || spec["swagger"] != nil {
		t.Fatalf("status=%d spec=%v", rec.Code, spec)
	}
	kit.MustContain(t, rec.Body.String(), `"title":"T (dev)"`)
	kit.MustContain(t, rec.Body.String(), `"ErrorResponse"`)

	kit.Swap(t, &docReader, func() string { return `{` })
	if rec, _ := getDoc(t); rec.Code != http.StatusInternalServerError {
		t.Fatalf("broken doc status = %d", rec.Code)
	}
}

func TestMount_Disabled(t *testing.T) {
	s := phttp.NewServer(config.New())
	Mount(s.Router(), false)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/api/docs/doc.json", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}
