package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"bugsift/internal/modkit/httpkit"
	"bugsift/internal/platform/config"
	phttp "bugsift/internal/platform/net/http"
)

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

func get(t *testing.T, d Deps, path string, out any) {
	t.Helper()
	s := phttp.NewServer(config.New())
	httpkit.MountUnder(s.Router(), "/meta", nil, func(r httpkit.Router) { Register(r, d) })
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest("GET", path, nil))
	if rec.Code != 200 {
		t.Fatalf("%s: status %d", path, rec.Code)
	}
	env := struct {
		Data json.RawMessage `json:"data"`
	}{}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		t.Fatalf("decode data: %v", err)
	}
}

func TestReady(t *testing.T) {
	cases := []struct {
		name   string
		pg, ch any
		want   string
	}{
		{"all ok", pinger{}, pinger{}, "ok"},
		{"ch disabled", pinger{}, nil, "ok"},
		{"pg down", pinger{err: errors.New("refused")}, nil, "fail"},
		{"not pingable", struct{}{}, pinger{}, "degraded"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var got ReadyResponse
			get(t, Deps{PG: c.pg, CH: c.ch}, "/meta/ready", &got)
			if got.Status != c.want || len(got.Checks) != 2 {
				t.Fatalf("ready = %+v, want %s", got, c.want)
			}
		})
	}
}

func TestHealthAndVersion(t *testing.T) {
	started := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	var h HealthResponse
	get(t, Deps{ServiceName: "bugsift-api", StartedAt: started}, "/meta/health", &h)
	if !h.OK || h.Service != "bugsift-api" || h.Started != "2026-10-01T12:00:00Z" {
		t.Fatalf("health = %+v", h)
	}

	var v map[string]any
	get(t, Deps{ServiceName: "bugsift-api"}, "/meta/version", &v)
	if v["service"] != "bugsift-api" || v["vocab"] == nil {
		t.Fatalf("version = %v", v)
	}
}
