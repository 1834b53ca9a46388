package bind

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	perr "bugsift/internal/platform/errors"
)

type payload struct {
	Bugs  []map[string]any `json:"bugs" validate:"required,min=1,max=2"`
	Label string           `json:"label"`
}

func req(body string) *http.Request {
	return httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(body))
}

func TestParseJSON_OK(t *testing.T) {
	got, err := ParseJSON[payload](req(`{"bugs":[{"id":1}],"label":"a"}`))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got.Bugs) != 1 || got.Label != "a" {
		t.Fatalf("got %+v", got)
	}
}

func TestParseJSON_Errors(t *testing.T) {
	cases := []struct {
		name  string
		body  string
		code  perr.ErrorCode
		field string
		want  string
	}{
		{"empty", "  ", perr.ErrorCodeJSON, "", "empty body"},
		{"bad", `{"bugs":`, perr.ErrorCodeJSON, "", "invalid JSON"},
		{"unknown", `{"bugs":[{}],"nope":1}`, perr.ErrorCodeJSON, "", "unknown field"},
		{"trailing", `{"bugs":[{}]} {}`, perr.ErrorCodeJSON, "", "trailing"},
		{"missing", `{"label":"x"}`, perr.ErrorCodeValidation, "bugs", "bugs is a required field"},
		{"toomany", `{"bugs":[{},{},{}]}`, perr.ErrorCodeValidation, "bugs", "bugs must be at most 2"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := ParseJSON[payload](req(c.body))
			if err == nil {
				t.Fatalf("expected error")
			}
			e, ok := perr.As(err)
			if !ok || e.Code() != c.code || e.Field() != c.field {
				t.Fatalf("got %v (field %q)", err, e.Field())
			}
			if !strings.Contains(err.Error(), c.want) {
				t.Fatalf("error %q does not mention %q", err, c.want)
			}
		})
	}
}

func TestParseJSON_MaxBytes(t *testing.T) {
	_, err := ParseJSON[payload](req(`{"bugs":[{"id":1}]}`), JSONOptions{MaxBytes: 4})
	if !perr.IsCode(err, perr.ErrorCodeJSON) {
		t.Fatalf("want JSON error, got %v", err)
	}
}

func TestParseJSON_MapPayloadSkipsValidation(t *testing.T) {
	got, err := ParseJSON[map[string]any](req(`{"a":1}`), JSONOptions{UseNumber: true})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got["a"].(interface{ String() string }).String() != "1" {
		t.Fatalf("UseNumber not honored: %#v", got["a"])
	}
}
