package bugsjsonl

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"bugsift/internal/core/features"
	perr "bugsift/internal/platform/errors"
	kit "bugsift/internal/platform/testkit"
)

func reader(t *testing.T, data []byte) *Reader {
	t.Helper()
	rd, err := NewReader(io.NopCloser(bytes.NewReader(data)))
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	t.Cleanup(func() { _ = rd.Close() })
	return rd
}

func gz(t *testing.T, s string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write([]byte(s)); err != nil {
		t.Fatalf("gzip write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}
	return buf.Bytes()
}

const lines = `{"id": 1, "summary": "a"}
{"id": 9007199254740993, "summary": "b"}

{"id": 3, "summary": "c"}
`

func ids(t *testing.T, rd *Reader) []int64 {
	t.Helper()
	bugs, err := rd.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	out := make([]int64, len(bugs))
	for i, b := range bugs {
		id, err := b.ID()
		if err != nil {
			t.Fatalf("ID: %v", err)
		}
		out[i] = id
	}
	return out
}

func TestReader_Formats(t *testing.T) {
	want := []int64{1, 9007199254740993, 3}
	cases := []struct {
		name string
		data []byte
	}{
		{"jsonl", []byte(lines)},
		{"gzip", gz(t, lines)},
		{"document", []byte(`{"bugs": [{"id": 1}, {"id": 9007199254740993}]}
{"bugs": []}
{"bugs": [{"id": 3}]}`)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := ids(t, reader(t, c.data))
			if len(got) != len(want) {
				t.Fatalf("got %v", got)
			}
			for i := range want {
				if got[i] != want[i] {
					t.Fatalf("ids = %v, want %v", got, want)
				}
			}
		})
	}
}

func TestReader_NumbersStayExact(t *testing.T) {
	rd := reader(t, []byte(`{"id": 5, "is_patch": 1}`))
	b, err := rd.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if _, ok := b["is_patch"].(json.Number); !ok {
		t.Fatalf("numbers should decode as json.Number, got %T", b["is_patch"])
	}
}

func TestReader_Errors(t *testing.T) {
	rd := reader(t, []byte("{\"id\": 1}\n{\"id\": \n"))
	if _, err := rd.Next(); err != nil {
		t.Fatalf("first record: %v", err)
	}
	_, err := rd.Next()
	if perr.CodeOf(err) != perr.ErrorCodeJSON {
		t.Fatalf("want JSON error, got %v", err)
	}
	kit.MustContain(t, err.Error(), "record 2")
	if _, again := rd.Next(); again == nil {
		t.Fatalf("reader should stay failed")
	}

	rd = reader(t, []byte(`[1, 2]`))
	if _, err := rd.Next(); perr.CodeOf(err) != perr.ErrorCodeInvalidArgument {
		t.Fatalf("array record: %v", err)
	}

	rd = reader(t, []byte(`{"bugs": ["x"]}`))
	if _, err := rd.Next(); perr.CodeOf(err) != perr.ErrorCodeInvalidArgument {
		t.Fatalf("non-object bug: %v", err)
	}
}

func TestReader_Pages(t *testing.T) {
	rd := reader(t, []byte(lines))
	ctx := context.Background()

	p1, err := rd.ReadPage(ctx, 2)
	if err != nil || len(p1) != 2 {
		t.Fatalf("page 1 = %d, %v", len(p1), err)
	}
	p2, err := rd.ReadPage(ctx, 2)
	if err != nil || len(p2) != 1 {
		t.Fatalf("page 2 = %d, %v", len(p2), err)
	}
	if _, err := rd.ReadPage(ctx, 2); !errors.Is(err, io.EOF) {
		t.Fatalf("want EOF, got %v", err)
	}
	if recs, bugs := rd.Stats(); recs != 3 || bugs != 3 {
		t.Fatalf("stats = %d %d", recs, bugs)
	}
}

func TestReader_EmptyInput(t *testing.T) {
	rd := reader(t, nil)
	if _, err := rd.Next(); !errors.Is(err, io.EOF) {
		t.Fatalf("want EOF, got %v", err)
	}
}

func TestOpen(t *testing.T) {
	p := filepath.Join(t.TempDir(), "bugs.jsonl.gz")
	if err := os.WriteFile(p, gz(t, lines), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	rd, err := Open(p)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer func() { _ = rd.Close() }()
	if got := ids(t, rd); len(got) != 3 {
		t.Fatalf("ids = %v", got)
	}

	if _, err := Open(filepath.Join(t.TempDir(), "nope")); perr.CodeOf(err) != perr.ErrorCodeNotFound {
		t.Fatalf("missing file err = %v", err)
	}
}

func TestWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	msg := "fix <foo>"
	err := w.Emit(context.Background(), []features.Result{
		{Data: features.Mapping{"Severity": "S2"}, Title: "t", Comments: "c"},
		{Data: features.Mapping{}, Title: "u", Comments: "", Commits: &msg},
	})
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	out := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(out) != 2 || w.Count() != 2 {
		t.Fatalf("lines = %q", out)
	}
	kit.JSONEq(t, out[0], `{"data":{"Severity":"S2"},"title":"t","comments":"c"}`)
	kit.MustContain(t, out[1], `"commits":"fix <foo>"`)
}
