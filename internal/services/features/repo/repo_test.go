package repo

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"bugsift/internal/core/features"
	"bugsift/internal/modkit/repokit"
	perr "bugsift/internal/platform/errors"
	"bugsift/internal/platform/store"
	kit "bugsift/internal/platform/testkit"
	"bugsift/internal/services/features/domain"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
)

type tag int64

func (t tag) String() string      { return "INSERT" }
func (t tag) RowsAffected() int64 { return int64(t) }

type call struct {
	sql  string
	args []any
}

type fakeQ struct {
	calls    []call
	affected int64
	err      error
}

func (q *fakeQ) Exec(_ context.Context, sql string, args ...any) (repokit.CommandTag, error) {
	q.calls = append(q.calls, call{sql, args})
	return tag(q.affected), q.err
}

func (q *fakeQ) Query(context.Context, string, ...any) (repokit.Rows, error) { return nil, nil }
func (q *fakeQ) QueryRow(context.Context, string, ...any) repokit.Row        { return nil }

type fakeTx struct {
	*fakeQ
	txs int
}

func (t *fakeTx) Tx(_ context.Context, fn func(q repokit.Queryer) error) error {
	t.txs++
	return fn(t.fakeQ)
}

func rec(id int64, title string, data features.Mapping) domain.Record {
	return domain.Record{BugID: id, Result: features.Result{Data: data, Title: title}}
}

const runID = "3f1c8a2e-5d7b-4c1e-9f0a-1b2c3d4e5f60"

func TestInsertRecords_SQLAndArgs(t *testing.T) {
	q := &fakeQ{affected: 2}
	n, err := NewPG().Bind(q).InsertRecords(context.Background(), runID, []domain.Record{
		rec(1, "a", features.Mapping{"Severity": "S2"}),
		rec(2, "b", features.Mapping{}),
		rec(1, "a2", features.Mapping{"Severity": "S1"}),
	})
	if err != nil || n != 2 {
		t.Fatalf("InsertRecords = %d, %v", n, err)
	}
	got := q.calls[0]
	kit.MustContain(t, got.sql, "($1::uuid,$2,$3::jsonb,$4,$5,$6),($7::uuid,$8,$9::jsonb,$10,$11,$12)")
	kit.MustContain(t, got.sql, "ON CONFLICT (run_id, bug_id) DO UPDATE")
	if len(got.args) != 2*recordCols {
		t.Fatalf("args = %d", len(got.args))
	}
	// bug 1 keeps its position but takes the later result
	if got.args[3] != "a2" || got.args[2] != `{"Severity":"S1"}` || got.args[8] != "{}" {
		t.Fatalf("args = %v", got.args)
	}
	if c, ok := got.args[5].(*string); !ok || c != nil {
		t.Fatalf("commits should be a nil *string, got %#v", got.args[5])
	}
}

func TestInsertRecords_EmptyAndErrors(t *testing.T) {
	q := &fakeQ{}
	if n, err := NewPG().Bind(q).InsertRecords(context.Background(), runID, nil); n != 0 || err != nil || len(q.calls) != 0 {
		t.Fatalf("empty insert should be a no-op")
	}
	q.err = errors.New("conn reset")
	_, err := NewPG().Bind(q).InsertRecords(context.Background(), runID, []domain.Record{rec(1, "a", nil)})
	if perr.CodeOf(err) != perr.ErrorCodeDB {
		t.Fatalf("want db error, got %v", err)
	}
}

func TestRunLifecycleSQL(t *testing.T) {
	q := &fakeQ{affected: 1}
	st := NewPG().Bind(q)
	run := domain.Run{
		ID: runID, Source: "cli", Extractors: []string{"Title"}, Cleanup: []string{"url"},
		StartedAt: time.Unix(0, 0).UTC(),
	}
	if err := st.InsertRun(context.Background(), run); err != nil {
		t.Fatalf("InsertRun: %v", err)
	}
	kit.MustContain(t, q.calls[0].sql, "INSERT INTO feature_runs")
	run.Bugs = 9
	if err := st.FinishRun(context.Background(), run); err != nil {
		t.Fatalf("FinishRun: %v", err)
	}
	if diff := cmp.Diff([]any{runID, 9, time.Time{}}, q.calls[1].args); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}

	q.affected = 0
	if err := st.FinishRun(context.Background(), run); perr.CodeOf(err) != perr.ErrorCodeNotFound {
		t.Fatalf("want not found, got %v", err)
	}
}

func TestPGWriter_HooksAndChunks(t *testing.T) {
	tx := &fakeTx{fakeQ: &fakeQ{affected: 1}}
	w := NewPGWriter(tx, NewPG(), 2)

	recs := []domain.Record{rec(1, "a", nil), rec(2, "b", nil), rec(3, "c", nil), rec(2, "b2", nil)}
	if err := w.WriteRecords(context.Background(), runID, recs); err != nil {
		t.Fatalf("WriteRecords: %v", err)
	}
	if tx.txs != 1 {
		t.Fatalf("want one transaction, got %d", tx.txs)
	}
	if len(tx.calls) != 3 {
		t.Fatalf("want SET LOCAL plus two chunks, got %d calls", len(tx.calls))
	}
	if tx.calls[0].sql != "SET LOCAL synchronous_commit = off" {
		t.Fatalf("first statement = %q", tx.calls[0].sql)
	}
	if len(tx.calls[1].args) != 2*recordCols || len(tx.calls[2].args) != recordCols {
		t.Fatalf("chunk sizes = %d, %d", len(tx.calls[1].args), len(tx.calls[2].args))
	}
	if err := w.WriteRecords(context.Background(), runID, nil); err != nil || tx.txs != 1 {
		t.Fatalf("empty write should not open a transaction")
	}
}

type fakeCH struct {
	table string
	cols  []string
	rows  [][]any
	ddl   []string
	err   error
}

func (f *fakeCH) Insert(_ context.Context, table string, cols []string, rows [][]any) error {
	f.table, f.cols = table, cols
	f.rows = append(f.rows, rows...)
	return f.err
}
func (f *fakeCH) Exec(_ context.Context, sql string, _ ...any) error {
	f.ddl = append(f.ddl, sql)
	return f.err
}
func (f *fakeCH) Query(context.Context, string, ...any) (store.Rows, error) { return nil, nil }
func (f *fakeCH) Close() error                                             { return nil }

func TestCHExporter(t *testing.T) {
	ch := &fakeCH{}
	at := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	e := NewCHExporter(ch)
	e.now = func() time.Time { return at }

	err := e.WriteRecords(context.Background(), runID, []domain.Record{
		rec(7, "t", features.Mapping{"Title-crash": "True", "Severity": "S2"}),
		rec(8, "u", features.Mapping{}),
	})
	if err != nil {
		t.Fatalf("WriteRecords: %v", err)
	}
	id := uuid.MustParse(runID)
	want := [][]any{
		{id, int64(7), "Severity", "S2", at},
		{id, int64(7), "Title-crash", "True", at},
	}
	if ch.table != flagsTable || !cmp.Equal(flagCols, ch.cols) {
		t.Fatalf("insert target = %s %v", ch.table, ch.cols)
	}
	if diff := cmp.Diff(want, ch.rows); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}

	if err := e.WriteRecords(context.Background(), "not-a-uuid", nil); perr.CodeOf(err) != perr.ErrorCodeInvalidArgument {
		t.Fatalf("want invalid run id, got %v", err)
	}
	if err := EnsureCHSchema(context.Background(), ch); err != nil || !strings.Contains(ch.ddl[0], "MergeTree") {
		t.Fatalf("EnsureCHSchema: %v %v", err, ch.ddl)
	}
}

type recWriter struct {
	name string
	log  *[]string
	err  error
}

func (w recWriter) StartRun(context.Context, domain.Run) error {
	*w.log = append(*w.log, w.name+":start")
	return w.err
}
func (w recWriter) WriteRecords(context.Context, string, []domain.Record) error {
	*w.log = append(*w.log, w.name+":write")
	return w.err
}
func (w recWriter) FinishRun(context.Context, domain.Run) error {
	*w.log = append(*w.log, w.name+":finish")
	return w.err
}

func TestFanout(t *testing.T) {
	if Fanout() != nil || Fanout(nil, nil) != nil {
		t.Fatalf("no writers should yield nil")
	}
	var log []string
	a := recWriter{name: "pg", log: &log}
	if Fanout(nil, a) != domain.WriterPort(a) {
		t.Fatalf("single writer should be returned as is")
	}

	b := recWriter{name: "ch", log: &log, err: perr.DBf("down")}
	f := Fanout(a, b, recWriter{name: "never", log: &log})
	ctx := context.Background()
	_ = f.StartRun(ctx, domain.Run{})
	if err := f.WriteRecords(ctx, runID, nil); perr.CodeOf(err) != perr.ErrorCodeDB {
		t.Fatalf("want db error, got %v", err)
	}
	want := []string{"pg:start", "ch:start", "pg:write", "ch:write"}
	if diff := cmp.Diff(want, log); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}
