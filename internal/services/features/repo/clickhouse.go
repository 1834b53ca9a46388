package repo

import (
	"context"
	"sort"
	"time"

	perr "bugsift/internal/platform/errors"
	"bugsift/internal/platform/store"
	"bugsift/internal/services/features/domain"

	"github.com/google/uuid"
)

const flagsTable = "bug_feature_flags"

var flagCols = []string{"run_id", "bug_id", "feature", "value", "extracted_at"}

const chSchema = `
CREATE TABLE IF NOT EXISTS bug_feature_flags (
    run_id       UUID,
    bug_id       Int64,
    feature      LowCardinality(String),
    value        String,
    extracted_at DateTime64(3, 'UTC')
) ENGINE = MergeTree
ORDER BY (feature, bug_id, run_id)`

// EnsureCHSchema creates the flags table when missing
func EnsureCHSchema(ctx context.Context, ch store.Clickhouse) error {
	if err := ch.Exec(ctx, chSchema); err != nil {
		return perr.Wrap(err, perr.ErrorCodeDB, "features: ensure clickhouse schema")
	}
	return nil
}

// CHExporter writes one row per feature key to ClickHouse for aggregate queries
// Runs are tracked in Postgres only, so StartRun and FinishRun do nothing
type CHExporter struct {
	CH  store.Clickhouse
	now func() time.Time
}

// NewCHExporter constructs an exporter on ch
func NewCHExporter(ch store.Clickhouse) *CHExporter {
	return &CHExporter{CH: ch, now: time.Now}
}

// StartRun implements domain.WriterPort
func (*CHExporter) StartRun(context.Context, domain.Run) error { return nil }

// FinishRun implements domain.WriterPort
func (*CHExporter) FinishRun(context.Context, domain.Run) error { return nil }

// WriteRecords implements domain.WriterPort
func (e *CHExporter) WriteRecords(ctx context.Context, runID string, recs []domain.Record) error {
	id, err := uuid.Parse(runID)
	if err != nil {
		return perr.WithField(perr.InvalidArgf("features: run id %q is not a uuid", runID), "run_id")
	}
	at := e.now().UTC()

	var rows [][]any
	for _, r := range lastWins(recs) {
		keys := make([]string, 0, len(r.Result.Data))
		for k := range r.Result.Data {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			rows = append(rows, []any{id, r.BugID, k, r.Result.Data[k], at})
		}
	}
	if len(rows) == 0 {
		return nil
	}
	if err := e.CH.Insert(ctx, flagsTable, flagCols, rows); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeDB, "features: export %d flags", len(rows))
	}
	return nil
}
