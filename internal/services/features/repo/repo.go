// Package repo persists feature runs to Postgres and exports flags to ClickHouse
package repo

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"bugsift/internal/modkit/repokit"
	perr "bugsift/internal/platform/errors"
	"bugsift/internal/services/features/domain"
)

//go:embed schema.sql
var schema string

// recordCols is the parameter count of one bug_features row
const recordCols = 6

type (
	pg     struct{ q repokit.Queryer }
	binder struct{}
)

// NewPG constructs a new repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// Storage defines the features repository
type Storage interface {
	InsertRun(ctx context.Context, run domain.Run) error
	InsertRecords(ctx context.Context, runID string, recs []domain.Record) (int, error)
	FinishRun(ctx context.Context, run domain.Run) error
}

// EnsureSchema creates the run and record tables when missing
func EnsureSchema(ctx context.Context, q repokit.Queryer) error {
	_, err := q.Exec(ctx, schema)
	return perr.FromPostgres(err, "features: ensure schema")
}

// InsertRun implements Storage
func (s *pg) InsertRun(ctx context.Context, run domain.Run) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO feature_runs (id, source, extractors, cleanup, with_commits, started_at)
		VALUES ($1::uuid, $2, $3, $4, $5, $6)`,
		run.ID, run.Source, run.Extractors, run.Cleanup, run.Commits, run.StartedAt)
	return perr.FromPostgres(err, "features: insert run")
}

// InsertRecords implements Storage; a bug repeated in recs keeps its last result
func (s *pg) InsertRecords(ctx context.Context, runID string, recs []domain.Record) (int, error) {
	recs = lastWins(recs)
	if len(recs) == 0 {
		return 0, nil
	}

	var sb strings.Builder
	sb.WriteString(`INSERT INTO bug_features (run_id, bug_id, data, title, comments, commits) VALUES `)
	args := make([]any, 0, len(recs)*recordCols)
	for i, r := range recs {
		data, err := json.Marshal(r.Result.Data)
		if err != nil {
			return 0, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "features: encode bug %d", r.BugID)
		}
		if i > 0 {
			sb.WriteByte(',')
		}
		n := i * recordCols
		fmt.Fprintf(&sb, "($%d::uuid,$%d,$%d::jsonb,$%d,$%d,$%d)", n+1, n+2, n+3, n+4, n+5, n+6)
		args = append(args, runID, r.BugID, string(data), r.Result.Title, r.Result.Comments, r.Result.Commits)
	}
	sb.WriteString(` ON CONFLICT (run_id, bug_id) DO UPDATE SET
		data = EXCLUDED.data, title = EXCLUDED.title,
		comments = EXCLUDED.comments, commits = EXCLUDED.commits`)

	tag, err := s.q.Exec(ctx, sb.String(), args...)
	if err != nil {
		return 0, perr.FromPostgres(err, "features: insert records")
	}
	return int(tag.RowsAffected()), nil
}

// FinishRun implements Storage
func (s *pg) FinishRun(ctx context.Context, run domain.Run) error {
	tag, err := s.q.Exec(ctx,
		`UPDATE feature_runs SET bugs = $2, finished_at = $3 WHERE id = $1::uuid`,
		run.ID, run.Bugs, run.FinishedAt)
	if err != nil {
		return perr.FromPostgres(err, "features: finish run")
	}
	if tag.RowsAffected() == 0 {
		return perr.NotFoundf("features: run %s not found", run.ID)
	}
	return nil
}

func lastWins(recs []domain.Record) []domain.Record {
	pos := make(map[int64]int, len(recs))
	out := make([]domain.Record, 0, len(recs))
	for _, r := range recs {
		if i, ok := pos[r.BugID]; ok {
			out[i] = r
			continue
		}
		pos[r.BugID] = len(out)
		out = append(out, r)
	}
	return out
}
