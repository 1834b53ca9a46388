// Package repo provides the commits repository implementation
package repo

import (
	"context"
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"bugsift/internal/modkit/repokit"
	perr "bugsift/internal/platform/errors"
	"bugsift/internal/platform/store"
)

//go:embed schema.sql
var schema string

type (
	pg     struct{ q repokit.Queryer }
	binder struct{}
)

// NewPG constructs a new repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// Storage defines the commits repository
type Storage interface {
	Messages(ctx context.Context, ids []int64) (map[int64]string, error)
	Upsert(ctx context.Context, msgs map[int64]string) (int, error)
}

// EnsureSchema creates the commits table when missing
func EnsureSchema(ctx context.Context, q repokit.Queryer) error {
	_, err := q.Exec(ctx, schema)
	return perr.FromPostgres(err, "commits: ensure schema")
}

type pair struct {
	id  int64
	msg string
}

// Messages implements Storage
func (s *pg) Messages(ctx context.Context, ids []int64) (map[int64]string, error) {
	rows, err := store.Many(ctx, s.q, func(r repokit.Row) (pair, error) {
		var p pair
		err := r.Scan(&p.id, &p.msg)
		return p, err
	}, `SELECT bug_id, message FROM commit_messages WHERE bug_id = ANY($1)`, ids)
	if err != nil {
		return nil, perr.FromPostgres(err, "commits: select messages")
	}
	out := make(map[int64]string, len(rows))
	for _, p := range rows {
		out[p.id] = p.msg
	}
	return out, nil
}

// Upsert implements Storage
func (s *pg) Upsert(ctx context.Context, msgs map[int64]string) (int, error) {
	if len(msgs) == 0 {
		return 0, nil
	}
	ids := make([]int64, 0, len(msgs))
	for id := range msgs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var sb strings.Builder
	sb.WriteString(`INSERT INTO commit_messages (bug_id, message) VALUES `)
	args := make([]any, 0, len(ids)*2)
	for i, id := range ids {
		if i > 0 {
			sb.WriteByte(',')
		}
		fmt.Fprintf(&sb, "($%d,$%d)", i*2+1, i*2+2)
		args = append(args, id, msgs[id])
	}
	sb.WriteString(` ON CONFLICT (bug_id) DO UPDATE SET message = EXCLUDED.message, updated_at = now()`)

	tag, err := s.q.Exec(ctx, sb.String(), args...)
	if err != nil {
		return 0, perr.FromPostgres(err, "commits: upsert")
	}
	return int(tag.RowsAffected()), nil
}
