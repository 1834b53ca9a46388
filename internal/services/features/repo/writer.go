package repo

import (
	"context"

	"bugsift/internal/modkit/repokit"
	"bugsift/internal/services/features/domain"
)

// PGWriter implements domain.WriterPort on Postgres
// Records are written in chunks, one transaction per WriteRecords call
type PGWriter struct {
	DB        repokit.TxRunner
	Binder    repokit.Binder[Storage]
	ChunkSize int
}

// NewPGWriter wraps db so record transactions skip the synchronous commit wait
func NewPGWriter(db repokit.TxRunner, b repokit.Binder[Storage], chunk int) *PGWriter {
	if chunk <= 0 {
		chunk = 1000
	}
	return &PGWriter{
		DB:        repokit.WithBeginHooks(db, repokit.SetLocal("synchronous_commit", "off")),
		Binder:    b,
		ChunkSize: chunk,
	}
}

// StartRun implements domain.WriterPort
func (w *PGWriter) StartRun(ctx context.Context, run domain.Run) error {
	return w.DB.Tx(ctx, func(q repokit.Queryer) error {
		return w.Binder.Bind(q).InsertRun(ctx, run)
	})
}

// WriteRecords implements domain.WriterPort
func (w *PGWriter) WriteRecords(ctx context.Context, runID string, recs []domain.Record) error {
	if len(recs) == 0 {
		return nil
	}
	recs = lastWins(recs)
	return w.DB.Tx(ctx, func(q repokit.Queryer) error {
		st := w.Binder.Bind(q)
		for start := 0; start < len(recs); start += w.ChunkSize {
			end := min(start+w.ChunkSize, len(recs))
			if _, err := st.InsertRecords(ctx, runID, recs[start:end]); err != nil {
				return err
			}
		}
		return nil
	})
}

// FinishRun implements domain.WriterPort
func (w *PGWriter) FinishRun(ctx context.Context, run domain.Run) error {
	return w.DB.Tx(ctx, func(q repokit.Queryer) error {
		return w.Binder.Bind(q).FinishRun(ctx, run)
	})
}
