package repo

import (
	"context"

	"bugsift/internal/services/features/domain"
)

type fanout []domain.WriterPort

// Fanout calls every writer in order and stops at the first error; nil writers are skipped
// and no writers at all yields nil
func Fanout(ws ...domain.WriterPort) domain.WriterPort {
	out := make(fanout, 0, len(ws))
	for _, w := range ws {
		if w != nil {
			out = append(out, w)
		}
	}
	switch len(out) {
	case 0:
		return nil
	case 1:
		return out[0]
	}
	return out
}

func (f fanout) StartRun(ctx context.Context, run domain.Run) error {
	for _, w := range f {
		if err := w.StartRun(ctx, run); err != nil {
			return err
		}
	}
	return nil
}

func (f fanout) WriteRecords(ctx context.Context, runID string, recs []domain.Record) error {
	for _, w := range f {
		if err := w.WriteRecords(ctx, runID, recs); err != nil {
			return err
		}
	}
	return nil
}

func (f fanout) FinishRun(ctx context.Context, run domain.Run) error {
	for _, w := range f {
		if err := w.FinishRun(ctx, run); err != nil {
			return err
		}
	}
	return nil
}
