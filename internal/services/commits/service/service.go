// Package service provides the commits service implementation
package service

import (
	"context"

	"bugsift/internal/modkit/repokit"
	pstrings "bugsift/internal/platform/strings"
	"bugsift/internal/services/commits/repo"
)

// Config for the commits service
type Config struct {
	// ChunkSize bounds the ids per query; defaults to 5000 if <=0
	ChunkSize int
}

// Service implements domain.LookupPort and domain.WriterPort
type Service struct {
	DB     repokit.TxRunner
	Binder repokit.Binder[repo.Storage]
	Cfg    Config
}

// New constructs a new commits service
func New(db repokit.TxRunner, b repokit.Binder[repo.Storage], cfg Config) *Service {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = 5000
	}
	return &Service{DB: db, Binder: b, Cfg: cfg}
}

// Messages implements domain.LookupPort
func (s *Service) Messages(ctx context.Context, ids []int64) (map[int64]string, error) {
	uniq := pstrings.Dedup(ids)
	out := make(map[int64]string, len(uniq))
	if len(uniq) == 0 {
		return out, nil
	}
	st := repokit.MustBind(s.Binder, s.DB)
	for start := 0; start < len(uniq); start += s.Cfg.ChunkSize {
		end := min(start+s.Cfg.ChunkSize, len(uniq))
		part, err := st.Messages(ctx, uniq[start:end])
		if err != nil {
			return nil, err
		}
		for id, m := range part {
			out[id] = m
		}
	}
	return out, nil
}

// Upsert implements domain.WriterPort in a single transaction
func (s *Service) Upsert(ctx context.Context, msgs map[int64]string) (int, error) {
	if len(msgs) == 0 {
		return 0, nil
	}
	var n int
	err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
		var err error
		n, err = s.Binder.Bind(q).Upsert(ctx, msgs)
		return err
	})
	return n, err
}
