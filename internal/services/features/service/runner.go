package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"bugsift/internal/core/bug"
	"bugsift/internal/core/features"
	perr "bugsift/internal/platform/errors"
	"bugsift/internal/platform/logger"
	"bugsift/internal/services/features/domain"

	"golang.org/x/sync/errgroup"
)

// RunOptions configures a batch run
type RunOptions struct {
	domain.Spec
	WithCommits bool
	Persist     bool
}

// Stats summarizes a batch run
type Stats struct {
	RunID    string        `json:"run_id"`
	Bugs     int           `json:"bugs"`
	Pages    int           `json:"pages"`
	Features int           `json:"features"`
	Elapsed  time.Duration `json:"elapsed"`
}

// Runner streams bugs from a source through the extractor to a sink
type Runner struct {
	svc  *Service
	opts RunOptions
}

// Runner returns a batch runner bound to opts
func (s *Service) Runner(opts RunOptions) *Runner { return &Runner{svc: s, opts: opts} }

// Run reads pages of Cfg.PageSize bugs, transforms up to Cfg.Workers pages at a
// time and emits results in input order. The first error stops the run.
func (r *Runner) Run(ctx context.Context, src domain.BugSource, out domain.ResultSink) (Stats, error) {
	s := r.svc
	if err := s.check(r.opts.WithCommits, r.opts.Persist); err != nil {
		return Stats{}, err
	}
	p, err := s.plan(r.opts.Spec)
	if err != nil {
		return Stats{}, err
	}

	run := s.newRun(p, r.opts.WithCommits)
	ctx = logger.WithRun(ctx, run.ID)
	log := logger.C(ctx)
	stats := Stats{RunID: run.ID}
	start := time.Now()

	persistID := ""
	if r.opts.Persist {
		if err := s.Writer.StartRun(ctx, run); err != nil {
			return stats, perr.Keep(err, "start run")
		}
		persistID = run.ID
	}

	log.Info().
		Strs("extractors", p.names).
		Strs("cleanup", p.passes).
		Int("workers", s.Cfg.Workers).
		Int("page_size", s.Cfg.PageSize).
		Msg("features: run started")

	for {
		pages, eof, err := r.readRound(ctx, src)
		if err != nil {
			return stats, err
		}
		if len(pages) > 0 {
			results, err := r.transformRound(ctx, p, pages, stats.Bugs, persistID)
			if err != nil {
				log.Error().Err(err).Int("bugs_done", stats.Bugs).Msg("features: run failed")
				return stats, err
			}
			for i, rs := range results {
				if err := out.Emit(ctx, rs); err != nil {
					return stats, perr.Keep(err, "emit results")
				}
				stats.Pages++
				stats.Bugs += len(pages[i])
				stats.Features += countFeatures(rs)
			}
			log.Debug().Int("pages", stats.Pages).Int("bugs", stats.Bugs).Msg("features: progress")
		}
		if eof {
			break
		}
	}

	if r.opts.Persist {
		run.Bugs = stats.Bugs
		run.FinishedAt = s.now().UTC()
		if err := s.Writer.FinishRun(ctx, run); err != nil {
			return stats, perr.Keep(err, "finish run")
		}
	}

	stats.Elapsed = time.Since(start)
	log.Info().
		Int("bugs", stats.Bugs).
		Int("pages", stats.Pages).
		Int("features", stats.Features).
		Dur("elapsed", stats.Elapsed).
		Msg("features: run finished")
	return stats, nil
}

// readRound reads up to Workers pages
func (r *Runner) readRound(ctx context.Context, src domain.BugSource) ([][]bug.Bug, bool, error) {
	pages := make([][]bug.Bug, 0, r.svc.Cfg.Workers)
	for len(pages) < r.svc.Cfg.Workers {
		pg, err := src.ReadPage(ctx, r.svc.Cfg.PageSize)
		if errors.Is(err, io.EOF) {
			return pages, true, nil
		}
		if err != nil {
			return nil, false, perr.Keep(err, "read bugs")
		}
		if len(pg) == 0 {
			return pages, true, nil
		}
		pages = append(pages, pg)
	}
	return pages, false, nil
}

// transformRound runs one page per worker; results keep page order
func (r *Runner) transformRound(ctx context.Context, p plan, pages [][]bug.Bug, offset int, runID string) ([][]features.Result, error) {
	results := make([][]features.Result, len(pages))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.svc.Cfg.Workers)

	for i := range pages {
		first := offset
		for _, pg := range pages[:i] {
			first += len(pg)
		}
		g.Go(func() error {
			rs, err := r.svc.page(gctx, p, pages[i], r.opts.WithCommits, runID)
			if err != nil {
				return perr.Keep(err, fmt.Sprintf("page starting at bug %d", first))
			}
			results[i] = rs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
