// Package service implements feature extraction over bug batches
package service

import (
	"context"
	"fmt"
	"time"

	"bugsift/internal/core/bug"
	"bugsift/internal/core/cleanup"
	"bugsift/internal/core/component"
	"bugsift/internal/core/extract"
	"bugsift/internal/core/features"
	"bugsift/internal/core/vocab"
	perr "bugsift/internal/platform/errors"
	"bugsift/internal/platform/logger"
	"bugsift/internal/platform/net/http/bind"
	"bugsift/internal/services/features/domain"

	"github.com/google/uuid"
)

// Config for the features service
type Config struct {
	Defaults domain.Spec
	MaxBatch int `validate:"gte=1"`
	Workers  int `validate:"gte=1,lte=64"`
	PageSize int `validate:"gte=1"`
	Source   string
}

// Service implements domain.ExtractorPort and drives batch runs
type Service struct {
	Commits domain.CommitsPort
	Writer  domain.WriterPort
	Vocab   *vocab.Vocab
	Cfg     Config

	now   func() time.Time
	newID func() string
}

// New constructs a features service; commits and writer may be nil
func New(commits domain.CommitsPort, writer domain.WriterPort, cfg Config) (*Service, error) {
	if cfg.MaxBatch <= 0 {
		cfg.MaxBatch = 500
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 2
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 1000
	}
	if cfg.Source == "" {
		cfg.Source = "api"
	}
	if err := bind.Get().Validator.Struct(cfg); err != nil {
		field, msg := bind.ValidationFieldAndMessage(err)
		return nil, perr.WithField(perr.InvalidArgf("features config: %s", msg), field)
	}

	s := &Service{
		Commits: commits,
		Writer:  writer,
		Vocab:   vocab.Default(),
		Cfg:     cfg,
		now:     time.Now,
		newID:   uuid.NewString,
	}
	if _, err := s.plan(domain.Spec{}); err != nil {
		return nil, err
	}
	return s, nil
}

// plan is a resolved Spec
type plan struct {
	extractors []extract.Extractor
	names      []string
	cleanup    []cleanup.Func
	passes     []string
}

func (s *Service) plan(spec domain.Spec) (plan, error) {
	names := spec.Extractors
	if len(names) == 0 {
		names = s.Cfg.Defaults.Extractors
	}
	ignore := spec.IgnoreKeywords
	if ignore == nil {
		ignore = s.Cfg.Defaults.IgnoreKeywords
	}
	passes := spec.Cleanup
	if len(passes) == 0 {
		passes = s.Cfg.Defaults.Cleanup
	}
	if len(passes) == 0 {
		passes = extract.PresetCleanup(names)
	}
	if len(passes) == 0 {
		passes = []string{cleanup.NameURL}
	}

	exs, err := extract.Build(names, extract.Options{IgnoreKeywords: ignore, Vocab: s.Vocab})
	if err != nil {
		return plan{}, err
	}
	fns, err := cleanup.Build(passes, s.Vocab)
	if err != nil {
		return plan{}, err
	}
	p := plan{extractors: exs, cleanup: fns, passes: passes}
	for _, x := range exs {
		p.names = append(p.names, x.Name())
	}
	return p, nil
}

// page transforms one batch of bugs and persists it when runID is set
func (s *Service) page(ctx context.Context, p plan, bugs []bug.Bug, withCommits bool, runID string) ([]features.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "run canceled")
	}

	var ids []int64
	if withCommits || runID != "" {
		var err error
		if ids, err = bugIDs(bugs); err != nil {
			return nil, err
		}
	}

	opts := []features.Option{features.WithCleanup(p.cleanup...)}
	if withCommits {
		msgs, err := s.Commits.Messages(ctx, ids)
		if err != nil {
			return nil, perr.Keep(err, "commit lookup")
		}
		opts = append(opts, features.WithCommits(msgs))
	}

	fx, err := features.New(p.extractors, opts...)
	if err != nil {
		return nil, err
	}
	results, err := fx.Transform(bugs)
	if err != nil {
		return nil, err
	}
	logger.C(ctx).Debug().
		Int("bugs", len(results)).
		Bool("commits", fx.HasCommits()).
		Msg("features: page transformed")

	if runID != "" {
		recs := make([]domain.Record, len(results))
		for i, r := range results {
			recs[i] = domain.Record{BugID: ids[i], Result: r}
		}
		if err := s.Writer.WriteRecords(ctx, runID, recs); err != nil {
			return nil, perr.Keep(err, "write records")
		}
	}
	return results, nil
}

func bugIDs(bugs []bug.Bug) ([]int64, error) {
	ids := make([]int64, len(bugs))
	for i, b := range bugs {
		id, err := b.ID()
		if err != nil {
			return nil, perr.Keep(err, fmt.Sprintf("bug at index %d", i))
		}
		ids[i] = id
	}
	return ids, nil
}

func (s *Service) check(withCommits, persist bool) error {
	if withCommits && s.Commits == nil {
		return perr.Unavailablef("commit lookup is not configured")
	}
	if persist && s.Writer == nil {
		return perr.Unavailablef("feature persistence is not configured")
	}
	return nil
}

func countFeatures(rs []features.Result) int {
	n := 0
	for _, r := range rs {
		n += len(r.Data)
	}
	return n
}

// Extract implements domain.ExtractorPort
func (s *Service) Extract(ctx context.Context, in domain.ExtractInput) (domain.ExtractOutput, error) {
	if len(in.Bugs) > s.Cfg.MaxBatch {
		return domain.ExtractOutput{}, perr.WithField(
			perr.Validationf("bugs must contain at most %d items", s.Cfg.MaxBatch), "bugs")
	}
	if err := s.check(in.WithCommits, in.Persist); err != nil {
		return domain.ExtractOutput{}, err
	}
	p, err := s.plan(in.Spec)
	if err != nil {
		return domain.ExtractOutput{}, err
	}

	run := s.newRun(p, in.WithCommits)
	ctx = logger.WithRun(ctx, run.ID)
	start := time.Now()

	persistID := ""
	if in.Persist {
		if err := s.Writer.StartRun(ctx, run); err != nil {
			return domain.ExtractOutput{}, perr.Keep(err, "start run")
		}
		persistID = run.ID
	}

	results, err := s.page(ctx, p, in.Bugs, in.WithCommits, persistID)
	if err != nil {
		logger.C(ctx).Warn().Err(err).Int("bugs", len(in.Bugs)).Msg("features: extract failed")
		return domain.ExtractOutput{}, err
	}

	if in.Persist {
		run.Bugs = len(results)
		run.FinishedAt = s.now().UTC()
		if err := s.Writer.FinishRun(ctx, run); err != nil {
			return domain.ExtractOutput{}, perr.Keep(err, "finish run")
		}
	}

	logger.C(ctx).Info().
		Int("bugs", len(results)).
		Int("features", countFeatures(results)).
		Strs("extractors", p.names).
		Bool("persisted", in.Persist).
		Dur("elapsed", time.Since(start)).
		Msg("features: extracted")

	return domain.ExtractOutput{RunID: run.ID, Extractors: p.names, Results: results}, nil
}

func (s *Service) newRun(p plan, withCommits bool) domain.Run {
	return domain.Run{
		ID:         s.newID(),
		Source:     s.Cfg.Source,
		Extractors: p.names,
		Cleanup:    p.passes,
		Commits:    withCommits,
		StartedAt:  s.now().UTC(),
	}
}

// Labels implements domain.ExtractorPort
func (s *Service) Labels(ctx context.Context, in domain.LabelsInput) (domain.LabelsOutput, error) {
	if len(in.Bugs) > s.Cfg.MaxBatch {
		return domain.LabelsOutput{}, perr.WithField(
			perr.Validationf("bugs must contain at most %d items", s.Cfg.MaxBatch), "bugs")
	}
	out, err := component.Labels(in.Bugs, in.Canonical)
	if err != nil {
		return domain.LabelsOutput{}, err
	}
	logger.C(ctx).Debug().
		Int("bugs", len(in.Bugs)).
		Int("labeled", len(out.ByBug)).
		Int("labels", len(out.Counts)).
		Msg("features: labeled")
	return out, nil
}

// Info implements domain.ExtractorPort
func (s *Service) Info() domain.ExtractorInfo {
	return domain.ExtractorInfo{
		Extractors: extract.Names(),
		Presets:    extract.Presets(),
		Cleanup:    cleanup.Names(),
		Defaults:   s.Cfg.Defaults,
	}
}
