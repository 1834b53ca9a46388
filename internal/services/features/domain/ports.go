package domain

import (
	"context"

	"bugsift/internal/core/bug"
	"bugsift/internal/core/features"
	commitsdom "bugsift/internal/services/commits/domain"
)

// CommitsPort resolves commit messages by bug id
type CommitsPort = commitsdom.LookupPort

// WriterPort persists a run and its records
// StartRun is called once per run; WriteRecords may be called once per page
type WriterPort interface {
	StartRun(ctx context.Context, run Run) error
	WriteRecords(ctx context.Context, runID string, recs []Record) error
	FinishRun(ctx context.Context, run Run) error
}

// ExtractorPort is what the HTTP layer calls
type ExtractorPort interface {
	Extract(ctx context.Context, in ExtractInput) (ExtractOutput, error)
	Labels(ctx context.Context, in LabelsInput) (LabelsOutput, error)
	Info() ExtractorInfo
}

// BugSource yields pages of bugs; io.EOF ends the stream
type BugSource interface {
	ReadPage(ctx context.Context, n int) ([]bug.Bug, error)
}

// ResultSink receives results in input order
type ResultSink interface {
	Emit(ctx context.Context, results []features.Result) error
}
