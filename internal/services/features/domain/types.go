// Package domain defines the types and ports of the features service
package domain

import (
	"time"

	"bugsift/internal/core/bug"
	"bugsift/internal/core/component"
	"bugsift/internal/core/features"
)

// Spec selects the extractor set, ignore-set and cleanup passes of a run
// Empty fields fall back to the service configuration
type Spec struct {
	Extractors     []string `json:"extractors,omitempty"      example:"Title,Keywords"`
	IgnoreKeywords []string `json:"ignore_keywords,omitempty" example:"regression"`
	Cleanup        []string `json:"cleanup,omitempty"         example:"url,fileref"`
}

// ExtractInput is the request to extract features from a batch
type ExtractInput struct {
	Spec
	Bugs        []bug.Bug `json:"bugs"                   validate:"required,min=1"`
	WithCommits bool      `json:"with_commits,omitempty"`
	Persist     bool      `json:"persist,omitempty"`
}

// ExtractOutput is the extraction result of one batch
type ExtractOutput struct {
	RunID      string            `json:"run_id"     example:"3f1c8a2e-5d7b-4c1e-9f0a-1b2c3d4e5f60"`
	Extractors []string          `json:"extractors" example:"Title,Keywords"`
	Results    []features.Result `json:"results"`
}

// LabelsInput is the request to label bugs by component
type LabelsInput struct {
	Bugs      []bug.Bug `json:"bugs"                validate:"required,min=1"`
	Canonical bool      `json:"canonical,omitempty"`
}

// LabelsOutput is the labeling of a batch
type LabelsOutput = component.Labeling

// ExtractorInfo describes the available extractor names and presets
type ExtractorInfo struct {
	Extractors []string `json:"extractors"`
	Presets    []string `json:"presets"`
	Cleanup    []string `json:"cleanup"`
	Defaults   Spec     `json:"defaults"`
}

// Run describes one extraction run for persistence
type Run struct {
	ID         string
	Source     string
	Extractors []string
	Cleanup    []string
	Commits    bool
	Bugs       int
	StartedAt  time.Time
	FinishedAt time.Time
}

// Record is one persisted result
type Record struct {
	BugID  int64
	Result features.Result
}
