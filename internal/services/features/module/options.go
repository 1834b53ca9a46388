package module

import (
	"bugsift/internal/platform/config"
	"bugsift/internal/services/features/domain"
	"bugsift/internal/services/features/service"
)

// Options holds configuration settings for the features module
type Options struct {
	Extractors     []string
	IgnoreKeywords []string
	// Cleanup empty means the extractor preset's chain, else url
	Cleanup        []string
	Workers        int
	PageSize       int
	MaxBatch       int
	MaxBodyBytes   int
	Persist        bool
	ExportCH       bool
}

// FromConfig reads CORE_FEATURES_* settings
func FromConfig(cfg config.Conf) Options {
	fc := cfg.Prefix("CORE_FEATURES_")
	return Options{
		Extractors:     fc.MayCSV("EXTRACTORS", []string{"all"}),
		IgnoreKeywords: fc.MayCSV("IGNORE_KEYWORDS", nil),
		Cleanup:        fc.MayCSV("CLEANUP", nil),
		Workers:        fc.MayInt("WORKERS", 2),
		PageSize:       fc.MayInt("PAGE_SIZE", 1000),
		MaxBatch:       fc.MayInt("MAX_BATCH", 500),
		MaxBodyBytes:   fc.MayInt("MAX_BODY_BYTES", 32<<20),
		Persist:        fc.MayBool("PERSIST", false),
		ExportCH:       fc.MayBool("EXPORT_CH", false),
	}
}

// ServiceConfig maps Options onto the service configuration
func (o Options) ServiceConfig(source string) service.Config {
	return service.Config{
		Defaults: domain.Spec{
			Extractors:     o.Extractors,
			IgnoreKeywords: o.IgnoreKeywords,
			Cleanup:        o.Cleanup,
		},
		MaxBatch: o.MaxBatch,
		Workers:  o.Workers,
		PageSize: o.PageSize,
		Source:   source,
	}
}
