// Package version reports build metadata for the binaries
package version

import (
	"runtime/debug"

	"bugsift/internal/core/vocab"
)

// BuildInfo is returned by the meta endpoint and logged at startup
type BuildInfo struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
	Vocab   int    `json:"vocab"`
}

// Set with -ldflags "-X 'bugsift/internal/core/version.version=v0.1.0'
// -X 'bugsift/internal/core/version.commit=abcd' -X 'bugsift/internal/core/version.date=2026-10-01'"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Info returns the build information for service
func Info(service string) BuildInfo {
	bi := BuildInfo{
		Service: service,
		Version: version,
		Commit:  commit,
		Date:    date,
		Vocab:   vocab.Default().Version,
	}
	if bi.Commit == "none" {
		if info, ok := debug.ReadBuildInfo(); ok {
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					bi.Commit = s.Value
				case "vcs.time":
					if bi.Date == "unknown" {
						bi.Date = s.Value
					}
				}
			}
		}
	}
	return bi
}
