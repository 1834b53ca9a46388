package module

import "bugsift/internal/platform/config"

// Options holds configuration settings for the commits module
type Options struct {
	ChunkSize int
}

// FromConfig reads CORE_COMMITS_* settings
func FromConfig(cfg config.Conf) Options {
	cc := cfg.Prefix("CORE_COMMITS_")
	return Options{
		ChunkSize: cc.MayInt("CHUNK_SIZE", 5000),
	}
}
