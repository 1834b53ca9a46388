package store

import (
	"time"

	"bugsift/internal/platform/config"
)

// Config aggregates per-backend configuration
type Config struct {
	PG PGConfig
	CH CHConfig
}

// PGConfig configures postgres connectivity and tracing
type PGConfig struct {
	Enabled     bool
	URL         string
	MaxConns    int32
	LogSQL      bool
	SlowQueryMs int
	AppName     string

	// ConnectRetries bounds the boot ping loop; 0 means 20
	ConnectRetries int
	// PingTimeout bounds each boot ping; 0 means 3s
	PingTimeout time.Duration
}

// CHConfig configures clickhouse connectivity
type CHConfig struct {
	Enabled    bool
	URL        string
	ClientName string
	ClientTag  string
}

// FromEnv reads SERVICE_PGSQL_* and SERVICE_CLICKHOUSE_* from root; a backend
// is enabled when its DBURL is set. tag names the calling binary in CH logs
func FromEnv(root config.Conf, tag string) Config {
	pg := root.Prefix("SERVICE_PGSQL_")
	ch := root.Prefix("SERVICE_CLICKHOUSE_")
	return Config{
		PG: PGConfig{
			Enabled:     pg.Has("DBURL"),
			URL:         pg.MayString("DBURL", ""),
			MaxConns:    int32(pg.MayInt("MAX_CONNS", 4)),
			SlowQueryMs: pg.MayInt("SLOW_MS", 500),
			LogSQL:      pg.MayBool("LOG_SQL", false),
			AppName:     "bugsift-" + tag,
		},
		CH: CHConfig{
			Enabled:    ch.Has("DBURL"),
			URL:        ch.MayString("DBURL", ""),
			ClientName: "bugsift",
			ClientTag:  tag,
		},
	}
}
