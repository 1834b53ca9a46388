// Command bugsift-extract turns a stream of bug records into feature records
//
//	bugsift-extract -in bugs.jsonl.gz -out features.jsonl -commits commits.json
//
// Input is JSON Lines (optionally gzipped) or a {"bugs":[...]} document; output is
// one JSON result per line in input order
package main

import (
	"context"
	"flag"
	"io"
	"os"
	"os/signal"
	"syscall"

	"bugsift/internal/adapters/ingest/bugsjsonl"
	"bugsift/internal/adapters/ingest/commitsfile"
	"bugsift/internal/modkit"
	"bugsift/internal/platform/config"
	"bugsift/internal/platform/logger"
	"bugsift/internal/platform/store"

	commitsmod "bugsift/internal/services/commits/module"
	"bugsift/internal/services/features/domain"
	featuresmod "bugsift/internal/services/features/module"
	"bugsift/internal/services/features/service"
)

func main() {
	loaded, dotErr := config.LoadDotenv()
	lo := logger.FromEnv()
	if lo.Service == "" {
		lo.Service = "bugsift-extract"
	}
	logger.Init(lo)
	l := logger.Get()
	if dotErr != nil {
		l.Fatal().Err(dotErr).Msg("load .env failed")
	}

	root := config.New()
	defaults := featuresmod.FromConfig(root)

	var (
		fIn         = flag.String("in", "-", "bug records: JSON Lines file, gzip ok, or - for stdin")
		fOut        = flag.String("out", "-", "feature records: JSON Lines file or - for stdout")
		fCommits    = flag.String("commits", "", "JSON object file mapping bug id to commit message")
		fCommitsPG  = flag.Bool("commits-pg", false, "look commit messages up in Postgres (SERVICE_PGSQL_DBURL)")
		fExtractors = flag.String("extractors", "", "comma separated extractor names or preset (default CORE_FEATURES_EXTRACTORS)")
		fIgnore     = flag.String("ignore", "", "comma separated keywords to drop (default CORE_FEATURES_IGNORE_KEYWORDS)")
		fCleanup    = flag.String("cleanup", "", "comma separated cleanup passes (default CORE_FEATURES_CLEANUP)")
		fWorkers    = flag.Int("workers", defaults.Workers, "pages transformed concurrently")
		fPage       = flag.Int("page", defaults.PageSize, "bugs per page")
		fPersist    = flag.Bool("persist", false, "write results to Postgres")
		fExportCH   = flag.Bool("export-ch", false, "export feature flags to ClickHouse")
		fMigrate    = flag.Bool("migrate", false, "create the tables the enabled writers need, then continue")
	)
	flag.Parse()

	if *fCommits != "" && *fCommitsPG {
		l.Fatal().Msg("-commits and -commits-pg are mutually exclusive")
	}

	opts := defaults
	if v := config.SplitCSV(*fExtractors); len(v) > 0 {
		opts.Extractors = v
	}
	if v := config.SplitCSV(*fIgnore); len(v) > 0 {
		opts.IgnoreKeywords = v
	}
	if v := config.SplitCSV(*fCleanup); len(v) > 0 {
		opts.Cleanup = v
	}
	opts.Workers, opts.PageSize = *fWorkers, *fPage
	opts.Persist = opts.Persist || *fPersist
	opts.ExportCH = opts.ExportCH || *fExportCH

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// backends are opened only when a flag needs them
	scfg := store.FromEnv(root, "extract")
	scfg.PG.Enabled = scfg.PG.Enabled && (opts.Persist || *fCommitsPG)
	scfg.CH.Enabled = scfg.CH.Enabled && opts.ExportCH
	st, err := store.Open(ctx, scfg, store.WithLogger(*l))
	if err != nil {
		l.Fatal().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()
	deps := modkit.FromStore(root, st)

	if *fMigrate {
		if err := commitsmod.Migrate(ctx, deps); err != nil {
			l.Fatal().Err(err).Msg("commits migration failed")
		}
		if err := featuresmod.Migrate(ctx, deps, opts); err != nil {
			l.Fatal().Err(err).Msg("features migration failed")
		}
	}

	var commits domain.CommitsPort
	switch {
	case *fCommits != "":
		c, err := commitsfile.Load(*fCommits)
		if err != nil {
			l.Fatal().Err(err).Str("path", *fCommits).Msg("load commits failed")
		}
		commits = c
	case *fCommitsPG:
		if deps.PG == nil {
			l.Fatal().Msg("-commits-pg needs SERVICE_PGSQL_DBURL")
		}
		commits = commitsmod.New(deps).Ports().(commitsmod.Ports).Lookup
	}

	writer := featuresmod.Writer(deps, opts)
	if (opts.Persist || opts.ExportCH) && writer == nil {
		l.Fatal().Msg("-persist and -export-ch need SERVICE_PGSQL_DBURL or SERVICE_CLICKHOUSE_DBURL")
	}

	svc, err := service.New(commits, writer, opts.ServiceConfig("cli"))
	if err != nil {
		l.Fatal().Err(err).Msg("invalid features configuration")
	}

	in, err := bugsjsonl.Open(*fIn)
	if err != nil {
		l.Fatal().Err(err).Str("path", *fIn).Msg("open input failed")
	}
	defer func() { _ = in.Close() }()

	var dst io.Writer = os.Stdout
	if *fOut != "-" {
		f, err := os.Create(*fOut)
		if err != nil {
			l.Fatal().Err(err).Str("path", *fOut).Msg("create output failed")
		}
		defer func() {
			if err := f.Close(); err != nil {
				l.Error().Err(err).Msg("close output failed")
			}
		}()
		dst = f
	}
	out := bugsjsonl.NewWriter(dst)

	l.Info().
		Str("in", *fIn).
		Str("out", *fOut).
		Strs("dotenv", loaded).
		Bool("commits", commits != nil).
		Bool("persist", opts.Persist).
		Bool("export_ch", opts.ExportCH).
		Msg("bugsift-extract starting")

	stats, runErr := svc.Runner(service.RunOptions{
		WithCommits: commits != nil,
		Persist:     writer != nil,
	}).Run(ctx, in, out)

	// results emitted before a failure are still flushed
	if err := out.Flush(); err != nil {
		l.Error().Err(err).Msg("flush results failed")
	}
	records, bugs := in.Stats()
	if runErr != nil {
		l.Fatal().Err(runErr).Int("bugs_written", stats.Bugs).Int("records_read", records).Msg("extraction failed")
	}
	l.Info().
		Str("run_id", stats.RunID).
		Int("records", records).
		Int("bugs", bugs).
		Int("written", out.Count()).
		Int("features", stats.Features).
		Dur("elapsed", stats.Elapsed).
		Msg("bugsift-extract done")
}
