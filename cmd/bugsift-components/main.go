// Command bugsift-components prints component label counts for a bug file
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"bugsift/internal/adapters/ingest/bugsjsonl"
	"bugsift/internal/core/component"
	"bugsift/internal/platform/config"
	"bugsift/internal/platform/logger"
)

func main() {
	_, dotErr := config.LoadDotenv()
	lo := logger.FromEnv()
	if lo.Service == "" {
		lo.Service = "bugsift-components"
	}
	logger.Init(lo)
	l := logger.Get()
	if dotErr != nil {
		l.Fatal().Err(dotErr).Msg("load .env failed")
	}

	var (
		fIn        = flag.String("in", "-", "bug records: JSON Lines file, gzip ok, or - for stdin")
		fCanonical = flag.Bool("canonical", false, "map conflated labels onto their canonical component")
		fTop       = flag.Int("top", 0, "print only the n most frequent labels (0 prints all)")
		fJSON      = flag.Bool("json", false, "print the full labeling as JSON")
	)
	flag.Parse()

	in, err := bugsjsonl.Open(*fIn)
	if err != nil {
		l.Fatal().Err(err).Str("path", *fIn).Msg("open input failed")
	}
	bugs, err := in.ReadAll()
	_ = in.Close()
	if err != nil {
		l.Fatal().Err(err).Msg("read bugs failed")
	}

	lab, err := component.Labels(bugs, *fCanonical)
	if err != nil {
		l.Fatal().Err(err).Msg("labeling failed")
	}
	if *fTop > 0 && *fTop < len(lab.Counts) {
		lab.Counts = lab.Counts[:*fTop]
	}

	if *fJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(lab); err != nil {
			l.Fatal().Err(err).Msg("encode failed")
		}
		return
	}
	if err := printCounts(os.Stdout, lab); err != nil {
		l.Fatal().Err(err).Msg("write failed")
	}
	l.Info().
		Int("bugs", len(bugs)).
		Int("labeled", len(lab.ByBug)).
		Int("skipped", lab.Skipped).
		Int("untracked", lab.Untracked).
		Msg("components done")
}

func printCounts(w io.Writer, lab component.Labeling) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "LABEL\tBUGS")
	for _, c := range lab.Counts {
		fmt.Fprintf(tw, "%s\t%d\n", c.Label, c.Count)
	}
	return tw.Flush()
}
