package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/hazyhaar/zip2json/pkg/postal"
	"github.com/hazyhaar/zip2json/pkg/source"
)

func cmdBuild(args []string) {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	cfgPath := fs.String("config", "config.yaml", "path to config file")
	out := fs.String("out", "", "output directory for JSON documents (overrides config)")
	keepWork := fs.Bool("keep-work", false, "keep the download/extract work directory")
	fs.Parse(args)

	logger := newLogger()
	cfg := loadConfig(*cfgPath, logger)
	if *out != "" {
		cfg.OutputDir = *out
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *keepWork, logger); err != nil {
		logger.Error("build failed", "error", err)
		os.Exit(1)
	}
}

// run executes the whole pipeline. Both registries are fully aggregated
// before any document is written, so a failure never leaves a partial
// output directory passing for a complete one.
func run(ctx context.Context, cfg config, keepWork bool, logger *slog.Logger) error {
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	workDir := cfg.WorkDir
	if workDir == "" {
		dir, err := os.MkdirTemp("", "zip2json")
		if err != nil {
			return fmt.Errorf("create work dir: %w", err)
		}
		if !keepWork {
			defer os.RemoveAll(dir)
		}
		workDir = dir
	} else if err := os.MkdirAll(workDir, 0o755); err != nil {
		return fmt.Errorf("create work dir: %w", err)
	}

	sdb, err := source.OpenDB(cfg.SourcesDB)
	if err != nil {
		return err
	}
	defer sdb.Close()
	if err := sdb.Seed(source.All()); err != nil {
		return err
	}

	srcs, err := source.BuildOrder()
	if err != nil {
		return err
	}

	ds := postal.NewDataset()
	manifest := &source.Manifest{GeneratedAt: time.Now().UTC().Format(time.RFC3339)}

	for _, src := range srcs {
		url, err := sdb.GetURL(src.ID())
		if err != nil {
			return err
		}

		rows, err := aggregateSource(ctx, ds, src, url, workDir, logger)
		if err != nil {
			return fmt.Errorf("source %s: %w", src.ID(), err)
		}
		logger.Info("registry aggregated", "source", src.ID(), "rows", rows)

		manifest.Sources = append(manifest.Sources, source.ManifestSource{
			ID:      src.ID(),
			URL:     url,
			License: src.License(),
			Rows:    rows,
		})
	}
	manifest.Prefixes = len(ds)

	grid := &progressGrid{w: os.Stdout}
	if err := postal.Emit(ds, postal.DirSink{Dir: cfg.OutputDir}, grid); err != nil {
		return err
	}
	grid.flush()

	if err := source.WriteManifest(cfg.OutputDir, manifest); err != nil {
		return err
	}

	logger.Info("build complete", "prefixes", len(ds), "output", cfg.OutputDir)
	return nil
}

// aggregateSource downloads, extracts, transcodes and folds one registry
// into ds, returning the number of rows folded.
func aggregateSource(ctx context.Context, ds postal.Dataset, src source.Source, url, workDir string, logger *slog.Logger) (int, error) {
	archive := filepath.Join(workDir, src.Archive())
	logger.Info("downloading registry", "source", src.ID(), "url", url)
	if err := source.Fetch(ctx, url, archive); err != nil {
		return 0, fmt.Errorf("download: %w", err)
	}

	files, err := source.Extract(archive, workDir)
	if err != nil {
		return 0, fmt.Errorf("extract: %w", err)
	}
	if len(files) == 0 {
		return 0, fmt.Errorf("archive %s contains no files", src.Archive())
	}

	rows := 0
	for _, path := range files {
		n, err := aggregateFile(ds, src, path)
		if err != nil {
			return rows, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		rows += n
	}
	return rows, nil
}

func aggregateFile(ds postal.Dataset, src source.Source, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	r, err := source.DecodeReader(f, src.Encoding())
	if err != nil {
		return 0, err
	}
	return postal.Aggregate(ds, src.Layout(), r)
}

// progressGrid prints processed prefixes ten per row, with a blank slot for
// every empty prefix, so a run shows the whole 001-999 space at a glance.
type progressGrid struct {
	w io.Writer
	n int
}

func (g *progressGrid) Processed(prefix string) {
	fmt.Fprintf(g.w, " %s", prefix)
	g.tick()
}

func (g *progressGrid) Empty(string) {
	fmt.Fprint(g.w, "    ")
	g.tick()
}

func (g *progressGrid) tick() {
	g.n++
	if g.n%10 == 0 {
		fmt.Fprintln(g.w)
	}
}

func (g *progressGrid) flush() {
	if g.n%10 != 0 {
		fmt.Fprintln(g.w)
	}
}
