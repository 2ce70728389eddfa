package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hazyhaar/zip2json/pkg/source"
)

func cmdSources(args []string) {
	fs := flag.NewFlagSet("sources", flag.ExitOnError)
	cfgPath := fs.String("config", "config.yaml", "path to config file")
	srcID := fs.String("source", "", "source ID for -url")
	setURL := fs.String("url", "", "override the download URL for -source")
	fs.Parse(args)

	logger := newLogger()
	cfg := loadConfig(*cfgPath, logger)

	sdb, err := source.OpenDB(cfg.SourcesDB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open sources db: %v\n", err)
		os.Exit(1)
	}
	defer sdb.Close()

	if err := sdb.Seed(source.All()); err != nil {
		fmt.Fprintf(os.Stderr, "seed sources: %v\n", err)
		os.Exit(1)
	}

	if *setURL != "" {
		if *srcID == "" {
			fmt.Fprintln(os.Stderr, "-url requires -source")
			os.Exit(1)
		}
		if err := sdb.SetURL(*srcID, *setURL); err != nil {
			fmt.Fprintf(os.Stderr, "set url: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("%s -> %s\n", *srcID, *setURL)
		return
	}

	entries, err := sdb.List()
	if err != nil {
		fmt.Fprintf(os.Stderr, "list sources: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Registry sources:")
	fmt.Println()
	for _, e := range entries {
		status := ""
		if e.LastStatus != nil {
			status = fmt.Sprintf("  [%d]", *e.LastStatus)
		}
		fmt.Printf("  %-14s  %s%s\n", e.SourceID, e.Description, status)
		fmt.Printf("  %-14s  %s\n", "", e.SourceURL)
	}
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  zip2json sources -source <id> -url <url>    override a download URL")
}

func cmdCheck(args []string) {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	cfgPath := fs.String("config", "config.yaml", "path to config file")
	interval := fs.Duration("interval", 0, "repeat the check at this interval (0 = once)")
	fs.Parse(args)

	logger := newLogger()
	cfg := loadConfig(*cfgPath, logger)

	sdb, err := source.OpenDB(cfg.SourcesDB)
	if err != nil {
		logger.Error("open sources db", "error", err)
		os.Exit(1)
	}
	defer sdb.Close()

	if err := sdb.Seed(source.All()); err != nil {
		logger.Error("seed sources", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	checker := source.NewChecker(sdb, logger, *interval)
	if *interval > 0 {
		checker.Start(ctx)
		return
	}
	checker.CheckAll(ctx)

	// Non-zero exit if anything is unreachable, for cron.
	entries, err := sdb.List()
	if err != nil {
		logger.Error("list sources", "error", err)
		os.Exit(1)
	}
	for _, e := range entries {
		if e.LastStatus == nil || *e.LastStatus < 200 || *e.LastStatus >= 400 {
			os.Exit(1)
		}
	}
}
