package main

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

type config struct {
	OutputDir string `yaml:"output_dir"`
	WorkDir   string `yaml:"work_dir"`
	SourcesDB string `yaml:"sources_db"`
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "build":
		cmdBuild(os.Args[2:])
	case "sources":
		cmdSources(os.Args[2:])
	case "check":
		cmdCheck(os.Args[2:])
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: zip2json <command>

Commands:
  build     Download both postal registries and emit per-prefix JSON
  sources   List registry sources and override download URLs
  check     Verify that the registry download URLs are still reachable
`)
}

func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
}

func loadConfig(path string, logger *slog.Logger) config {
	cfg := config{
		OutputDir: ".",
		WorkDir:   "", // empty means a throwaway temp dir
		SourcesDB: "sources.db",
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Info("no config file, using defaults", "path", path)
			return cfg
		}
		logger.Error("read config", "error", err)
		os.Exit(1)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		logger.Error("parse config", "error", err)
		os.Exit(1)
	}
	return cfg
}
