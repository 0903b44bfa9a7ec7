package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/caarlos0/env/v11"

	"github.com/dlaporte/trailcache/internal/adapters/driving/cli"
)

// envConfig maps TRAILCACHE_* environment variables onto CLI options.
type envConfig struct {
	DataDir   string `env:"TRAILCACHE_DATA_DIR"`
	ConfigDir string `env:"TRAILCACHE_CONFIG_DIR"`
	Verbose   bool   `env:"TRAILCACHE_VERBOSE"`
}

func main() {
	var cfg envConfig
	if err := env.Parse(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "trailcache: invalid environment: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := cli.Execute(ctx, cli.Options{
		DataDir:   cfg.DataDir,
		ConfigDir: cfg.ConfigDir,
		Verbose:   cfg.Verbose,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "trailcache: %v\n", err)
		os.Exit(1)
	}
}
