// Package cli implements the trailcache command-line interface.
//
// The CLI is a thin driving adapter: every command talks to the core
// through the Cache facade and the driven ports, never directly to
// adapters. Commands read instantly from the local cache; only refresh,
// login and watch touch the network.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dlaporte/trailcache/internal/adapters/driven/config/file"
	"github.com/dlaporte/trailcache/internal/adapters/driven/remote/scouting"
	"github.com/dlaporte/trailcache/internal/adapters/driven/storage/sqlite"
	"github.com/dlaporte/trailcache/internal/core/ports/driven"
	"github.com/dlaporte/trailcache/internal/core/ports/driving"
	"github.com/dlaporte/trailcache/internal/core/services"
	"github.com/dlaporte/trailcache/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services used by commands. Populated by initServices on first use;
// tests inject fakes directly.
var (
	cache       driving.Cache
	vault       driven.CredentialVault
	configStore driven.ConfigStore
	closeStore  func() error
)

// Options carries environment-level settings from the entry point.
type Options struct {
	// DataDir overrides the default ~/.trailcache/data location.
	DataDir string

	// ConfigDir overrides the default ~/.trailcache location.
	ConfigDir string

	// Verbose enables debug logging (also settable via --verbose).
	Verbose bool
}

var opts Options

var rootCmd = &cobra.Command{
	Use:   "trailcache",
	Short: "Local cache for troop management data",
	Long: `Trailcache keeps a local, instantly-readable copy of your unit's
roster, events, advancement and unit records, refreshed in the background
from Scouting.org. Reads always come from the local cache, so every
command works offline with whatever data was last fetched.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if v, _ := cmd.Flags().GetBool("verbose"); v || opts.Verbose {
			logger.SetVerbose(true)
		}
		return initServices(cmd.Context())
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		if closeStore != nil {
			_ = closeStore()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().Bool("verbose", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&opts.DataDir, "data-dir", "", "override data directory")
}

// Execute runs the CLI with environment options applied. The context is
// cancelled on interrupt so long-running commands like watch shut down
// cleanly.
func Execute(ctx context.Context, o Options) error {
	if o.DataDir != "" && opts.DataDir == "" {
		opts.DataDir = o.DataDir
	}
	opts.ConfigDir = o.ConfigDir
	opts.Verbose = o.Verbose || opts.Verbose
	return rootCmd.ExecuteContext(ctx)
}

// initServices wires the adapters into the core. Tests that preset the
// package-level services skip this entirely.
func initServices(ctx context.Context) error {
	if cache != nil {
		return nil
	}

	cfg, err := file.NewConfigStore(opts.ConfigDir)
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}
	configStore = cfg

	store, err := sqlite.NewStore(opts.DataDir)
	if err != nil {
		return fmt.Errorf("opening cache store: %w", err)
	}
	closeStore = store.Close
	vault = store.CredentialVault()

	remote := scouting.NewClient(scouting.Config{
		OrgGUID: cfg.GetString(file.KeyOrgGUID),
	}, vault)

	svc := services.NewCacheService(remote, store.SnapshotArchive())
	svc.Load(ctx)
	cache = svc
	return nil
}
