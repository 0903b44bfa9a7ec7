package cli

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/dlaporte/trailcache/internal/adapters/driven/config/file"
	"github.com/dlaporte/trailcache/internal/core/services"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Keep the cache fresh in the foreground",
	Long: `Runs the background refresher until interrupted. Domains older than the
staleness threshold are refetched on a fixed interval, and every cache
change is printed as it lands.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	if cache == nil {
		return errors.New("cache not configured")
	}

	cfg := services.DefaultSchedulerConfig()
	if configStore != nil {
		if mins := configStore.GetInt(file.KeyStaleAfter); mins > 0 {
			cfg.StaleAfter = time.Duration(mins) * time.Minute
		}
		if mins := configStore.GetInt(file.KeyCheckEvery); mins > 0 {
			cfg.CheckInterval = time.Duration(mins) * time.Minute
		}
	}

	updates, cancel := cache.Subscribe()
	defer cancel()

	go func() {
		for u := range updates {
			line := u.Kind.DisplayName() + ": " + string(u.State)
			if u.PersistErr != nil {
				line += " (persist failed: " + u.PersistErr.Error() + ")"
			}
			cmd.Printf("%s  %s\n", time.Now().Format("15:04:05"), line)
		}
	}()

	cmd.Printf("Watching; refreshing data older than %s every %s. Ctrl-C to stop.\n",
		cfg.StaleAfter, cfg.CheckInterval)

	sched := services.NewRefreshScheduler(cfg, cache)
	err := sched.Start(cmd.Context())
	sched.Stop()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
