package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/dlaporte/trailcache/internal/core/domain"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show cache freshness per domain",
	Long: `Prints one row per domain: its state, how old the cached data is, and
the most recent fetch failure if any.`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if cache == nil {
		return errors.New("cache not configured")
	}

	cmd.Printf("%-8s %-11s %-12s %s\n", "DOMAIN", "STATE", "AGE", "LAST ERROR")
	for _, kind := range domain.Kinds() {
		f := cache.Freshness(kind)
		cmd.Printf("%-8s %-11s %-12s %s\n", f.Kind, f.State, f.Age, f.LastError)
	}
	return nil
}
