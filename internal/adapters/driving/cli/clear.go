package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var clearCmd = &cobra.Command{
	Use:   "clear [domain...]",
	Short: "Drop cached data",
	Long: `Removes cached snapshots from memory and disk. With no arguments every
domain is cleared. Clearing does not touch stored credentials; use
"trailcache logout" for that.`,
	RunE: runClear,
}

func init() {
	rootCmd.AddCommand(clearCmd)
}

func runClear(cmd *cobra.Command, args []string) error {
	if cache == nil {
		return errors.New("cache not configured")
	}

	kinds, err := parseKinds(args)
	if err != nil {
		return err
	}
	if err := cache.Clear(cmd.Context(), kinds...); err != nil {
		return fmt.Errorf("clearing cache: %w", err)
	}

	if len(kinds) == 0 {
		cmd.Println("Cleared all cached data.")
	} else {
		cmd.Printf("Cleared %s.\n", kindList(kinds))
	}
	return nil
}
