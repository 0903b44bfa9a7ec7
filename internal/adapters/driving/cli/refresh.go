package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dlaporte/trailcache/internal/core/domain"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh [domain...]",
	Short: "Fetch fresh data from Scouting.org",
	Long: `Dispatches background fetches for the named domains (scouts, adults,
events, ranks, badges, unit) and waits for them to finish. With no
arguments, every domain is refreshed.

Domains that are already refreshing are skipped; their in-flight fetch is
the one you will observe. A domain that fails keeps serving its previous
data, marked stale.`,
	RunE: runRefresh,
}

func init() {
	rootCmd.AddCommand(refreshCmd)
}

func runRefresh(cmd *cobra.Command, args []string) error {
	if cache == nil {
		return errors.New("cache not configured")
	}

	kinds, err := parseKinds(args)
	if err != nil {
		return err
	}

	job := cache.RequestRefresh(cmd.Context(), kinds...)
	if len(job.Skipped()) > 0 {
		cmd.Printf("Skipped (already refreshing): %s\n", kindList(job.Skipped()))
	}
	if len(job.Dispatched()) == 0 {
		return nil
	}

	cmd.Printf("Refreshing %s...\n", kindList(job.Dispatched()))
	if err := job.Wait(cmd.Context()); err != nil {
		return fmt.Errorf("waiting for refresh: %w", err)
	}

	var failed int
	for _, kind := range job.Dispatched() {
		res, ok := job.Outcome(kind)
		if !ok {
			continue
		}
		if res.Outcome.OK() {
			cmd.Printf("  %-7s %d records\n", kind.DisplayName(), res.Outcome.Payload.Len())
		} else {
			failed++
			cmd.Printf("  %-7s FAILED: %s\n", kind.DisplayName(), res.Outcome.Failure)
		}
	}
	if failed > 0 {
		cmd.Printf("%d of %d domains failed; cached data is still served.\n",
			failed, len(job.Dispatched()))
	}
	return nil
}

// parseKinds converts command arguments into domain kinds.
func parseKinds(args []string) ([]domain.Kind, error) {
	kinds := make([]domain.Kind, 0, len(args))
	for _, arg := range args {
		k, err := domain.ParseKind(arg)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}

func kindList(kinds []domain.Kind) string {
	s := ""
	for i, k := range kinds {
		if i > 0 {
			s += ", "
		}
		s += string(k)
	}
	return s
}
