package cli

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/dlaporte/trailcache/internal/core/domain"
)

var rosterCmd = &cobra.Command{
	Use:   "roster",
	Short: "List cached scouts and adults",
	Long: `Prints the cached unit roster. Data is served from the local cache; run
"trailcache refresh" first if the cache is empty or stale.`,
	RunE: runRoster,
}

var rosterAdults bool

func init() {
	rosterCmd.Flags().BoolVar(&rosterAdults, "adults", false, "list adults instead of scouts")
	rootCmd.AddCommand(rosterCmd)
}

func runRoster(cmd *cobra.Command, _ []string) error {
	if cache == nil {
		return errors.New("cache not configured")
	}

	kind := domain.KindScouts
	if rosterAdults {
		kind = domain.KindAdults
	}

	snap := cache.Get(kind)
	if !snap.HasPayload() {
		cmd.Printf("No %s cached yet. Run \"trailcache refresh %s\" to fetch them.\n", kind, kind)
		return nil
	}

	if rosterAdults {
		adults, ok := snap.Payload.(domain.AdultsPayload)
		if !ok {
			return fmt.Errorf("unexpected payload type for %s", kind)
		}
		printAdults(cmd, adults)
	} else {
		scouts, ok := snap.Payload.(domain.ScoutsPayload)
		if !ok {
			return fmt.Errorf("unexpected payload type for %s", kind)
		}
		printScouts(cmd, scouts)
	}

	cmd.Printf("\nAs of %s.\n", snap.AgeDisplay(time.Now().UTC()))
	return nil
}

func printScouts(cmd *cobra.Command, scouts domain.ScoutsPayload) {
	sorted := append(domain.ScoutsPayload(nil), scouts...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].LastName != sorted[j].LastName {
			return sorted[i].LastName < sorted[j].LastName
		}
		return sorted[i].FirstName < sorted[j].FirstName
	})

	cmd.Printf("%-28s %-10s %s\n", "NAME", "RANK", "PATROL")
	for _, s := range sorted {
		cmd.Printf("%-28s %-10s %s\n", s.DisplayName(), s.Rank, s.Patrol)
	}
	cmd.Printf("%d scouts\n", len(sorted))
}

func printAdults(cmd *cobra.Command, adults domain.AdultsPayload) {
	sorted := append(domain.AdultsPayload(nil), adults...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].LastName != sorted[j].LastName {
			return sorted[i].LastName < sorted[j].LastName
		}
		return sorted[i].FirstName < sorted[j].FirstName
	})

	cmd.Printf("%-28s %-24s %s\n", "NAME", "POSITION", "EMAIL")
	for _, a := range sorted {
		cmd.Printf("%-28s %-24s %s\n", a.FirstName+" "+a.LastName, a.Position, a.Email)
	}
	cmd.Printf("%d adults\n", len(sorted))
}
