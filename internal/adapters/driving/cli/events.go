package cli

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/dlaporte/trailcache/internal/core/domain"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List cached calendar events",
	Long: `Prints upcoming events from the local cache with their RSVP tallies.
Use --all to include past events in the cached window.`,
	RunE: runEvents,
}

var eventsAll bool

func init() {
	eventsCmd.Flags().BoolVar(&eventsAll, "all", false, "include past events")
	rootCmd.AddCommand(eventsCmd)
}

func runEvents(cmd *cobra.Command, _ []string) error {
	if cache == nil {
		return errors.New("cache not configured")
	}

	snap := cache.Get(domain.KindEvents)
	if !snap.HasPayload() {
		cmd.Println("No events cached yet. Run \"trailcache refresh events\" to fetch them.")
		return nil
	}
	events, ok := snap.Payload.(domain.EventsPayload)
	if !ok {
		return fmt.Errorf("unexpected payload type for %s", domain.KindEvents)
	}

	now := time.Now().UTC()
	shown := make([]domain.Event, 0, len(events))
	for _, ev := range events {
		if !eventsAll && ev.StartsAt.Before(now) {
			continue
		}
		shown = append(shown, ev)
	}
	sort.Slice(shown, func(i, j int) bool {
		return shown[i].StartsAt.Before(shown[j].StartsAt)
	})

	if len(shown) == 0 {
		cmd.Println("No upcoming events.")
		return nil
	}

	for _, ev := range shown {
		cmd.Printf("%s  %s", ev.StartsAt.Local().Format("Mon Jan 2 15:04"), ev.Name)
		if ev.Location != "" {
			cmd.Printf(" @ %s", ev.Location)
		}
		cmd.Println()
		if ev.RSVPRequested {
			going, notGoing, noResponse := ev.RSVPTally()
			cmd.Printf("    RSVP: %d going, %d not going, %d no response\n",
				going, notGoing, noResponse)
		}
	}

	cmd.Printf("\n%d events. As of %s.\n", len(shown), snap.AgeDisplay(now))
	return nil
}
