package domain

import (
	"fmt"
	"strings"
)

// Kind identifies one category of cached troop data.
// The set is closed: every snapshot, fetch and merge targets exactly one Kind.
type Kind string

const (
	// KindScouts is the youth roster.
	KindScouts Kind = "scouts"
	// KindAdults is the adult leader roster.
	KindAdults Kind = "adults"
	// KindEvents is the unit calendar.
	KindEvents Kind = "events"
	// KindRanks is per-scout rank advancement progress.
	KindRanks Kind = "ranks"
	// KindBadges is per-scout merit badge progress.
	KindBadges Kind = "badges"
	// KindUnit is unit profile and leadership information.
	KindUnit Kind = "unit"
)

// Kinds lists every Kind in display order.
// Callers must not mutate the returned slice.
func Kinds() []Kind {
	return []Kind{KindScouts, KindAdults, KindEvents, KindRanks, KindBadges, KindUnit}
}

// ParseKind converts a user-supplied name into a Kind.
// Matching is case-insensitive. Returns ErrUnknownKind for anything
// outside the closed set.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	switch k {
	case KindScouts, KindAdults, KindEvents, KindRanks, KindBadges, KindUnit:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Valid reports whether k is a member of the closed set.
func (k Kind) Valid() bool {
	_, err := ParseKind(string(k))
	return err == nil
}

// DisplayName returns the human-readable name for the kind.
func (k Kind) DisplayName() string {
	switch k {
	case KindScouts:
		return "Scouts"
	case KindAdults:
		return "Adults"
	case KindEvents:
		return "Events"
	case KindRanks:
		return "Ranks"
	case KindBadges:
		return "Badges"
	case KindUnit:
		return "Unit"
	default:
		return string(k)
	}
}
