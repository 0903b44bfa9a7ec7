package domain

import (
	"strings"
	"time"
)

// Scout is one youth member of the unit.
type Scout struct {
	// UserID is the remote user identifier.
	UserID int64 `json:"userId"`

	// MemberID is the BSA member number.
	MemberID int64 `json:"memberId,omitempty"`

	// FirstName and LastName are always present; NickName may be empty.
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	NickName  string `json:"nickName,omitempty"`

	// DateOfBirth is the ISO date string as reported by the remote, may be empty.
	DateOfBirth string `json:"dateOfBirth,omitempty"`

	Age   int `json:"age,omitempty"`
	Grade int `json:"grade,omitempty"`

	// Patrol is the patrol the scout currently belongs to, if any.
	Patrol string `json:"patrol,omitempty"`

	// Position is the scout's leadership position, if any.
	Position string `json:"position,omitempty"`

	// Rank is the highest rank awarded, if any.
	Rank string `json:"rank,omitempty"`

	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// DisplayName returns the preferred name for rosters: nickname when set,
// otherwise the first name, followed by the last name.
func (s *Scout) DisplayName() string {
	first := s.FirstName
	if s.NickName != "" {
		first = s.NickName
	}
	return first + " " + s.LastName
}

// Adult is one adult leader or committee member.
type Adult struct {
	UserID    int64  `json:"userId"`
	MemberID  int64  `json:"memberId,omitempty"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`

	// Position is the registered adult position (e.g. "Scoutmaster").
	Position string `json:"position,omitempty"`

	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// DisplayName returns "First Last".
func (a *Adult) DisplayName() string {
	return a.FirstName + " " + a.LastName
}

// RSVPStatus is a member's response to an event invitation.
type RSVPStatus string

const (
	RSVPGoing      RSVPStatus = "going"
	RSVPNotGoing   RSVPStatus = "not going"
	RSVPNoResponse RSVPStatus = "no response"
)

// ParseRSVP maps the remote's rsvp code and free-form rsvp field onto
// a status. The code takes precedence; "y"/"yes" and "n"/"no" are
// accepted in any case. Anything unrecognised is no-response.
func ParseRSVP(code, rsvp string) RSVPStatus {
	for _, v := range []string{code, rsvp} {
		switch {
		case strings.EqualFold(v, "y") || strings.EqualFold(v, "yes"):
			return RSVPGoing
		case strings.EqualFold(v, "n") || strings.EqualFold(v, "no"):
			return RSVPNotGoing
		}
	}
	return RSVPNoResponse
}

// Event is one calendar entry with its invitation tally.
type Event struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location,omitempty"`
	Type     string `json:"eventType,omitempty"`

	StartsAt time.Time `json:"startsAt"`
	EndsAt   time.Time `json:"endsAt,omitempty"`

	// RSVPRequested indicates invitees are expected to respond.
	RSVPRequested bool `json:"rsvpRequested,omitempty"`

	Invitees []Invitee `json:"invitees,omitempty"`
}

// Invitee is one invited member and their RSVP state.
type Invitee struct {
	UserID    int64      `json:"userId"`
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName"`
	Adult     bool       `json:"adult,omitempty"`
	Status    RSVPStatus `json:"status"`
	Attended  bool       `json:"attended,omitempty"`
}

// RSVPTally counts going / not going / no response across invitees.
func (e *Event) RSVPTally() (going, notGoing, noResponse int) {
	for _, inv := range e.Invitees {
		switch inv.Status {
		case RSVPGoing:
			going++
		case RSVPNotGoing:
			notGoing++
		default:
			noResponse++
		}
	}
	return going, notGoing, noResponse
}

// RankProgress is one rank's completion state for a scout.
type RankProgress struct {
	RankID    int64  `json:"rankId"`
	Name      string `json:"name"`
	Percent   int    `json:"percent"`
	Awarded   bool   `json:"awarded,omitempty"`
	AwardedOn string `json:"awardedOn,omitempty"`
}

// ScoutRanks groups rank progress by scout.
type ScoutRanks struct {
	UserID    int64          `json:"userId"`
	ScoutName string         `json:"scoutName"`
	Ranks     []RankProgress `json:"ranks"`
}

// BadgeProgress is one merit badge's completion state for a scout.
type BadgeProgress struct {
	BadgeID       int64  `json:"badgeId"`
	Name          string `json:"name"`
	Percent       int    `json:"percent"`
	EagleRequired bool   `json:"eagleRequired,omitempty"`
	Completed     bool   `json:"completed,omitempty"`
}

// ScoutBadges groups merit badge progress by scout.
type ScoutBadges struct {
	UserID    int64           `json:"userId"`
	ScoutName string          `json:"scoutName"`
	Badges    []BadgeProgress `json:"badges"`
}

// Leader is one Key 3 leadership position holder.
type Leader struct {
	Position string `json:"position"`
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

// UnitProfile is the unit's charter and leadership information.
type UnitProfile struct {
	// GUID is the remote organization identifier.
	GUID string `json:"guid"`

	// Name is the full unit name (e.g. "Troop 42").
	Name string `json:"name"`

	UnitType        string `json:"unitType,omitempty"`
	CharterOrg      string `json:"charterOrg,omitempty"`
	District        string `json:"district,omitempty"`
	Council         string `json:"council,omitempty"`
	MeetingLocation string `json:"meetingLocation,omitempty"`

	// Key3 holds the unit's Key 3 leaders (SM, CC, COR).
	Key3 []Leader `json:"key3,omitempty"`
}
