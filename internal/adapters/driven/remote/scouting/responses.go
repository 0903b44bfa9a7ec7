package scouting

import (
	"time"

	"github.com/dlaporte/trailcache/internal/core/domain"
)

// Wire types mirror the remote API's JSON shapes. Most fields are optional
// on the wire; normalisation fills the domain records from whatever is
// present.

type authResponse struct {
	Token      string `json:"token"`
	PersonGUID string `json:"personGuid"`
	Account    struct {
		UserID int64 `json:"userId"`
	} `json:"account"`
}

type unitYouthsResponse struct {
	ID       int64       `json:"id"`
	FullName string      `json:"fullName"`
	Users    []wireYouth `json:"users"`
}

type wireYouth struct {
	UserID      int64  `json:"userId"`
	MemberID    int64  `json:"memberId"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	NickName    string `json:"nickName"`
	DateOfBirth string `json:"dateOfBirth"`
	Age         int    `json:"age"`
	Grade       int    `json:"grade"`
	Email       string `json:"email"`
	MobilePhone string `json:"mobilePhone"`

	Positions []struct {
		Position   string `json:"position"`
		PatrolName string `json:"patrolName"`
	} `json:"positions"`

	HighestRanksAwarded []struct {
		Name string `json:"name"`
	} `json:"highestRanksAwarded"`
}

func (w *wireYouth) normalise() domain.Scout {
	s := domain.Scout{
		UserID:      w.UserID,
		MemberID:    w.MemberID,
		FirstName:   w.FirstName,
		LastName:    w.LastName,
		NickName:    w.NickName,
		DateOfBirth: w.DateOfBirth,
		Age:         w.Age,
		Grade:       w.Grade,
		Email:       w.Email,
		Phone:       w.MobilePhone,
	}
	for _, p := range w.Positions {
		if s.Patrol == "" && p.PatrolName != "" {
			s.Patrol = p.PatrolName
		}
		if s.Position == "" && p.Position != "" {
			s.Position = p.Position
		}
	}
	if len(w.HighestRanksAwarded) > 0 {
		s.Rank = w.HighestRanksAwarded[0].Name
	}
	return s
}

type orgAdultsResponse struct {
	Members []wireAdult `json:"members"`
}

type wireAdult struct {
	UserID      int64  `json:"userId"`
	MemberID    int64  `json:"memberId"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	MobilePhone string `json:"mobilePhone"`

	Positions []struct {
		Position string `json:"position"`
	} `json:"positions"`
}

func (w *wireAdult) normalise() domain.Adult {
	a := domain.Adult{
		UserID:    w.UserID,
		MemberID:  w.MemberID,
		FirstName: w.FirstName,
		LastName:  w.LastName,
		Email:     w.Email,
		Phone:     w.MobilePhone,
	}
	if len(w.Positions) > 0 {
		a.Position = w.Positions[0].Position
	}
	return a
}

type wireEvent struct {
	ID           int64         `json:"id"`
	Name         string        `json:"name"`
	StartDate    string        `json:"startDate"`
	EndDate      string        `json:"endDate"`
	Location     string        `json:"location"`
	EventType    string        `json:"eventType"`
	RSVP         bool          `json:"rsvp"`
	InvitedUsers []wireInvitee `json:"invitedUsers"`
}

type wireInvitee struct {
	UserID    int64  `json:"userId"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	RSVP      string `json:"rsvp"`
	RSVPCode  string `json:"rsvpCode"`
	Attended  bool   `json:"attended"`
	IsAdult   bool   `json:"isAdult"`
}

// eventDateLayouts are the timestamp formats the remote has been seen to use.
var eventDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseEventDate(s string) time.Time {
	for _, layout := range eventDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func (w *wireEvent) normalise() domain.Event {
	e := domain.Event{
		ID:            w.ID,
		Name:          w.Name,
		Location:      w.Location,
		Type:          w.EventType,
		StartsAt:      parseEventDate(w.StartDate),
		EndsAt:        parseEventDate(w.EndDate),
		RSVPRequested: w.RSVP,
	}
	for _, u := range w.InvitedUsers {
		e.Invitees = append(e.Invitees, domain.Invitee{
			UserID:    u.UserID,
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Adult:     u.IsAdult,
			Status:    domain.ParseRSVP(u.RSVPCode, u.RSVP),
			Attended:  u.Attended,
		})
	}
	return e
}

type wireRank struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Percent   int    `json:"percentCompleted"`
	Awarded   bool   `json:"awarded"`
	AwardedOn string `json:"dateAwarded"`
}

func (w *wireRank) normalise() domain.RankProgress {
	return domain.RankProgress{
		RankID:    w.ID,
		Name:      w.Name,
		Percent:   w.Percent,
		Awarded:   w.Awarded,
		AwardedOn: w.AwardedOn,
	}
}

type wireBadge struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Percent       int    `json:"percentCompleted"`
	EagleRequired bool   `json:"eagleRequired"`
	Completed     bool   `json:"completed"`
}

func (w *wireBadge) normalise() domain.BadgeProgress {
	return domain.BadgeProgress{
		BadgeID:       w.ID,
		Name:          w.Name,
		Percent:       w.Percent,
		EagleRequired: w.EagleRequired,
		Completed:     w.Completed,
	}
}

type orgProfileResponse struct {
	OrganizationGUID     string `json:"organizationGuid"`
	OrganizationFullName string `json:"organizationFullName"`
	UnitType             string `json:"unitType"`
	CharterOrgName       string `json:"charterOrgName"`
	DistrictName         string `json:"districtName"`
	CouncilName          string `json:"councilName"`
	MeetingLocation      string `json:"meetingLocation"`
}

type key3Response struct {
	Leaders []struct {
		Position string `json:"position"`
		FullName string `json:"fullName"`
		Email    string `json:"email"`
		Phone    string `json:"phone"`
	} `json:"key3"`
}
