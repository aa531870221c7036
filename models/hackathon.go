package models

import "time"

// HackathonType mirrors the labels the organizer picks when hosting an event.
type HackathonType string

const (
	TypeTeam HackathonType = "Team Hackathon (offline)"
	TypeSolo HackathonType = "Virtual Solo Hackathon (online)"
)

func (t HackathonType) Valid() bool {
	return t == TypeTeam || t == TypeSolo
}

// HackathonStatus is derived from the event date, never stored by hand.
type HackathonStatus string

const (
	StatusUpcoming  HackathonStatus = "upcoming"
	StatusConducted HackathonStatus = "conducted"
)

// DefaultMaxTeamMembers counts members besides the team leader.
const DefaultMaxTeamMembers = 5

type Hackathon struct {
	ID             string          `json:"_id"`
	Name           string          `json:"ename"`
	Type           HackathonType   `json:"typeofhk"`
	IsTeam         bool            `json:"isTeamHackathon"`
	Venue          string          `json:"venue"`
	Date           time.Time       `json:"date"`
	RegStart       time.Time       `json:"regstart"`
	RegEnd         time.Time       `json:"regend"`
	Details        string          `json:"details"`
	Duration       string          `json:"durofhk"`
	Prize          string          `json:"prize"`
	MaxTeamMembers int             `json:"maxTeamMembers"`
	Requirements   *string         `json:"requirements,omitempty"`
	OrganizerID    string          `json:"organizerId"`
	OrganizerName  string          `json:"orgname,omitempty"`
	Status         HackathonStatus `json:"status"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// StatusAt reports whether the event still lies ahead of now. Comparison is
// by calendar day, so an event happening today is still upcoming.
func (h *Hackathon) StatusAt(now time.Time) HackathonStatus {
	if StartOfDay(h.Date).Before(StartOfDay(now)) {
		return StatusConducted
	}
	return StatusUpcoming
}

// RegistrationOpenAt reports whether now falls inside [regstart, regend],
// both ends inclusive by whole day.
func (h *Hackathon) RegistrationOpenAt(now time.Time) bool {
	day := StartOfDay(now)
	if !h.RegStart.IsZero() && day.Before(StartOfDay(h.RegStart)) {
		return false
	}
	if !h.RegEnd.IsZero() && day.After(StartOfDay(h.RegEnd)) {
		return false
	}
	return true
}

func StartOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

type HackathonFilter struct {
	OrganizerID *string
	Query       string
}
