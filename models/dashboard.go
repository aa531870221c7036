package models

import "time"

type UserCounts struct {
	StudentCount   int `json:"studentCount"`
	OrganizerCount int `json:"organizerCount"`
}

type EventCounts struct {
	UpcomingCount  int `json:"upcomingCount"`
	ConductedCount int `json:"conductedCount"`
}

type OrganizerRef struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

// AdminHackathon is the admin events tab row.
type AdminHackathon struct {
	ID        string          `json:"_id"`
	Name      string          `json:"name"`
	Date      time.Time       `json:"date"`
	Status    HackathonStatus `json:"status"`
	Organizer *OrganizerRef   `json:"organizer,omitempty"`
}
