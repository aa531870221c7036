package models

import "time"

type RegistrationStatus string

const (
	RegistrationPending  RegistrationStatus = "pending"
	RegistrationApproved RegistrationStatus = "approved"
	RegistrationRejected RegistrationStatus = "rejected"
)

type TeamMember struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	DOB   string `json:"dob" validate:"required"`
}

// ProposalDocument points at the uploaded PDF; the file itself lives in the
// object store.
type ProposalDocument struct {
	URL          string `json:"url"`
	PublicID     string `json:"publicId"`
	OriginalName string `json:"originalName"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
}

type Registration struct {
	ID              string             `json:"_id"`
	HackathonID     string             `json:"hackathonId"`
	StudentID       string             `json:"studentId"`
	IsTeam          bool               `json:"isTeam"`
	TeamName        string             `json:"teamName,omitempty"`
	Name            string             `json:"name,omitempty"`
	Email           string             `json:"email,omitempty"`
	LeaderName      string             `json:"leaderName,omitempty"`
	LeaderEmail     string             `json:"leaderEmail,omitempty"`
	DateOfBirth     string             `json:"datebirth"`
	Phone           string             `json:"phone"`
	Education       string             `json:"education"`
	HasParticipated string             `json:"hasParticipated"`
	Members         []TeamMember       `json:"members"`
	Proposal        *ProposalDocument  `json:"proposal,omitempty"`
	Status          RegistrationStatus `json:"status"`
	RegisteredAt    time.Time          `json:"registrationDate"`
}

// ContactName is the leader for team entries and the participant otherwise.
func (r *Registration) ContactName() string {
	if r.IsTeam {
		return r.LeaderName
	}
	return r.Name
}

func (r *Registration) ContactEmail() string {
	if r.IsTeam {
		return r.LeaderEmail
	}
	return r.Email
}

type HackathonRef struct {
	ID   string `json:"_id"`
	Name string `json:"ename"`
}

// ProposalView is a registration with its hackathon populated, as the review
// screens expect.
type ProposalView struct {
	Registration
	Hackathon HackathonRef `json:"hackathonId"`
}

// StudentEvent is one row of a student's upcoming or participated list.
type StudentEvent struct {
	HackathonID       string             `json:"_id"`
	RegistrationID    string             `json:"registrationId"`
	Name              string             `json:"ename"`
	Type              HackathonType      `json:"typeofhk"`
	Venue             string             `json:"venue"`
	Date              time.Time          `json:"date"`
	Prize             string             `json:"prize"`
	Status            RegistrationStatus `json:"status"`
	IsRegisteredEvent bool               `json:"isRegisteredEvent"`
}
