package client

import "time"

const (
	TypeTeam = "Team Hackathon (offline)"
	TypeSolo = "Virtual Solo Hackathon (online)"
)

// Значения параметра type для списков.
const (
	ListUpcoming          = "upcoming"
	ListParticipated      = "participated"
	ListConducted         = "conducted"
	ListOrganizerUpcoming = "upcomin"
)

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	UserType string `json:"userType,omitempty"`
}

type LoginResponse struct {
	Success     bool   `json:"success"`
	Token       string `json:"token"`
	StudentID   string `json:"studentId,omitempty"`
	OrganizerID string `json:"organizerId,omitempty"`
	Role        string `json:"role,omitempty"`
	Message     string `json:"message"`
}

type SignUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
	UserType string `json:"userType"`
	Address  string `json:"address,omitempty"`
}

type User struct {
	ID       string `json:"_id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Address  string `json:"address,omitempty"`
	Role     string `json:"role"`
}

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

type AdminHackathon struct {
	ID        string        `json:"_id"`
	Name      string        `json:"name"`
	Date      time.Time     `json:"date"`
	Status    string        `json:"status"`
	Organizer *OrganizerRef `json:"organizer,omitempty"`
}

type Hackathon struct {
	ID             string    `json:"_id"`
	Name           string    `json:"ename"`
	Type           string    `json:"typeofhk"`
	IsTeam         bool      `json:"isTeamHackathon"`
	Venue          string    `json:"venue"`
	Date           time.Time `json:"date"`
	RegStart       time.Time `json:"regstart"`
	RegEnd         time.Time `json:"regend"`
	Details        string    `json:"details"`
	Duration       string    `json:"durofhk"`
	Prize          string    `json:"prize"`
	MaxTeamMembers int       `json:"maxTeamMembers"`
	Requirements   string    `json:"requirements,omitempty"`
	OrganizerID    string    `json:"organizerId"`
	OrganizerName  string    `json:"orgname,omitempty"`
	Status         string    `json:"status"`
}

// HostRequest is the host-event form as the backend expects it. Dates are
// sent as entered (YYYY-MM-DD).
type HostRequest struct {
	Type            string `json:"typeofhk"`
	Name            string `json:"ename"`
	Venue           string `json:"venue"`
	Date            string `json:"date"`
	RegStart        string `json:"regstart"`
	RegEnd          string `json:"regend"`
	Details         string `json:"details"`
	Duration        string `json:"durofhk"`
	Prize           string `json:"prize"`
	IsTeamHackathon bool   `json:"isTeamHackathon"`
	MaxTeamMembers  int    `json:"maxTeamMembers,omitempty"`
}

type TeamMember struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	DOB   string `json:"dob"`
}

type ProposalDocument struct {
	URL          string `json:"url"`
	PublicID     string `json:"publicId"`
	OriginalName string `json:"originalName"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
}

type Registration struct {
	ID              string            `json:"_id"`
	HackathonID     string            `json:"hackathonId"`
	StudentID       string            `json:"studentId"`
	IsTeam          bool              `json:"isTeam"`
	TeamName        string            `json:"teamName,omitempty"`
	Name            string            `json:"name,omitempty"`
	Email           string            `json:"email,omitempty"`
	LeaderName      string            `json:"leaderName,omitempty"`
	LeaderEmail     string            `json:"leaderEmail,omitempty"`
	DateOfBirth     string            `json:"datebirth"`
	Phone           string            `json:"phone"`
	Education       string            `json:"education"`
	HasParticipated string            `json:"hasParticipated"`
	Members         []TeamMember      `json:"members"`
	Proposal        *ProposalDocument `json:"proposal,omitempty"`
	Status          string            `json:"status"`
	RegisteredAt    time.Time         `json:"registrationDate"`
}

// Contact returns the leader for team entries and the participant otherwise.
func (r Registration) Contact() (name, email string) {
	if r.IsTeam {
		return r.LeaderName, r.LeaderEmail
	}
	return r.Name, r.Email
}

type HackathonRef struct {
	ID   string `json:"_id"`
	Name string `json:"ename"`
}

// ProposalView is a registration whose hackathonId comes populated.
type ProposalView struct {
	Registration
	Hackathon HackathonRef `json:"hackathonId"`
}

type StudentEvent struct {
	HackathonID       string    `json:"_id"`
	RegistrationID    string    `json:"registrationId"`
	Name              string    `json:"ename"`
	Type              string    `json:"typeofhk"`
	Venue             string    `json:"venue"`
	Date              time.Time `json:"date"`
	Prize             string    `json:"prize"`
	Status            string    `json:"status"`
	IsRegisteredEvent bool      `json:"isRegisteredEvent"`
}

// RegistrationRequest carries both form variants; solo fills Name and Email,
// team fills the leader fields, TeamName and Members.
type RegistrationRequest struct {
	HackathonID     string       `json:"hackathonId"`
	StudentID       string       `json:"studentId"`
	IsTeam          bool         `json:"isTeam"`
	TeamName        string       `json:"teamName,omitempty"`
	Name            string       `json:"name,omitempty"`
	Email           string       `json:"email,omitempty"`
	LeaderName      string       `json:"leaderName,omitempty"`
	LeaderEmail     string       `json:"leaderEmail,omitempty"`
	DateOfBirth     string       `json:"datebirth"`
	Phone           string       `json:"phone"`
	Education       string       `json:"education"`
	HasParticipated string       `json:"hasParticipated"`
	Members         []TeamMember `json:"members"`
}

// Attachment is a proposal file already checked by the form.
type Attachment struct {
	Filename string
	Data     []byte
}

type Report struct {
	Filename string
	Content  []byte
}
