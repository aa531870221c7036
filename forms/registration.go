package forms

import (
	"fmt"
	"strings"
	"sync"

	"github.com/Dosada05/hackathon-portal/client"
)

// DefaultMaxTeamMembers applies when the event does not set its own cap.
const DefaultMaxTeamMembers = 5

type Member struct {
	Name  string `form:"name" validate:"required"`
	Email string `form:"email" validate:"required,email"`
	DOB   string `form:"dob" validate:"required,day"`
}

// TeamForm is the team registration screen. The proposal PDF is required.
type TeamForm struct {
	HackathonID     string   `form:"hackathonId" validate:"required"`
	StudentID       string   `form:"studentId" validate:"required"`
	TeamName        string   `form:"teamName" validate:"required"`
	LeaderName      string   `form:"leaderName" validate:"required"`
	LeaderEmail     string   `form:"leaderEmail" validate:"required,email"`
	DateOfBirth     string   `form:"datebirth" validate:"required,day"`
	Phone           string   `form:"phone" validate:"required"`
	Education       string   `form:"education" validate:"required,oneof=MCA BCA BSC BTech"`
	HasParticipated string   `form:"hasParticipated" validate:"required,oneof=yes no"`
	Members         []Member `form:"members" validate:"dive"`

	// mu guards maxMembers and the slot list: the cap arrives from a background fetch.
	mu         sync.Mutex
	maxMembers int
	proposal   *client.Attachment
}

// NewTeamForm starts with one member slot, like the team size selector.
func NewTeamForm(hackathonID, studentID string, maxMembers int) *TeamForm {
	if maxMembers <= 0 {
		maxMembers = DefaultMaxTeamMembers
	}
	return &TeamForm{
		HackathonID: hackathonID,
		StudentID:   studentID,
		Members:     make([]Member, 1),
		maxMembers:  maxMembers,
	}
}

func (f *TeamForm) MaxMembers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.maxMembers
}

// SetMaxMembers applies the event's cap once it is known. Only the bounds change:
// filled slots are kept, an oversized team is reported by Validate.
func (f *TeamForm) SetMaxMembers(n int) {
	if n <= 0 {
		n = DefaultMaxTeamMembers
	}
	f.mu.Lock()
	f.maxMembers = n
	f.mu.Unlock()
}

// SetTeamSize resizes the member list to n blank slots.
func (f *TeamForm) SetTeamSize(n int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if n < 1 || n > f.maxMembers {
		return ValidationError{"teamSize": fmt.Sprintf("must be between 1 and %d", f.maxMembers)}
	}
	f.Members = make([]Member, n)
	return nil
}

func (f *TeamForm) SetDetails(dob, phone, education, hasParticipated string) {
	f.DateOfBirth = dob
	f.Phone = phone
	f.Education = education
	f.HasParticipated = hasParticipated
}

// AttachProposal replaces the current attachment only if the new file passes.
// On failure the previous attachment and all fields stay as they were.
func (f *TeamForm) AttachProposal(name string, data []byte) error {
	att, err := CheckProposal(name, data)
	if err != nil {
		return ValidationError{"file": err.Error()}
	}
	f.proposal = att
	return nil
}

// AttachProposalFile is AttachProposal for a file on disk.
func (f *TeamForm) AttachProposalFile(path string) error {
	att, err := LoadProposal(path)
	if err != nil {
		return ValidationError{"file": err.Error()}
	}
	f.proposal = att
	return nil
}

func (f *TeamForm) Proposal() *client.Attachment { return f.proposal }

func (f *TeamForm) Validate() error {
	f.TeamName = strings.TrimSpace(f.TeamName)
	f.LeaderName = strings.TrimSpace(f.LeaderName)
	f.LeaderEmail = strings.TrimSpace(f.LeaderEmail)

	verrs := check(f)
	f.mu.Lock()
	if len(f.Members) < 1 || len(f.Members) > f.maxMembers {
		verrs = merge(verrs, ValidationError{"teamSize": fmt.Sprintf("must be between 1 and %d", f.maxMembers)})
	}
	f.mu.Unlock()
	if f.proposal == nil {
		verrs = merge(verrs, ValidationError{"file": "Proposal PDF is required"})
	}
	return asError(verrs)
}

// Submission returns exactly one member record per slot, plus the attachment.
func (f *TeamForm) Submission() (client.RegistrationRequest, *client.Attachment) {
	f.mu.Lock()
	members := make([]client.TeamMember, len(f.Members))
	for i, m := range f.Members {
		members[i] = client.TeamMember{
			Name:  strings.TrimSpace(m.Name),
			Email: strings.TrimSpace(m.Email),
			DOB:   strings.TrimSpace(m.DOB),
		}
	}
	f.mu.Unlock()
	return client.RegistrationRequest{
		HackathonID:     f.HackathonID,
		StudentID:       f.StudentID,
		IsTeam:          true,
		TeamName:        f.TeamName,
		LeaderName:      f.LeaderName,
		LeaderEmail:     f.LeaderEmail,
		DateOfBirth:     f.DateOfBirth,
		Phone:           f.Phone,
		Education:       f.Education,
		HasParticipated: f.HasParticipated,
		Members:         members,
	}, f.proposal
}

// SoloForm is the virtual (solo) registration screen; it is sent as JSON.
type SoloForm struct {
	HackathonID     string `form:"hackathonId" validate:"required"`
	StudentID       string `form:"studentId" validate:"required"`
	Name            string `form:"name" validate:"required"`
	Email           string `form:"email" validate:"required,email"`
	DateOfBirth     string `form:"datebirth" validate:"required,day"`
	Phone           string `form:"phone" validate:"required"`
	Education       string `form:"education" validate:"required,oneof=MCA BCA BSC BTech"`
	HasParticipated string `form:"hasParticipated" validate:"required,oneof=yes no"`
}

func NewSoloForm(hackathonID, studentID string) *SoloForm {
	return &SoloForm{HackathonID: hackathonID, StudentID: studentID}
}

func (f *SoloForm) SetDetails(dob, phone, education, hasParticipated string) {
	f.DateOfBirth = dob
	f.Phone = phone
	f.Education = education
	f.HasParticipated = hasParticipated
}

func (f *SoloForm) Validate() error {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
	return asError(check(f))
}

func (f *SoloForm) Request() client.RegistrationRequest {
	return client.RegistrationRequest{
		HackathonID:     f.HackathonID,
		StudentID:       f.StudentID,
		Name:            f.Name,
		Email:           f.Email,
		DateOfBirth:     f.DateOfBirth,
		Phone:           f.Phone,
		Education:       f.Education,
		HasParticipated: f.HasParticipated,
		Members:         []client.TeamMember{},
	}
}
