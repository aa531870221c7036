package forms

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/Dosada05/hackathon-portal/client"
	"github.com/Dosada05/hackathon-portal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var samplePDF = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\n%%EOF\n")

func fieldErrors(t *testing.T, err error) ValidationError {
	t.Helper()
	var verrs ValidationError
	require.True(t, errors.As(err, &verrs), "expected ValidationError, got %v", err)
	return verrs
}

func TestValidPassword(t *testing.T) {
	tests := []struct {
		password string
		want     bool
	}{
		{"Secret#123", true},
		{"secret#123", false},
		{"SECRET#123", false},
		{"Secret#abc", false},
		{"Secret1234", false},
		{"Se#1", false},
		{"Passw0rd(", true},
	}
	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidPassword(tt.password))
		})
	}
}

func TestSignUpForm(t *testing.T) {
	f := NewSignUpForm()
	f.Name, f.Email, f.Username, f.Password = "Alice", "alice@example.com", "alice", "weak"

	verrs := fieldErrors(t, f.Validate())
	assert.Equal(t, PasswordMessage, verrs["password"])

	f.Password = "Secret#123"
	require.NoError(t, f.Validate())
	assert.Empty(t, f.Request().Address)

	f.SetRole(session.RoleOrganizer)
	assert.Empty(t, f.Name, "switching role clears the form")
	assert.Equal(t, session.RoleOrganizer, f.Role)

	f.Name, f.Email, f.Username, f.Password = "Org", "org@example.com", "org", "Secret#123"
	verrs = fieldErrors(t, f.Validate())
	assert.Contains(t, verrs, "address")

	f.Address = "Main street 1"
	require.NoError(t, f.Validate())
	assert.Equal(t, "Main street 1", f.Request().Address)
}

func TestLoginForm_AdminToggleResetsFields(t *testing.T) {
	f := NewLoginForm()
	f.Username, f.Password = "alice", "pw"
	require.NoError(t, f.Validate())
	assert.Equal(t, client.LoginRequest{Username: "alice", Password: "pw", UserType: "student"}, f.Request())

	f.SetAdmin(true)
	assert.Empty(t, f.Username)
	assert.Empty(t, f.Password)
	verrs := fieldErrors(t, f.Validate())
	assert.Contains(t, verrs, "username")
	assert.Contains(t, verrs, "password")

	f.Username, f.Password = "root", "pw"
	assert.Equal(t, "admin", f.Request().UserType)
}

func TestHostForm(t *testing.T) {
	f := &HostForm{
		Type:     client.TypeTeam,
		Name:     " Spark ",
		Venue:    "Hall",
		Date:     "2025-04-10",
		RegStart: "2025-03-01",
		RegEnd:   "2025-04-11",
		Details:  "d",
		Duration: "24h",
		Prize:    "100",
	}
	verrs := fieldErrors(t, f.Validate())
	assert.Contains(t, verrs, "date")

	f.RegEnd = "2025-04-10"
	require.NoError(t, f.Validate())
	req := f.Request()
	assert.Equal(t, "Spark", req.Name)
	assert.True(t, req.IsTeamHackathon)

	f.Type = "Hybrid"
	verrs = fieldErrors(t, f.Validate())
	assert.Contains(t, verrs, "typeofhk")

	f.Reset()
	assert.Equal(t, HostForm{}, *f)
}

func TestCheckProposal(t *testing.T) {
	att, err := CheckProposal("dir/proposal.pdf", samplePDF)
	require.NoError(t, err)
	assert.Equal(t, "proposal.pdf", att.Filename)

	_, err = CheckProposal("fake.pdf", []byte("plain text pretending to be a pdf"))
	assert.ErrorIs(t, err, ErrNotPDF)

	big := append(append([]byte{}, samplePDF...), bytes.Repeat([]byte{' '}, MaxProposalSize)...)
	_, err = CheckProposal("big.pdf", big)
	assert.ErrorIs(t, err, ErrFileTooLarge)

	_, err = CheckProposal("empty.pdf", nil)
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestLoadProposal(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "p.pdf")
	require.NoError(t, os.WriteFile(good, samplePDF, 0o600))
	att, err := LoadProposal(good)
	require.NoError(t, err)
	assert.Equal(t, samplePDF, att.Data)

	big := filepath.Join(dir, "big.pdf")
	require.NoError(t, os.WriteFile(big, make([]byte, MaxProposalSize+1), 0o600))
	_, err = LoadProposal(big)
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func filledTeamForm() *TeamForm {
	f := NewTeamForm("h1", "s1", 0)
	f.TeamName, f.LeaderName, f.LeaderEmail = "Rockets", "Alice", "alice@example.com"
	f.SetDetails("2001-05-04", "5550001", "MCA", "yes")
	return f
}

func TestTeamForm_SubmissionHasExactlyNMembers(t *testing.T) {
	for n := 1; n <= DefaultMaxTeamMembers; n++ {
		f := filledTeamForm()
		require.NoError(t, f.SetTeamSize(n))
		for i := range f.Members {
			f.Members[i] = Member{Name: "M", Email: "m@example.com", DOB: "2002-01-01"}
		}
		require.NoError(t, f.AttachProposal("idea.pdf", samplePDF))
		require.NoError(t, f.Validate())

		req, att := f.Submission()
		assert.Len(t, req.Members, n)
		assert.True(t, req.IsTeam)
		require.NotNil(t, att)
		assert.Equal(t, "idea.pdf", att.Filename)
		for _, m := range req.Members {
			assert.NotEmpty(t, m.Name)
			assert.NotEmpty(t, m.Email)
			assert.NotEmpty(t, m.DOB)
		}
	}
}

func TestTeamForm_TeamSizeBounds(t *testing.T) {
	f := filledTeamForm()
	assert.Error(t, f.SetTeamSize(0))
	assert.Error(t, f.SetTeamSize(DefaultMaxTeamMembers+1))
	assert.Len(t, f.Members, 1, "failed resize keeps the slots")

	f = NewTeamForm("h1", "s1", 2)
	assert.Equal(t, 2, f.MaxMembers())
	assert.Error(t, f.SetTeamSize(3))
}

func TestTeamForm_BadAttachmentKeepsFields(t *testing.T) {
	f := filledTeamForm()
	f.Members[0] = Member{Name: "Bob", Email: "bob@example.com", DOB: "2002-01-01"}
	require.NoError(t, f.AttachProposal("p.pdf", samplePDF))
	teamName, members, prev := f.TeamName, append([]Member(nil), f.Members...), f.Proposal()

	err := f.AttachProposal("notes.pdf", []byte("hello"))
	verrs := fieldErrors(t, err)
	assert.Equal(t, ErrNotPDF.Error(), verrs["file"])
	assert.Equal(t, teamName, f.TeamName)
	assert.Equal(t, members, f.Members)
	assert.Same(t, prev, f.Proposal(), "previous attachment survives")
}

func TestTeamForm_ProposalIsRequired(t *testing.T) {
	f := filledTeamForm()
	f.Members[0] = Member{Name: "Bob", Email: "bob@example.com", DOB: "2002-01-01"}

	verrs := fieldErrors(t, f.Validate())
	assert.Equal(t, "Proposal PDF is required", verrs["file"])
	assert.Len(t, verrs, 1)

	require.NoError(t, f.AttachProposal("idea.pdf", samplePDF))
	assert.NoError(t, f.Validate())
}

func TestTeamForm_SmallerCapKeepsFilledSlots(t *testing.T) {
	f := filledTeamForm()
	require.NoError(t, f.AttachProposal("idea.pdf", samplePDF))
	require.NoError(t, f.SetTeamSize(4))
	for i := range f.Members {
		f.Members[i] = Member{Name: fmt.Sprintf("M%d", i), Email: "m@example.com", DOB: "2002-01-01"}
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		f.SetMaxMembers(2)
	}()
	<-done

	assert.Equal(t, 2, f.MaxMembers())
	require.Len(t, f.Members, 4, "slots typed before the cap arrived are kept")
	assert.Equal(t, "M3", f.Members[3].Name)

	verrs := fieldErrors(t, f.Validate())
	assert.Equal(t, "must be between 1 and 2", verrs["teamSize"])

	require.NoError(t, f.SetTeamSize(2))
	assert.NoError(t, f.Validate())
}

func TestTeamForm_MemberErrorsAreIndexed(t *testing.T) {
	f := filledTeamForm()
	f.Members[0] = Member{Name: "Bob", Email: "not-an-email", DOB: "2002-01-01"}
	verrs := fieldErrors(t, f.Validate())
	assert.Contains(t, verrs, "members[0].email")
}

func TestSoloForm(t *testing.T) {
	f := NewSoloForm("h1", "s1")
	verrs := fieldErrors(t, f.Validate())
	assert.Contains(t, verrs, "name")
	assert.Contains(t, verrs, "education")

	f.Name, f.Email = "Alice", "alice@example.com"
	f.SetDetails("2001-05-04", "5550001", "BTech", "no")
	require.NoError(t, f.Validate())
	req := f.Request()
	assert.False(t, req.IsTeam)
	assert.NotNil(t, req.Members)
	assert.Empty(t, req.Members)
}
