package services

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Dosada05/hackathon-portal/live"
	"github.com/Dosada05/hackathon-portal/models"
	"github.com/Dosada05/hackathon-portal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistrationService_Solo(t *testing.T) {
	f := newFixture(t)
	hub := &recordingHub{}
	svc := newRegistrationService(f, hub)
	ctx := context.Background()
	alice := f.actor(f.student)

	reg, err := svc.Register(ctx, alice, soloInput(f.solo.ID), nil)
	require.NoError(t, err)
	assert.Equal(t, models.RegistrationPending, reg.Status)
	assert.False(t, reg.IsTeam)
	assert.Equal(t, f.student.ID, reg.StudentID)

	require.Len(t, hub.messages, 1)
	assert.Equal(t, live.MessageRegistrationCreated, hub.messages[0].Type)
	assert.Equal(t, live.RoomForHackathon(f.solo.ID), hub.rooms[0])

	registered, err := svc.IsRegistered(ctx, f.student.ID, f.solo.ID)
	require.NoError(t, err)
	assert.True(t, registered)

	registered, err = svc.IsRegistered(ctx, f.student2.ID, f.solo.ID)
	require.NoError(t, err)
	assert.False(t, registered)

	_, err = svc.Register(ctx, alice, soloInput(f.solo.ID), nil)
	assert.ErrorIs(t, err, ErrRegistrationConflict)
}

func TestRegistrationService_Rules(t *testing.T) {
	f := newFixture(t)
	svc := newRegistrationService(f, nil)
	ctx := context.Background()
	alice := f.actor(f.student)

	withMembers := soloInput(f.solo.ID)
	withMembers.Members = []models.TeamMember{{Name: "x", Email: "x@example.com", DOB: "2000-01-01"}}

	noName := soloInput(f.solo.ID)
	noName.Name = ""

	badEducation := soloInput(f.solo.ID)
	badEducation.Education = "PhD"

	otherStudent := soloInput(f.solo.ID)
	otherStudent.StudentID = f.student2.ID

	noTeamName := teamInput(f.team.ID, 2)
	noTeamName.TeamName = ""

	tests := []struct {
		name    string
		actor   Actor
		input   RegistrationInput
		wantErr error
	}{
		{"window closed", alice, soloInput(f.closed.ID), ErrRegistrationClosed},
		{"event already over", alice, soloInput(f.past.ID), ErrRegistrationClosed},
		{"unknown hackathon", alice, soloInput("missing"), ErrHackathonNotFound},
		{"solo with members", alice, withMembers, ErrSoloMembersNotAllowed},
		{"solo without name", alice, noName, ErrValidationFailed},
		{"bad education", alice, badEducation, ErrValidationFailed},
		{"team form on solo event", alice, teamInput(f.solo.ID, 1), ErrRegistrationMismatch},
		{"solo form on team event", alice, soloInput(f.team.ID), ErrRegistrationMismatch},
		{"team without members", alice, teamInput(f.team.ID, 0), ErrTeamSizeInvalid},
		{"team above max", alice, teamInput(f.team.ID, 4), ErrTeamSizeInvalid},
		{"team without name", alice, noTeamName, ErrValidationFailed},
		{"registering someone else", alice, otherStudent, ErrForbiddenOperation},
		{"organizer cannot register", f.actor(f.organizer), soloInput(f.solo.ID), ErrForbiddenOperation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.actor, tt.input, nil)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("team without proposal", func(t *testing.T) {
		_, err := svc.Register(ctx, alice, teamInput(f.team.ID, 2), nil)
		assert.ErrorIs(t, err, ErrInvalidProposalFile)
	})

	reg, err := svc.Register(ctx, alice, teamInput(f.team.ID, 3), pdfUpload())
	require.NoError(t, err)
	assert.True(t, reg.IsTeam)
	assert.Len(t, reg.Members, 3)
	assert.Equal(t, "Rockets", reg.TeamName)
}

func TestRegistrationService_Proposal(t *testing.T) {
	f := newFixture(t)
	dir := t.TempDir()
	uploader, err := storage.NewLocalUploader(dir, "http://localhost:5000/uploads")
	require.NoError(t, err)

	svc := NewRegistrationService(f.store.Registrations(), f.store.Hackathons(), uploader, nil, discardLogger()).(*registrationService)
	svc.now = fixedNow
	ctx := context.Background()

	pdf := []byte("%PDF-1.4\n%test\n")
	t.Run("non pdf is rejected", func(t *testing.T) {
		_, err := svc.Register(ctx, f.actor(f.student2), teamInput(f.team.ID, 1), &ProposalUpload{
			Filename: "notes.txt", ContentType: "text/plain", Size: 4, Reader: strings.NewReader("text"),
		})
		assert.ErrorIs(t, err, ErrInvalidProposalFile)
	})

	t.Run("oversized pdf is rejected", func(t *testing.T) {
		_, err := svc.Register(ctx, f.actor(f.student2), teamInput(f.team.ID, 1), &ProposalUpload{
			Filename: "big.pdf", ContentType: "application/pdf", Size: MaxProposalSize + 1, Reader: bytes.NewReader(pdf),
		})
		assert.ErrorIs(t, err, ErrInvalidProposalFile)
	})

	reg, err := svc.Register(ctx, f.actor(f.student), teamInput(f.team.ID, 2), &ProposalUpload{
		Filename: "idea.pdf", ContentType: "application/pdf", Size: int64(len(pdf)), Reader: bytes.NewReader(pdf),
	})
	require.NoError(t, err)
	require.NotNil(t, reg.Proposal)
	assert.Equal(t, "idea.pdf", reg.Proposal.OriginalName)
	assert.True(t, strings.HasPrefix(reg.Proposal.URL, "http://localhost:5000/uploads/proposals/"+f.team.ID+"/"))

	stored, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(reg.Proposal.PublicID)))
	require.NoError(t, err)
	assert.Equal(t, pdf, stored)
}

func TestRegistrationService_Lists(t *testing.T) {
	f := newFixture(t)
	svc := newRegistrationService(f, nil)
	ctx := context.Background()
	alice := f.actor(f.student)

	_, err := svc.Register(ctx, alice, soloInput(f.solo.ID), nil)
	require.NoError(t, err)
	_, err = svc.Register(ctx, alice, teamInput(f.team.ID, 1), pdfUpload())
	require.NoError(t, err)

	// регистрация на прошедшее событие, минуя окно
	require.NoError(t, f.store.Registrations().Create(ctx, &models.Registration{
		HackathonID: f.past.ID, StudentID: f.student.ID, Name: "Alice", Email: "alice@example.com", Status: models.RegistrationApproved,
	}))

	upcoming, err := svc.StudentHackathons(ctx, alice, f.student.ID, "upcoming")
	require.NoError(t, err)
	assert.Len(t, upcoming, 2)
	for _, ev := range upcoming {
		assert.True(t, ev.IsRegisteredEvent)
		assert.NotEmpty(t, ev.RegistrationID)
	}

	participated, err := svc.StudentHackathons(ctx, alice, f.student.ID, "participated")
	require.NoError(t, err)
	require.Len(t, participated, 1)
	assert.Equal(t, f.past.ID, participated[0].HackathonID)
	assert.Equal(t, models.RegistrationApproved, participated[0].Status)

	_, err = svc.StudentHackathons(ctx, f.actor(f.student2), f.student.ID, "upcoming")
	assert.ErrorIs(t, err, ErrForbiddenOperation)

	regs, err := svc.ListByHackathon(ctx, f.actor(f.organizer), f.solo.ID)
	require.NoError(t, err)
	assert.Len(t, regs, 1)

	_, err = svc.ListByHackathon(ctx, f.actor(f.other), f.solo.ID)
	assert.ErrorIs(t, err, ErrForbiddenOperation)

	regs, err = svc.ListByHackathon(ctx, Actor{ID: "admin", Role: models.RoleAdmin}, f.solo.ID)
	require.NoError(t, err)
	assert.Len(t, regs, 1)
}
