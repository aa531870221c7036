package services

import (
	"bytes"
	"context"
	"testing"

	"github.com/Dosada05/hackathon-portal/live"
	"github.com/Dosada05/hackathon-portal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProposalService_Decisions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	regSvc := newRegistrationService(f, nil)

	teamReg, err := regSvc.Register(ctx, f.actor(f.student), teamInput(f.team.ID, 2), pdfUpload())
	require.NoError(t, err)
	soloReg, err := regSvc.Register(ctx, f.actor(f.student2), soloInput(f.solo.ID), nil)
	require.NoError(t, err)

	hub := &recordingHub{}
	notifier := &recordingNotifier{}
	svc := NewProposalService(f.store.Registrations(), f.store.Hackathons(), hub, notifier, discardLogger())
	owner := f.actor(f.organizer)

	list, err := svc.ListByOrganizer(ctx, owner, f.organizer.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	for _, p := range list {
		assert.NotEmpty(t, p.Hackathon.Name)
		assert.Equal(t, p.HackathonID, p.Hackathon.ID)
	}

	_, err = svc.ListByOrganizer(ctx, f.actor(f.other), f.organizer.ID)
	assert.ErrorIs(t, err, ErrForbiddenOperation)

	empty, err := svc.ListByOrganizer(ctx, f.actor(f.other), f.other.ID)
	require.NoError(t, err)
	assert.Empty(t, empty)

	approved, err := svc.Approve(ctx, owner, teamReg.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RegistrationApproved, approved.Status)
	assert.Equal(t, "Team Jam", approved.Hackathon.Name)

	// повторное одобрение идемпотентно и без уведомлений
	again, err := svc.Approve(ctx, owner, teamReg.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RegistrationApproved, again.Status)

	rejected, err := svc.Reject(ctx, owner, soloReg.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RegistrationRejected, rejected.Status)

	assert.Equal(t, []models.RegistrationStatus{models.RegistrationApproved, models.RegistrationRejected}, notifier.sent)
	assert.Equal(t, []string{"alice@example.com", "alice@example.com"}, notifier.email)
	require.Len(t, hub.messages, 2)
	assert.Equal(t, live.MessageProposalStatus, hub.messages[0].Type)

	stored, err := f.store.Registrations().GetByID(ctx, soloReg.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RegistrationRejected, stored.Status)

	t.Run("other organizer cannot decide", func(t *testing.T) {
		_, err := svc.Reject(ctx, f.actor(f.other), teamReg.ID)
		assert.ErrorIs(t, err, ErrForbiddenOperation)
	})

	t.Run("admin cannot decide either", func(t *testing.T) {
		_, err := svc.Reject(ctx, Actor{ID: "root", Role: models.RoleAdmin}, teamReg.ID)
		assert.ErrorIs(t, err, ErrForbiddenOperation)
	})

	t.Run("unknown proposal", func(t *testing.T) {
		_, err := svc.Approve(ctx, owner, "missing")
		assert.ErrorIs(t, err, ErrProposalNotFound)
	})
}

func TestReportService(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	regSvc := newRegistrationService(f, nil)
	_, err := regSvc.Register(ctx, f.actor(f.student), teamInput(f.team.ID, 2), pdfUpload())
	require.NoError(t, err)

	svc := NewReportService(f.store.Hackathons(), f.store.Registrations())

	report, err := svc.HackathonReport(ctx, f.actor(f.organizer), f.team.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hackathon_Report_Team Jam.pdf", report.Filename)
	assert.True(t, bytes.HasPrefix(report.Content, []byte("%PDF")))

	_, err = svc.HackathonReport(ctx, f.actor(f.other), f.team.ID)
	assert.ErrorIs(t, err, ErrForbiddenOperation)

	_, err = svc.HackathonReport(ctx, Actor{Role: models.RoleAdmin}, f.team.ID)
	assert.NoError(t, err)

	_, err = svc.HackathonReport(ctx, f.actor(f.organizer), "missing")
	assert.ErrorIs(t, err, ErrHackathonNotFound)
}

func TestEmailTemplates(t *testing.T) {
	svc, err := NewEmailService(nil)
	require.NoError(t, err)

	reg := &models.Registration{IsTeam: true, TeamName: "Rockets", LeaderName: "Alice", Status: models.RegistrationApproved}
	h := &models.Hackathon{Name: "Team Jam", Venue: "Main Hall", Date: testNow}

	body, err := renderDecisionEmail(svc.templates, reg, h)
	require.NoError(t, err)
	assert.Contains(t, body, "Hello Alice")
	assert.Contains(t, body, "approved")
	assert.Contains(t, body, "Rockets")
	assert.Equal(t, "Team Jam: your proposal was approved", decisionSubject(reg, h))
}
