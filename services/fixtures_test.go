package services

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/Dosada05/hackathon-portal/live"
	"github.com/Dosada05/hackathon-portal/models"
	"github.com/Dosada05/hackathon-portal/repositories"
	"github.com/Dosada05/hackathon-portal/storage"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var testNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return testNow }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type recordingHub struct {
	mu       sync.Mutex
	messages []live.Message
	rooms    []string
}

func (h *recordingHub) BroadcastToRoom(roomID string, message live.Message) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.rooms = append(h.rooms, roomID)
	h.messages = append(h.messages, message)
}

type recordingNotifier struct {
	mu    sync.Mutex
	sent  []models.RegistrationStatus
	email []string
}

func (n *recordingNotifier) NotifyProposalDecision(_ context.Context, reg *models.Registration, _ *models.Hackathon) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, reg.Status)
	n.email = append(n.email, reg.ContactEmail())
	return nil
}

type fixture struct {
	store     *repositories.MemoryStore
	uploader  storage.FileUploader
	student   *models.User
	student2  *models.User
	organizer *models.User
	other     *models.User
	team      *models.Hackathon
	solo      *models.Hackathon
	past      *models.Hackathon
	closed    *models.Hackathon
}

func (f *fixture) actor(u *models.User) Actor { return Actor{ID: u.ID, Role: u.Role} }

func newUser(t *testing.T, store *repositories.MemoryStore, name string, role models.UserRole) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("Secret#123"), bcrypt.MinCost)
	require.NoError(t, err)
	u := &models.User{Name: name, Email: name + "@example.com", Username: name, Role: role, PasswordHash: string(hash)}
	require.NoError(t, store.Users().Create(context.Background(), u))
	return u
}

func newHackathon(t *testing.T, store *repositories.MemoryStore, organizerID, name string, team bool, regStart, regEnd, date time.Time) *models.Hackathon {
	t.Helper()
	h := &models.Hackathon{
		Name:        name,
		Type:        models.TypeSolo,
		IsTeam:      team,
		Venue:       "Main Hall",
		Date:        date,
		RegStart:    regStart,
		RegEnd:      regEnd,
		Details:     "details",
		Duration:    "24 Hour",
		Prize:       "1000",
		OrganizerID: organizerID,
	}
	if team {
		h.Type = models.TypeTeam
		h.MaxTeamMembers = 3
	}
	require.NoError(t, store.Hackathons().Create(context.Background(), h))
	return h
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := repositories.NewMemoryStore()
	uploader, err := storage.NewLocalUploader(t.TempDir(), "http://localhost:5000/uploads")
	require.NoError(t, err)
	f := &fixture{store: store, uploader: uploader}
	f.student = newUser(t, store, "alice", models.RoleStudent)
	f.student2 = newUser(t, store, "bob", models.RoleStudent)
	f.organizer = newUser(t, store, "org", models.RoleOrganizer)
	f.other = newUser(t, store, "otherorg", models.RoleOrganizer)

	day := 24 * time.Hour
	f.team = newHackathon(t, store, f.organizer.ID, "Team Jam", true, testNow.Add(-2*day), testNow.Add(2*day), testNow.Add(10*day))
	f.solo = newHackathon(t, store, f.organizer.ID, "Solo Sprint", false, testNow.Add(-2*day), testNow, testNow.Add(5*day))
	f.past = newHackathon(t, store, f.organizer.ID, "Old Hack", false, testNow.Add(-30*day), testNow.Add(-20*day), testNow.Add(-10*day))
	f.closed = newHackathon(t, store, f.other.ID, "Closed Hack", false, testNow.Add(-10*day), testNow.Add(-1*day), testNow.Add(3*day))
	return f
}

func soloInput(hackathonID string) RegistrationInput {
	return RegistrationInput{
		HackathonID:     hackathonID,
		Name:            "Alice",
		Email:           "alice@example.com",
		DateOfBirth:     "2001-02-03",
		Phone:           "5551234",
		Education:       "BTech",
		HasParticipated: "no",
		Members:         []models.TeamMember{},
	}
}

func teamInput(hackathonID string, members int) RegistrationInput {
	in := RegistrationInput{
		HackathonID:     hackathonID,
		IsTeam:          true,
		TeamName:        "Rockets",
		LeaderName:      "Alice",
		LeaderEmail:     "alice@example.com",
		DateOfBirth:     "2001-02-03",
		Phone:           "5551234",
		Education:       "MCA",
		HasParticipated: "yes",
	}
	for i := 0; i < members; i++ {
		in.Members = append(in.Members, models.TeamMember{Name: "M", Email: "m@example.com", DOB: "2002-01-01"})
	}
	return in
}

func newRegistrationService(f *fixture, hub Broadcaster) *registrationService {
	svc := NewRegistrationService(f.store.Registrations(), f.store.Hackathons(), f.uploader, hub, discardLogger()).(*registrationService)
	svc.now = fixedNow
	return svc
}

var proposalPDF = []byte("%PDF-1.4\n%test\n")

func pdfUpload() *ProposalUpload {
	return &ProposalUpload{
		Filename:    "idea.pdf",
		ContentType: "application/pdf",
		Size:        int64(len(proposalPDF)),
		Reader:      bytes.NewReader(proposalPDF),
	}
}
