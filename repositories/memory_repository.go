package repositories

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Dosada05/hackathon-portal/models"
	"github.com/google/uuid"
)

// MemoryStore keeps every table in process memory. It backs the server when no
// DATABASE_URL is configured and is used throughout the tests.
type MemoryStore struct {
	mu            sync.RWMutex
	users         map[string]models.User
	hackathons    map[string]models.Hackathon
	registrations map[string]models.Registration
	now           func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:         make(map[string]models.User),
		hackathons:    make(map[string]models.Hackathon),
		registrations: make(map[string]models.Registration),
		now:           time.Now,
	}
}

func (s *MemoryStore) Users() UserRepository                 { return memoryUserRepository{s} }
func (s *MemoryStore) Hackathons() HackathonRepository       { return memoryHackathonRepository{s} }
func (s *MemoryStore) Registrations() RegistrationRepository { return memoryRegistrationRepository{s} }

type memoryUserRepository struct{ s *MemoryStore }

func (r memoryUserRepository) Create(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, user.Email) {
			return ErrUserEmailConflict
		}
		if u.Username == user.Username {
			return ErrUserUsernameConflict
		}
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.CreatedAt = r.s.now()
	r.s.users[user.ID] = *user
	return nil
}

func (r memoryUserRepository) GetByID(_ context.Context, id string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &u, nil
}

func (r memoryUserRepository) GetByUsername(_ context.Context, username string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r memoryUserRepository) ListByRole(_ context.Context, role models.UserRole) ([]models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	users := make([]models.User, 0)
	for _, u := range r.s.users {
		if u.Role == role {
			u.PasswordHash = ""
			users = append(users, u)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Name < users[j].Name })
	return users, nil
}

func (r memoryUserRepository) CountByRole(_ context.Context, role models.UserRole) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	count := 0
	for _, u := range r.s.users {
		if u.Role == role {
			count++
		}
	}
	return count, nil
}

type memoryHackathonRepository struct{ s *MemoryStore }

func (r memoryHackathonRepository) Create(_ context.Context, h *models.Hackathon) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[h.OrganizerID]; !ok {
		return ErrHackathonOrganizerInvalid
	}
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	h.CreatedAt = r.s.now()
	r.s.hackathons[h.ID] = *h
	return nil
}

// withOrganizer fills in the joined organizer name. Caller holds the lock.
func (r memoryHackathonRepository) withOrganizer(h models.Hackathon) models.Hackathon {
	if u, ok := r.s.users[h.OrganizerID]; ok {
		h.OrganizerName = u.Name
	}
	return h
}

func (r memoryHackathonRepository) GetByID(_ context.Context, id string) (*models.Hackathon, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	h, ok := r.s.hackathons[id]
	if !ok {
		return nil, ErrHackathonNotFound
	}
	h = r.withOrganizer(h)
	return &h, nil
}

func (r memoryHackathonRepository) List(_ context.Context, filter models.HackathonFilter) ([]models.Hackathon, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	q := strings.ToLower(strings.TrimSpace(filter.Query))
	hackathons := make([]models.Hackathon, 0)
	for _, h := range r.s.hackathons {
		if filter.OrganizerID != nil && h.OrganizerID != *filter.OrganizerID {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(h.Name), q) && !strings.Contains(strings.ToLower(h.Venue), q) {
			continue
		}
		hackathons = append(hackathons, r.withOrganizer(h))
	}
	sort.Slice(hackathons, func(i, j int) bool { return hackathons[i].Date.Before(hackathons[j].Date) })
	return hackathons, nil
}

type memoryRegistrationRepository struct{ s *MemoryStore }

func (r memoryRegistrationRepository) Create(_ context.Context, reg *models.Registration) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.hackathons[reg.HackathonID]; !ok {
		return ErrRegistrationHackathonInvalid
	}
	for _, existing := range r.s.registrations {
		if existing.HackathonID == reg.HackathonID && existing.StudentID == reg.StudentID {
			return ErrRegistrationConflict
		}
	}
	if reg.ID == "" {
		reg.ID = uuid.NewString()
	}
	if reg.Members == nil {
		reg.Members = []models.TeamMember{}
	}
	reg.RegisteredAt = r.s.now()
	r.s.registrations[reg.ID] = *reg
	return nil
}

func (r memoryRegistrationRepository) GetByID(_ context.Context, id string) (*models.Registration, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	reg, ok := r.s.registrations[id]
	if !ok {
		return nil, ErrRegistrationNotFound
	}
	return &reg, nil
}

func (r memoryRegistrationRepository) FindByStudentAndHackathon(_ context.Context, studentID, hackathonID string) (*models.Registration, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, reg := range r.s.registrations {
		if reg.StudentID == studentID && reg.HackathonID == hackathonID {
			return &reg, nil
		}
	}
	return nil, ErrRegistrationNotFound
}

func (r memoryRegistrationRepository) filter(keep func(models.Registration) bool) []models.Registration {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	regs := make([]models.Registration, 0)
	for _, reg := range r.s.registrations {
		if keep(reg) {
			regs = append(regs, reg)
		}
	}
	sort.Slice(regs, func(i, j int) bool { return regs[i].RegisteredAt.Before(regs[j].RegisteredAt) })
	return regs
}

func (r memoryRegistrationRepository) ListByHackathon(_ context.Context, hackathonID string) ([]models.Registration, error) {
	return r.filter(func(reg models.Registration) bool { return reg.HackathonID == hackathonID }), nil
}

func (r memoryRegistrationRepository) ListByHackathons(_ context.Context, hackathonIDs []string) ([]models.Registration, error) {
	ids := make(map[string]struct{}, len(hackathonIDs))
	for _, id := range hackathonIDs {
		ids[id] = struct{}{}
	}
	return r.filter(func(reg models.Registration) bool {
		_, ok := ids[reg.HackathonID]
		return ok
	}), nil
}

func (r memoryRegistrationRepository) ListByStudent(_ context.Context, studentID string) ([]models.Registration, error) {
	return r.filter(func(reg models.Registration) bool { return reg.StudentID == studentID }), nil
}

func (r memoryRegistrationRepository) UpdateStatus(_ context.Context, id string, status models.RegistrationStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	reg, ok := r.s.registrations[id]
	if !ok {
		return ErrRegistrationNotFound
	}
	reg.Status = status
	r.s.registrations[id] = reg
	return nil
}
