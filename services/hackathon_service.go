package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Dosada05/hackathon-portal/models"
	"github.com/Dosada05/hackathon-portal/repositories"
)

type HackathonService interface {
	Create(ctx context.Context, organizerID string, input CreateHackathonInput) (*models.Hackathon, error)
	List(ctx context.Context, query string) ([]models.Hackathon, error)
	GetByID(ctx context.Context, id string) (*models.Hackathon, error)
	ListByOrganizer(ctx context.Context, actor Actor, organizerID, kind string) ([]models.Hackathon, error)
}

// CreateHackathonInput повторяет поля формы "Host Hackathon"; даты приходят строками.
type CreateHackathonInput struct {
	Name            string               `json:"ename" validate:"required"`
	Type            models.HackathonType `json:"typeofhk" validate:"required"`
	IsTeamHackathon *bool                `json:"isTeamHackathon"`
	Venue           string               `json:"venue" validate:"required"`
	Date            string               `json:"date" validate:"required"`
	RegStart        string               `json:"regstart" validate:"required"`
	RegEnd          string               `json:"regend" validate:"required"`
	Details         string               `json:"details" validate:"required"`
	Duration        string               `json:"durofhk" validate:"required"`
	Prize           string               `json:"prize" validate:"required"`
	MaxTeamMembers  int                  `json:"maxTeamMembers" validate:"omitempty,min=1,max=10"`
	Requirements    *string              `json:"requirements"`
}

type hackathonService struct {
	hackathonRepo repositories.HackathonRepository
	now           func() time.Time
}

func NewHackathonService(hackathonRepo repositories.HackathonRepository) HackathonService {
	return &hackathonService{
		hackathonRepo: hackathonRepo,
		now:           time.Now,
	}
}

func (s *hackathonService) Create(ctx context.Context, organizerID string, input CreateHackathonInput) (*models.Hackathon, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Venue = strings.TrimSpace(input.Venue)
	if err := validateStruct(input); err != nil {
		return nil, err
	}
	if !input.Type.Valid() {
		return nil, ErrHackathonInvalidType
	}

	date, err := parseDate("date", input.Date)
	if err != nil {
		return nil, err
	}
	regStart, err := parseDate("regstart", input.RegStart)
	if err != nil {
		return nil, err
	}
	regEnd, err := parseDate("regend", input.RegEnd)
	if err != nil {
		return nil, err
	}
	if models.StartOfDay(regStart).After(models.StartOfDay(regEnd)) || models.StartOfDay(regEnd).After(models.StartOfDay(date)) {
		return nil, ErrHackathonInvalidDates
	}

	// Тип хакатона однозначно задаёт командный формат; флаг из формы только сверяем.
	isTeam := input.Type == models.TypeTeam
	if input.IsTeamHackathon != nil && *input.IsTeamHackathon != isTeam {
		return nil, fmt.Errorf("%w: isTeamHackathon contradicts typeofhk", ErrValidationFailed)
	}

	maxMembers := input.MaxTeamMembers
	if maxMembers == 0 {
		maxMembers = models.DefaultMaxTeamMembers
	}
	if !isTeam {
		maxMembers = 0
	}

	h := &models.Hackathon{
		Name:           input.Name,
		Type:           input.Type,
		IsTeam:         isTeam,
		Venue:          input.Venue,
		Date:           date,
		RegStart:       regStart,
		RegEnd:         regEnd,
		Details:        input.Details,
		Duration:       input.Duration,
		Prize:          input.Prize,
		MaxTeamMembers: maxMembers,
		Requirements:   input.Requirements,
		OrganizerID:    organizerID,
	}
	if err := s.hackathonRepo.Create(ctx, h); err != nil {
		if errors.Is(err, repositories.ErrHackathonOrganizerInvalid) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to create hackathon: %w", err)
	}
	h.Status = h.StatusAt(s.now())
	return h, nil
}

func (s *hackathonService) List(ctx context.Context, query string) ([]models.Hackathon, error) {
	hackathons, err := s.hackathonRepo.List(ctx, models.HackathonFilter{Query: query})
	if err != nil {
		return nil, fmt.Errorf("failed to list hackathons: %w", err)
	}
	s.fillStatus(hackathons)
	return hackathons, nil
}

func (s *hackathonService) GetByID(ctx context.Context, id string) (*models.Hackathon, error) {
	h, err := s.hackathonRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrHackathonNotFound) {
			return nil, ErrHackathonNotFound
		}
		return nil, fmt.Errorf("failed to get hackathon: %w", err)
	}
	h.Status = h.StatusAt(s.now())
	return h, nil
}

// ListByOrganizer returns the organizer's own events, optionally narrowed to
// upcoming or conducted ones.
func (s *hackathonService) ListByOrganizer(ctx context.Context, actor Actor, organizerID, kind string) ([]models.Hackathon, error) {
	if !actor.IsAdmin() && actor.ID != organizerID {
		return nil, ErrForbiddenOperation
	}
	status, err := listKind(kind)
	if err != nil {
		return nil, err
	}

	hackathons, err := s.hackathonRepo.List(ctx, models.HackathonFilter{OrganizerID: &organizerID})
	if err != nil {
		return nil, fmt.Errorf("failed to list organizer hackathons: %w", err)
	}
	s.fillStatus(hackathons)
	if status == "" {
		return hackathons, nil
	}

	filtered := make([]models.Hackathon, 0, len(hackathons))
	for _, h := range hackathons {
		if h.Status == status {
			filtered = append(filtered, h)
		}
	}
	return filtered, nil
}

func (s *hackathonService) fillStatus(hackathons []models.Hackathon) {
	now := s.now()
	for i := range hackathons {
		hackathons[i].Status = hackathons[i].StatusAt(now)
	}
}
