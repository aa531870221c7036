package services

import (
	"context"
	"fmt"
	"time"

	"github.com/Dosada05/hackathon-portal/models"
	"github.com/Dosada05/hackathon-portal/repositories"
	"golang.org/x/sync/errgroup"
)

// DashboardService собирает данные для вкладок админ-панели.
type DashboardService interface {
	UserCounts(ctx context.Context) (models.UserCounts, error)
	EventCounts(ctx context.Context) (models.EventCounts, error)
	Hackathons(ctx context.Context) ([]models.AdminHackathon, error)
}

type dashboardService struct {
	userRepo      repositories.UserRepository
	hackathonRepo repositories.HackathonRepository
	now           func() time.Time
}

func NewDashboardService(userRepo repositories.UserRepository, hackathonRepo repositories.HackathonRepository) DashboardService {
	return &dashboardService{
		userRepo:      userRepo,
		hackathonRepo: hackathonRepo,
		now:           time.Now,
	}
}

func (s *dashboardService) UserCounts(ctx context.Context) (models.UserCounts, error) {
	var counts models.UserCounts
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.userRepo.CountByRole(gCtx, models.RoleStudent)
		counts.StudentCount = n
		return err
	})
	g.Go(func() error {
		n, err := s.userRepo.CountByRole(gCtx, models.RoleOrganizer)
		counts.OrganizerCount = n
		return err
	})
	if err := g.Wait(); err != nil {
		return models.UserCounts{}, fmt.Errorf("failed to count users: %w", err)
	}
	return counts, nil
}

func (s *dashboardService) EventCounts(ctx context.Context) (models.EventCounts, error) {
	hackathons, err := s.hackathonRepo.List(ctx, models.HackathonFilter{})
	if err != nil {
		return models.EventCounts{}, fmt.Errorf("failed to list hackathons: %w", err)
	}
	now := s.now()
	var counts models.EventCounts
	for i := range hackathons {
		if hackathons[i].StatusAt(now) == models.StatusUpcoming {
			counts.UpcomingCount++
		} else {
			counts.ConductedCount++
		}
	}
	return counts, nil
}

func (s *dashboardService) Hackathons(ctx context.Context) ([]models.AdminHackathon, error) {
	hackathons, err := s.hackathonRepo.List(ctx, models.HackathonFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list hackathons: %w", err)
	}
	now := s.now()
	out := make([]models.AdminHackathon, 0, len(hackathons))
	for i := range hackathons {
		h := &hackathons[i]
		row := models.AdminHackathon{
			ID:     h.ID,
			Name:   h.Name,
			Date:   h.Date,
			Status: h.StatusAt(now),
		}
		if h.OrganizerName != "" {
			row.Organizer = &models.OrganizerRef{ID: h.OrganizerID, Name: h.OrganizerName}
		}
		out = append(out, row)
	}
	return out, nil
}
