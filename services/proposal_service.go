package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Dosada05/hackathon-portal/live"
	"github.com/Dosada05/hackathon-portal/models"
	"github.com/Dosada05/hackathon-portal/repositories"
)

// ProposalService: очередь заявок организатора и решения по ним.
type ProposalService interface {
	ListByOrganizer(ctx context.Context, actor Actor, organizerID string) ([]models.ProposalView, error)
	Approve(ctx context.Context, actor Actor, registrationID string) (*models.ProposalView, error)
	Reject(ctx context.Context, actor Actor, registrationID string) (*models.ProposalView, error)
}

type proposalService struct {
	registrationRepo repositories.RegistrationRepository
	hackathonRepo    repositories.HackathonRepository
	hub              Broadcaster
	notifier         Notifier
	logger           *slog.Logger
}

func NewProposalService(
	registrationRepo repositories.RegistrationRepository,
	hackathonRepo repositories.HackathonRepository,
	hub Broadcaster,
	notifier Notifier,
	logger *slog.Logger,
) ProposalService {
	return &proposalService{
		registrationRepo: registrationRepo,
		hackathonRepo:    hackathonRepo,
		hub:              hub,
		notifier:         notifier,
		logger:           logger,
	}
}

func (s *proposalService) ListByOrganizer(ctx context.Context, actor Actor, organizerID string) ([]models.ProposalView, error) {
	if organizerID == "" {
		return nil, ValidationErrors{"organizerId": "is required"}
	}
	if !actor.IsAdmin() && actor.ID != organizerID {
		return nil, ErrForbiddenOperation
	}

	hackathons, err := s.hackathonRepo.List(ctx, models.HackathonFilter{OrganizerID: &organizerID})
	if err != nil {
		return nil, fmt.Errorf("failed to list organizer hackathons: %w", err)
	}
	if len(hackathons) == 0 {
		return []models.ProposalView{}, nil
	}

	refs := make(map[string]models.HackathonRef, len(hackathons))
	ids := make([]string, 0, len(hackathons))
	for _, h := range hackathons {
		refs[h.ID] = models.HackathonRef{ID: h.ID, Name: h.Name}
		ids = append(ids, h.ID)
	}

	regs, err := s.registrationRepo.ListByHackathons(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list proposals: %w", err)
	}

	views := make([]models.ProposalView, 0, len(regs))
	for _, reg := range regs {
		views = append(views, models.ProposalView{Registration: reg, Hackathon: refs[reg.HackathonID]})
	}
	return views, nil
}

func (s *proposalService) Approve(ctx context.Context, actor Actor, registrationID string) (*models.ProposalView, error) {
	return s.decide(ctx, actor, registrationID, models.RegistrationApproved)
}

func (s *proposalService) Reject(ctx context.Context, actor Actor, registrationID string) (*models.ProposalView, error) {
	return s.decide(ctx, actor, registrationID, models.RegistrationRejected)
}

// decide меняет статус заявки. Решать может только организатор хакатона;
// повторное то же решение возвращает текущее состояние без побочных эффектов.
func (s *proposalService) decide(ctx context.Context, actor Actor, registrationID string, status models.RegistrationStatus) (*models.ProposalView, error) {
	if status != models.RegistrationApproved && status != models.RegistrationRejected {
		return nil, ErrInvalidProposalStatus
	}

	reg, err := s.registrationRepo.GetByID(ctx, registrationID)
	if err != nil {
		if errors.Is(err, repositories.ErrRegistrationNotFound) {
			return nil, ErrProposalNotFound
		}
		return nil, fmt.Errorf("failed to get proposal: %w", err)
	}

	hackathon, err := s.hackathonRepo.GetByID(ctx, reg.HackathonID)
	if err != nil {
		if errors.Is(err, repositories.ErrHackathonNotFound) {
			return nil, ErrHackathonNotFound
		}
		return nil, fmt.Errorf("failed to get hackathon: %w", err)
	}
	if actor.Role != models.RoleOrganizer || hackathon.OrganizerID != actor.ID {
		return nil, ErrForbiddenOperation
	}

	view := &models.ProposalView{
		Registration: *reg,
		Hackathon:    models.HackathonRef{ID: hackathon.ID, Name: hackathon.Name},
	}
	if reg.Status == status {
		return view, nil
	}

	if err := s.registrationRepo.UpdateStatus(ctx, reg.ID, status); err != nil {
		if errors.Is(err, repositories.ErrRegistrationNotFound) {
			return nil, ErrProposalNotFound
		}
		return nil, fmt.Errorf("failed to update proposal status: %w", err)
	}
	view.Status = status

	s.logger.Info("proposal status changed",
		slog.String("registration_id", reg.ID),
		slog.String("hackathon_id", hackathon.ID),
		slog.String("status", string(status)),
	)

	if s.hub != nil {
		s.hub.BroadcastToRoom(live.RoomForHackathon(hackathon.ID), live.Message{
			Type:    live.MessageProposalStatus,
			Payload: view,
		})
	}
	if s.notifier != nil {
		if err := s.notifier.NotifyProposalDecision(ctx, &view.Registration, hackathon); err != nil {
			s.logger.Warn("failed to send proposal decision email", slog.String("registration_id", reg.ID), slog.Any("error", err))
		}
	}
	return view, nil
}
