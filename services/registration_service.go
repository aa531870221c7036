package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/Dosada05/hackathon-portal/live"
	"github.com/Dosada05/hackathon-portal/models"
	"github.com/Dosada05/hackathon-portal/repositories"
	"github.com/Dosada05/hackathon-portal/storage"
	"github.com/google/uuid"
)

// MaxProposalSize ограничивает размер загружаемого PDF (5 МБ).
const MaxProposalSize = 5 << 20

const proposalContentType = "application/pdf"

// Broadcaster публикует события в комнату live-хаба.
type Broadcaster interface {
	BroadcastToRoom(roomID string, message live.Message)
}

type RegistrationService interface {
	Register(ctx context.Context, actor Actor, input RegistrationInput, proposal *ProposalUpload) (*models.Registration, error)
	IsRegistered(ctx context.Context, studentID, hackathonID string) (bool, error)
	ListByHackathon(ctx context.Context, actor Actor, hackathonID string) ([]models.Registration, error)
	StudentHackathons(ctx context.Context, actor Actor, studentID, kind string) ([]models.StudentEvent, error)
}

type RegistrationInput struct {
	HackathonID     string              `json:"hackathonId" validate:"required"`
	StudentID       string              `json:"studentId"`
	IsTeam          bool                `json:"isTeam"`
	TeamName        string              `json:"teamName"`
	Name            string              `json:"name"`
	Email           string              `json:"email" validate:"omitempty,email"`
	LeaderName      string              `json:"leaderName"`
	LeaderEmail     string              `json:"leaderEmail" validate:"omitempty,email"`
	DateOfBirth     string              `json:"datebirth" validate:"required"`
	Phone           string              `json:"phone" validate:"required"`
	Education       string              `json:"education" validate:"required,oneof=MCA BCA BSC BTech"`
	HasParticipated string              `json:"hasParticipated" validate:"required,oneof=yes no"`
	Members         []models.TeamMember `json:"members" validate:"dive"`
}

// ProposalUpload описывает PDF, пришедший в multipart-запросе.
// ContentType должен быть определён по содержимому, а не по заголовку клиента.
type ProposalUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

type registrationService struct {
	registrationRepo repositories.RegistrationRepository
	hackathonRepo    repositories.HackathonRepository
	uploader         storage.FileUploader
	hub              Broadcaster
	logger           *slog.Logger
	now              func() time.Time
}

func NewRegistrationService(
	registrationRepo repositories.RegistrationRepository,
	hackathonRepo repositories.HackathonRepository,
	uploader storage.FileUploader,
	hub Broadcaster,
	logger *slog.Logger,
) RegistrationService {
	return &registrationService{
		registrationRepo: registrationRepo,
		hackathonRepo:    hackathonRepo,
		uploader:         uploader,
		hub:              hub,
		logger:           logger,
		now:              time.Now,
	}
}

func (s *registrationService) Register(ctx context.Context, actor Actor, input RegistrationInput, proposal *ProposalUpload) (*models.Registration, error) {
	if actor.Role != models.RoleStudent {
		return nil, ErrForbiddenOperation
	}
	if input.StudentID != "" && input.StudentID != actor.ID {
		return nil, ErrForbiddenOperation
	}
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	hackathon, err := s.hackathonRepo.GetByID(ctx, input.HackathonID)
	if err != nil {
		if errors.Is(err, repositories.ErrHackathonNotFound) {
			return nil, ErrHackathonNotFound
		}
		return nil, fmt.Errorf("failed to get hackathon: %w", err)
	}
	if !hackathon.RegistrationOpenAt(s.now()) {
		return nil, ErrRegistrationClosed
	}

	reg, err := buildRegistration(hackathon, actor.ID, input)
	if err != nil {
		return nil, err
	}
	// командная заявка без PDF с идеей не принимается
	if reg.IsTeam && proposal == nil {
		return nil, ErrInvalidProposalFile
	}

	// Дубликат проверяем до загрузки файла, чтобы не плодить осиротевшие объекты.
	if _, err := s.registrationRepo.FindByStudentAndHackathon(ctx, actor.ID, hackathon.ID); err == nil {
		return nil, ErrRegistrationConflict
	} else if !errors.Is(err, repositories.ErrRegistrationNotFound) {
		return nil, fmt.Errorf("failed to check existing registration: %w", err)
	}

	if proposal != nil {
		doc, err := s.storeProposal(ctx, hackathon.ID, proposal)
		if err != nil {
			return nil, err
		}
		reg.Proposal = doc
	}

	if err := s.registrationRepo.Create(ctx, reg); err != nil {
		if reg.Proposal != nil {
			if delErr := s.uploader.Delete(ctx, reg.Proposal.PublicID); delErr != nil {
				s.logger.Warn("failed to delete orphaned proposal", slog.String("key", reg.Proposal.PublicID), slog.Any("error", delErr))
			}
		}
		switch {
		case errors.Is(err, repositories.ErrRegistrationConflict):
			return nil, ErrRegistrationConflict
		case errors.Is(err, repositories.ErrRegistrationHackathonInvalid):
			return nil, ErrHackathonNotFound
		}
		return nil, fmt.Errorf("failed to create registration: %w", err)
	}

	s.logger.Info("registration created",
		slog.String("registration_id", reg.ID),
		slog.String("hackathon_id", hackathon.ID),
		slog.Bool("team", reg.IsTeam),
	)
	if s.hub != nil {
		s.hub.BroadcastToRoom(live.RoomForHackathon(hackathon.ID), live.Message{
			Type:    live.MessageRegistrationCreated,
			Payload: reg,
		})
	}
	return reg, nil
}

// buildRegistration применяет правила командной и одиночной регистрации.
func buildRegistration(h *models.Hackathon, studentID string, input RegistrationInput) (*models.Registration, error) {
	if input.IsTeam != h.IsTeam {
		return nil, ErrRegistrationMismatch
	}

	reg := &models.Registration{
		HackathonID:     h.ID,
		StudentID:       studentID,
		IsTeam:          h.IsTeam,
		DateOfBirth:     strings.TrimSpace(input.DateOfBirth),
		Phone:           strings.TrimSpace(input.Phone),
		Education:       input.Education,
		HasParticipated: input.HasParticipated,
		Members:         []models.TeamMember{},
		Status:          models.RegistrationPending,
	}

	if !h.IsTeam {
		if len(input.Members) > 0 {
			return nil, ErrSoloMembersNotAllowed
		}
		verrs := ValidationErrors{}
		if strings.TrimSpace(input.Name) == "" {
			verrs["name"] = "is required"
		}
		if strings.TrimSpace(input.Email) == "" {
			verrs["email"] = "is required"
		}
		if len(verrs) > 0 {
			return nil, verrs
		}
		reg.Name = strings.TrimSpace(input.Name)
		reg.Email = strings.TrimSpace(input.Email)
		return reg, nil
	}

	verrs := ValidationErrors{}
	if strings.TrimSpace(input.TeamName) == "" {
		verrs["teamName"] = "is required"
	}
	if strings.TrimSpace(input.LeaderName) == "" {
		verrs["leaderName"] = "is required"
	}
	if strings.TrimSpace(input.LeaderEmail) == "" {
		verrs["leaderEmail"] = "is required"
	}
	if len(verrs) > 0 {
		return nil, verrs
	}

	maxMembers := h.MaxTeamMembers
	if maxMembers <= 0 {
		maxMembers = models.DefaultMaxTeamMembers
	}
	if len(input.Members) < 1 || len(input.Members) > maxMembers {
		return nil, fmt.Errorf("%w: got %d members, allowed 1..%d", ErrTeamSizeInvalid, len(input.Members), maxMembers)
	}

	reg.TeamName = strings.TrimSpace(input.TeamName)
	reg.LeaderName = strings.TrimSpace(input.LeaderName)
	reg.LeaderEmail = strings.TrimSpace(input.LeaderEmail)
	reg.Members = input.Members
	return reg, nil
}

func (s *registrationService) storeProposal(ctx context.Context, hackathonID string, p *ProposalUpload) (*models.ProposalDocument, error) {
	if p.ContentType != proposalContentType || p.Size <= 0 || p.Size > MaxProposalSize {
		return nil, ErrInvalidProposalFile
	}
	if s.uploader == nil {
		return nil, errors.New("proposal storage is not configured")
	}

	key := path.Join("proposals", hackathonID, uuid.NewString()+".pdf")
	res, err := s.uploader.Upload(ctx, storage.Object{
		Key:         key,
		ContentType: p.ContentType,
		Filename:    path.Base(p.Filename),
		Size:        p.Size,
		Body:        io.LimitReader(p.Reader, MaxProposalSize),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload proposal: %w", err)
	}
	return &models.ProposalDocument{
		URL:          res.URL,
		PublicID:     res.Key,
		OriginalName: path.Base(p.Filename),
	}, nil
}

func (s *registrationService) IsRegistered(ctx context.Context, studentID, hackathonID string) (bool, error) {
	_, err := s.registrationRepo.FindByStudentAndHackathon(ctx, studentID, hackathonID)
	if err != nil {
		if errors.Is(err, repositories.ErrRegistrationNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check registration: %w", err)
	}
	return true, nil
}

func (s *registrationService) ListByHackathon(ctx context.Context, actor Actor, hackathonID string) ([]models.Registration, error) {
	hackathon, err := s.hackathonRepo.GetByID(ctx, hackathonID)
	if err != nil {
		if errors.Is(err, repositories.ErrHackathonNotFound) {
			return nil, ErrHackathonNotFound
		}
		return nil, fmt.Errorf("failed to get hackathon: %w", err)
	}
	if !actor.IsAdmin() && hackathon.OrganizerID != actor.ID {
		return nil, ErrForbiddenOperation
	}
	return s.registrationRepo.ListByHackathon(ctx, hackathonID)
}

// StudentHackathons joins the student's registrations with their events.
// kind "upcoming" keeps events still ahead, "participated" the finished ones.
func (s *registrationService) StudentHackathons(ctx context.Context, actor Actor, studentID, kind string) ([]models.StudentEvent, error) {
	if !actor.IsAdmin() && actor.ID != studentID {
		return nil, ErrForbiddenOperation
	}
	status, err := listKind(kind)
	if err != nil {
		return nil, err
	}

	regs, err := s.registrationRepo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list student registrations: %w", err)
	}

	now := s.now()
	events := make([]models.StudentEvent, 0, len(regs))
	for _, reg := range regs {
		h, err := s.hackathonRepo.GetByID(ctx, reg.HackathonID)
		if err != nil {
			if errors.Is(err, repositories.ErrHackathonNotFound) {
				continue
			}
			return nil, fmt.Errorf("failed to get hackathon %s: %w", reg.HackathonID, err)
		}
		hStatus := h.StatusAt(now)
		if status != "" && hStatus != status {
			continue
		}
		events = append(events, models.StudentEvent{
			HackathonID:       h.ID,
			RegistrationID:    reg.ID,
			Name:              h.Name,
			Type:              h.Type,
			Venue:             h.Venue,
			Date:              h.Date,
			Prize:             h.Prize,
			Status:            reg.Status,
			IsRegisteredEvent: true,
		})
	}
	return events, nil
}
