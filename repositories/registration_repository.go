package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/hackathon-portal/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

var (
	ErrRegistrationNotFound         = errors.New("registration not found")
	ErrRegistrationConflict         = errors.New("registration conflict: student already registered for this hackathon")
	ErrRegistrationHackathonInvalid = errors.New("registration hackathon invalid")
)

type RegistrationRepository interface {
	Create(ctx context.Context, reg *models.Registration) error
	GetByID(ctx context.Context, id string) (*models.Registration, error)
	FindByStudentAndHackathon(ctx context.Context, studentID, hackathonID string) (*models.Registration, error)
	ListByHackathon(ctx context.Context, hackathonID string) ([]models.Registration, error)
	ListByHackathons(ctx context.Context, hackathonIDs []string) ([]models.Registration, error)
	ListByStudent(ctx context.Context, studentID string) ([]models.Registration, error)
	UpdateStatus(ctx context.Context, id string, status models.RegistrationStatus) error
}

type postgresRegistrationRepository struct {
	db *sql.DB
}

func NewPostgresRegistrationRepository(db *sql.DB) RegistrationRepository {
	return &postgresRegistrationRepository{db: db}
}

const registrationSelect = `
		SELECT id, hackathon_id, student_id, is_team, team_name, name, email, leader_name, leader_email,
			date_of_birth, phone, education, has_participated, members, proposal, status, registered_at
		FROM registrations`

func (r *postgresRegistrationRepository) Create(ctx context.Context, reg *models.Registration) error {
	if reg.ID == "" {
		reg.ID = uuid.NewString()
	}
	members, err := marshalJSONColumn(reg.Members)
	if err != nil {
		return err
	}
	var proposal []byte
	if reg.Proposal != nil {
		if proposal, err = marshalJSONColumn(reg.Proposal); err != nil {
			return err
		}
	}

	query := `
		INSERT INTO registrations (id, hackathon_id, student_id, is_team, team_name, name, email,
			leader_name, leader_email, date_of_birth, phone, education, has_participated, members, proposal, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING registered_at`

	err = r.db.QueryRowContext(ctx, query,
		reg.ID, reg.HackathonID, reg.StudentID, reg.IsTeam, reg.TeamName, reg.Name, reg.Email,
		reg.LeaderName, reg.LeaderEmail, reg.DateOfBirth, reg.Phone, reg.Education, reg.HasParticipated,
		members, proposal, reg.Status,
	).Scan(&reg.RegisteredAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch pqErr.Code {
			case "23505":
				if pqErr.Constraint == "registrations_hackathon_id_student_id_key" {
					return ErrRegistrationConflict
				}
			case "23503":
				if pqErr.Constraint == "registrations_hackathon_id_fkey" {
					return ErrRegistrationHackathonInvalid
				}
			}
		}
		return fmt.Errorf("failed to create registration: %w", err)
	}
	return nil
}

func scanRegistration(row rowScanner, reg *models.Registration) error {
	var members, proposal []byte
	err := row.Scan(
		&reg.ID, &reg.HackathonID, &reg.StudentID, &reg.IsTeam, &reg.TeamName, &reg.Name, &reg.Email,
		&reg.LeaderName, &reg.LeaderEmail, &reg.DateOfBirth, &reg.Phone, &reg.Education, &reg.HasParticipated,
		&members, &proposal, &reg.Status, &reg.RegisteredAt,
	)
	if err != nil {
		return err
	}
	reg.Members = []models.TeamMember{}
	if err := unmarshalJSONColumn(members, &reg.Members); err != nil {
		return err
	}
	if len(proposal) > 0 {
		reg.Proposal = &models.ProposalDocument{}
		if err := unmarshalJSONColumn(proposal, reg.Proposal); err != nil {
			return err
		}
	}
	return nil
}

func (r *postgresRegistrationRepository) findOne(ctx context.Context, query string, args ...interface{}) (*models.Registration, error) {
	var reg models.Registration
	if err := scanRegistration(r.db.QueryRowContext(ctx, query, args...), &reg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("failed to find registration: %w", err)
	}
	return &reg, nil
}

func (r *postgresRegistrationRepository) listMany(ctx context.Context, query string, args ...interface{}) ([]models.Registration, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations: %w", err)
	}
	defer rows.Close()

	regs := make([]models.Registration, 0)
	for rows.Next() {
		var reg models.Registration
		if err := scanRegistration(rows, &reg); err != nil {
			return nil, fmt.Errorf("failed to scan registration row: %w", err)
		}
		regs = append(regs, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating registration rows: %w", err)
	}
	return regs, nil
}

func (r *postgresRegistrationRepository) GetByID(ctx context.Context, id string) (*models.Registration, error) {
	return r.findOne(ctx, registrationSelect+` WHERE id = $1`, id)
}

func (r *postgresRegistrationRepository) FindByStudentAndHackathon(ctx context.Context, studentID, hackathonID string) (*models.Registration, error) {
	return r.findOne(ctx, registrationSelect+` WHERE student_id = $1 AND hackathon_id = $2`, studentID, hackathonID)
}

func (r *postgresRegistrationRepository) ListByHackathon(ctx context.Context, hackathonID string) ([]models.Registration, error) {
	return r.listMany(ctx, registrationSelect+` WHERE hackathon_id = $1 ORDER BY registered_at ASC`, hackathonID)
}

func (r *postgresRegistrationRepository) ListByHackathons(ctx context.Context, hackathonIDs []string) ([]models.Registration, error) {
	if len(hackathonIDs) == 0 {
		return []models.Registration{}, nil
	}
	return r.listMany(ctx, registrationSelect+` WHERE hackathon_id = ANY($1) ORDER BY registered_at ASC`, pq.Array(hackathonIDs))
}

func (r *postgresRegistrationRepository) ListByStudent(ctx context.Context, studentID string) ([]models.Registration, error) {
	return r.listMany(ctx, registrationSelect+` WHERE student_id = $1 ORDER BY registered_at ASC`, studentID)
}

func (r *postgresRegistrationRepository) UpdateStatus(ctx context.Context, id string, status models.RegistrationStatus) error {
	result, err := r.db.ExecContext(ctx, `UPDATE registrations SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update registration status: %w", err)
	}
	return checkAffectedRows(result, ErrRegistrationNotFound)
}
