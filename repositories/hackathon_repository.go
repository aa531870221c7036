package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Dosada05/hackathon-portal/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

var (
	ErrHackathonNotFound         = errors.New("hackathon not found")
	ErrHackathonOrganizerInvalid = errors.New("hackathon organizer invalid")
)

type HackathonRepository interface {
	Create(ctx context.Context, h *models.Hackathon) error
	GetByID(ctx context.Context, id string) (*models.Hackathon, error)
	List(ctx context.Context, filter models.HackathonFilter) ([]models.Hackathon, error)
}

type postgresHackathonRepository struct {
	db *sql.DB
}

func NewPostgresHackathonRepository(db *sql.DB) HackathonRepository {
	return &postgresHackathonRepository{db: db}
}

const hackathonSelect = `
		SELECT
			h.id, h.name, h.type, h.is_team, h.venue, h.event_date, h.reg_start, h.reg_end,
			h.details, h.duration, h.prize, h.max_team_members, h.requirements,
			h.organizer_id, COALESCE(u.name, ''), h.created_at
		FROM hackathons h
		LEFT JOIN users u ON u.id = h.organizer_id`

func (r *postgresHackathonRepository) Create(ctx context.Context, h *models.Hackathon) error {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	query := `
		INSERT INTO hackathons (id, name, type, is_team, venue, event_date, reg_start, reg_end,
			details, duration, prize, max_team_members, requirements, organizer_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		h.ID, h.Name, h.Type, h.IsTeam, h.Venue, h.Date, h.RegStart, h.RegEnd,
		h.Details, h.Duration, h.Prize, h.MaxTeamMembers, h.Requirements, h.OrganizerID,
	).Scan(&h.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" && pqErr.Constraint == "hackathons_organizer_id_fkey" {
			return ErrHackathonOrganizerInvalid
		}
		return fmt.Errorf("failed to create hackathon: %w", err)
	}
	return nil
}

func scanHackathon(row rowScanner, h *models.Hackathon) error {
	var requirements sql.NullString
	err := row.Scan(
		&h.ID, &h.Name, &h.Type, &h.IsTeam, &h.Venue, &h.Date, &h.RegStart, &h.RegEnd,
		&h.Details, &h.Duration, &h.Prize, &h.MaxTeamMembers, &requirements,
		&h.OrganizerID, &h.OrganizerName, &h.CreatedAt,
	)
	if err != nil {
		return err
	}
	if requirements.Valid {
		h.Requirements = &requirements.String
	}
	return nil
}

func (r *postgresHackathonRepository) GetByID(ctx context.Context, id string) (*models.Hackathon, error) {
	var h models.Hackathon
	err := scanHackathon(r.db.QueryRowContext(ctx, hackathonSelect+` WHERE h.id = $1`, id), &h)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrHackathonNotFound
		}
		return nil, fmt.Errorf("failed to get hackathon: %w", err)
	}
	return &h, nil
}

func (r *postgresHackathonRepository) List(ctx context.Context, filter models.HackathonFilter) ([]models.Hackathon, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(hackathonSelect)

	var conditions []string
	args := []interface{}{}
	argCounter := 1

	if filter.OrganizerID != nil {
		conditions = append(conditions, fmt.Sprintf("h.organizer_id = $%d", argCounter))
		args = append(args, *filter.OrganizerID)
		argCounter++
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		conditions = append(conditions, fmt.Sprintf("(h.name ILIKE $%d OR h.venue ILIKE $%d)", argCounter, argCounter))
		args = append(args, "%"+q+"%")
		argCounter++
	}
	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY h.event_date ASC")

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list hackathons: %w", err)
	}
	defer rows.Close()

	hackathons := make([]models.Hackathon, 0)
	for rows.Next() {
		var h models.Hackathon
		if err := scanHackathon(rows, &h); err != nil {
			return nil, fmt.Errorf("failed to scan hackathon row: %w", err)
		}
		hackathons = append(hackathons, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating hackathon rows: %w", err)
	}
	return hackathons, nil
}
