package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/Dosada05/hackathon-portal/models"
)

// Actor is the authenticated caller as seen by the service layer.
type Actor struct {
	ID   string
	Role models.UserRole
}

func (a Actor) IsAdmin() bool { return a.Role == models.RoleAdmin }

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

var dateLayouts = []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04"}

// parseDate принимает и дату из <input type="date">, и полный RFC3339.
func parseDate(field, raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, ValidationErrors{field: fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", raw)}
}

// listKind normalizes the ?type= filter of the organizer and student lists.
// "upcomin" is accepted because deployed front ends still send it.
func listKind(raw string) (models.HackathonStatus, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return "", nil
	case "upcoming", "upcomin":
		return models.StatusUpcoming, nil
	case "conducted", "participated":
		return models.StatusConducted, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidListType, raw)
	}
}
