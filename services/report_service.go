package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Dosada05/hackathon-portal/models"
	"github.com/Dosada05/hackathon-portal/repositories"
	"github.com/go-pdf/fpdf"
)

type ReportService interface {
	HackathonReport(ctx context.Context, actor Actor, hackathonID string) (*Report, error)
}

type Report struct {
	Filename string
	Content  []byte
}

type reportService struct {
	hackathonRepo    repositories.HackathonRepository
	registrationRepo repositories.RegistrationRepository
	now              func() time.Time
}

func NewReportService(hackathonRepo repositories.HackathonRepository, registrationRepo repositories.RegistrationRepository) ReportService {
	return &reportService{
		hackathonRepo:    hackathonRepo,
		registrationRepo: registrationRepo,
		now:              time.Now,
	}
}

// ReportFilename is the download name the organizer dashboard uses.
func ReportFilename(eventName string) string {
	return "Hackathon_Report_" + eventName + ".pdf"
}

func (s *reportService) HackathonReport(ctx context.Context, actor Actor, hackathonID string) (*Report, error) {
	h, err := s.hackathonRepo.GetByID(ctx, hackathonID)
	if err != nil {
		if errors.Is(err, repositories.ErrHackathonNotFound) {
			return nil, ErrHackathonNotFound
		}
		return nil, fmt.Errorf("failed to get hackathon: %w", err)
	}
	if !actor.IsAdmin() && h.OrganizerID != actor.ID {
		return nil, ErrForbiddenOperation
	}

	regs, err := s.registrationRepo.ListByHackathon(ctx, hackathonID)
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations: %w", err)
	}

	content, err := renderReport(h, regs, s.now())
	if err != nil {
		return nil, err
	}
	return &Report{Filename: ReportFilename(h.Name), Content: content}, nil
}

func renderReport(h *models.Hackathon, regs []models.Registration, generatedAt time.Time) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr("Hackathon Report: "+h.Name), false)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Arial", "I", 8)
		pdf.CellFormat(0, 10, fmt.Sprintf("Generated %s - page %d", generatedAt.UTC().Format("2006-01-02 15:04 MST"), pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.CellFormat(0, 12, tr(h.Name), "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Arial", "", 11)
	details := [][2]string{
		{"Type", string(h.Type)},
		{"Venue", h.Venue},
		{"Date", h.Date.Format("02 Jan 2006")},
		{"Registration", h.RegStart.Format("02 Jan 2006") + " - " + h.RegEnd.Format("02 Jan 2006")},
		{"Duration", h.Duration},
		{"Prize", h.Prize},
		{"Status", string(h.StatusAt(generatedAt))},
	}
	if h.OrganizerName != "" {
		details = append(details, [2]string{"Organizer", h.OrganizerName})
	}
	for _, d := range details {
		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(40, 7, d[0]+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 11)
		pdf.CellFormat(0, 7, tr(d[1]), "", 1, "L", false, 0, "")
	}
	if h.Details != "" {
		pdf.Ln(2)
		pdf.MultiCell(0, 6, tr(h.Details), "", "L", false)
	}

	var pending, approved, rejected int
	for _, r := range regs {
		switch r.Status {
		case models.RegistrationApproved:
			approved++
		case models.RegistrationRejected:
			rejected++
		default:
			pending++
		}
	}

	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(0, 8, fmt.Sprintf("Registrations: %d (approved %d, pending %d, rejected %d)", len(regs), approved, pending, rejected), "", 1, "L", false, 0, "")

	headers := []string{"#", "Team / Participant", "Contact", "Members", "Status"}
	widths := []float64{10, 55, 65, 25, 35}
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(240, 240, 240)
	for i, head := range headers {
		pdf.CellFormat(widths[i], 7, head, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	for i, r := range regs {
		title := r.ContactName()
		if r.IsTeam && r.TeamName != "" {
			title = r.TeamName + " (" + r.LeaderName + ")"
		}
		members := "-"
		if r.IsTeam {
			members = fmt.Sprintf("%d", len(r.Members)+1)
		}
		row := []string{
			fmt.Sprintf("%d", i+1),
			truncate(title, 32),
			truncate(r.ContactEmail(), 38),
			members,
			string(r.Status),
		}
		for j, cell := range row {
			pdf.CellFormat(widths[j], 7, tr(cell), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}
	return buf.Bytes(), nil
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
