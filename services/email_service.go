package services

import (
	"bytes"
	"context"
	"crypto/tls"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/smtp"

	"github.com/Dosada05/hackathon-portal/config"
	"github.com/Dosada05/hackathon-portal/models"
)

//go:embed templates/emails/*.html
var emailTemplates embed.FS

// Notifier сообщает участнику о решении организатора по его заявке.
type Notifier interface {
	NotifyProposalDecision(ctx context.Context, reg *models.Registration, hackathon *models.Hackathon) error
}

type EmailService struct {
	cfg       *config.Config
	templates *template.Template
}

func NewEmailService(cfg *config.Config) (*EmailService, error) {
	t, err := template.ParseFS(emailTemplates, "templates/emails/*.html")
	if err != nil {
		return nil, fmt.Errorf("ошибка парсинга шаблонов писем: %w", err)
	}
	return &EmailService{cfg: cfg, templates: t}, nil
}

func (s *EmailService) SendEmail(to []string, subject string, body string) error {
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)

	msg := []byte("To: " + to[0] + "\r\n" +
		"From: " + s.cfg.SMTPFrom + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-version: 1.0;\r\nContent-Type: text/html; charset=\"UTF-8\";\r\n" +
		"\r\n" +
		body + "\r\n")

	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)
	tlsconfig := &tls.Config{ServerName: s.cfg.SMTPHost}

	var client *smtp.Client
	if s.cfg.SMTPPort == 465 {
		// Прямое TLS-соединение (обычно порт 465)
		conn, err := tls.Dial("tcp", addr, tlsconfig)
		if err != nil {
			return fmt.Errorf("ошибка TLS соединения: %w", err)
		}
		defer conn.Close()
		client, err = smtp.NewClient(conn, s.cfg.SMTPHost)
		if err != nil {
			return fmt.Errorf("ошибка создания SMTP клиента: %w", err)
		}
	} else {
		// STARTTLS (обычно порт 587)
		c, err := smtp.Dial(addr)
		if err != nil {
			return fmt.Errorf("ошибка соединения SMTP: %w", err)
		}
		client = c
		if err = client.StartTLS(tlsconfig); err != nil {
			client.Close()
			return fmt.Errorf("ошибка команды STARTTLS: %w", err)
		}
	}
	defer client.Quit()

	if s.cfg.SMTPUsername != "" {
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("ошибка аутентификации SMTP: %w", err)
		}
	}
	if err := client.Mail(s.cfg.SMTPFrom); err != nil {
		return fmt.Errorf("ошибка MAIL FROM: %w", err)
	}
	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			return fmt.Errorf("ошибка RCPT TO: %w", err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("ошибка команды DATA: %w", err)
	}
	if _, err = w.Write(msg); err != nil {
		return fmt.Errorf("ошибка записи сообщения: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("ошибка закрытия DATA: %w", err)
	}
	return nil
}

func (s *EmailService) NotifyProposalDecision(_ context.Context, reg *models.Registration, hackathon *models.Hackathon) error {
	to := reg.ContactEmail()
	if to == "" {
		return nil
	}
	body, err := renderDecisionEmail(s.templates, reg, hackathon)
	if err != nil {
		return err
	}
	return s.SendEmail([]string{to}, decisionSubject(reg, hackathon), body)
}

// LogNotifier используется, когда SMTP не настроен: решение только пишется в лог.
type LogNotifier struct {
	Logger *slog.Logger
}

func (n LogNotifier) NotifyProposalDecision(_ context.Context, reg *models.Registration, hackathon *models.Hackathon) error {
	n.Logger.Info("proposal decision notification",
		slog.String("to", reg.ContactEmail()),
		slog.String("subject", decisionSubject(reg, hackathon)),
	)
	return nil
}

func decisionSubject(reg *models.Registration, hackathon *models.Hackathon) string {
	return fmt.Sprintf("%s: your proposal was %s", hackathon.Name, reg.Status)
}

func renderDecisionEmail(t *template.Template, reg *models.Registration, hackathon *models.Hackathon) (string, error) {
	data := struct {
		Name      string
		TeamName  string
		Hackathon string
		Venue     string
		Date      string
		Approved  bool
	}{
		Name:      reg.ContactName(),
		TeamName:  reg.TeamName,
		Hackathon: hackathon.Name,
		Venue:     hackathon.Venue,
		Date:      hackathon.Date.Format("02 Jan 2006"),
		Approved:  reg.Status == models.RegistrationApproved,
	}
	var body bytes.Buffer
	if err := t.ExecuteTemplate(&body, "proposal_decision.html", data); err != nil {
		return "", fmt.Errorf("ошибка генерации тела письма: %w", err)
	}
	return body.String(), nil
}
