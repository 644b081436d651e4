package mail

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"gopkg.in/gomail.v2"
)

//go:embed templates/*.html
var templateFS embed.FS

var summaryTmpl = template.Must(template.ParseFS(templateFS, "templates/import_summary.html"))

// Dialer is satisfied by *gomail.Dialer.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

func NewEmailSender(host string, port int, user, password, from string) *EmailSender {
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
		dialer:   gomail.NewDialer(host, port, user, password),
	}
}

// WithDialer swaps the SMTP transport; used by tests.
func (s *EmailSender) WithDialer(d Dialer) *EmailSender {
	s.dialer = d
	return s
}

func (s *EmailSender) SendImportSummary(to, campaignName string, imported, duplicates, invalid, dncSkipped int) error {
	data := ImportSummaryData{
		CampaignName: campaignName,
		Imported:     imported,
		Duplicates:   duplicates,
		Invalid:      invalid,
		DNCSkipped:   dncSkipped,
	}

	var body bytes.Buffer
	if err := summaryTmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("render import summary: %w", err)
	}

	subject := fmt.Sprintf("Import complete: %d leads added", imported)
	if campaignName != "" {
		subject = fmt.Sprintf("%s: %d leads added", campaignName, imported)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body.String())

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send smtp email: %w", err)
	}
	return nil
}
