package service

import (
	"context"
	"fmt"
	"html"
	"log"

	"github.com/resend/resend-go/v2"
)

// Mailer sends one transactional email.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// EmailService sends mail through Resend. A nil *EmailService is valid and
// sends nothing.
type EmailService struct {
	client *resend.Client
	from   string
}

// NewEmailService returns nil when no API key is configured.
func NewEmailService(apiKey, from string) *EmailService {
	if apiKey == "" {
		return nil
	}
	if from == "" {
		from = "noreply@resend.dev"
	}
	return &EmailService{client: resend.NewClient(apiKey), from: from}
}

func (s *EmailService) Enabled() bool { return s != nil && s.client != nil }

func (s *EmailService) Send(ctx context.Context, to, subject, htmlBody string) error {
	if !s.Enabled() {
		return nil
	}
	_, err := s.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{to},
		Subject: subject,
		Html:    htmlBody,
	})
	if err != nil {
		log.Printf("[email] send to %s failed: %v", to, err)
	}
	return err
}

func sessionStartedEmail(sessionTitle, teacherName string) (subject, body string) {
	subject = "Live session started: " + sessionTitle
	by := ""
	if teacherName != "" {
		by = fmt.Sprintf(" by <b>%s</b>", html.EscapeString(teacherName))
	}
	body = fmt.Sprintf(`<div>
  <p>Hello,</p>
  <p>A live session has just started%s: <b>%s</b>.</p>
  <p>Join from your dashboard.</p>
  <p>ClassHub</p>
</div>`, by, html.EscapeString(sessionTitle))
	return subject, body
}
