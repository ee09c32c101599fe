// Package share emails a resume link to a recipient.
package share

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"html/template"
	"net/mail"
	"net/url"
	"strings"

	"resume-tailor/internal/shared/apperr"
	"resume-tailor/internal/shared/telemetry"
)

const (
	DefaultSubject = "Check out my optimized Resume!"
	DefaultMessage = "I wanted to share my newly optimized resume with you."
)

//go:embed templates/email.html
var templateFS embed.FS

var emailTemplate = template.Must(template.ParseFS(templateFS, "templates/email.html"))

// Request is the body of POST /share/email.
type Request struct {
	Email   string `json:"email"`
	Subject string `json:"subject"`
	CVLink  string `json:"cvLink"`
	Message string `json:"message"`
}

type Service struct {
	Mailer Mailer
	From   string
}

func NewService(mailer Mailer, from string) *Service {
	return &Service{Mailer: mailer, From: from}
}

// Send validates req, renders the body and hands it to the mailer.
// replyTo is the sender's own address, when known.
func (s *Service) Send(ctx context.Context, req Request, replyTo string) (string, error) {
	to, link, err := validate(req)
	if err != nil {
		return "", err
	}
	if s.Mailer == nil || !s.Mailer.Configured() {
		return "", apperr.Configuration("email api key is missing")
	}
	subject := strings.TrimSpace(req.Subject)
	if subject == "" {
		subject = DefaultSubject
	}
	body, err := renderBody(strings.TrimSpace(req.Message), link)
	if err != nil {
		return "", apperr.Wrap(apperr.KindInternal, "render email", err)
	}

	id, err := s.Mailer.Send(ctx, Message{
		From:    s.From,
		To:      to,
		Subject: subject,
		HTML:    body,
		ReplyTo: replyTo,
	})
	switch {
	case errors.Is(err, ErrRejected):
		telemetry.Warn("share.email_rejected", map[string]any{"error": err.Error()})
		return "", apperr.Wrap(apperr.KindValidation, "email was rejected by the provider", err)
	case err != nil:
		telemetry.Error("share.email_failed", map[string]any{"error": err.Error()})
		return "", apperr.Wrap(apperr.KindInternal, "send email", err)
	}
	telemetry.Info("share.email_sent", map[string]any{"message_id": id})
	return id, nil
}

func validate(req Request) (string, string, error) {
	email := strings.TrimSpace(req.Email)
	link := strings.TrimSpace(req.CVLink)
	if email == "" || link == "" {
		return "", "", apperr.Validation("Missing required fields")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return "", "", apperr.Validation("email must be a valid address")
	}
	u, err := url.Parse(link)
	if err != nil || !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", "", apperr.Validation("cvLink must be an absolute http(s) URL")
	}
	return addr.Address, u.String(), nil
}

func renderBody(message, link string) (string, error) {
	if message == "" {
		message = DefaultMessage
	}
	var buf bytes.Buffer
	err := emailTemplate.Execute(&buf, struct {
		Message string
		Link    string
	}{Message: message, Link: link})
	return buf.String(), err
}
