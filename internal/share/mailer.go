package share

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/resend/resend-go/v2"
)

var (
	// ErrRejected means the provider refused the message.
	ErrRejected = errors.New("email rejected by provider")
	// ErrTransport means the provider could not be reached.
	ErrTransport = errors.New("email provider unreachable")
)

// Message is a single outbound email.
type Message struct {
	From    string
	To      string
	Subject string
	HTML    string
	ReplyTo string
}

// Mailer sends a message and returns the provider's message id.
type Mailer interface {
	Configured() bool
	Send(ctx context.Context, msg Message) (string, error)
}

// ResendMailer sends through the Resend API.
type ResendMailer struct {
	client *resend.Client
}

// NewResendMailer returns a mailer; an empty apiKey yields an unconfigured one.
// baseURL overrides the API endpoint when non-empty.
func NewResendMailer(apiKey, baseURL string, httpClient *http.Client) (*ResendMailer, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return &ResendMailer{}, nil
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	client := resend.NewCustomClient(httpClient, apiKey)
	if baseURL = strings.TrimSpace(baseURL); baseURL != "" {
		u, err := url.Parse(strings.TrimRight(baseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("parse email base url: %w", err)
		}
		client.BaseURL = u
	}
	return &ResendMailer{client: client}, nil
}

func (m *ResendMailer) Configured() bool {
	return m != nil && m.client != nil
}

func (m *ResendMailer) Send(ctx context.Context, msg Message) (string, error) {
	if !m.Configured() {
		return "", errors.New("email api key is not configured")
	}
	req := &resend.SendEmailRequest{
		From:    msg.From,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
	}
	if msg.ReplyTo != "" {
		req.ReplyTo = msg.ReplyTo
	}
	sent, err := m.client.Emails.SendWithContext(ctx, req)
	if err != nil {
		return "", classifySendError(err)
	}
	return sent.Id, nil
}

// Network and context failures are transport errors; anything else came back from the API.
func classifySendError(err error) error {
	var urlErr *url.Error
	var netErr net.Error
	switch {
	case errors.As(err, &urlErr), errors.As(err, &netErr),
		errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}
	return fmt.Errorf("%w: %w", ErrRejected, err)
}
