package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/thorfins/thorfins-be/internal/config"
)

// Sender delivers a verification code to an email address. Delivery is
// best-effort; callers must not couple their success path to it.
type Sender interface {
	SendCode(ctx context.Context, email string, code int) error
}

// APISender posts transactional emails to an HTTP mail API (Brevo-compatible).
type APISender struct {
	cfg    config.Mail
	client *http.Client
}

// NewAPISender builds a sender for the configured mail API.
func NewAPISender(cfg config.Mail) *APISender {
	return &APISender{
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

type apiPayload struct {
	To          []apiAddress `json:"to"`
	Sender      apiAddress   `json:"sender"`
	Subject     string       `json:"subject"`
	HTMLContent string       `json:"htmlContent"`
}

type apiAddress struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

// SendCode emails the verification code to the recipient.
func (s *APISender) SendCode(ctx context.Context, email string, code int) error {
	payload := apiPayload{
		To:          []apiAddress{{Email: email}},
		Sender:      apiAddress{Name: s.cfg.SenderName, Email: s.cfg.SenderEmail},
		Subject:     "Verification Code",
		HTMLContent: fmt.Sprintf("<p>Your verification code:</p><h1><strong>%d</strong></h1>", code),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal mail payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.APIURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build mail request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", s.cfg.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send mail request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("mail API status %d: %s", resp.StatusCode, detail)
	}
	return nil
}

// LogSender writes codes to the process log instead of sending mail. Used when
// no mail API key is configured, and in tests.
type LogSender struct{}

// SendCode logs the code and recipient.
func (LogSender) SendCode(_ context.Context, email string, code int) error {
	log.Printf("mail disabled: verification code %d for %s", code, email)
	return nil
}

// FromConfig picks the API sender when a key is configured, the log sender
// otherwise.
func FromConfig(cfg config.Mail) Sender {
	if cfg.APIKey == "" {
		return LogSender{}
	}
	return NewAPISender(cfg)
}
