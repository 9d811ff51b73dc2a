package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Mailer sends outbound email. Delivery failures are never fatal to the
// operation that triggered them.
type Mailer interface {
	SendInvitation(to, orgName, inviterEmail, inviteURL string, expiresAt time.Time) error
}

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// ResendMailer sends email through the Resend HTTP API.
type ResendMailer struct {
	apiKey string
	from   string
	client *http.Client
}

// NewResendMailer creates a ResendMailer.
func NewResendMailer(apiKey, from string) *ResendMailer {
	return &ResendMailer{
		apiKey: apiKey,
		from:   from,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// SendInvitation emails an invitation link to the invited address.
func (m *ResendMailer) SendInvitation(to, orgName, inviterEmail, inviteURL string, expiresAt time.Time) error {
	subject := fmt.Sprintf("You've been invited to join %s", orgName)
	html := fmt.Sprintf(
		`<p><strong>%s</strong> has invited you to join <strong>%s</strong>.</p>`+
			`<p><a href="%s">Accept Invitation</a></p>`+
			`<p>Or copy this link: %s</p>`+
			`<p>This invitation expires on %s.</p>`,
		inviterEmail, orgName, inviteURL, inviteURL, expiresAt.Format("January 2, 2006"),
	)

	body := resendRequest{
		From:    m.from,
		To:      []string{to},
		Subject: subject,
		HTML:    html,
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, "https://api.resend.com/emails", bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.apiKey)

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("resend API error: status %d", resp.StatusCode)
	}

	return nil
}
