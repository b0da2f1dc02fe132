package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"vvnews/internal/domain"
)

const sendGridURL = "https://api.sendgrid.com/v3/mail/send"

// SendGridProvider delivers through the SendGrid v3 HTTP API, which survives
// networks that block outbound SMTP.
type SendGridProvider struct {
	apiKey string
	from   string
	client *http.Client
}

// NewSendGrid builds the API-based provider. from is the verified sender.
func NewSendGrid(apiKey, from string) *SendGridProvider {
	return &SendGridProvider{
		apiKey: apiKey,
		from:   from,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

func (p *SendGridProvider) Name() string { return "sendgrid" }

func (p *SendGridProvider) Configured() bool {
	return p.apiKey != "" && p.from != ""
}

type sgAddress struct {
	Email string `json:"email"`
}

type sgPersonalization struct {
	To []sgAddress `json:"to"`
}

type sgContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type sgRequest struct {
	Personalizations []sgPersonalization `json:"personalizations"`
	From             sgAddress           `json:"from"`
	Subject          string              `json:"subject"`
	Content          []sgContent         `json:"content"`
}

func (p *SendGridProvider) Send(ctx context.Context, msg Message) error {
	to := make([]sgAddress, 0, len(msg.To))
	for _, addr := range msg.To {
		to = append(to, sgAddress{Email: addr})
	}
	payload := sgRequest{
		Personalizations: []sgPersonalization{{To: to}},
		From:             sgAddress{Email: p.from},
		Subject:          msg.Subject,
		Content:          []sgContent{{Type: "text/plain", Value: msg.Body}},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("sendgrid marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, sendGridURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("sendgrid request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: sendgrid send: %v", domain.ErrProviderFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("%w: sendgrid status %d: %s", domain.ErrProviderFailure, resp.StatusCode, bytes.TrimSpace(detail))
	}
	return nil
}
