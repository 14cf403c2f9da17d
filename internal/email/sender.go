// Package email sends account lifecycle notifications. Delivery is
// best-effort: callers fire it in the background and a failure never fails
// the account operation that triggered it.
package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Sender delivers account notifications to a user's email address.
type Sender interface {
	SendWelcome(ctx context.Context, to, name string) error
	SendGoodbye(ctx context.Context, to, name string) error
}

const sendGridEndpoint = "https://api.sendgrid.com/v3/mail/send"

// sendGridSender sends mail through the SendGrid v3 API.
type sendGridSender struct {
	apiKey string
	from   string
	client *http.Client
}

// NewSendGridSender creates a SendGrid-backed sender. If apiKey is empty a
// no-op sender is returned so local setups work without credentials.
func NewSendGridSender(apiKey, from string) Sender {
	if apiKey == "" {
		return noopSender{}
	}
	return &sendGridSender{
		apiKey: apiKey,
		from:   from,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *sendGridSender) SendWelcome(ctx context.Context, to, name string) error {
	subject := "Thanks for joining"
	body := fmt.Sprintf("Welcome to the app, %s. Let me know how you get along with the app.", name)
	return s.send(ctx, to, subject, body)
}

func (s *sendGridSender) SendGoodbye(ctx context.Context, to, name string) error {
	subject := "Sorry to see you go"
	body := fmt.Sprintf("Goodbye %s. We are sad you are leaving. Let us know if there is anything we can do to get you back.", name)
	return s.send(ctx, to, subject, body)
}

func (s *sendGridSender) send(ctx context.Context, to, subject, body string) error {
	payload := map[string]interface{}{
		"personalizations": []map[string]interface{}{
			{"to": []map[string]string{{"email": to}}},
		},
		"from":    map[string]string{"email": s.from},
		"subject": subject,
		"content": []map[string]string{
			{"type": "text/plain", "value": body},
		},
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal mail payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, sendGridEndpoint, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to build mail request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("mail send returned status %d", resp.StatusCode)
	}
	return nil
}

// noopSender drops all notifications.
type noopSender struct{}

func (noopSender) SendWelcome(context.Context, string, string) error { return nil }
func (noopSender) SendGoodbye(context.Context, string, string) error { return nil }
