package sendgrid

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Shubham-rawat0/chatApp/internal/config"
)

const sendURL = "https://api.sendgrid.com/v3/mail/send"

type Client struct {
	apiKey string
	from   string
}

func NewClient(cfg config.SendGridConfig) *Client {
	return &Client{
		apiKey: cfg.APIKey,
		from:   cfg.From,
	}
}

func (c *Client) SendWelcome(ctx context.Context, to, name string) error {
	body := map[string]any{
		"personalizations": []map[string]any{
			{"to": []map[string]string{{"email": to}}},
		},
		"from":    map[string]string{"email": c.from},
		"subject": fmt.Sprintf("Welcome to ChatApp, %s!", name),
		"content": []map[string]string{
			{
				"type": "text/plain",
				"value": fmt.Sprintf(`Hi %s,

Thank you for joining ChatApp! We're excited to have you on board.

With ChatApp, you can chat one-on-one with your friends, create and join
group chats, and stay connected with multiple people at once.

Happy chatting!

- The ChatApp Team`, name),
			},
		},
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, sendURL, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d", resp.StatusCode)
	}
	return nil
}
