package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Message is a chat message body in the Discord webhook format
type Message struct {
	Content         string           `json:"content"`
	Embeds          []Embed          `json:"embeds,omitempty"`
	AllowedMentions *AllowedMentions `json:"allowed_mentions,omitempty"`
}

// Embed is a block of fields rendered under the message
type Embed struct {
	Title       string  `json:"title,omitempty"`
	Description string  `json:"description,omitempty"`
	Fields      []Field `json:"fields,omitempty"`
}

// Field is one name/value pair of an embed
type Field struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

// AllowedMentions limits which mentions in Content ping anyone
type AllowedMentions struct {
	Parse []string `json:"parse"`
	Roles []string `json:"roles,omitempty"`
}

// RoleMention renders a role ping
func RoleMention(roleID string) string {
	return "<@&" + roleID + ">"
}

// MentionRole prefixes the message with a ping for roleID and allows only that ping
func (m *Message) MentionRole(roleID string) {
	if roleID == "" {
		return
	}
	m.Content = strings.TrimSpace(RoleMention(roleID) + " " + m.Content)
	m.AllowedMentions = &AllowedMentions{Parse: []string{}, Roles: []string{roleID}}
}

// Webhook posts to a chat channel through an incoming webhook URL
type Webhook struct {
	url    string
	client *http.Client
}

// NewWebhook creates a poster for url. A nil client uses a 10 second timeout.
func NewWebhook(url string, client *http.Client) *Webhook {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Webhook{url: strings.TrimRight(url, "/"), client: client}
}

type messageResponse struct {
	ID string `json:"id"`
}

// Post sends a message and returns its ID for later edits
func (w *Webhook) Post(ctx context.Context, msg Message) (string, error) {
	var resp messageResponse
	if err := w.do(ctx, http.MethodPost, w.url+"?wait=true", msg, &resp); err != nil {
		return "", fmt.Errorf("failed to post message: %w", err)
	}
	if resp.ID == "" {
		return "", fmt.Errorf("failed to post message: response has no message id")
	}
	return resp.ID, nil
}

// Edit replaces the content of a previously posted message
func (w *Webhook) Edit(ctx context.Context, id string, msg Message) error {
	if err := w.do(ctx, http.MethodPatch, w.url+"/messages/"+id, msg, nil); err != nil {
		return fmt.Errorf("failed to edit message %s: %w", id, err)
	}
	return nil
}

// Notify posts a short alert as a single line
func (w *Webhook) Notify(ctx context.Context, alert Alert) error {
	_, err := w.Post(ctx, Message{Content: fmt.Sprintf("**%s** %s", alert.Summary, alert.Body)})
	return err
}

func (w *Webhook) do(ctx context.Context, method, url string, body interface{}, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
