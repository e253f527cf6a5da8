package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/monocle-dev/taskboard/internal/notify"
)

type DiscordWebhookField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type DiscordEmbed struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Color       int                   `json:"color"`
	Fields      []DiscordWebhookField `json:"fields"`
	Footer      *DiscordFooter        `json:"footer,omitempty"`
	Timestamp   string                `json:"timestamp"`
}

type DiscordFooter struct {
	Text string `json:"text"`
}

type DiscordWebhookRequest struct {
	Username string         `json:"username"`
	Embeds   []DiscordEmbed `json:"embeds"`
}

type SlackField struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

type SlackAttachment struct {
	Color     string       `json:"color"`
	Title     string       `json:"title"`
	Text      string       `json:"text"`
	Fields    []SlackField `json:"fields"`
	Footer    string       `json:"footer"`
	Timestamp int64        `json:"ts"`
}

type SlackWebhookRequest struct {
	Username    string            `json:"username"`
	IconEmoji   string            `json:"icon_emoji,omitempty"`
	Text        string            `json:"text"`
	Attachments []SlackAttachment `json:"attachments"`
}

const (
	ColorBlue   = 3447003  // #3498DB - Task assigned
	ColorOrange = 16753920 // #FFA500 - Added to project

	Username = "Taskboard"

	KindDiscord = "discord"
	KindSlack   = "slack"

	webhookTimeout = 10 * time.Second
)

// Webhook mirrors notifications to a Discord or Slack channel. It implements
// notify.Publisher; delivery happens in the background and failures are
// logged.
type Webhook struct {
	kind   string
	url    string
	client *http.Client
}

func NewWebhook(kind, url string) (*Webhook, error) {
	switch kind {
	case KindDiscord, KindSlack:
	default:
		return nil, fmt.Errorf("unsupported webhook kind: %s", kind)
	}

	return &Webhook{
		kind:   kind,
		url:    url,
		client: &http.Client{Timeout: webhookTimeout},
	}, nil
}

func (w *Webhook) Publish(userID uint, message any) {
	msg, ok := message.(notify.Message)

	if !ok {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), webhookTimeout)
		defer cancel()

		if err := w.Send(ctx, msg); err != nil {
			log.Printf("Failed to mirror notification %d for user %d: %v", msg.Notification.ID, userID, err)
		}
	}()
}

// Send delivers msg synchronously.
func (w *Webhook) Send(ctx context.Context, msg notify.Message) error {
	switch w.kind {
	case KindSlack:
		return w.post(ctx, slackPayload(msg))
	default:
		return w.post(ctx, discordPayload(msg))
	}
}

func discordPayload(msg notify.Message) DiscordWebhookRequest {
	n := msg.Notification

	color := ColorBlue
	if n.Type == "project" {
		color = ColorOrange
	}

	return DiscordWebhookRequest{
		Username: Username,
		Embeds: []DiscordEmbed{
			{
				Title:       n.Title,
				Description: n.Message,
				Color:       color,
				Fields: []DiscordWebhookField{
					{Name: "Type", Value: string(n.Type), Inline: true},
					{Name: "Recipient", Value: fmt.Sprintf("User #%d", msg.UserID), Inline: true},
				},
				Footer:    &DiscordFooter{Text: "Taskboard notifications"},
				Timestamp: n.CreatedAt.Format(time.RFC3339),
			},
		},
	}
}

func slackPayload(msg notify.Message) SlackWebhookRequest {
	n := msg.Notification

	color := "#3498DB"
	if n.Type == "project" {
		color = "warning"
	}

	return SlackWebhookRequest{
		Username:  Username,
		IconEmoji: ":clipboard:",
		Text:      fmt.Sprintf("*%s*", n.Title),
		Attachments: []SlackAttachment{
			{
				Color: color,
				Title: n.Title,
				Text:  n.Message,
				Fields: []SlackField{
					{Title: "Type", Value: string(n.Type), Short: true},
					{Title: "Recipient", Value: fmt.Sprintf("User #%d", msg.UserID), Short: true},
				},
				Footer:    "Taskboard notifications",
				Timestamp: n.CreatedAt.Unix(),
			},
		},
	}
}

func (w *Webhook) post(ctx context.Context, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", w.kind, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", w.kind, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send %s webhook: %w", w.kind, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("%s webhook returned status %d", w.kind, resp.StatusCode)
	}

	return nil
}
