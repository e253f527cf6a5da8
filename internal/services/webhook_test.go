package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/monocle-dev/taskboard/internal/models"
	"github.com/monocle-dev/taskboard/internal/notify"
)

func testMessage() notify.Message {
	return notify.Message{
		Type:   "notification",
		UserID: 3,
		Notification: notify.View{
			ID:        9,
			Type:      models.NotificationTask,
			Title:     "New task assigned",
			Message:   `Alice assigned you the task "ship"`,
			CreatedAt: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
		},
	}
}

func TestWebhookSendDiscord(t *testing.T) {
	var got DiscordWebhookRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	hook, err := NewWebhook(KindDiscord, srv.URL)
	if err != nil {
		t.Fatalf("NewWebhook: %v", err)
	}
	if err := hook.Send(context.Background(), testMessage()); err != nil {
		t.Fatalf("Send: %v", err)
	}

	if len(got.Embeds) != 1 || got.Embeds[0].Title != "New task assigned" || got.Embeds[0].Color != ColorBlue {
		t.Fatalf("payload = %+v", got)
	}
}

func TestWebhookSendSlackReportsFailure(t *testing.T) {
	var got SlackWebhookRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	hook, err := NewWebhook(KindSlack, srv.URL)
	if err != nil {
		t.Fatalf("NewWebhook: %v", err)
	}
	if err := hook.Send(context.Background(), testMessage()); err == nil {
		t.Fatal("expected error for 500 response")
	}
	if len(got.Attachments) != 1 || got.Attachments[0].Text != testMessage().Notification.Message {
		t.Fatalf("payload = %+v", got)
	}
}

func TestNewWebhookRejectsUnknownKind(t *testing.T) {
	if _, err := NewWebhook("teams", "http://example.invalid"); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}
