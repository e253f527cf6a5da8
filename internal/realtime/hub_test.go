package realtime

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestPublishReachesOnlyRecipient(t *testing.T) {
	hub := NewHub()
	upgrader := websocket.Upgrader{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var userID uint = 1
		if r.URL.Query().Get("user") == "2" {
			userID = 2
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Serve(userID, conn)
	}))
	defer srv.Close()

	dial := func(user string) *websocket.Conn {
		t.Helper()
		url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?user=" + user
		conn, _, err := websocket.DefaultDialer.Dial(url, nil)
		if err != nil {
			t.Fatalf("dial: %v", err)
		}
		var welcome map[string]string
		if err := conn.ReadJSON(&welcome); err != nil || welcome["type"] != "connected" {
			t.Fatalf("welcome = %v, err %v", welcome, err)
		}
		return conn
	}

	one := dial("1")
	defer one.Close()
	two := dial("2")
	defer two.Close()

	if got := hub.Connections(1); got != 1 {
		t.Fatalf("connections for user 1 = %d, want 1", got)
	}

	hub.Publish(2, map[string]string{"type": "notification", "title": "hello"})

	var msg map[string]string
	two.SetReadDeadline(time.Now().Add(2 * time.Second))
	if err := two.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	if msg["title"] != "hello" {
		t.Fatalf("message = %v", msg)
	}

	one.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	if err := one.ReadJSON(&msg); err == nil {
		t.Fatalf("user 1 received a message meant for user 2: %v", msg)
	}
}

func TestPublishWithoutConnectionsIsNoop(t *testing.T) {
	hub := NewHub()
	hub.Publish(99, map[string]string{"type": "notification"})
	if hub.Connections(99) != 0 {
		t.Fatal("publish created a connection entry")
	}
}
