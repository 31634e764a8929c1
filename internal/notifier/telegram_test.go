package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

type fakeTelegram struct {
	mu       sync.Mutex
	sent     []map[string]string
	failures int
	updates  string
}

func (f *fakeTelegram) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/sendMessage"):
			f.mu.Lock()
			defer f.mu.Unlock()
			if f.failures > 0 {
				f.failures--
				http.Error(w, `{"ok":false}`, http.StatusBadGateway)
				return
			}
			var payload map[string]string
			if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
				t.Errorf("decode payload: %v", err)
			}
			f.sent = append(f.sent, payload)
			fmt.Fprint(w, `{"ok":true}`)
		case strings.HasSuffix(r.URL.Path, "/getUpdates"):
			fmt.Fprint(w, f.updates)
		default:
			http.NotFound(w, r)
		}
	}
}

func newTestNotifier(url string) *TelegramNotifier {
	n := NewTelegramNotifier("TOKEN", "42", "")
	n.BaseURL = url
	n.limiter = rate.NewLimiter(rate.Inf, 1)
	return n
}

func TestTelegram_Send(t *testing.T) {
	fake := &fakeTelegram{}
	srv := httptest.NewServer(fake.handler(t))
	defer srv.Close()

	n := newTestNotifier(srv.URL)
	if err := n.Notify(context.Background(), "hello"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fake.sent) != 1 {
		t.Fatalf("expected 1 message, got %d", len(fake.sent))
	}
	got := fake.sent[0]
	if got["chat_id"] != "42" || got["text"] != "hello" || got["parse_mode"] != "HTML" {
		t.Errorf("unexpected payload %v", got)
	}
}

func TestTelegram_SendErrorStatus(t *testing.T) {
	fake := &fakeTelegram{failures: 1}
	srv := httptest.NewServer(fake.handler(t))
	defer srv.Close()

	n := newTestNotifier(srv.URL)
	err := n.Send(context.Background(), "hello")
	if err == nil || !strings.Contains(err.Error(), "502") {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestTelegram_SendWithRetryRecovers(t *testing.T) {
	fake := &fakeTelegram{failures: 1}
	srv := httptest.NewServer(fake.handler(t))
	defer srv.Close()

	n := newTestNotifier(srv.URL)
	if err := n.SendWithRetry(context.Background(), "hello", 1); err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if len(fake.sent) != 1 {
		t.Errorf("expected 1 delivered message, got %d", len(fake.sent))
	}
}

func TestTelegram_SendWithRetryHonoursContext(t *testing.T) {
	fake := &fakeTelegram{failures: 10}
	srv := httptest.NewServer(fake.handler(t))
	defer srv.Close()

	n := newTestNotifier(srv.URL)
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	if err := n.SendWithRetry(ctx, "hello", 3); err == nil {
		t.Fatal("expected error after cancellation")
	}
}

func TestTelegram_PollDispatchesConfiguredChatOnly(t *testing.T) {
	fake := &fakeTelegram{updates: `{"ok":true,"result":[
		{"update_id":7,"message":{"text":"/analyze BBCA.JK","chat":{"id":42}}},
		{"update_id":8,"message":{"text":"/analyze TLKM.JK","chat":{"id":99}}},
		{"update_id":9}
	]}`}
	srv := httptest.NewServer(fake.handler(t))
	defer srv.Close()

	n := newTestNotifier(srv.URL)
	var commands []string
	offset, err := n.poll(context.Background(), srv.Client(), 0, 0, func(cmd string) string {
		commands = append(commands, cmd)
		return "ok: " + cmd
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if offset != 10 {
		t.Errorf("expected next offset 10, got %d", offset)
	}
	if len(commands) != 1 || commands[0] != "/analyze BBCA.JK" {
		t.Errorf("unexpected commands %v", commands)
	}
	if len(fake.sent) != 1 || fake.sent[0]["text"] != "ok: /analyze BBCA.JK" {
		t.Errorf("expected one reply, got %v", fake.sent)
	}
}

func TestTelegram_PollRejectsNotOK(t *testing.T) {
	fake := &fakeTelegram{updates: `{"ok":false,"result":[]}`}
	srv := httptest.NewServer(fake.handler(t))
	defer srv.Close()

	n := newTestNotifier(srv.URL)
	offset, err := n.poll(context.Background(), srv.Client(), 5, 0, func(string) string { return "" })
	if err == nil {
		t.Fatal("expected error for ok=false")
	}
	if offset != 5 {
		t.Errorf("offset should be unchanged, got %d", offset)
	}
}
