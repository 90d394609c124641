package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"CryptoBoard/internal/dashboard"

	"go.uber.org/zap"
)

type recorded struct {
	mu     sync.Mutex
	events []string
}

func (r *recorded) handler(kind dashboard.EventKind) dashboard.Handler {
	return func(_ context.Context, token string) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.events = append(r.events, kind.String()+":"+token)
	}
}

func (r *recorded) list() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

func bindAll(src *CommandSource, r *recorded) {
	for _, k := range []dashboard.EventKind{dashboard.EventNavigate, dashboard.EventRefresh, dashboard.EventTimeframe, dashboard.EventInstrument} {
		src.Bind(k, r.handler(k))
	}
}

func TestCommandSourceDispatch(t *testing.T) {
	src := NewCommandSource()
	r := &recorded{}
	bindAll(src, r)
	ctx := context.Background()

	tests := []struct {
		text  string
		event string
		reply string
	}{
		{"/page kline", "navigate:kline", "navigate kline done"},
		{"/refresh", "refresh:", "refresh done"},
		{"/tf@CryptoBoardBot 7d", "timeframe:7d", "timeframe 7d done"},
		{"/coin eth", "instrument:ETH", "instrument ETH done"},
	}
	for _, tt := range tests {
		if got := src.HandleCommand(ctx, tt.text); got != tt.reply {
			t.Errorf("HandleCommand(%q): expected reply %q, got %q", tt.text, tt.reply, got)
		}
	}
	events := r.list()
	if len(events) != len(tests) {
		t.Fatalf("expected %d events, got %v", len(tests), events)
	}
	for i, tt := range tests {
		if events[i] != tt.event {
			t.Errorf("event %d: expected %q, got %q", i, tt.event, events[i])
		}
	}
}

func TestCommandSourceRejectsBadInput(t *testing.T) {
	src := NewCommandSource()
	r := &recorded{}
	ctx := context.Background()

	if got := src.HandleCommand(ctx, "/refresh"); got != "Dashboard not ready." {
		t.Errorf("unbound: got %q", got)
	}
	bindAll(src, r)
	if got := src.HandleCommand(ctx, "/tf"); got != "Usage: /tf <timeframe>" {
		t.Errorf("missing arg: got %q", got)
	}
	if got := src.HandleCommand(ctx, "/buy BTC"); !strings.HasPrefix(got, "Unknown command") {
		t.Errorf("unknown: got %q", got)
	}
	if got := src.HandleCommand(ctx, "/help"); got != usage {
		t.Errorf("help: got %q", got)
	}
	if got := src.HandleCommand(ctx, "   "); got != "" {
		t.Errorf("blank: got %q", got)
	}
	if events := r.list(); len(events) != 0 {
		t.Errorf("expected no events, got %v", events)
	}
}

type countingNotifier struct {
	errs, oks []string
}

func (c *countingNotifier) ShowError(msg string)   { c.errs = append(c.errs, msg) }
func (c *countingNotifier) ShowSuccess(msg string) { c.oks = append(c.oks, msg) }

func TestFanout(t *testing.T) {
	a, b := &countingNotifier{}, &countingNotifier{}
	f := Fanout{a, b, NewLogNotifier(zap.NewNop())}

	f.ShowError("refresh failed")
	f.ShowSuccess("data refreshed")

	for _, n := range []*countingNotifier{a, b} {
		if len(n.errs) != 1 || n.errs[0] != "refresh failed" {
			t.Errorf("errors: %v", n.errs)
		}
		if len(n.oks) != 1 || n.oks[0] != "data refreshed" {
			t.Errorf("successes: %v", n.oks)
		}
	}
}

// fakeTelegram serves sendMessage and getUpdates for token "TOKEN".
type fakeTelegram struct {
	sent    chan string
	updates chan []telegramUpdate
}

func newFakeTelegram(t *testing.T) (*fakeTelegram, *httptest.Server) {
	f := &fakeTelegram{sent: make(chan string, 8), updates: make(chan []telegramUpdate, 1)}
	mux := http.NewServeMux()
	mux.HandleFunc("/botTOKEN/sendMessage", func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]string
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload["chat_id"] != "42" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.sent <- payload["text"]
		w.Write([]byte(`{"ok":true}`))
	})
	mux.HandleFunc("/botTOKEN/getUpdates", func(w http.ResponseWriter, r *http.Request) {
		var updates []telegramUpdate
		select {
		case updates = <-f.updates:
		case <-time.After(20 * time.Millisecond):
		case <-r.Context().Done():
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"ok": true, "result": updates})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return f, srv
}

func newTestNotifier(ctx context.Context, srv *httptest.Server) *TelegramNotifier {
	n := NewTelegramNotifier(ctx, "TOKEN", "42", "", zap.NewNop())
	n.APIBase = srv.URL
	n.MaxRetries = 0
	return n
}

func receive(t *testing.T, ch chan string) string {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a telegram message")
		return ""
	}
}

func TestTelegramShowError(t *testing.T) {
	fake, srv := newFakeTelegram(t)
	n := newTestNotifier(context.Background(), srv)

	n.ShowSuccess("data refreshed")
	n.ShowError("failed to load kline data")

	if got := receive(t, fake.sent); got != "❌ failed to load kline data" {
		t.Errorf("unexpected message %q", got)
	}
	select {
	case msg := <-fake.sent:
		t.Errorf("success must not be forwarded by default, got %q", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestTelegramSendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad token", http.StatusUnauthorized)
	}))
	defer srv.Close()
	n := newTestNotifier(context.Background(), srv)

	err := n.Send(context.Background(), "hello")
	if err == nil || !strings.Contains(err.Error(), "status 401") {
		t.Fatalf("expected status error, got %v", err)
	}
	if err := n.SendWithRetry(context.Background(), "hello", 0); err == nil {
		t.Fatal("expected retry error")
	}
}

func TestTelegramPollingDispatchesCommands(t *testing.T) {
	fake, srv := newFakeTelegram(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	n := newTestNotifier(ctx, srv)

	src := NewCommandSource()
	r := &recorded{}
	bindAll(src, r)

	update := telegramUpdate{UpdateID: 7}
	update.Message = &struct {
		Text string `json:"text"`
	}{Text: " /page bitcoin "}
	fake.updates <- []telegramUpdate{update}

	done := make(chan struct{})
	go func() {
		n.StartPolling(ctx, src.HandleCommand)
		close(done)
	}()

	if got := receive(t, fake.sent); got != "navigate bitcoin done" {
		t.Errorf("unexpected reply %q", got)
	}
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("polling did not stop after cancel")
	}
	if events := r.list(); len(events) != 1 || events[0] != "navigate:bitcoin" {
		t.Errorf("events: %v", events)
	}
}
