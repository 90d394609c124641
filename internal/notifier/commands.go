package notifier

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"CryptoBoard/internal/dashboard"
)

// CommandSource turns chat commands into dashboard events:
//
//	/page <name>   navigate
//	/refresh       manual refresh
//	/tf <token>    change timeframe
//	/coin <sym>    change instrument
type CommandSource struct {
	mu       sync.Mutex
	handlers map[dashboard.EventKind]dashboard.Handler
}

// NewCommandSource creates an empty CommandSource.
func NewCommandSource() *CommandSource {
	return &CommandSource{handlers: make(map[dashboard.EventKind]dashboard.Handler)}
}

// Bind registers h for kind, replacing any earlier handler.
func (s *CommandSource) Bind(kind dashboard.EventKind, h dashboard.Handler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[kind] = h
}

var commandKinds = map[string]dashboard.EventKind{
	"/page":    dashboard.EventNavigate,
	"/refresh": dashboard.EventRefresh,
	"/tf":      dashboard.EventTimeframe,
	"/coin":    dashboard.EventInstrument,
}

var argNames = map[dashboard.EventKind]string{
	dashboard.EventNavigate:   "page",
	dashboard.EventTimeframe:  "timeframe",
	dashboard.EventInstrument: "symbol",
}

const usage = "Commands: /page <name>, /refresh, /tf <timeframe>, /coin <symbol>"

// HandleCommand dispatches one chat command and returns the reply.
// It has the CommandHandler signature.
func (s *CommandSource) HandleCommand(ctx context.Context, text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ""
	}
	// "/tf@MyBot 1h" in group chats
	name, _, _ := strings.Cut(strings.ToLower(fields[0]), "@")
	if name == "/help" || name == "/start" {
		return usage
	}
	kind, ok := commandKinds[name]
	if !ok {
		return "Unknown command. " + usage
	}

	token := ""
	if kind != dashboard.EventRefresh {
		if len(fields) < 2 {
			return fmt.Sprintf("Usage: %s <%s>", name, argNames[kind])
		}
		token = fields[1]
		if kind == dashboard.EventInstrument {
			token = strings.ToUpper(token)
		}
	}

	s.mu.Lock()
	h := s.handlers[kind]
	s.mu.Unlock()
	if h == nil {
		return "Dashboard not ready."
	}
	h(ctx, token)
	if token == "" {
		return fmt.Sprintf("%s done", kind)
	}
	return fmt.Sprintf("%s %s done", kind, token)
}
