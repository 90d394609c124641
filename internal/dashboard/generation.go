package dashboard

import "sync"

// Display targets guarded against out-of-order responses.
const targetPrices = "prices"

func chartTarget(surface string) string { return "chart:" + surface }

func analysisTarget(page Page) string { return "analysis:" + string(page) }

// generations hands out monotonic request tokens per display target and
// applies a response only when no later request for that target has
// already been applied.
type generations struct {
	mu      sync.Mutex
	started map[string]uint64
	applied map[string]uint64
}

func newGenerations() *generations {
	return &generations{
		started: make(map[string]uint64),
		applied: make(map[string]uint64),
	}
}

func (g *generations) begin(target string) uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.started[target]++
	return g.started[target]
}

// apply runs write if token is newer than the last applied token for target.
func (g *generations) apply(target string, token uint64, write func()) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if token <= g.applied[target] {
		return false
	}
	g.applied[target] = token
	write()
	return true
}
