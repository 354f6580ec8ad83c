package dashboard

import (
	"sync"
	"time"
)

const (
	RoleClient = "customer"
	RoleAgent  = "agent"
)

// Turn is one line of the conversation shown on the client page.
type Turn struct {
	Role string
	Text string
	At   time.Time
}

// History keeps the on-screen conversation per client. It is separate from the
// memory store: clearing it never deletes stored memories.
type History struct {
	mu    sync.RWMutex
	turns map[string][]Turn
}

func NewHistory() *History {
	return &History{turns: make(map[string][]Turn)}
}

func (h *History) Append(clientID string, turns ...Turn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.turns[clientID] = append(h.turns[clientID], turns...)
}

func (h *History) Get(clientID string) []Turn {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]Turn(nil), h.turns[clientID]...)
}

func (h *History) Clear(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.turns, clientID)
}
