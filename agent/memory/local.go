package memory

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	contractx "github.com/tanpawarit/Chative-Client-Relationship-Agent/agent/contract"
)

// LocalStore keeps entries in process memory with a per-client sequence id.
type LocalStore struct {
	mu      sync.RWMutex
	entries map[string][]contractx.MemoryEntry
	seq     map[string]int
	now     func() time.Time
}

func NewLocalStore(opts ...LocalOption) *LocalStore {
	s := &LocalStore{
		entries: make(map[string][]contractx.MemoryEntry),
		seq:     make(map[string]int),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type LocalOption func(*LocalStore)

func WithLocalClock(now func() time.Time) LocalOption {
	return func(s *LocalStore) {
		if now != nil {
			s.now = now
		}
	}
}

func (s *LocalStore) CreateNamespace(_ context.Context, clientID string) error {
	if err := validateClientID(clientID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[clientID]; !ok {
		s.entries[clientID] = nil
	}
	return nil
}

func (s *LocalStore) Store(_ context.Context, clientID, content string, entryType contractx.EntryType, metadata map[string]any) error {
	if err := validateClientID(clientID); err != nil {
		return err
	}
	now := s.now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq[clientID]++
	s.entries[clientID] = append(s.entries[clientID], contractx.MemoryEntry{
		ID:        strconv.Itoa(s.seq[clientID]),
		ClientID:  clientID,
		Content:   content,
		Type:      entryType,
		Metadata:  withDefaults(metadata, clientID, now),
		CreatedAt: now,
	})
	return nil
}

// Search returns the first entries whose content contains the query, case-insensitively.
func (s *LocalStore) Search(_ context.Context, clientID string, query contractx.SearchQuery) ([]contractx.MemoryEntry, error) {
	needle := strings.ToLower(query.Text)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []contractx.MemoryEntry
	for _, e := range s.entries[clientID] {
		if query.Limit > 0 && len(out) >= query.Limit {
			break
		}
		if query.Type != "" && e.Type != query.Type {
			continue
		}
		if strings.Contains(strings.ToLower(e.Content), needle) {
			out = append(out, cloneEntry(e))
		}
	}
	return out, nil
}

// List returns the newest limit entries, oldest first.
func (s *LocalStore) List(_ context.Context, clientID string, limit int) ([]contractx.MemoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := s.entries[clientID]
	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	out := make([]contractx.MemoryEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, cloneEntry(e))
	}
	return out, nil
}

func (s *LocalStore) Update(_ context.Context, clientID, entryID, content string, metadata map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, e := range s.entries[clientID] {
		if e.ID != entryID {
			continue
		}
		e.Content = content
		for k, v := range metadata {
			e.Metadata[k] = v
		}
		e.Metadata[contractx.MetaTimestamp] = s.now().UTC().Format(time.RFC3339Nano)
		s.entries[clientID][i] = e
		return nil
	}
	return fmt.Errorf("%w: %s/%s", contractx.ErrEntryNotFound, clientID, entryID)
}

func (s *LocalStore) Delete(_ context.Context, clientID, entryID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.entries[clientID]
	for i, e := range entries {
		if e.ID == entryID {
			s.entries[clientID] = append(entries[:i:i], entries[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s/%s", contractx.ErrEntryNotFound, clientID, entryID)
}

// Reset drops every namespace.
func (s *LocalStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string][]contractx.MemoryEntry)
	s.seq = make(map[string]int)
}

func validateClientID(clientID string) error {
	if strings.TrimSpace(clientID) == "" {
		return fmt.Errorf("%w: client id is empty", contractx.ErrValidation)
	}
	return nil
}

// withDefaults copies metadata and stamps the owning client and creation time when absent.
func withDefaults(metadata map[string]any, clientID string, now time.Time) map[string]any {
	out := make(map[string]any, len(metadata)+2)
	for k, v := range metadata {
		out[k] = v
	}
	if _, ok := out[contractx.MetaTimestamp]; !ok {
		out[contractx.MetaTimestamp] = now.Format(time.RFC3339Nano)
	}
	out[contractx.MetaClientID] = clientID
	return out
}

func cloneEntry(e contractx.MemoryEntry) contractx.MemoryEntry {
	meta := make(map[string]any, len(e.Metadata))
	for k, v := range e.Metadata {
		meta[k] = v
	}
	e.Metadata = meta
	return e
}
