package profile

import (
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
)

// Legacy keys kept in exports for consumers of the older purchase naming.
const (
	LegacyPurchaseHistoryKey = "purchase_history"
	LegacyTotalSpentKey      = "total_spent"
)

// Export returns the profile as a flat mapping of all fields plus the legacy aliases.
func (s *Store) Export(id string) (map[string]any, error) {
	p, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	return ExportProfile(p)
}

// ExportProfile flattens p through its JSON form, so Details values carry JSON types:
// numbers become float64 and nested values become map[string]any or []any.
func ExportProfile(p *Profile) (map[string]any, error) {
	raw, err := sonic.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal profile %s: %w", p.ID, err)
	}
	out := make(map[string]any)
	if err := sonic.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("unmarshal profile %s: %w", p.ID, err)
	}
	out[LegacyPurchaseHistoryKey] = out["project_history"]
	out[LegacyTotalSpentKey] = out["project_value"]
	return out, nil
}

// Import registers a profile from an exported mapping, replacing any profile with the same id.
func (s *Store) Import(data map[string]any) (*Profile, error) {
	p, err := DecodeProfile(data)
	if err != nil {
		return nil, err
	}
	s.Put(p)
	return p.Clone(), nil
}

// Put stores a copy of p as-is, replacing any profile with the same id.
func (s *Store) Put(p *Profile) {
	next := p.Clone()
	next.normalize()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.putLocked(next)
}

// DecodeProfile builds a profile from a flat mapping; legacy keys fill the newer
// fields only when those are absent. Details values decode with JSON types, numbers as float64.
func DecodeProfile(data map[string]any) (*Profile, error) {
	fields := make(map[string]any, len(data))
	for k, v := range data {
		fields[k] = v
	}
	if _, ok := fields["project_history"]; !ok {
		if v, ok := fields[LegacyPurchaseHistoryKey]; ok {
			fields["project_history"] = v
		}
	}
	if _, ok := fields["project_value"]; !ok {
		if v, ok := fields[LegacyTotalSpentKey]; ok {
			fields["project_value"] = v
		}
	}
	delete(fields, LegacyPurchaseHistoryKey)
	delete(fields, LegacyTotalSpentKey)

	raw, err := sonic.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("marshal profile fields: %w", err)
	}
	var p Profile
	if err := sonic.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("%w: decode profile: %v", ErrInvalidValue, err)
	}
	p.ID = strings.TrimSpace(p.ID)
	if p.ID == "" {
		return nil, fmt.Errorf("%w: customer_id is required", ErrInvalidValue)
	}
	if p.ProjectValue < 0 || p.InteractionCount < 0 {
		return nil, fmt.Errorf("%w: counters must not be negative", ErrInvalidValue)
	}
	p.normalize()
	return &p, nil
}
