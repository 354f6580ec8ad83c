package contract

import "time"

type EntryType string

const (
	EntryCustomerQuery EntryType = "customer_query"
	EntryAgentResponse EntryType = "agent_response"
)

// Metadata keys written by the pipeline.
const (
	MetaTimestamp = "timestamp"
	MetaSentiment = "sentiment"
	MetaClientID  = "customer_id"
)

type MemoryEntry struct {
	ID        string         `json:"id"`
	ClientID  string         `json:"customer_id"`
	Content   string         `json:"content"`
	Type      EntryType      `json:"type"`
	Metadata  map[string]any `json:"metadata"`
	CreatedAt time.Time      `json:"created_at"`
}

// Timestamp returns the creation timestamp recorded in metadata, falling back to CreatedAt.
func (e MemoryEntry) Timestamp() string {
	if v, ok := e.Metadata[MetaTimestamp].(string); ok && v != "" {
		return v
	}
	if e.CreatedAt.IsZero() {
		return ""
	}
	return e.CreatedAt.Format(time.RFC3339)
}

type SearchQuery struct {
	Text  string    `json:"query"`
	Limit int       `json:"limit"`
	Type  EntryType `json:"type,omitempty"`
}
