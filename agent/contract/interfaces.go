package contract

import "context"

// LanguageModel renders a fixed prompt template with vars and returns the completion text.
type LanguageModel interface {
	Complete(ctx context.Context, vars map[string]any) (string, error)
}

// Registry hands out one LanguageModel per pipeline role.
type Registry interface {
	Response() LanguageModel
	Sentiment() LanguageModel
	Extraction() LanguageModel
}

// MemoryStore is the per-client interaction log used by the pipeline.
type MemoryStore interface {
	CreateNamespace(ctx context.Context, clientID string) error
	Store(ctx context.Context, clientID string, content string, entryType EntryType, metadata map[string]any) error
	Search(ctx context.Context, clientID string, query SearchQuery) ([]MemoryEntry, error)
	List(ctx context.Context, clientID string, limit int) ([]MemoryEntry, error)
	Update(ctx context.Context, clientID string, entryID string, content string, metadata map[string]any) error
	Delete(ctx context.Context, clientID string, entryID string) error
}
