package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	contractx "github.com/tanpawarit/Chative-Client-Relationship-Agent/agent/contract"
)

func TestLocalStoreSearchIsCaseInsensitiveSubstring(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewLocalStore()
	_ = s.Store(ctx, "c1", "The dashboard export is Broken", contractx.EntryCustomerQuery, nil)
	_ = s.Store(ctx, "c1", "We will fix the broken export", contractx.EntryAgentResponse, nil)
	_ = s.Store(ctx, "c1", "unrelated", contractx.EntryCustomerQuery, nil)
	_ = s.Store(ctx, "c2", "broken for someone else", contractx.EntryCustomerQuery, nil)

	got, err := s.Search(ctx, "c1", contractx.SearchQuery{Text: "broken", Limit: 5})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(got) != 2 || got[0].ID != "1" || got[1].ID != "2" {
		t.Fatalf("Search() = %+v, want ids 1,2", got)
	}

	got, _ = s.Search(ctx, "c1", contractx.SearchQuery{Text: "broken", Limit: 1})
	if len(got) != 1 {
		t.Fatalf("Search() limit len = %d, want 1", len(got))
	}

	got, _ = s.Search(ctx, "c1", contractx.SearchQuery{Text: "broken", Limit: 5, Type: contractx.EntryAgentResponse})
	if len(got) != 1 || got[0].Type != contractx.EntryAgentResponse {
		t.Fatalf("Search() type filter = %+v", got)
	}

	got, _ = s.Search(ctx, "missing", contractx.SearchQuery{Text: "broken", Limit: 5})
	if len(got) != 0 {
		t.Fatalf("Search() unknown client = %+v, want empty", got)
	}
}

func TestLocalStoreStampsMetadata(t *testing.T) {
	t.Parallel()

	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	s := NewLocalStore(WithLocalClock(func() time.Time { return ts }))
	meta := map[string]any{contractx.MetaSentiment: "positive"}
	if err := s.Store(context.Background(), "c1", "hi", contractx.EntryCustomerQuery, meta); err != nil {
		t.Fatalf("Store() error = %v", err)
	}
	meta["mutated"] = true

	got, _ := s.List(context.Background(), "c1", 10)
	if len(got) != 1 {
		t.Fatalf("List() len = %d, want 1", len(got))
	}
	md := got[0].Metadata
	if md[contractx.MetaTimestamp] != ts.Format(time.RFC3339Nano) || md[contractx.MetaSentiment] != "positive" || md[contractx.MetaClientID] != "c1" {
		t.Fatalf("metadata = %#v", md)
	}
	if _, ok := md["mutated"]; ok {
		t.Fatal("caller metadata leaked into store")
	}
}

func TestLocalStoreSequenceIsMonotonicAfterDelete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewLocalStore()
	for _, c := range []string{"a", "b", "c"} {
		_ = s.Store(ctx, "c1", c, contractx.EntryCustomerQuery, nil)
	}
	if err := s.Delete(ctx, "c1", "3"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	_ = s.Store(ctx, "c1", "d", contractx.EntryCustomerQuery, nil)

	got, _ := s.List(ctx, "c1", 0)
	if len(got) != 3 || got[2].ID != "4" {
		t.Fatalf("List() = %+v, want last id 4", got)
	}

	if err := s.Delete(ctx, "c1", "3"); !errors.Is(err, contractx.ErrEntryNotFound) {
		t.Fatalf("Delete() error = %v, want ErrEntryNotFound", err)
	}
}

func TestLocalStoreListReturnsNewest(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewLocalStore()
	for _, c := range []string{"a", "b", "c"} {
		_ = s.Store(ctx, "c1", c, contractx.EntryCustomerQuery, nil)
	}
	got, _ := s.List(ctx, "c1", 2)
	if len(got) != 2 || got[0].Content != "b" || got[1].Content != "c" {
		t.Fatalf("List() = %+v", got)
	}
}

func TestLocalStoreUpdate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewLocalStore()
	_ = s.Store(ctx, "c1", "draft", contractx.EntryAgentResponse, nil)
	if err := s.Update(ctx, "c1", "1", "final", map[string]any{"edited": true}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	got, _ := s.List(ctx, "c1", 1)
	if got[0].Content != "final" || got[0].Metadata["edited"] != true {
		t.Fatalf("entry = %+v", got[0])
	}
	if err := s.Update(ctx, "c1", "9", "x", nil); !errors.Is(err, contractx.ErrEntryNotFound) {
		t.Fatalf("Update() error = %v, want ErrEntryNotFound", err)
	}
}

func TestLocalStoreRejectsEmptyClient(t *testing.T) {
	t.Parallel()

	s := NewLocalStore()
	if err := s.CreateNamespace(context.Background(), " "); !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("CreateNamespace() error = %v, want ErrValidation", err)
	}
}
