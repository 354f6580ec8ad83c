package memory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	contractx "github.com/tanpawarit/Chative-Client-Relationship-Agent/agent/contract"
)

type recordedRequest struct {
	method string
	path   string
	query  string
	body   map[string]any
	auth   string
}

func newRemoteTestServer(t *testing.T, handler func(r recordedRequest) (int, string)) (*RemoteStore, *[]recordedRequest) {
	t.Helper()

	var calls []recordedRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		rec := recordedRequest{
			method: r.Method,
			path:   r.URL.Path,
			query:  r.URL.RawQuery,
			auth:   r.Header.Get("Authorization"),
		}
		if r.ContentLength > 0 {
			if err := json.NewDecoder(r.Body).Decode(&rec.body); err != nil {
				t.Errorf("decode body: %v", err)
			}
		}
		calls = append(calls, rec)
		status, body := handler(rec)
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(server.Close)

	store, err := NewRemoteStore(RemoteConfig{URL: server.URL, APIKey: "key"}, WithHTTPClient(server.Client()))
	if err != nil {
		t.Fatalf("NewRemoteStore() error = %v", err)
	}
	return store, &calls
}

func TestRemoteStoreCreateNamespaceAcceptsConflict(t *testing.T) {
	t.Parallel()

	store, calls := newRemoteTestServer(t, func(recordedRequest) (int, string) {
		return http.StatusConflict, `{"error":"exists"}`
	})
	if err := store.CreateNamespace(context.Background(), "c1"); err != nil {
		t.Fatalf("CreateNamespace() error = %v", err)
	}
	got := (*calls)[0]
	if got.method != http.MethodPost || got.path != "/namespaces" || got.body["namespace_id"] != "customer_c1" {
		t.Fatalf("request = %+v", got)
	}
	if got.auth != "Bearer key" {
		t.Fatalf("Authorization = %q", got.auth)
	}
}

func TestRemoteStoreStoreSendsMetadata(t *testing.T) {
	t.Parallel()

	store, calls := newRemoteTestServer(t, func(recordedRequest) (int, string) {
		return http.StatusCreated, `{"id":"m1"}`
	})
	err := store.Store(context.Background(), "c1", "hello", contractx.EntryCustomerQuery, map[string]any{"sentiment": "neutral"})
	if err != nil {
		t.Fatalf("Store() error = %v", err)
	}
	body := (*calls)[0].body
	meta, _ := body["metadata"].(map[string]any)
	if body["type"] != "customer_query" || meta["sentiment"] != "neutral" || meta["customer_id"] != "c1" || meta["timestamp"] == nil {
		t.Fatalf("body = %#v", body)
	}
}

func TestRemoteStoreSearchDecodesResults(t *testing.T) {
	t.Parallel()

	store, calls := newRemoteTestServer(t, func(recordedRequest) (int, string) {
		return http.StatusOK, `{"results":[{"id":7,"content":"airpods issue","type":"customer_query","metadata":{"timestamp":"2026-01-01T00:00:00Z"}},{"id":"x","content":"reply","type":"agent_response"}]}`
	})
	got, err := store.Search(context.Background(), "c1", contractx.SearchQuery{Text: "airpods", Limit: 5})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(got) != 2 || got[0].ID != "7" || got[0].Timestamp() != "2026-01-01T00:00:00Z" || got[1].Metadata == nil {
		t.Fatalf("Search() = %+v", got)
	}
	if body := (*calls)[0].body; body["query"] != "airpods" || body["limit"] != float64(5) {
		t.Fatalf("body = %#v", body)
	}
}

func TestRemoteStoreListAndDelete(t *testing.T) {
	t.Parallel()

	store, calls := newRemoteTestServer(t, func(r recordedRequest) (int, string) {
		if r.method == http.MethodDelete {
			return http.StatusNoContent, ""
		}
		return http.StatusOK, `{"memories":[{"id":"1","content":"a"}]}`
	})
	got, err := store.List(context.Background(), "c1", 20)
	if err != nil || len(got) != 1 {
		t.Fatalf("List() = %+v, %v", got, err)
	}
	if q := (*calls)[0].query; q != "limit=20&namespace_id=customer_c1" {
		t.Fatalf("list query = %q", q)
	}
	if err := store.Delete(context.Background(), "c1", "1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if got := (*calls)[1]; got.path != "/memories/1" || got.query != "namespace_id=customer_c1" {
		t.Fatalf("delete request = %+v", got)
	}
}

func TestRemoteStoreFailureWrapsSentinel(t *testing.T) {
	t.Parallel()

	store, _ := newRemoteTestServer(t, func(recordedRequest) (int, string) {
		return http.StatusInternalServerError, "boom"
	})
	_, err := store.Search(context.Background(), "c1", contractx.SearchQuery{Text: "x", Limit: 5})
	if !errors.Is(err, contractx.ErrRemoteMemory) {
		t.Fatalf("Search() error = %v, want ErrRemoteMemory", err)
	}
	if err := store.Update(context.Background(), "c1", "1", "x", nil); !errors.Is(err, contractx.ErrRemoteMemory) {
		t.Fatalf("Update() error = %v, want ErrRemoteMemory", err)
	}
}

func TestNewRemoteStoreRequiresKey(t *testing.T) {
	t.Parallel()

	if _, err := NewRemoteStore(RemoteConfig{URL: "https://example.com"}); err == nil {
		t.Fatal("NewRemoteStore() error = nil, want missing key error")
	}
	if _, err := NewRemoteStore(RemoteConfig{URL: "::bad", APIKey: "k"}); err == nil {
		t.Fatal("NewRemoteStore() error = nil, want url error")
	}
}
