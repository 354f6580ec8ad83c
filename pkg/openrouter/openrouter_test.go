package openrouter

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewClientRequiresKey(t *testing.T) {
	t.Parallel()

	if c := NewClient(Config{BaseURL: DefaultBaseURL}); c != nil {
		t.Fatal("NewClient() without key should return nil")
	}
}

func TestProbeModels(t *testing.T) {
	t.Parallel()

	var gotAuth, gotTitle string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotTitle = r.Header.Get("X-Title")
		if r.URL.Path != "/models" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"object":"list","data":[{"id":"gpt-4","object":"model","created":1,"owned_by":"openai"}]}`)
	}))
	t.Cleanup(server.Close)

	ids, err := ProbeModels(context.Background(), Config{BaseURL: server.URL, APIKey: "sk-test", SiteName: "crm"})
	if err != nil {
		t.Fatalf("ProbeModels() error = %v", err)
	}
	if len(ids) != 1 || ids[0] != "gpt-4" {
		t.Fatalf("ProbeModels() = %v, want [gpt-4]", ids)
	}
	if gotAuth != "Bearer sk-test" || gotTitle != "crm" {
		t.Fatalf("headers auth=%q title=%q", gotAuth, gotTitle)
	}
}

func TestNewBuildsChatModel(t *testing.T) {
	t.Parallel()

	maxTokens := 100
	cfg := &Config{BaseURL: DefaultOpenAIBaseURL, APIKey: "sk-test", Model: "gpt-4", MaxCompletionToken: &maxTokens}
	m, err := cfg.New(context.Background())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if m == nil {
		t.Fatal("New() returned nil model")
	}
}
