package dashboard

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"

	"github.com/tanpawarit/Chative-Client-Relationship-Agent/agent/agents/orchestrator"
	contractx "github.com/tanpawarit/Chative-Client-Relationship-Agent/agent/contract"
	"github.com/tanpawarit/Chative-Client-Relationship-Agent/agent/memory"
	"github.com/tanpawarit/Chative-Client-Relationship-Agent/agent/profile"
	"github.com/tanpawarit/Chative-Client-Relationship-Agent/pkg/metrics"
)

type fakeHandler struct {
	profiles *profile.Store
	memory   *memory.LocalStore
	err      error
	calls    int
}

func (f *fakeHandler) HandleMessage(ctx context.Context, clientID, clientName, text string) (orchestrator.Result, error) {
	f.calls++
	if f.err != nil {
		return orchestrator.Result{}, f.err
	}
	_ = f.memory.Store(ctx, clientID, text, contractx.EntryCustomerQuery, map[string]any{contractx.MetaSentiment: "neutral"})
	_ = f.memory.Store(ctx, clientID, "reply to "+clientName, contractx.EntryAgentResponse, nil)
	_ = f.profiles.UpdateLastInteraction(clientID, text)
	p, _ := f.profiles.Get(clientID)
	return orchestrator.Result{ClientID: clientID, Reply: "reply to " + clientName, Profile: p}, nil
}

type fakeSaver struct {
	saved []string
}

func (f *fakeSaver) Save(ctx context.Context, p *profile.Profile) error {
	f.saved = append(f.saved, p.ID)
	return nil
}

func newTestServer(t *testing.T) (*Server, *fakeHandler, *fakeSaver) {
	t.Helper()

	profiles := profile.NewStore()
	mem := memory.NewLocalStore()
	h := &fakeHandler{profiles: profiles, memory: mem}
	saver := &fakeSaver{}
	srv := New(h, profiles, mem,
		WithSaver(saver),
		WithMetrics(metrics.New()),
		WithBusinessName("Vanco AI"),
		WithClock(func() time.Time { return time.Date(2026, 3, 1, 14, 5, 0, 0, time.UTC) }),
	)
	return srv, h, saver
}

func postForm(t *testing.T, h http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestCreateClientAndConverse(t *testing.T) {
	t.Parallel()

	srv, handler, saver := newTestServer(t)
	h := srv.Handler()

	rec := postForm(t, h, "/clients", url.Values{"id": {"c1"}, "name": {"Alice"}, "company": {"Acme"}})
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/clients/c1" {
		t.Fatalf("create: code=%d location=%q", rec.Code, rec.Header().Get("Location"))
	}

	rec = postForm(t, h, "/clients/c1/messages", url.Values{"message": {"We need a chatbot"}})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("message: code=%d body=%s", rec.Code, rec.Body.String())
	}
	if handler.calls != 1 {
		t.Fatalf("handler calls = %d, want 1", handler.calls)
	}
	if strings.Join(saver.saved, ",") != "c1,c1" {
		t.Fatalf("saved = %v", saver.saved)
	}

	rec = get(t, h, "/clients/c1")
	body := rec.Body.String()
	if rec.Code != http.StatusOK || !strings.Contains(body, "We need a chatbot") || !strings.Contains(body, "reply to Alice") {
		t.Fatalf("client page: code=%d body=%s", rec.Code, body)
	}
	if !strings.Contains(body, "02:05 PM") {
		t.Fatalf("expected turn timestamp in page")
	}

	rec = postForm(t, h, "/clients/c1/history/clear", url.Values{})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("clear: code=%d", rec.Code)
	}
	if got := srv.history.Get("c1"); len(got) != 0 {
		t.Fatalf("history = %+v, want empty", got)
	}

	entries, _ := srv.memory.List(context.Background(), "c1", 0)
	if len(entries) != 2 {
		t.Fatalf("clearing history must keep memories, got %d", len(entries))
	}
}

func TestCreateClientConflict(t *testing.T) {
	t.Parallel()

	srv, _, _ := newTestServer(t)
	h := srv.Handler()

	postForm(t, h, "/clients", url.Values{"id": {"c1"}, "name": {"Alice"}})
	rec := postForm(t, h, "/clients", url.Values{"id": {"c1"}, "name": {"Alice again"}})
	if rec.Code != http.StatusConflict || !strings.Contains(rec.Body.String(), "client already exists") {
		t.Fatalf("code=%d body=%s", rec.Code, rec.Body.String())
	}

	rec = postForm(t, h, "/clients", url.Values{"id": {"  "}, "name": {"Nobody"}})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("empty id: code=%d", rec.Code)
	}
}

func TestMessageErrorsAreShown(t *testing.T) {
	t.Parallel()

	srv, handler, _ := newTestServer(t)
	h := srv.Handler()
	postForm(t, h, "/clients", url.Values{"id": {"c1"}, "name": {"Alice"}})

	handler.err = contractx.ErrModelInvoke
	rec := postForm(t, h, "/clients/c1/messages", url.Values{"message": {"hello"}})
	if rec.Code != http.StatusBadGateway || !strings.Contains(rec.Body.String(), "language model request failed") {
		t.Fatalf("code=%d body=%s", rec.Code, rec.Body.String())
	}

	rec = postForm(t, h, "/clients/missing/messages", url.Values{"message": {"hello"}})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing client: code=%d", rec.Code)
	}
}

func TestClientTabs(t *testing.T) {
	t.Parallel()

	srv, _, _ := newTestServer(t)
	h := srv.Handler()
	postForm(t, h, "/clients", url.Values{"id": {"c1"}, "name": {"Alice"}})
	_ = srv.profiles.AddPurchase("c1", "Vision QA", 1500, "Computer Vision", nil)
	postForm(t, h, "/clients/c1/messages", url.Values{"message": {"hello there"}})

	cases := map[string]string{
		"profile":         "Vision QA",
		"memory":          "Client Query",
		"recommendations": "Recommended Services",
	}
	for tab, want := range cases {
		rec := get(t, h, "/clients/c1?tab="+tab)
		if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), want) {
			t.Fatalf("tab %s: code=%d missing %q", tab, rec.Code, want)
		}
	}

	if rec := get(t, h, "/clients/nobody"); rec.Code != http.StatusNotFound {
		t.Fatalf("missing client page: code=%d", rec.Code)
	}
}

func TestJSONAPI(t *testing.T) {
	t.Parallel()

	srv, _, _ := newTestServer(t)
	h := srv.Handler()
	postForm(t, h, "/clients", url.Values{"id": {"c1"}, "name": {"Alice"}})
	_ = srv.profiles.AddPurchase("c1", "Vision QA", 1500, "Computer Vision", nil)
	postForm(t, h, "/clients/c1/messages", url.Values{"message": {"hello"}})

	rec := get(t, h, "/api/clients/c1/profile")
	var exported map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &exported); err != nil {
		t.Fatalf("decode profile: %v", err)
	}
	if exported["customer_id"] != "c1" || exported["total_spent"] != 1500.0 {
		t.Fatalf("profile = %v", exported)
	}

	rec = get(t, h, "/api/clients/c1/memories")
	var mems struct {
		Memories []contractx.MemoryEntry `json:"memories"`
	}
	if err := sonic.Unmarshal(rec.Body.Bytes(), &mems); err != nil {
		t.Fatalf("decode memories: %v", err)
	}
	if len(mems.Memories) != 2 {
		t.Fatalf("memories = %+v", mems.Memories)
	}

	rec = get(t, h, "/api/clients/c1/recommendations")
	var recs struct {
		Recommendations []string `json:"recommendations"`
	}
	if err := sonic.Unmarshal(rec.Body.Bytes(), &recs); err != nil {
		t.Fatalf("decode recommendations: %v", err)
	}
	if len(recs.Recommendations) == 0 || len(recs.Recommendations) > profile.MaxRecommendations {
		t.Fatalf("recommendations = %v", recs.Recommendations)
	}

	if rec := get(t, h, "/api/clients/nobody/profile"); rec.Code != http.StatusNotFound {
		t.Fatalf("missing profile: code=%d", rec.Code)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	t.Parallel()

	srv, _, _ := newTestServer(t)
	h := srv.Handler()

	if rec := get(t, h, "/healthz"); rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Fatalf("healthz: code=%d body=%s", rec.Code, rec.Body.String())
	}
	if rec := get(t, h, "/metrics"); rec.Code != http.StatusOK {
		t.Fatalf("metrics: code=%d", rec.Code)
	}
}
