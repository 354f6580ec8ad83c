package dashboard

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/tanpawarit/Chative-Client-Relationship-Agent/agent/agents/orchestrator"
	contractx "github.com/tanpawarit/Chative-Client-Relationship-Agent/agent/contract"
	"github.com/tanpawarit/Chative-Client-Relationship-Agent/agent/profile"
	"github.com/tanpawarit/Chative-Client-Relationship-Agent/pkg/errx"
	logx "github.com/tanpawarit/Chative-Client-Relationship-Agent/pkg/logger"
	"github.com/tanpawarit/Chative-Client-Relationship-Agent/pkg/metrics"
)

const (
	maxFormSize      = 1 << 20
	memoryTabLimit   = 10
	memoryPreviewLen = 300
)

// Tabs on the client page.
const (
	TabConversation    = "conversation"
	TabProfile         = "profile"
	TabMemory          = "memory"
	TabRecommendations = "recommendations"
)

//go:embed templates/*.html
var templateFS embed.FS

type Config struct {
	Addr            string        `envconfig:"ADDR" default:":8501"`
	ReadTimeout     time.Duration `split_words:"true" default:"30s"`
	WriteTimeout    time.Duration `split_words:"true" default:"180s"`
	ShutdownTimeout time.Duration `split_words:"true" default:"5s"`
}

// MessageHandler runs the pipeline for one client message.
type MessageHandler interface {
	HandleMessage(ctx context.Context, clientID, clientName, text string) (orchestrator.Result, error)
}

// ProfileSaver persists a profile after it changes.
type ProfileSaver interface {
	Save(ctx context.Context, p *profile.Profile) error
}

type Server struct {
	handler  MessageHandler
	profiles *profile.Store
	memory   contractx.MemoryStore
	saver    ProfileSaver
	metrics  *metrics.Pipeline
	history  *History

	business  string
	maxListed int
	tmpl      *template.Template
	now       func() time.Time
}

type Option func(*Server)

func WithSaver(s ProfileSaver) Option {
	return func(srv *Server) { srv.saver = s }
}

func WithMetrics(m *metrics.Pipeline) Option {
	return func(srv *Server) { srv.metrics = m }
}

func WithBusinessName(name string) Option {
	return func(srv *Server) { srv.business = name }
}

func WithMaxListed(n int) Option {
	return func(srv *Server) {
		if n > 0 {
			srv.maxListed = n
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(srv *Server) { srv.now = now }
}

func New(handler MessageHandler, profiles *profile.Store, memory contractx.MemoryStore, opts ...Option) *Server {
	s := &Server{
		handler:   handler,
		profiles:  profiles,
		memory:    memory,
		history:   NewHistory(),
		business:  "Vanco AI",
		maxListed: 20,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.tmpl = template.Must(template.New("").Funcs(template.FuncMap{
		"ago":     humanize.Time,
		"money":   profile.FormatMoney,
		"preview": preview,
		"title":   entryLabel,
	}).ParseFS(templateFS, "templates/*.html"))
	return s
}

// Handler returns the routed dashboard with access logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /clients", s.handleCreateClient)
	mux.HandleFunc("GET /clients/{id}", s.handleClient)
	mux.HandleFunc("POST /clients/{id}/messages", s.handleMessage)
	mux.HandleFunc("POST /clients/{id}/history/clear", s.handleClearHistory)

	mux.HandleFunc("GET /api/clients/{id}/profile", s.handleAPIProfile)
	mux.HandleFunc("GET /api/clients/{id}/memories", s.handleAPIMemories)
	mux.HandleFunc("GET /api/clients/{id}/recommendations", s.handleAPIRecommendations)

	mux.HandleFunc("GET /healthz", s.handleHealth)
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.Handler())
	}

	h := hlog.AccessHandler(func(r *http.Request, status, size int, d time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("size", size).
			Dur("duration", d).
			Msg("request")
	})(mux)
	return hlog.NewHandler(log.Logger)(h)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, cfg Config) error {
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logx.Warn().Err(err).Msg("dashboard shutdown")
		}
	}()

	logx.Info().Str("addr", cfg.Addr).Msg("dashboard started")
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type clientRow struct {
	ID      string
	Name    string
	Company string
	Count   int
}

type pageData struct {
	Business string
	Clients  []clientRow
	Flash    string

	Client          *profile.Profile
	Tab             string
	History         []Turn
	Memories        []contractx.MemoryEntry
	Summary         string
	Recommendations []string
}

func (s *Server) basePage() pageData {
	list := s.profiles.List()
	rows := make([]clientRow, 0, len(list))
	for _, p := range list {
		rows = append(rows, clientRow{ID: p.ID, Name: p.Name, Company: p.Company, Count: p.InteractionCount})
	}
	return pageData{Business: s.business, Clients: rows}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "index.html", s.basePage())
}

func (s *Server) handleCreateClient(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseMultipartForm(maxFormSize)
	id := strings.TrimSpace(r.FormValue("id"))
	name := strings.TrimSpace(r.FormValue("name"))

	p, err := s.profiles.Create(id, name, profile.Contact{
		Email:    strings.TrimSpace(r.FormValue("email")),
		Company:  strings.TrimSpace(r.FormValue("company")),
		Industry: strings.TrimSpace(r.FormValue("industry")),
	})
	if err != nil {
		s.renderError(w, r, "index.html", s.basePage(), err)
		return
	}
	s.persist(r.Context(), p)

	http.Redirect(w, r, "/clients/"+p.ID, http.StatusSeeOther)
}

func (s *Server) handleClient(w http.ResponseWriter, r *http.Request) {
	page, err := s.clientPage(r.Context(), r.PathValue("id"), r.URL.Query().Get("tab"))
	if err != nil {
		s.renderError(w, r, "index.html", s.basePage(), err)
		return
	}
	s.render(w, r, http.StatusOK, "client.html", page)
}

func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseMultipartForm(maxFormSize)
	id := r.PathValue("id")
	message := strings.TrimSpace(r.FormValue("message"))

	p, err := s.profiles.Get(id)
	if err != nil {
		s.renderError(w, r, "index.html", s.basePage(), err)
		return
	}

	sent := s.now()
	res, err := s.handler.HandleMessage(r.Context(), id, p.Name, message)
	if err != nil {
		page, pageErr := s.clientPage(r.Context(), id, TabConversation)
		if pageErr != nil {
			page = s.basePage()
		}
		s.renderError(w, r, "client.html", page, err)
		return
	}

	s.history.Append(id,
		Turn{Role: RoleClient, Text: message, At: sent},
		Turn{Role: RoleAgent, Text: res.Reply, At: s.now()},
	)
	s.persist(r.Context(), res.Profile)

	http.Redirect(w, r, "/clients/"+id+"?tab="+TabConversation, http.StatusSeeOther)
}

func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	s.history.Clear(id)
	http.Redirect(w, r, "/clients/"+id+"?tab="+TabConversation, http.StatusSeeOther)
}

func (s *Server) handleAPIProfile(w http.ResponseWriter, r *http.Request) {
	data, err := s.profiles.Export(r.PathValue("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, data)
}

func (s *Server) handleAPIMemories(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := s.profiles.Get(id); err != nil {
		s.writeError(w, err)
		return
	}
	entries, err := s.memory.List(r.Context(), id, s.maxListed)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if entries == nil {
		entries = []contractx.MemoryEntry{}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"customer_id": id, "memories": entries})
}

func (s *Server) handleAPIRecommendations(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	recs, err := s.profiles.Recommend(id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"customer_id": id, "recommendations": recs})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"clients": s.profiles.Len(),
		"time":    s.now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) clientPage(ctx context.Context, id, tab string) (pageData, error) {
	p, err := s.profiles.Get(id)
	if err != nil {
		return pageData{}, err
	}

	page := s.basePage()
	page.Client = p
	page.Tab = normalizeTab(tab)
	page.History = s.history.Get(id)
	page.Summary = profile.RenderSummary(p)
	page.Recommendations = profile.RecommendServices(p)

	if page.Tab == TabMemory {
		entries, err := s.memory.List(ctx, id, memoryTabLimit)
		if err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("client_id", id).Msg("list memories failed")
			page.Flash = "Memories are unavailable right now."
		}
		page.Memories = entries
	}
	return page, nil
}

func (s *Server) persist(ctx context.Context, p *profile.Profile) {
	if s.saver == nil || p == nil {
		return
	}
	if err := s.saver.Save(ctx, p); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("client_id", p.ID).Msg("persist profile failed")
	}
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.tmpl.ExecuteTemplate(w, name, data); err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("template", name).Msg("render template")
	}
}

func (s *Server) renderError(w http.ResponseWriter, r *http.Request, name string, data pageData, err error) {
	appErr := toAppError(err)
	status := errx.StatusOf(appErr)
	if status >= http.StatusInternalServerError {
		hlog.FromRequest(r).Error().Err(err).Msg("request failed")
	}
	data.Flash = errx.MessageOf(appErr)
	s.render(w, r, status, name, data)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := sonic.Marshal(v)
	if err != nil {
		http.Error(w, errx.SystemErrorMessage, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	appErr := toAppError(err)
	s.writeJSON(w, errx.StatusOf(appErr), map[string]string{"error": errx.MessageOf(appErr)})
}

func normalizeTab(tab string) string {
	switch tab {
	case TabProfile, TabMemory, TabRecommendations:
		return tab
	default:
		return TabConversation
	}
}

func preview(s string) string {
	r := []rune(s)
	if len(r) <= memoryPreviewLen {
		return s
	}
	return string(r[:memoryPreviewLen]) + "..."
}

func entryLabel(t contractx.EntryType) string {
	switch t {
	case contractx.EntryCustomerQuery:
		return "Client Query"
	case contractx.EntryAgentResponse:
		return "Agent Response"
	default:
		return strings.ReplaceAll(string(t), "_", " ")
	}
}
