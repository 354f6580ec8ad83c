package orchestrator

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	contractx "github.com/tanpawarit/Chative-Client-Relationship-Agent/agent/contract"
	"github.com/tanpawarit/Chative-Client-Relationship-Agent/agent/extract"
	nodex "github.com/tanpawarit/Chative-Client-Relationship-Agent/agent/nodes"
	"github.com/tanpawarit/Chative-Client-Relationship-Agent/agent/profile"
	"github.com/tanpawarit/Chative-Client-Relationship-Agent/pkg/metrics"
)

var (
	ErrInvalidMessage = nodex.ErrInvalidMessage
	ErrInvalidClient  = nodex.ErrInvalidClient
	ErrEmptyReply     = nodex.ErrEmptyReply
)

type Config struct {
	BusinessName   string
	Services       []string
	RetrievalLimit int
}

// Result is what one handled message produced.
type Result struct {
	RunID           string
	ClientID        string
	Reply           string
	Sentiment       profile.Sentiment
	Recommendations []string
	Profile         *profile.Profile
	MemoryStored    bool
	Degraded        []string
}

type Orchestrator struct {
	profiles  *profile.Store
	memory    contractx.MemoryStore
	models    contractx.Registry
	extractor *extract.Extractor
	metrics   *metrics.Pipeline

	business       nodex.Business
	retrievalLimit int
	pipeline       []step

	now   func() time.Time
	newID func() string
}

type Option func(*Orchestrator)

func WithMetrics(m *metrics.Pipeline) Option {
	return func(o *Orchestrator) { o.metrics = m }
}

func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(o *Orchestrator) { o.newID = newID }
}

func New(
	profiles *profile.Store,
	memory contractx.MemoryStore,
	models contractx.Registry,
	cfg Config,
	opts ...Option,
) (*Orchestrator, error) {
	if profiles == nil {
		return nil, errors.New("profile store is required")
	}
	if memory == nil {
		return nil, errors.New("memory store is required")
	}
	if models == nil {
		return nil, errors.New("model registry is required")
	}

	services := cfg.Services
	if len(services) == 0 {
		services = profile.ServiceCategories
	}
	limit := cfg.RetrievalLimit
	if limit <= 0 {
		limit = nodex.DefaultRetrievalLimit
	}

	o := &Orchestrator{
		profiles:       profiles,
		memory:         memory,
		models:         models,
		extractor:      extract.New(models.Extraction()),
		business:       nodex.Business{Name: cfg.BusinessName, Services: services},
		retrievalLimit: limit,
		now:            time.Now,
		newID:          uuid.NewString,
	}
	for _, opt := range opts {
		opt(o)
	}
	o.pipeline = o.buildPipeline()

	return o, nil
}

// HandleMessage runs the pipeline once for one client message.
func (o *Orchestrator) HandleMessage(ctx context.Context, clientID, clientName, text string) (Result, error) {
	st, err := nodex.ValidateRequest(nodex.GraphInput{
		ClientID:   clientID,
		ClientName: clientName,
		Message:    text,
	}, o.newID(), o.now())
	if err != nil {
		return Result{}, err
	}

	st, err = o.run(ctx, st)
	if err != nil {
		return Result{RunID: st.RunID, ClientID: st.ClientID}, err
	}

	return Result{
		RunID:           st.RunID,
		ClientID:        st.ClientID,
		Reply:           st.Reply,
		Sentiment:       st.Sentiment,
		Recommendations: st.Recommendations,
		Profile:         st.Profile,
		MemoryStored:    st.MemoryStored,
		Degraded:        st.Degraded,
	}, nil
}

func (o *Orchestrator) Profiles() *profile.Store {
	return o.profiles
}

func (o *Orchestrator) Memory() contractx.MemoryStore {
	return o.memory
}
