package orchestratornode

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	contractx "github.com/tanpawarit/Chative-Client-Relationship-Agent/agent/contract"
	"github.com/tanpawarit/Chative-Client-Relationship-Agent/agent/profile"
	logx "github.com/tanpawarit/Chative-Client-Relationship-Agent/pkg/logger"
)

var (
	ErrInvalidMessage = fmt.Errorf("%w: message is empty", contractx.ErrValidation)
	ErrInvalidClient  = fmt.Errorf("%w: client id is empty", contractx.ErrValidation)
	ErrEmptyReply     = errors.New("language model returned an empty reply")
)

// Components named in GraphState.Degraded.
const (
	ComponentNamespace  = "memory_namespace"
	ComponentRetrieve   = "memory_retrieve"
	ComponentExtraction = "extraction"
	ComponentSentiment  = "sentiment"
	ComponentMemoryLog  = "memory_store"
)

type GraphInput struct {
	ClientID   string
	ClientName string
	Message    string
}

// GraphState is passed by value through every step; a step returns the replacement state.
type GraphState struct {
	RunID      string
	ClientID   string
	ClientName string
	Message    string
	Now        time.Time

	Memories        []contractx.MemoryEntry
	Profile         *profile.Profile
	ProfileSummary  string
	Recommendations []string
	Reply           string
	Sentiment       profile.Sentiment
	MemoryStored    bool

	// Degraded lists collaborators that failed and were replaced by a default result.
	Degraded []string
}

func ValidateRequest(in GraphInput, runID string, now time.Time) (GraphState, error) {
	clientID := strings.TrimSpace(in.ClientID)
	if clientID == "" {
		return GraphState{}, ErrInvalidClient
	}
	message := strings.TrimSpace(in.Message)
	if message == "" {
		return GraphState{}, ErrInvalidMessage
	}
	name := strings.TrimSpace(in.ClientName)
	if name == "" {
		name = clientID
	}

	return GraphState{
		RunID:      runID,
		ClientID:   clientID,
		ClientName: name,
		Message:    message,
		Now:        now.UTC(),
		Sentiment:  profile.SentimentNeutral,
	}, nil
}

func (s GraphState) degrade(component string) GraphState {
	s.Degraded = append(append([]string(nil), s.Degraded...), component)
	return s
}

func (s GraphState) logger(step string) zerolog.Logger {
	return logx.Step(s.RunID, s.ClientID, step)
}
