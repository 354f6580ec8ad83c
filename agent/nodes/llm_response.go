package orchestratornode

import (
	"context"
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/Chative-Client-Relationship-Agent/agent/contract"
	"github.com/tanpawarit/Chative-Client-Relationship-Agent/agent/profile"
)

const (
	contextMemoryLimit = 3
	noHistoryContext   = "No previous history available for this client."
)

// Business is the identity the reply is written for.
type Business struct {
	Name     string
	Services []string
}

// LLMResponse drafts the reply. A model failure or empty reply aborts the run.
func LLMResponse(
	ctx context.Context,
	in GraphState,
	profiles *profile.Store,
	model contractx.LanguageModel,
	business Business,
) (GraphState, error) {
	l := in.logger("llm_response")

	recs, err := profiles.Recommend(in.ClientID)
	if err != nil {
		return in, fmt.Errorf("recommend services: %w", err)
	}
	in.Recommendations = recs

	reply, err := model.Complete(ctx, map[string]any{
		"business_name":   business.Name,
		"service_catalog": strings.Join(business.Services, ", "),
		"customer_name":   in.ClientName,
		"context":         BuildContext(in),
		"user_message":    in.Message,
	})
	if err != nil {
		return in, fmt.Errorf("generate reply: %w", err)
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return in, fmt.Errorf("%w: %w", contractx.ErrSchemaViolation, ErrEmptyReply)
	}

	in.Reply = reply
	l.Info().Int("reply_len", len(reply)).Int("recommendations", len(recs)).Msg("reply generated")
	return in, nil
}

// BuildContext assembles the profile summary, up to three memories and the recommendations.
func BuildContext(in GraphState) string {
	var b strings.Builder

	if in.ProfileSummary != "" {
		b.WriteString("Profile Summary:\n")
		b.WriteString(in.ProfileSummary)
		b.WriteString("\n\n")
	}

	if len(in.Memories) > 0 {
		b.WriteString("Relevant Past Interactions:\n")
		for i, m := range in.Memories {
			if i == contextMemoryLimit {
				break
			}
			fmt.Fprintf(&b, "- %s\n", m.Content)
		}
		b.WriteString("\n")
	}

	if len(in.Recommendations) > 0 {
		b.WriteString("Suggested Services to Recommend:\n")
		for _, r := range in.Recommendations {
			fmt.Fprintf(&b, "- %s\n", r)
		}
	}

	if b.Len() == 0 {
		return noHistoryContext
	}
	return b.String()
}
