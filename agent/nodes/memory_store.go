package orchestratornode

import (
	"context"
	"fmt"
	"time"

	contractx "github.com/tanpawarit/Chative-Client-Relationship-Agent/agent/contract"
	"github.com/tanpawarit/Chative-Client-Relationship-Agent/agent/profile"
)

const lastInteractionLimit = 100

// MemoryStore logs the message and reply, then records the interaction on the profile.
func MemoryStore(ctx context.Context, in GraphState, memory contractx.MemoryStore, profiles *profile.Store) (GraphState, error) {
	l := in.logger("memory_store")
	ts := in.Now.Format(time.RFC3339Nano)

	queryErr := memory.Store(ctx, in.ClientID, in.Message, contractx.EntryCustomerQuery, map[string]any{
		contractx.MetaSentiment: string(in.Sentiment),
		contractx.MetaTimestamp: ts,
	})
	replyErr := memory.Store(ctx, in.ClientID, in.Reply, contractx.EntryAgentResponse, map[string]any{
		contractx.MetaTimestamp: ts,
	})
	in.MemoryStored = queryErr == nil && replyErr == nil
	if !in.MemoryStored {
		l.Warn().AnErr("query_err", queryErr).AnErr("reply_err", replyErr).Msg("store interaction failed")
		in = in.degrade(ComponentMemoryLog)
	}

	if err := profiles.UpdateLastInteraction(in.ClientID, LastInteractionNote(in.Message)); err != nil {
		return in, fmt.Errorf("update last interaction: %w", err)
	}
	snapshot, err := profiles.Get(in.ClientID)
	if err != nil {
		return in, err
	}
	in.Profile = snapshot

	l.Info().Bool("memory_stored", in.MemoryStored).Int("interaction_count", snapshot.InteractionCount).Msg("interaction recorded")
	return in, nil
}

// LastInteractionNote keeps the first 100 characters and marks longer messages with "...".
func LastInteractionNote(message string) string {
	r := []rune(message)
	if len(r) <= lastInteractionLimit {
		return message
	}
	return string(r[:lastInteractionLimit]) + "..."
}
