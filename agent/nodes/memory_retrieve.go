package orchestratornode

import (
	"context"

	contractx "github.com/tanpawarit/Chative-Client-Relationship-Agent/agent/contract"
)

const DefaultRetrievalLimit = 5

func MemoryRetrieve(ctx context.Context, in GraphState, memory contractx.MemoryStore, limit int) (GraphState, error) {
	if limit <= 0 {
		limit = DefaultRetrievalLimit
	}
	l := in.logger("memory_retrieve")

	entries, err := memory.Search(ctx, in.ClientID, contractx.SearchQuery{
		Text:  in.Message,
		Limit: limit,
	})
	if err != nil {
		l.Warn().Err(err).Msg("memory search failed, continuing without history")
		in.Memories = nil
		return in.degrade(ComponentRetrieve), nil
	}
	if len(entries) > limit {
		entries = entries[:limit]
	}

	in.Memories = entries
	l.Info().Int("memories", len(entries)).Msg("retrieved relevant memories")
	return in, nil
}
