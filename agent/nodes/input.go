package orchestratornode

import (
	"context"

	contractx "github.com/tanpawarit/Chative-Client-Relationship-Agent/agent/contract"
)

// Input makes sure the client's memory namespace exists. Failure is logged and the run continues.
func Input(ctx context.Context, in GraphState, memory contractx.MemoryStore) (GraphState, error) {
	l := in.logger("input")
	l.Info().Int("message_len", len(in.Message)).Msg("received client message")

	if err := memory.CreateNamespace(ctx, in.ClientID); err != nil {
		l.Warn().Err(err).Msg("create memory namespace failed")
		return in.degrade(ComponentNamespace), nil
	}
	return in, nil
}
