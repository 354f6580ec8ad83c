package orchestratornode

import (
	"context"
	"fmt"

	contractx "github.com/tanpawarit/Chative-Client-Relationship-Agent/agent/contract"
	"github.com/tanpawarit/Chative-Client-Relationship-Agent/agent/profile"
)

// SentimentAnalysis classifies the message; unknown labels and model failures become neutral.
func SentimentAnalysis(ctx context.Context, in GraphState, profiles *profile.Store, model contractx.LanguageModel) (GraphState, error) {
	l := in.logger("sentiment_analysis")

	raw, err := model.Complete(ctx, map[string]any{"message": in.Message})
	if err != nil {
		l.Warn().Err(err).Msg("sentiment model failed, using neutral")
		raw = string(profile.SentimentNeutral)
		in = in.degrade(ComponentSentiment)
	}

	sentiment, err := profiles.UpdateSentiment(in.ClientID, raw)
	if err != nil {
		return in, fmt.Errorf("update sentiment: %w", err)
	}
	in.Sentiment = sentiment

	l.Info().Str("sentiment", string(sentiment)).Str("raw", raw).Msg("sentiment classified")
	return in, nil
}
