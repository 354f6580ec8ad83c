package orchestratornode

import (
	"context"
	"fmt"

	"github.com/tanpawarit/Chative-Client-Relationship-Agent/agent/extract"
	"github.com/tanpawarit/Chative-Client-Relationship-Agent/agent/profile"
)

// ProfileBuilder ensures the profile exists, applies extracted updates and refreshes the summary.
func ProfileBuilder(ctx context.Context, in GraphState, profiles *profile.Store, extractor *extract.Extractor) (GraphState, error) {
	l := in.logger("profile_builder")

	_, created, err := profiles.GetOrCreate(in.ClientID, in.ClientName)
	if err != nil {
		return in, fmt.Errorf("load profile: %w", err)
	}
	if created {
		l.Info().Msg("created client profile")
	}

	updates, err := extractor.Extract(ctx, in.Message)
	if err != nil {
		l.Warn().Err(err).Msg("model extraction failed, keyword rules only")
		in = in.degrade(ComponentExtraction)
	}
	if err := profiles.ApplyUpdates(in.ClientID, updates); err != nil {
		return in, fmt.Errorf("apply profile updates: %w", err)
	}

	snapshot, err := profiles.Get(in.ClientID)
	if err != nil {
		return in, err
	}
	in.Profile = snapshot
	in.ProfileSummary = profile.RenderSummary(snapshot)

	l.Info().
		Int("tags", len(snapshot.Tags)).
		Int("issues", len(snapshot.IssuesReported)).
		Msg("profile updated")
	return in, nil
}
