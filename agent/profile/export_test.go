package profile

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExportImportRoundTrip(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	est := 25000.0
	require.NoError(t, s.AddPurchase("c1", "Vision QA", 1500, "Computer Vision", map[string]any{"po": "PO-1"}))
	require.NoError(t, s.AddProposedProject("c1", ProposedEngagement{ProjectName: "Bot", ProjectType: "Chatbot", EstimatedValue: &est}))
	require.NoError(t, s.AddIssue("c1", Issue{Description: "late delivery", Category: "customer_reported"}))
	_, err := s.UpdateSentiment("c1", "negative")
	require.NoError(t, err)
	require.NoError(t, s.UpdateLastInteraction("c1", "asked about timeline"))

	before, err := s.Get("c1")
	require.NoError(t, err)

	exported, err := s.Export("c1")
	require.NoError(t, err)
	require.Equal(t, exported["project_history"], exported[LegacyPurchaseHistoryKey])
	require.Equal(t, exported["project_value"], exported[LegacyTotalSpentKey])
	require.Equal(t, "c1", exported["customer_id"])

	restored := NewStore()
	_, err = restored.Import(exported)
	require.NoError(t, err)

	after, err := restored.Get("c1")
	require.NoError(t, err)
	require.Equal(t, before, after)
}

func TestExportImportDetailsUseJSONTypes(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	require.NoError(t, s.AddPurchase("c1", "Bot", 900, "Chatbot", map[string]any{"seats": 3, "po": "PO-7"}))

	exported, err := s.Export("c1")
	require.NoError(t, err)

	restored := NewStore()
	after, err := restored.Import(exported)
	require.NoError(t, err)
	require.Len(t, after.ProjectHistory, 1)
	require.Equal(t, float64(3), after.ProjectHistory[0].Details["seats"])
	require.Equal(t, "PO-7", after.ProjectHistory[0].Details["po"])

	before, err := s.Get("c1")
	require.NoError(t, err)
	require.Equal(t, 3, before.ProjectHistory[0].Details["seats"])
}

func TestImportLegacyKeys(t *testing.T) {
	t.Parallel()

	s := NewStore()
	p, err := s.Import(map[string]any{
		"customer_id": "legacy",
		"name":        "Old Client",
		"purchase_history": []any{
			map[string]any{"project_name": "Dashboard", "value": 300.0, "service_category": "Analytics & Data Engineering", "status": "completed"},
		},
		"total_spent":     300.0,
		"sentiment_trend": "furious",
	})
	require.NoError(t, err)
	require.Len(t, p.ProjectHistory, 1)
	require.Equal(t, 300.0, p.ProjectValue)
	require.Equal(t, SentimentNeutral, p.SentimentTrend)
}

func TestImportRejectsMissingID(t *testing.T) {
	t.Parallel()

	_, err := NewStore().Import(map[string]any{"name": "nobody"})
	if !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("Import() error = %v, want ErrInvalidValue", err)
	}
}
