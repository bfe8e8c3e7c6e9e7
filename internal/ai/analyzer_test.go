package ai

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"foodbridge-api-server/internal/models"
)

func newOfflineAnalyzer(now time.Time) *Analyzer {
	return &Analyzer{
		now: func() time.Time { return now },
	}
}

func TestFallbackScoring(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	a := newOfflineAnalyzer(now)

	t.Run("perishable food with tight deadline is high risk", func(t *testing.T) {
		result := a.Analyze(context.Background(), "Chicken Curry", "fresh meat curry", now.Add(2*time.Hour))
		require.Equal(t, models.RiskHigh, result.FreshnessRiskLevel)
		require.Equal(t, 5, result.PickupPriorityScore)
	})

	t.Run("cooked food with a day left is medium risk", func(t *testing.T) {
		result := a.Analyze(context.Background(), "Cooked Rice", "", now.Add(20*time.Hour))
		require.Equal(t, models.RiskMedium, result.FreshnessRiskLevel)
		require.Equal(t, 4, result.PickupPriorityScore)
	})

	t.Run("shelf-stable food with long window is low risk", func(t *testing.T) {
		result := a.Analyze(context.Background(), "Packaged Biscuits", "sealed boxes", now.Add(72*time.Hour))
		require.Equal(t, models.RiskLow, result.FreshnessRiskLevel)
		require.Equal(t, 2, result.PickupPriorityScore)
	})

	t.Run("result always has a reason", func(t *testing.T) {
		result := a.Analyze(context.Background(), "Bread", "", now.Add(time.Hour))
		require.NotEmpty(t, result.Reason)
	})
}

func TestParseAnalysis(t *testing.T) {
	t.Run("plain JSON", func(t *testing.T) {
		result, err := parseAnalysis(`{"freshnessRiskLevel":"high","pickupPriorityScore":5,"reason":"raw meat"}`)
		require.NoError(t, err)
		require.Equal(t, models.RiskHigh, result.FreshnessRiskLevel)
		require.Equal(t, 5, result.PickupPriorityScore)
	})

	t.Run("fenced markdown JSON", func(t *testing.T) {
		text := "```json\n{\"freshnessRiskLevel\":\"low\",\"pickupPriorityScore\":2,\"reason\":\"sealed\"}\n```"
		result, err := parseAnalysis(text)
		require.NoError(t, err)
		require.Equal(t, models.RiskLow, result.FreshnessRiskLevel)
	})

	t.Run("JSON buried in prose", func(t *testing.T) {
		text := `Here is the analysis: {"freshnessRiskLevel":"medium","pickupPriorityScore":3,"reason":"cooked"} hope that helps`
		result, err := parseAnalysis(text)
		require.NoError(t, err)
		require.Equal(t, models.RiskMedium, result.FreshnessRiskLevel)
	})

	t.Run("invalid values rejected", func(t *testing.T) {
		_, err := parseAnalysis(`{"freshnessRiskLevel":"critical","pickupPriorityScore":3,"reason":"x"}`)
		require.Error(t, err)

		_, err = parseAnalysis(`{"freshnessRiskLevel":"low","pickupPriorityScore":9,"reason":"x"}`)
		require.Error(t, err)

		_, err = parseAnalysis("no json here at all")
		require.Error(t, err)
	})
}
