package domain

import (
	"math"
	"testing"
	"time"
)

func TestEngagementApply(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		prior    float64
		metrics  Metrics
		wantRate float64
	}{
		{"views zero keeps prior rate", 7.5, Metrics{Likes: 10, Comments: 5, Shares: 3, Clicks: 2, Views: 0}, 7.5},
		{"views hundred", 7.5, Metrics{Likes: 10, Comments: 5, Shares: 3, Clicks: 2, Views: 100}, 20.0},
		{"fresh row no views", 0, Metrics{Likes: 1}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &Engagement{EngagementRate: tt.prior}
			e.Apply(tt.metrics, now)

			if math.Abs(e.EngagementRate-tt.wantRate) > 1e-9 {
				t.Errorf("EngagementRate = %v, want %v", e.EngagementRate, tt.wantRate)
			}
			if e.Likes != tt.metrics.Likes || e.Views != tt.metrics.Views || e.Clicks != tt.metrics.Clicks {
				t.Errorf("counters not applied: %+v", e)
			}
			if !e.UpdatedAt.Equal(now) {
				t.Errorf("UpdatedAt = %v, want %v", e.UpdatedAt, now)
			}
		})
	}
}

func TestEngagementTotalExcludesViewsAndClicks(t *testing.T) {
	e := &Engagement{Likes: 4, Comments: 3, Shares: 2, Views: 1000, Clicks: 50}
	if got := e.Total(); got != 9 {
		t.Errorf("Total() = %d, want 9", got)
	}
}
