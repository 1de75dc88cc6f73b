package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elsanchez/social-dashboard/internal/cache"
	"github.com/elsanchez/social-dashboard/internal/domain"
)

// fakeStats es un StatsRepository en memoria que cuenta las consultas
type fakeStats struct {
	followers  int64
	published  int64
	engagement int64

	currentAvg  float64
	currentOK   bool
	previousAvg float64
	previousOK  bool

	trends    []domain.EngagementTrend
	platforms []domain.PlatformStats
	top       []domain.TopPost

	err error

	calls     map[string]int
	lastSince time.Time
	lastLimit int
}

func newFakeStats() *fakeStats {
	return &fakeStats{calls: map[string]int{}}
}

func (f *fakeStats) SumFollowers(context.Context) (int64, error) {
	f.calls["SumFollowers"]++
	return f.followers, f.err
}

func (f *fakeStats) CountPublishedPosts(context.Context) (int64, error) {
	f.calls["CountPublishedPosts"]++
	return f.published, f.err
}

func (f *fakeStats) SumEngagement(context.Context) (int64, error) {
	f.calls["SumEngagement"]++
	return f.engagement, f.err
}

func (f *fakeStats) AverageFollowers(_ context.Context, _, to time.Time) (float64, bool, error) {
	f.calls["AverageFollowers"]++
	if to.IsZero() {
		return f.currentAvg, f.currentOK, f.err
	}
	return f.previousAvg, f.previousOK, f.err
}

func (f *fakeStats) EngagementByDay(_ context.Context, since time.Time) ([]domain.EngagementTrend, error) {
	f.calls["EngagementByDay"]++
	f.lastSince = since
	return f.trends, f.err
}

func (f *fakeStats) PlatformBreakdown(context.Context) ([]domain.PlatformStats, error) {
	f.calls["PlatformBreakdown"]++
	return f.platforms, f.err
}

func (f *fakeStats) TopPosts(_ context.Context, limit int) ([]domain.TopPost, error) {
	f.calls["TopPosts"]++
	f.lastLimit = limit
	out := make([]domain.TopPost, len(f.top))
	copy(out, f.top)
	return out, f.err
}

func newAnalytics(t *testing.T, stats *fakeStats) (*AnalyticsService, *cache.Aside, clockwork.Clock) {
	t.Helper()

	clock := clockwork.NewFakeClockAt(time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC))
	aside := cache.NewAside(cache.NewMemoryStore(time.Minute), nil, nil)

	return NewAnalyticsService(stats, aside, clock), aside, clock
}

func TestDashboardStats_ComputesAndRounds(t *testing.T) {
	stats := newFakeStats()
	stats.followers = 320
	stats.published = 3
	stats.engagement = 1
	stats.currentAvg, stats.currentOK = 1100, true
	stats.previousAvg, stats.previousOK = 1000, true

	svc, _, _ := newAnalytics(t, stats)

	got, err := svc.DashboardStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(320), got.TotalFollowers)
	assert.Equal(t, int64(3), got.TotalPosts)
	assert.Equal(t, int64(1), got.TotalEngagement)
	assert.Equal(t, 33.33, got.EngagementRate)
	assert.Equal(t, 10.00, got.GrowthRate)
}

func TestDashboardStats_GrowthGuards(t *testing.T) {
	tests := []struct {
		name       string
		current    float64
		previous   float64
		previousOK bool
		want       float64
	}{
		{"previous average zero", 500, 0, true, 0},
		{"previous window empty counts as one", 2, 0, false, 100},
		{"negative growth", 900, 1000, true, -10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := newFakeStats()
			stats.currentAvg, stats.currentOK = tt.current, true
			stats.previousAvg, stats.previousOK = tt.previous, tt.previousOK

			svc, _, _ := newAnalytics(t, stats)

			got, err := svc.DashboardStats(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.GrowthRate)
		})
	}
}

func TestDashboardStats_NoPostsRateIsZero(t *testing.T) {
	stats := newFakeStats()
	stats.engagement = 50

	svc, _, _ := newAnalytics(t, stats)

	got, err := svc.DashboardStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0.0, got.EngagementRate)
}

func TestDashboardStats_CacheHitSkipsStore(t *testing.T) {
	stats := newFakeStats()
	stats.published = 2

	svc, _, _ := newAnalytics(t, stats)
	ctx := context.Background()

	first, err := svc.DashboardStats(ctx)
	require.NoError(t, err)

	// El store cambia pero la caché sigue fresca
	stats.published = 99

	second, err := svc.DashboardStats(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, stats.calls["SumFollowers"])
	assert.Equal(t, 1, stats.calls["CountPublishedPosts"])
}

func TestDashboardStats_InvalidationForcesRecompute(t *testing.T) {
	stats := newFakeStats()
	stats.published = 2

	svc, aside, _ := newAnalytics(t, stats)
	ctx := context.Background()

	_, err := svc.DashboardStats(ctx)
	require.NoError(t, err)

	stats.published = 3
	NewInvalidator(aside).PostPublished(ctx, 1)

	got, err := svc.DashboardStats(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(3), got.TotalPosts)
	assert.Equal(t, 2, stats.calls["CountPublishedPosts"])
}

func TestDashboardStats_StoreErrorNotCached(t *testing.T) {
	stats := newFakeStats()
	stats.err = errors.New("db down")

	svc, aside, _ := newAnalytics(t, stats)
	ctx := context.Background()

	_, err := svc.DashboardStats(ctx)
	require.Error(t, err)

	assert.False(t, aside.Exists(ctx, cache.KeyDashboardStats))
}

func TestEngagementTrends_WindowAndKey(t *testing.T) {
	stats := newFakeStats()
	stats.trends = []domain.EngagementTrend{
		{Date: "2024-03-10", Likes: 3},
		{Date: "2024-03-12", Likes: 5},
	}

	svc, aside, clock := newAnalytics(t, stats)
	ctx := context.Background()

	got, err := svc.EngagementTrends(ctx, 7)
	require.NoError(t, err)

	assert.Equal(t, stats.trends, got)
	assert.Equal(t, clock.Now().UTC().AddDate(0, 0, -7), stats.lastSince)
	assert.True(t, aside.Exists(ctx, "engagement:trends:7"))

	// Otra ventana es otra clave
	_, err = svc.EngagementTrends(ctx, 30)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.calls["EngagementByDay"])

	_, err = svc.EngagementTrends(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.calls["EngagementByDay"])
}

func TestEngagementTrends_EmptyIsEmptyList(t *testing.T) {
	stats := newFakeStats()
	stats.trends = []domain.EngagementTrend{}

	svc, _, _ := newAnalytics(t, stats)
	ctx := context.Background()

	_, err := svc.EngagementTrends(ctx, 30)
	require.NoError(t, err)

	// Desde caché sigue siendo una lista vacía, no nil
	got, err := svc.EngagementTrends(ctx, 30)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestPlatformStats_Cached(t *testing.T) {
	stats := newFakeStats()
	stats.platforms = []domain.PlatformStats{{Platform: "twitter", AccountName: "acme", Followers: 10}}

	svc, _, _ := newAnalytics(t, stats)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		got, err := svc.PlatformStats(ctx)
		require.NoError(t, err)
		assert.Equal(t, stats.platforms, got)
	}

	assert.Equal(t, 1, stats.calls["PlatformBreakdown"])
}

func TestTopPosts_TruncatesContent(t *testing.T) {
	exact := strings.Repeat("a", 100)
	long := strings.Repeat("é", 120)

	stats := newFakeStats()
	stats.top = []domain.TopPost{
		{ID: 1, Content: long, TotalEngagement: 30},
		{ID: 2, Content: exact, TotalEngagement: 20},
		{ID: 3, Content: "short", TotalEngagement: 10},
	}

	svc, aside, _ := newAnalytics(t, stats)
	ctx := context.Background()

	got, err := svc.TopPosts(ctx, 3)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, strings.Repeat("é", 100)+"...", got[0].Content)
	assert.Equal(t, exact, got[1].Content)
	assert.Equal(t, "short", got[2].Content)
	assert.Equal(t, 3, stats.lastLimit)
	assert.True(t, aside.Exists(ctx, "top:posts:3"))

	for i := 1; i < len(got); i++ {
		assert.Less(t, got[i].TotalEngagement, got[i-1].TotalEngagement)
	}
}

func TestAudienceDemographics_FixedValuesPerKey(t *testing.T) {
	svc, aside, _ := newAnalytics(t, newFakeStats())
	ctx := context.Background()

	id := int64(5)

	all, err := svc.AudienceDemographics(ctx, nil)
	require.NoError(t, err)

	one, err := svc.AudienceDemographics(ctx, &id)
	require.NoError(t, err)

	assert.Equal(t, all, one)
	assert.True(t, aside.Exists(ctx, "demographics:all"))
	assert.True(t, aside.Exists(ctx, "demographics:5"))

	require.Len(t, all.AgeGroups, 5)
	assert.Equal(t, domain.AgeGroup{Range: "25-34", Percentage: 35}, all.AgeGroups[1])
	assert.Equal(t, domain.GenderShare{Type: "Male", Percentage: 52}, all.Gender[0])
	assert.Equal(t, domain.LocationShare{Country: "Others", Percentage: 23}, all.Locations[4])
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 3))
	assert.Equal(t, "ab...", truncate("abc", 2))
	assert.Equal(t, "", truncate("", 5))
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 33.33, round2(100.0/3))
	assert.Equal(t, 66.67, round2(200.0/3))
	assert.Equal(t, 10.0, round2(10))
}
