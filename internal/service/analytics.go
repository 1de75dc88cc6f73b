// Package service contiene la lógica de negocio del dashboard: agregaciones
// con cache-aside y los servicios de entidades que invalidan esa caché.
package service

import (
	"context"
	"math"
	"time"
	"unicode/utf8"

	"github.com/jonboulle/clockwork"

	"github.com/elsanchez/social-dashboard/internal/cache"
	"github.com/elsanchez/social-dashboard/internal/domain"
	"github.com/elsanchez/social-dashboard/internal/repository"
)

// topPostContentLimit es el máximo de caracteres del contenido en top posts
const topPostContentLimit = 100

// AnalyticsService calcula las estadísticas del dashboard
type AnalyticsService struct {
	stats repository.StatsRepository
	cache *cache.Aside
	clock clockwork.Clock
}

// NewAnalyticsService crea el servicio. clock nil usa el reloj real.
func NewAnalyticsService(stats repository.StatsRepository, c *cache.Aside, clock clockwork.Clock) *AnalyticsService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &AnalyticsService{stats: stats, cache: c, clock: clock}
}

// cached devuelve el valor de key si está en caché; si no, lo calcula,
// lo guarda con ttl y lo devuelve. Los errores de compute se propagan
// y no se cachea nada.
func cached[T any](ctx context.Context, c *cache.Aside, key string, ttl time.Duration, compute func() (T, error)) (T, error) {
	var v T
	if c.GetJSON(ctx, key, &v) {
		return v, nil
	}

	v, err := compute()
	if err != nil {
		var zero T
		return zero, err
	}

	c.SetJSON(ctx, key, v, ttl)
	return v, nil
}

// DashboardStats calcula los totales globales
func (s *AnalyticsService) DashboardStats(ctx context.Context) (*domain.DashboardStats, error) {
	stats, err := cached(ctx, s.cache, cache.KeyDashboardStats, cache.TTLDashboardStats, func() (domain.DashboardStats, error) {
		return s.computeDashboard(ctx)
	})
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (s *AnalyticsService) computeDashboard(ctx context.Context) (domain.DashboardStats, error) {
	var stats domain.DashboardStats

	followers, err := s.stats.SumFollowers(ctx)
	if err != nil {
		return stats, err
	}

	posts, err := s.stats.CountPublishedPosts(ctx)
	if err != nil {
		return stats, err
	}

	engagement, err := s.stats.SumEngagement(ctx)
	if err != nil {
		return stats, err
	}

	now := s.clock.Now().UTC()
	weekAgo := now.AddDate(0, 0, -7)
	twoWeeksAgo := now.AddDate(0, 0, -14)

	current, _, err := s.stats.AverageFollowers(ctx, weekAgo, time.Time{})
	if err != nil {
		return stats, err
	}

	previous, ok, err := s.stats.AverageFollowers(ctx, twoWeeksAgo, weekAgo)
	if err != nil {
		return stats, err
	}
	if !ok {
		previous = 1 // ventana vacía
	}

	stats.TotalFollowers = followers
	stats.TotalPosts = posts
	stats.TotalEngagement = engagement
	stats.EngagementRate = round2(engagementRate(engagement, posts))
	stats.GrowthRate = round2(growthRate(current, previous))

	return stats, nil
}

// EngagementTrends agrupa el engagement por día de publicación en los últimos days días
func (s *AnalyticsService) EngagementTrends(ctx context.Context, days int) ([]domain.EngagementTrend, error) {
	return cached(ctx, s.cache, cache.EngagementTrendsKey(days), cache.TTLTrends, func() ([]domain.EngagementTrend, error) {
		since := s.clock.Now().UTC().AddDate(0, 0, -days)
		return s.stats.EngagementByDay(ctx, since)
	})
}

// PlatformStats resume cada cuenta activa
func (s *AnalyticsService) PlatformStats(ctx context.Context) ([]domain.PlatformStats, error) {
	return cached(ctx, s.cache, cache.KeyPlatformStats, cache.TTLPlatformStats, func() ([]domain.PlatformStats, error) {
		return s.stats.PlatformBreakdown(ctx)
	})
}

// TopPosts devuelve los limit posts publicados con más engagement
func (s *AnalyticsService) TopPosts(ctx context.Context, limit int) ([]domain.TopPost, error) {
	return cached(ctx, s.cache, cache.TopPostsKey(limit), cache.TTLTopPosts, func() ([]domain.TopPost, error) {
		posts, err := s.stats.TopPosts(ctx, limit)
		if err != nil {
			return nil, err
		}
		for i := range posts {
			posts[i].Content = truncate(posts[i].Content, topPostContentLimit)
		}
		return posts, nil
	})
}

// AudienceDemographics devuelve el desglose de audiencia. Los valores son
// fijos; solo la clave de caché depende de la cuenta.
func (s *AnalyticsService) AudienceDemographics(ctx context.Context, accountID *int64) (*domain.Demographics, error) {
	demo, err := cached(ctx, s.cache, cache.DemographicsKey(accountID), cache.TTLDemographics, func() (domain.Demographics, error) {
		return placeholderDemographics(), nil
	})
	if err != nil {
		return nil, err
	}
	return &demo, nil
}

func placeholderDemographics() domain.Demographics {
	return domain.Demographics{
		AgeGroups: []domain.AgeGroup{
			{Range: "18-24", Percentage: 25},
			{Range: "25-34", Percentage: 35},
			{Range: "35-44", Percentage: 20},
			{Range: "45-54", Percentage: 12},
			{Range: "55+", Percentage: 8},
		},
		Gender: []domain.GenderShare{
			{Type: "Male", Percentage: 52},
			{Type: "Female", Percentage: 45},
			{Type: "Other", Percentage: 3},
		},
		Locations: []domain.LocationShare{
			{Country: "United States", Percentage: 40},
			{Country: "United Kingdom", Percentage: 15},
			{Country: "Canada", Percentage: 12},
			{Country: "Australia", Percentage: 10},
			{Country: "Others", Percentage: 23},
		},
	}
}

func engagementRate(engagement, posts int64) float64 {
	if posts <= 0 {
		return 0
	}
	return float64(engagement) / float64(posts) * 100
}

// growthRate compara dos promedios; previous <= 0 da 0
func growthRate(current, previous float64) float64 {
	if previous <= 0 {
		return 0
	}
	return (current - previous) / previous * 100
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// truncate corta a limit runas y agrega "..." si el texto era más largo
func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit]) + "..."
}
