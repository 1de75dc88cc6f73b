package repository

import (
	"context"
	"time"

	"github.com/elsanchez/social-dashboard/internal/domain"
)

// StatsRepository agrupa las consultas de agregación del dashboard
type StatsRepository interface {
	// SumFollowers suma followers de todas las filas de analytics, de todas las fechas
	SumFollowers(ctx context.Context) (int64, error)
	CountPublishedPosts(ctx context.Context) (int64, error)
	// SumEngagement suma likes+comments+shares de todo engagement con post
	SumEngagement(ctx context.Context) (int64, error)
	// AverageFollowers promedia followers con date en [from, to); to cero = sin límite.
	// ok es false cuando no hay filas en la ventana.
	AverageFollowers(ctx context.Context, from, to time.Time) (avg float64, ok bool, err error)

	EngagementByDay(ctx context.Context, since time.Time) ([]domain.EngagementTrend, error)
	PlatformBreakdown(ctx context.Context) ([]domain.PlatformStats, error)
	// TopPosts devuelve el contenido completo; el recorte lo hace el servicio
	TopPosts(ctx context.Context, limit int) ([]domain.TopPost, error)
}
