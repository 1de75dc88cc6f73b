package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/elsanchez/social-dashboard/internal/domain"
	"github.com/elsanchez/social-dashboard/internal/repository"
)

// secondsPerDay agrupa published_time (unix) en días UTC
const secondsPerDay = 86400

// StatsRepository implementa las agregaciones del dashboard
type StatsRepository struct {
	db *sqlx.DB
}

var _ repository.StatsRepository = (*StatsRepository)(nil)

// NewStatsRepository crea un nuevo repositorio de estadísticas
func NewStatsRepository(db *sqlx.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// SumFollowers suma followers de todos los snapshots, sin filtrar por fecha
func (r *StatsRepository) SumFollowers(ctx context.Context) (int64, error) {
	var total int64
	query := `SELECT CAST(COALESCE(SUM(followers), 0) AS BIGINT) FROM analytics`
	if err := r.db.GetContext(ctx, &total, query); err != nil {
		return 0, fmt.Errorf("sum followers: %w", err)
	}
	return total, nil
}

// CountPublishedPosts cuenta los posts publicados
func (r *StatsRepository) CountPublishedPosts(ctx context.Context) (int64, error) {
	var count int64
	query := r.db.Rebind(`SELECT COUNT(*) FROM posts WHERE status = ?`)
	if err := r.db.GetContext(ctx, &count, query, string(domain.StatusPublished)); err != nil {
		return 0, fmt.Errorf("count published posts: %w", err)
	}
	return count, nil
}

// SumEngagement suma likes+comments+shares del engagement con post existente
func (r *StatsRepository) SumEngagement(ctx context.Context) (int64, error) {
	var total int64
	query := `
		SELECT CAST(COALESCE(SUM(e.likes + e.comments + e.shares), 0) AS BIGINT)
		FROM engagement e
		JOIN posts p ON p.id = e.post_id
	`
	if err := r.db.GetContext(ctx, &total, query); err != nil {
		return 0, fmt.Errorf("sum engagement: %w", err)
	}
	return total, nil
}

// AverageFollowers promedia followers con date en [from, to)
func (r *StatsRepository) AverageFollowers(ctx context.Context, from, to time.Time) (float64, bool, error) {
	var avg sql.NullFloat64

	query := `SELECT CAST(AVG(followers) AS DOUBLE PRECISION) FROM analytics WHERE date >= ?`
	args := []interface{}{from.Unix()}
	if !to.IsZero() {
		query += ` AND date < ?`
		args = append(args, to.Unix())
	}

	if err := r.db.GetContext(ctx, &avg, r.db.Rebind(query), args...); err != nil {
		return 0, false, fmt.Errorf("average followers: %w", err)
	}

	return avg.Float64, avg.Valid, nil
}

type trendRow struct {
	Bucket   int64 `db:"bucket"`
	Likes    int64 `db:"likes"`
	Comments int64 `db:"comments"`
	Shares   int64 `db:"shares"`
	Views    int64 `db:"views"`
}

// EngagementByDay agrupa el engagement de los posts publicados desde since por día UTC
func (r *StatsRepository) EngagementByDay(ctx context.Context, since time.Time) ([]domain.EngagementTrend, error) {
	var rows []trendRow

	query := r.db.Rebind(fmt.Sprintf(`
		SELECT p.published_time / %d AS bucket,
		       CAST(SUM(e.likes) AS BIGINT)    AS likes,
		       CAST(SUM(e.comments) AS BIGINT) AS comments,
		       CAST(SUM(e.shares) AS BIGINT)   AS shares,
		       CAST(SUM(e.views) AS BIGINT)    AS views
		FROM posts p
		JOIN engagement e ON e.post_id = p.id
		WHERE p.status = ? AND p.published_time >= ?
		GROUP BY p.published_time / %d
		ORDER BY bucket ASC
	`, secondsPerDay, secondsPerDay))

	if err := r.db.SelectContext(ctx, &rows, query, string(domain.StatusPublished), since.Unix()); err != nil {
		return nil, fmt.Errorf("engagement by day: %w", err)
	}

	trends := make([]domain.EngagementTrend, 0, len(rows))
	for _, row := range rows {
		trends = append(trends, domain.EngagementTrend{
			Date:     fromUnix(row.Bucket * secondsPerDay).Format("2006-01-02"),
			Likes:    row.Likes,
			Comments: row.Comments,
			Shares:   row.Shares,
			Views:    row.Views,
		})
	}

	return trends, nil
}

// PlatformBreakdown resume cada cuenta activa por orden de id
func (r *StatsRepository) PlatformBreakdown(ctx context.Context) ([]domain.PlatformStats, error) {
	var stats []domain.PlatformStats

	query := r.db.Rebind(`
		SELECT a.platform, a.account_name,
		       COALESCE((SELECT s.followers FROM analytics s
		                 WHERE s.account_id = a.id
		                 ORDER BY s.date DESC, s.id DESC
		                 LIMIT 1), 0) AS followers,
		       (SELECT COUNT(*) FROM posts p
		        WHERE p.account_id = a.id AND p.status = ?) AS posts,
		       (SELECT CAST(COALESCE(SUM(e.likes + e.comments + e.shares), 0) AS BIGINT)
		        FROM posts p JOIN engagement e ON e.post_id = p.id
		        WHERE p.account_id = a.id) AS engagement
		FROM social_accounts a
		WHERE a.is_active = 1
		ORDER BY a.id ASC
	`)

	if err := r.db.SelectContext(ctx, &stats, query, string(domain.StatusPublished)); err != nil {
		return nil, fmt.Errorf("platform breakdown: %w", err)
	}

	if stats == nil {
		stats = []domain.PlatformStats{}
	}

	return stats, nil
}

type topPostRow struct {
	ID            int64         `db:"id"`
	Content       string        `db:"content"`
	Platform      string        `db:"platform"`
	PublishedTime sql.NullInt64 `db:"published_time"`
	Likes         int64         `db:"likes"`
	Comments      int64         `db:"comments"`
	Shares        int64         `db:"shares"`
}

// TopPosts devuelve los posts publicados con más engagement
func (r *StatsRepository) TopPosts(ctx context.Context, limit int) ([]domain.TopPost, error) {
	var rows []topPostRow

	query := r.db.Rebind(`
		SELECT p.id, p.content, a.platform, p.published_time, e.likes, e.comments, e.shares
		FROM posts p
		JOIN engagement e ON e.post_id = p.id
		JOIN social_accounts a ON a.id = p.account_id
		WHERE p.status = ?
		ORDER BY (e.likes + e.comments + e.shares) DESC, p.id ASC
		LIMIT ?
	`)

	if err := r.db.SelectContext(ctx, &rows, query, string(domain.StatusPublished), limit); err != nil {
		return nil, fmt.Errorf("top posts: %w", err)
	}

	posts := make([]domain.TopPost, 0, len(rows))
	for _, row := range rows {
		posts = append(posts, domain.TopPost{
			ID:              row.ID,
			Content:         row.Content,
			Platform:        row.Platform,
			PublishedTime:   fromNullUnix(row.PublishedTime),
			Likes:           row.Likes,
			Comments:        row.Comments,
			Shares:          row.Shares,
			TotalEngagement: row.Likes + row.Comments + row.Shares,
		})
	}

	return posts, nil
}
