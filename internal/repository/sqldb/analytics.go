package sqldb

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/elsanchez/social-dashboard/internal/domain"
	"github.com/elsanchez/social-dashboard/internal/repository"
)

// AnalyticsRepository implementa repository.AnalyticsRepository usando sqlx
type AnalyticsRepository struct {
	db *sqlx.DB
}

var _ repository.AnalyticsRepository = (*AnalyticsRepository)(nil)

// NewAnalyticsRepository crea un nuevo repositorio de snapshots
func NewAnalyticsRepository(db *sqlx.DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

type snapshotRow struct {
	ID              int64 `db:"id"`
	AccountID       int64 `db:"account_id"`
	Date            int64 `db:"date"`
	Followers       int64 `db:"followers"`
	Following       int64 `db:"following"`
	TotalPosts      int64 `db:"total_posts"`
	TotalEngagement int64 `db:"total_engagement"`
	Reach           int64 `db:"reach"`
	Impressions     int64 `db:"impressions"`
	ProfileViews    int64 `db:"profile_views"`
}

// Create agrega un snapshot. No hay unicidad por (cuenta, fecha).
func (r *AnalyticsRepository) Create(ctx context.Context, snap *domain.Snapshot) (int64, error) {
	query := `
		INSERT INTO analytics (account_id, date, followers, following, total_posts,
		                       total_engagement, reach, impressions, profile_views)
		VALUES (:account_id, :date, :followers, :following, :total_posts,
		        :total_engagement, :reach, :impressions, :profile_views)
		RETURNING id
	`

	id, err := insertReturningID(ctx, r.db, query, snapshotRow{
		AccountID:       snap.AccountID,
		Date:            snap.Date.Unix(),
		Followers:       snap.Followers,
		Following:       snap.Following,
		TotalPosts:      snap.TotalPosts,
		TotalEngagement: snap.TotalEngagement,
		Reach:           snap.Reach,
		Impressions:     snap.Impressions,
		ProfileViews:    snap.ProfileViews,
	})
	if err != nil {
		return 0, fmt.Errorf("insert snapshot: %w", err)
	}

	return id, nil
}

// ListByAccount obtiene los snapshots desde since, más recientes primero
func (r *AnalyticsRepository) ListByAccount(ctx context.Context, accountID int64, since time.Time) ([]*domain.Snapshot, error) {
	var rows []snapshotRow

	query := r.db.Rebind(`
		SELECT * FROM analytics
		WHERE account_id = ? AND date >= ?
		ORDER BY date DESC, id DESC
	`)

	if err := r.db.SelectContext(ctx, &rows, query, accountID, since.Unix()); err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}

	snaps := make([]*domain.Snapshot, 0, len(rows))
	for _, row := range rows {
		snaps = append(snaps, &domain.Snapshot{
			ID:              row.ID,
			AccountID:       row.AccountID,
			Date:            fromUnix(row.Date),
			Followers:       row.Followers,
			Following:       row.Following,
			TotalPosts:      row.TotalPosts,
			TotalEngagement: row.TotalEngagement,
			Reach:           row.Reach,
			Impressions:     row.Impressions,
			ProfileViews:    row.ProfileViews,
		})
	}

	return snaps, nil
}
