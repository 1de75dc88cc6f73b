package sqldb

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/elsanchez/social-dashboard/internal/domain"
	"github.com/elsanchez/social-dashboard/internal/repository"
)

// EngagementRepository implementa repository.EngagementRepository usando sqlx
type EngagementRepository struct {
	db *sqlx.DB
}

var _ repository.EngagementRepository = (*EngagementRepository)(nil)

// NewEngagementRepository crea un nuevo repositorio de engagement
func NewEngagementRepository(db *sqlx.DB) *EngagementRepository {
	return &EngagementRepository{db: db}
}

type engagementRow struct {
	ID             int64   `db:"id"`
	PostID         int64   `db:"post_id"`
	Likes          int64   `db:"likes"`
	Comments       int64   `db:"comments"`
	Shares         int64   `db:"shares"`
	Views          int64   `db:"views"`
	Clicks         int64   `db:"clicks"`
	EngagementRate float64 `db:"engagement_rate"`
	UpdatedAt      int64   `db:"updated_at"`
}

// GetByPostID obtiene el engagement de un post
func (r *EngagementRepository) GetByPostID(ctx context.Context, postID int64) (*domain.Engagement, error) {
	var row engagementRow

	query := r.db.Rebind(`SELECT * FROM engagement WHERE post_id = ?`)
	if err := r.db.GetContext(ctx, &row, query, postID); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("engagement for post %d: %w", postID, repository.ErrNotFound)
		}
		return nil, fmt.Errorf("get engagement: %w", err)
	}

	return &domain.Engagement{
		ID:             row.ID,
		PostID:         row.PostID,
		Likes:          row.Likes,
		Comments:       row.Comments,
		Shares:         row.Shares,
		Views:          row.Views,
		Clicks:         row.Clicks,
		EngagementRate: row.EngagementRate,
		UpdatedAt:      fromUnix(row.UpdatedAt),
	}, nil
}

// Update reemplaza los contadores y la tasa del engagement de un post
func (r *EngagementRepository) Update(ctx context.Context, e *domain.Engagement) error {
	query := `
		UPDATE engagement
		SET likes = :likes,
		    comments = :comments,
		    shares = :shares,
		    views = :views,
		    clicks = :clicks,
		    engagement_rate = :engagement_rate,
		    updated_at = :updated_at
		WHERE post_id = :post_id
	`

	result, err := r.db.NamedExecContext(ctx, query, map[string]interface{}{
		"post_id":         e.PostID,
		"likes":           e.Likes,
		"comments":        e.Comments,
		"shares":          e.Shares,
		"views":           e.Views,
		"clicks":          e.Clicks,
		"engagement_rate": e.EngagementRate,
		"updated_at":      e.UpdatedAt.Unix(),
	})
	if err != nil {
		return fmt.Errorf("update engagement: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("engagement for post %d: %w", e.PostID, repository.ErrNotFound)
	}

	return nil
}
