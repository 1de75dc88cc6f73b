package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/elsanchez/social-dashboard/internal/domain"
	"github.com/elsanchez/social-dashboard/internal/repository"
)

// PostRepository implementa repository.PostRepository usando sqlx
type PostRepository struct {
	db *sqlx.DB
}

var _ repository.PostRepository = (*PostRepository)(nil)

// NewPostRepository crea un nuevo repositorio de posts
func NewPostRepository(db *sqlx.DB) *PostRepository {
	return &PostRepository{db: db}
}

// postRow mapea posts LEFT JOIN engagement
type postRow struct {
	ID            int64          `db:"id"`
	AccountID     int64          `db:"account_id"`
	Content       string         `db:"content"`
	MediaURL      sql.NullString `db:"media_url"`
	ScheduledTime sql.NullInt64  `db:"scheduled_time"`
	PublishedTime sql.NullInt64  `db:"published_time"`
	Status        string         `db:"status"`
	PostType      string         `db:"post_type"`
	CreatedAt     int64          `db:"created_at"`
	UpdatedAt     int64          `db:"updated_at"`

	// Engagement (nulo si falta la fila)
	EngagementID   sql.NullInt64   `db:"e_id"`
	Likes          sql.NullInt64   `db:"e_likes"`
	Comments       sql.NullInt64   `db:"e_comments"`
	Shares         sql.NullInt64   `db:"e_shares"`
	Views          sql.NullInt64   `db:"e_views"`
	Clicks         sql.NullInt64   `db:"e_clicks"`
	EngagementRate sql.NullFloat64 `db:"e_engagement_rate"`
	EngUpdatedAt   sql.NullInt64   `db:"e_updated_at"`
}

const selectPostColumns = `
	SELECT p.id, p.account_id, p.content, p.media_url, p.scheduled_time, p.published_time,
	       p.status, p.post_type, p.created_at, p.updated_at,
	       e.id AS e_id, e.likes AS e_likes, e.comments AS e_comments, e.shares AS e_shares,
	       e.views AS e_views, e.clicks AS e_clicks, e.engagement_rate AS e_engagement_rate,
	       e.updated_at AS e_updated_at
	FROM posts p
	LEFT JOIN engagement e ON e.post_id = p.id
`

// Create inserta el post y su engagement vacío en una transacción
func (r *PostRepository) Create(ctx context.Context, post *domain.Post) (int64, error) {
	now := time.Now()
	if post.CreatedAt.IsZero() {
		post.CreatedAt = now
	}
	if post.UpdatedAt.IsZero() {
		post.UpdatedAt = post.CreatedAt
	}

	var id int64
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO posts (account_id, content, media_url, scheduled_time, published_time,
			                   status, post_type, created_at, updated_at)
			VALUES (:account_id, :content, :media_url, :scheduled_time, :published_time,
			        :status, :post_type, :created_at, :updated_at)
			RETURNING id
		`

		var err error
		id, err = insertReturningID(ctx, tx, query, postParams(post))
		if err != nil {
			return fmt.Errorf("insert post: %w", err)
		}

		eng := domain.NewEngagement(id, post.CreatedAt)
		engQuery := tx.Rebind(`
			INSERT INTO engagement (post_id, likes, comments, shares, views, clicks, engagement_rate, updated_at)
			VALUES (?, 0, 0, 0, 0, 0, 0, ?)
		`)
		if _, err := tx.ExecContext(ctx, engQuery, id, eng.UpdatedAt.Unix()); err != nil {
			return fmt.Errorf("insert engagement: %w", err)
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return id, nil
}

// GetByID obtiene un post con su engagement
func (r *PostRepository) GetByID(ctx context.Context, id int64) (*domain.Post, error) {
	var row postRow

	query := r.db.Rebind(selectPostColumns + ` WHERE p.id = ?`)
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("post %d: %w", id, repository.ErrNotFound)
		}
		return nil, fmt.Errorf("get post: %w", err)
	}

	return postRowToDomain(&row), nil
}

// Update actualiza los campos editables del post (el engagement va aparte)
func (r *PostRepository) Update(ctx context.Context, post *domain.Post) error {
	if post.UpdatedAt.IsZero() {
		post.UpdatedAt = time.Now()
	}

	query := `
		UPDATE posts
		SET content = :content,
		    media_url = :media_url,
		    scheduled_time = :scheduled_time,
		    published_time = :published_time,
		    status = :status,
		    post_type = :post_type,
		    updated_at = :updated_at
		WHERE id = :id
	`

	params := postParams(post)
	params["id"] = post.ID

	result, err := r.db.NamedExecContext(ctx, query, params)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("post %d: %w", post.ID, repository.ErrNotFound)
	}

	return nil
}

// Delete elimina el post y su engagement; los comentarios caen por cascada
func (r *PostRepository) Delete(ctx context.Context, id int64) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM engagement WHERE post_id = ?`), id); err != nil {
			return fmt.Errorf("delete engagement: %w", err)
		}

		result, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM posts WHERE id = ?`), id)
		if err != nil {
			return fmt.Errorf("delete post: %w", err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("get rows affected: %w", err)
		}

		if rows == 0 {
			return fmt.Errorf("post %d: %w", id, repository.ErrNotFound)
		}

		return nil
	})
}

// List lista posts con filtros opcionales, más recientes primero
func (r *PostRepository) List(ctx context.Context, filter repository.PostFilter) ([]*domain.Post, error) {
	var (
		conds []string
		args  []interface{}
	)

	if filter.AccountID != nil {
		conds = append(conds, "p.account_id = ?")
		args = append(args, *filter.AccountID)
	}
	if filter.Status != "" {
		conds = append(conds, "p.status = ?")
		args = append(args, string(filter.Status))
	}

	query := selectPostColumns
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY p.created_at DESC, p.id DESC"

	if filter.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, filter.Limit, filter.Offset)
	}

	var rows []postRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	return postRowsToDomain(rows), nil
}

// ListScheduled lista los posts programados por orden de publicación
func (r *PostRepository) ListScheduled(ctx context.Context) ([]*domain.Post, error) {
	var rows []postRow

	query := r.db.Rebind(selectPostColumns + `
		WHERE p.status = ? AND p.scheduled_time IS NOT NULL
		ORDER BY p.scheduled_time ASC, p.id ASC
	`)

	if err := r.db.SelectContext(ctx, &rows, query, string(domain.StatusScheduled)); err != nil {
		return nil, fmt.Errorf("list scheduled posts: %w", err)
	}

	return postRowsToDomain(rows), nil
}

// Count cuenta todos los posts
func (r *PostRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM posts`)
	return count, err
}

// postParams arma los parámetros nombrados comunes a insert y update
func postParams(post *domain.Post) map[string]interface{} {
	var mediaURL interface{}
	if post.MediaURL != nil {
		mediaURL = *post.MediaURL
	}

	return map[string]interface{}{
		"account_id":     post.AccountID,
		"content":        post.Content,
		"media_url":      mediaURL,
		"scheduled_time": unixOrNil(post.ScheduledTime),
		"published_time": unixOrNil(post.PublishedTime),
		"status":         string(post.Status),
		"post_type":      string(post.PostType),
		"created_at":     post.CreatedAt.Unix(),
		"updated_at":     post.UpdatedAt.Unix(),
	}
}

// Helper: conversión row → domain
func postRowToDomain(row *postRow) *domain.Post {
	post := &domain.Post{
		ID:            row.ID,
		AccountID:     row.AccountID,
		Content:       row.Content,
		ScheduledTime: fromNullUnix(row.ScheduledTime),
		PublishedTime: fromNullUnix(row.PublishedTime),
		Status:        domain.PostStatus(row.Status),
		PostType:      domain.PostType(row.PostType),
		CreatedAt:     fromUnix(row.CreatedAt),
		UpdatedAt:     fromUnix(row.UpdatedAt),
	}

	if row.MediaURL.Valid {
		url := row.MediaURL.String
		post.MediaURL = &url
	}

	if row.EngagementID.Valid {
		post.Engagement = &domain.Engagement{
			ID:             row.EngagementID.Int64,
			PostID:         row.ID,
			Likes:          row.Likes.Int64,
			Comments:       row.Comments.Int64,
			Shares:         row.Shares.Int64,
			Views:          row.Views.Int64,
			Clicks:         row.Clicks.Int64,
			EngagementRate: row.EngagementRate.Float64,
			UpdatedAt:      fromUnix(row.EngUpdatedAt.Int64),
		}
	}

	return post
}

// Helper: conversión múltiples rows → domain
func postRowsToDomain(rows []postRow) []*domain.Post {
	posts := make([]*domain.Post, 0, len(rows))

	for _, row := range rows {
		posts = append(posts, postRowToDomain(&row))
	}

	return posts
}
