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

// CommentRepository implementa repository.CommentRepository usando sqlx
type CommentRepository struct {
	db *sqlx.DB
}

var _ repository.CommentRepository = (*CommentRepository)(nil)

// NewCommentRepository crea un nuevo repositorio de comentarios
func NewCommentRepository(db *sqlx.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

type commentRow struct {
	ID         int64          `db:"id"`
	PostID     int64          `db:"post_id"`
	AuthorName string         `db:"author_name"`
	AuthorID   string         `db:"author_id"`
	Content    string         `db:"content"`
	Sentiment  sql.NullString `db:"sentiment"`
	CreatedAt  int64          `db:"created_at"`
}

// Create inserta un comentario
func (r *CommentRepository) Create(ctx context.Context, c *domain.Comment) (int64, error) {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}

	var sentiment interface{}
	if c.Sentiment != nil {
		sentiment = *c.Sentiment
	}

	query := `
		INSERT INTO comments (post_id, author_name, author_id, content, sentiment, created_at)
		VALUES (:post_id, :author_name, :author_id, :content, :sentiment, :created_at)
		RETURNING id
	`

	id, err := insertReturningID(ctx, r.db, query, map[string]interface{}{
		"post_id":     c.PostID,
		"author_name": c.AuthorName,
		"author_id":   c.AuthorID,
		"content":     c.Content,
		"sentiment":   sentiment,
		"created_at":  c.CreatedAt.Unix(),
	})
	if err != nil {
		return 0, fmt.Errorf("insert comment: %w", err)
	}

	return id, nil
}

// ListByPost lista los comentarios de un post en orden de llegada
func (r *CommentRepository) ListByPost(ctx context.Context, postID int64) ([]*domain.Comment, error) {
	var rows []commentRow

	query := r.db.Rebind(`
		SELECT * FROM comments
		WHERE post_id = ?
		ORDER BY created_at ASC, id ASC
	`)

	if err := r.db.SelectContext(ctx, &rows, query, postID); err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	comments := make([]*domain.Comment, 0, len(rows))
	for _, row := range rows {
		c := &domain.Comment{
			ID:         row.ID,
			PostID:     row.PostID,
			AuthorName: row.AuthorName,
			AuthorID:   row.AuthorID,
			Content:    row.Content,
			CreatedAt:  fromUnix(row.CreatedAt),
		}
		if row.Sentiment.Valid {
			s := row.Sentiment.String
			c.Sentiment = &s
		}
		comments = append(comments, c)
	}

	return comments, nil
}
