package repository

import (
	"context"

	"github.com/elsanchez/social-dashboard/internal/domain"
)

// PostFilter son los filtros opcionales del listado de posts
type PostFilter struct {
	AccountID *int64
	Status    domain.PostStatus
	Offset    int
	Limit     int
}

// PostRepository define las operaciones sobre posts.
// Todas las lecturas devuelven el post con su engagement materializado.
type PostRepository interface {
	// Create inserta el post y su fila de engagement en la misma transacción
	Create(ctx context.Context, post *domain.Post) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Post, error)
	Update(ctx context.Context, post *domain.Post) error
	// Delete elimina el post, su engagement y sus comentarios en la misma transacción
	Delete(ctx context.Context, id int64) error

	// Queries especializadas
	List(ctx context.Context, filter PostFilter) ([]*domain.Post, error)
	ListScheduled(ctx context.Context) ([]*domain.Post, error)
	Count(ctx context.Context) (int, error)
}

// EngagementRepository define las operaciones sobre engagement
type EngagementRepository interface {
	GetByPostID(ctx context.Context, postID int64) (*domain.Engagement, error)
	Update(ctx context.Context, e *domain.Engagement) error
}

// CommentRepository define las operaciones sobre comentarios
type CommentRepository interface {
	Create(ctx context.Context, c *domain.Comment) (int64, error)
	ListByPost(ctx context.Context, postID int64) ([]*domain.Comment, error)
}
