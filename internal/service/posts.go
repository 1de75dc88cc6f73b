package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/elsanchez/social-dashboard/internal/domain"
	"github.com/elsanchez/social-dashboard/internal/metrics"
	"github.com/elsanchez/social-dashboard/internal/repository"
	apperrors "github.com/elsanchez/social-dashboard/pkg/errors"
)

// CreatePostInput son los datos para crear un post
type CreatePostInput struct {
	AccountID     int64           `json:"account_id" validate:"required,gt=0"`
	Content       string          `json:"content" validate:"required"`
	MediaURL      *string         `json:"media_url" validate:"omitempty,url"`
	ScheduledTime *time.Time      `json:"scheduled_time"`
	PostType      domain.PostType `json:"post_type" validate:"omitempty,oneof=text image video link"`
}

// UpdatePostInput es una actualización parcial; nil deja el campo igual
type UpdatePostInput struct {
	Content       *string            `json:"content" validate:"omitempty,min=1"`
	MediaURL      *string            `json:"media_url" validate:"omitempty,url"`
	ScheduledTime *time.Time         `json:"scheduled_time"`
	Status        *domain.PostStatus `json:"status" validate:"omitempty,oneof=draft scheduled published failed"`
	PostType      *domain.PostType   `json:"post_type" validate:"omitempty,oneof=text image video link"`
}

// CommentInput son los datos de un comentario
type CommentInput struct {
	AuthorName string  `json:"author_name" validate:"required,max=255"`
	AuthorID   string  `json:"author_id" validate:"required,max=255"`
	Content    string  `json:"content" validate:"required"`
	Sentiment  *string `json:"sentiment" validate:"omitempty,oneof=positive negative neutral"`
}

// PostService gestiona posts, engagement y comentarios
type PostService struct {
	posts       repository.PostRepository
	engagement  repository.EngagementRepository
	comments    repository.CommentRepository
	accounts    repository.AccountRepository
	invalidator *Invalidator
	metrics     *metrics.Collector
	logger      *zap.Logger
	clock       clockwork.Clock
}

// PostServiceDeps agrupa las dependencias de PostService
type PostServiceDeps struct {
	Posts       repository.PostRepository
	Engagement  repository.EngagementRepository
	Comments    repository.CommentRepository
	Accounts    repository.AccountRepository
	Invalidator *Invalidator
	Metrics     *metrics.Collector
	Logger      *zap.Logger
	Clock       clockwork.Clock
}

// NewPostService crea el servicio
func NewPostService(deps PostServiceDeps) *PostService {
	if deps.Clock == nil {
		deps.Clock = clockwork.NewRealClock()
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	return &PostService{
		posts:       deps.Posts,
		engagement:  deps.Engagement,
		comments:    deps.Comments,
		accounts:    deps.Accounts,
		invalidator: deps.Invalidator,
		metrics:     deps.Metrics,
		logger:      deps.Logger,
		clock:       deps.Clock,
	}
}

// Create crea el post con su engagement en cero
func (s *PostService) Create(ctx context.Context, in CreatePostInput) (*domain.Post, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	if _, err := s.accounts.GetByID(ctx, in.AccountID); err != nil {
		return nil, translate(err, "Account")
	}

	postType := in.PostType
	if postType == "" {
		postType = domain.PostTypeText
	}

	now := s.clock.Now().UTC()
	post := &domain.Post{
		AccountID:     in.AccountID,
		Content:       in.Content,
		MediaURL:      in.MediaURL,
		ScheduledTime: in.ScheduledTime,
		Status:        domain.InitialStatus(in.ScheduledTime),
		PostType:      postType,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	id, err := s.posts.Create(ctx, post)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create post")
	}

	s.invalidator.PostCreated(ctx, in.AccountID)

	return s.Get(ctx, id)
}

// Get obtiene un post con su engagement
func (s *PostService) Get(ctx context.Context, id int64) (*domain.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, "Post")
	}
	return post, nil
}

// List lista posts filtrados por cuenta y status
func (s *PostService) List(ctx context.Context, filter repository.PostFilter) ([]*domain.Post, error) {
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, apperrors.NewValidation(fmt.Sprintf("unknown status: %s", filter.Status))
	}

	posts, err := s.posts.List(ctx, filter)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list posts")
	}
	return posts, nil
}

// ListScheduled lista los posts programados
func (s *PostService) ListScheduled(ctx context.Context) ([]*domain.Post, error) {
	posts, err := s.posts.ListScheduled(ctx)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list scheduled posts")
	}
	return posts, nil
}

// Update aplica una actualización parcial respetando las transiciones de status
func (s *PostService) Update(ctx context.Context, id int64, in UpdatePostInput) (*domain.Post, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	post, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now().UTC()
	published := false

	if in.Content != nil {
		post.Content = *in.Content
	}
	if in.MediaURL != nil {
		post.MediaURL = in.MediaURL
	}
	if in.ScheduledTime != nil {
		post.ScheduledTime = in.ScheduledTime
	}
	if in.PostType != nil {
		post.PostType = *in.PostType
	}
	if in.Status != nil && *in.Status != post.Status {
		if !post.Status.CanTransitionTo(*in.Status) {
			return nil, apperrors.NewConflict(fmt.Sprintf("cannot change status from %s to %s", post.Status, *in.Status))
		}
		if *in.Status == domain.StatusPublished {
			post.MarkPublished(now)
			published = true
		} else {
			post.Status = *in.Status
		}
	}
	post.UpdatedAt = now

	if err := s.posts.Update(ctx, post); err != nil {
		return nil, translate(err, "Post")
	}

	s.invalidator.PostUpdated(ctx, post.AccountID, post.ID)
	if published {
		s.invalidator.PostPublished(ctx, post.AccountID)
		s.metrics.IncPostsPublished()
	}

	return post, nil
}

// Delete borra el post con su engagement y comentarios
func (s *PostService) Delete(ctx context.Context, id int64) error {
	post, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.posts.Delete(ctx, id); err != nil {
		return translate(err, "Post")
	}

	s.invalidator.PostDeleted(ctx, post.AccountID, post.ID)
	return nil
}

// Publish marca el post como publicado ahora
func (s *PostService) Publish(ctx context.Context, id int64) (*domain.Post, error) {
	post, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if post.IsPublished() {
		return nil, apperrors.NewConflict("Post already published")
	}

	post.MarkPublished(s.clock.Now().UTC())

	if err := s.posts.Update(ctx, post); err != nil {
		return nil, translate(err, "Post")
	}

	s.invalidator.PostPublished(ctx, post.AccountID)
	s.metrics.IncPostsPublished()

	s.logger.Info("post published",
		zap.Int64("post_id", post.ID),
		zap.Int64("account_id", post.AccountID))

	return post, nil
}

// UpdateEngagement reemplaza las métricas de un post
func (s *PostService) UpdateEngagement(ctx context.Context, postID int64, m domain.Metrics) (*domain.Engagement, error) {
	if err := validateStruct(m); err != nil {
		return nil, err
	}

	eng, err := s.engagement.GetByPostID(ctx, postID)
	if err != nil {
		return nil, translate(err, "Engagement")
	}

	eng.Apply(m, s.clock.Now().UTC())

	if err := s.engagement.Update(ctx, eng); err != nil {
		return nil, translate(err, "Engagement")
	}

	s.invalidator.EngagementUpdated(ctx, postID)
	s.metrics.IncEngagementUpdates()

	return eng, nil
}

// AddComment guarda un comentario en un post existente
func (s *PostService) AddComment(ctx context.Context, postID int64, in CommentInput) (*domain.Comment, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	if _, err := s.Get(ctx, postID); err != nil {
		return nil, err
	}

	c := &domain.Comment{
		PostID:     postID,
		AuthorName: in.AuthorName,
		AuthorID:   in.AuthorID,
		Content:    in.Content,
		Sentiment:  in.Sentiment,
		CreatedAt:  s.clock.Now().UTC(),
	}

	id, err := s.comments.Create(ctx, c)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create comment")
	}
	c.ID = id

	return c, nil
}

// ListComments lista los comentarios de un post
func (s *PostService) ListComments(ctx context.Context, postID int64) ([]*domain.Comment, error) {
	if _, err := s.Get(ctx, postID); err != nil {
		return nil, err
	}

	comments, err := s.comments.ListByPost(ctx, postID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list comments")
	}
	return comments, nil
}
