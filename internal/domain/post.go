package domain

import "time"

// PostStatus representa los estados posibles de un post
type PostStatus string

const (
	StatusDraft     PostStatus = "draft"
	StatusScheduled PostStatus = "scheduled"
	StatusPublished PostStatus = "published"
	StatusFailed    PostStatus = "failed"
)

// PostType representa el tipo de contenido de un post
type PostType string

const (
	PostTypeText  PostType = "text"
	PostTypeImage PostType = "image"
	PostTypeVideo PostType = "video"
	PostTypeLink  PostType = "link"
)

// Post representa una publicación de una cuenta
type Post struct {
	ID            int64       `json:"id"`
	AccountID     int64       `json:"account_id"`
	Content       string      `json:"content"`
	MediaURL      *string     `json:"media_url"`
	ScheduledTime *time.Time  `json:"scheduled_time"`
	PublishedTime *time.Time  `json:"published_time"`
	Status        PostStatus  `json:"status"`
	PostType      PostType    `json:"post_type"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
	Engagement    *Engagement `json:"engagement"`
}

// transiciones permitidas; published es terminal
var postTransitions = map[PostStatus][]PostStatus{
	StatusDraft:     {StatusScheduled, StatusPublished, StatusFailed},
	StatusScheduled: {StatusPublished, StatusFailed},
	StatusFailed:    {StatusDraft, StatusScheduled, StatusPublished},
}

// IsValid retorna true si el status es uno de los cuatro conocidos
func (s PostStatus) IsValid() bool {
	switch s {
	case StatusDraft, StatusScheduled, StatusPublished, StatusFailed:
		return true
	}
	return false
}

// CanTransitionTo indica si el post puede pasar del status actual a next.
// Mantener el mismo status siempre está permitido.
func (s PostStatus) CanTransitionTo(next PostStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range postTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsValid retorna true si el tipo de post está soportado
func (t PostType) IsValid() bool {
	switch t {
	case PostTypeText, PostTypeImage, PostTypeVideo, PostTypeLink:
		return true
	}
	return false
}

// InitialStatus calcula el status de un post recién creado
func InitialStatus(scheduledTime *time.Time) PostStatus {
	if scheduledTime != nil {
		return StatusScheduled
	}
	return StatusDraft
}

// IsPublished retorna true si el post ya fue publicado
func (p *Post) IsPublished() bool {
	return p.Status == StatusPublished
}

// MarkPublished publica el post en el instante dado
func (p *Post) MarkPublished(at time.Time) {
	p.Status = StatusPublished
	p.PublishedTime = &at
	p.UpdatedAt = at
}
