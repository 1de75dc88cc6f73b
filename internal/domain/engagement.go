package domain

import "time"

// Engagement contiene las métricas de interacción de un post (relación 1:1)
type Engagement struct {
	ID             int64     `json:"-"`
	PostID         int64     `json:"-"`
	Likes          int64     `json:"likes"`
	Comments       int64     `json:"comments"`
	Shares         int64     `json:"shares"`
	Views          int64     `json:"views"`
	Clicks         int64     `json:"clicks"`
	EngagementRate float64   `json:"engagement_rate"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Metrics son los contadores que se reciben al actualizar engagement
type Metrics struct {
	Likes    int64 `json:"likes" validate:"min=0"`
	Comments int64 `json:"comments" validate:"min=0"`
	Shares   int64 `json:"shares" validate:"min=0"`
	Views    int64 `json:"views" validate:"min=0"`
	Clicks   int64 `json:"clicks" validate:"min=0"`
}

// NewEngagement crea el registro vacío asociado a un post nuevo
func NewEngagement(postID int64, now time.Time) *Engagement {
	return &Engagement{PostID: postID, UpdatedAt: now}
}

// Total suma likes, comments y shares
func (e *Engagement) Total() int64 {
	return e.Likes + e.Comments + e.Shares
}

// Apply reemplaza los contadores y recalcula la tasa.
// Con views = 0 la tasa conserva su valor anterior.
func (e *Engagement) Apply(m Metrics, now time.Time) {
	e.Likes = m.Likes
	e.Comments = m.Comments
	e.Shares = m.Shares
	e.Views = m.Views
	e.Clicks = m.Clicks

	if m.Views > 0 {
		e.EngagementRate = EngagementRate(m)
	}

	e.UpdatedAt = now
}

// EngagementRate calcula (likes+comments+shares+clicks)/views × 100, o 0 sin views
func EngagementRate(m Metrics) float64 {
	if m.Views <= 0 {
		return 0
	}
	total := m.Likes + m.Comments + m.Shares + m.Clicks
	return float64(total) / float64(m.Views) * 100
}
