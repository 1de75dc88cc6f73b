package domain

import "time"

// Sentiment constants
const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

// Comment representa un comentario recibido en un post
type Comment struct {
	ID         int64     `json:"id"`
	PostID     int64     `json:"post_id"`
	AuthorName string    `json:"author_name"`
	AuthorID   string    `json:"author_id"`
	Content    string    `json:"content"`
	Sentiment  *string   `json:"sentiment"`
	CreatedAt  time.Time `json:"created_at"`
}
