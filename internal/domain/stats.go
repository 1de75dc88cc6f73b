package domain

import "time"

// DashboardStats son los totales globales del dashboard
type DashboardStats struct {
	TotalFollowers  int64   `json:"total_followers"`
	TotalPosts      int64   `json:"total_posts"`
	TotalEngagement int64   `json:"total_engagement"`
	EngagementRate  float64 `json:"engagement_rate"`
	GrowthRate      float64 `json:"growth_rate"`
}

// EngagementTrend agrega el engagement de los posts publicados en un día
type EngagementTrend struct {
	Date     string `json:"date"`
	Likes    int64  `json:"likes"`
	Comments int64  `json:"comments"`
	Shares   int64  `json:"shares"`
	Views    int64  `json:"views"`
}

// PlatformStats resume una cuenta activa
type PlatformStats struct {
	Platform    string `json:"platform" db:"platform"`
	AccountName string `json:"account_name" db:"account_name"`
	Followers   int64  `json:"followers" db:"followers"`
	Posts       int64  `json:"posts" db:"posts"`
	Engagement  int64  `json:"engagement" db:"engagement"`
}

// TopPost es un post publicado con su engagement
type TopPost struct {
	ID              int64      `json:"id"`
	Content         string     `json:"content"`
	Platform        string     `json:"platform"`
	PublishedTime   *time.Time `json:"published_time"`
	Likes           int64      `json:"likes"`
	Comments        int64      `json:"comments"`
	Shares          int64      `json:"shares"`
	TotalEngagement int64      `json:"total_engagement"`
}

// AgeGroup es un tramo de edad de la audiencia
type AgeGroup struct {
	Range      string `json:"range"`
	Percentage int    `json:"percentage"`
}

// GenderShare es la proporción de un género en la audiencia
type GenderShare struct {
	Type       string `json:"type"`
	Percentage int    `json:"percentage"`
}

// LocationShare es la proporción de la audiencia en un país
type LocationShare struct {
	Country    string `json:"country"`
	Percentage int    `json:"percentage"`
}

// Demographics es el desglose de audiencia
type Demographics struct {
	AgeGroups []AgeGroup      `json:"age_groups"`
	Gender    []GenderShare   `json:"gender"`
	Locations []LocationShare `json:"locations"`
}
