package domain

import "time"

// Snapshot es una foto diaria de las métricas de una cuenta.
// No hay unicidad por (cuenta, fecha): varias filas por día son válidas.
type Snapshot struct {
	ID              int64     `json:"id"`
	AccountID       int64     `json:"account_id"`
	Date            time.Time `json:"date"`
	Followers       int64     `json:"followers"`
	Following       int64     `json:"following"`
	TotalPosts      int64     `json:"total_posts"`
	TotalEngagement int64     `json:"total_engagement"`
	Reach           int64     `json:"reach"`
	Impressions     int64     `json:"impressions"`
	ProfileViews    int64     `json:"profile_views"`
}
