package domain

import "time"

// Account representa una cuenta de red social gestionada por el dashboard
type Account struct {
	ID          int64     `json:"id"`
	Platform    string    `json:"platform"`
	AccountName string    `json:"account_name"`
	ExternalID  string    `json:"account_id"`
	AccessToken string    `json:"-"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// Platform constants para las plataformas soportadas
const (
	PlatformTwitter   = "twitter"
	PlatformFacebook  = "facebook"
	PlatformInstagram = "instagram"
	PlatformLinkedIn  = "linkedin"
)

// Platforms lista las plataformas válidas en orden estable
var Platforms = []string{
	PlatformTwitter,
	PlatformFacebook,
	PlatformInstagram,
	PlatformLinkedIn,
}

// IsValidPlatform retorna true si la plataforma está soportada
func IsValidPlatform(platform string) bool {
	for _, p := range Platforms {
		if p == platform {
			return true
		}
	}
	return false
}
