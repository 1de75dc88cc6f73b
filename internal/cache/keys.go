package cache

import (
	"strconv"
	"strings"
	"time"
)

// Claves fijas
const (
	KeyDashboardStats = "dashboard:stats"
	KeyPlatformStats  = "platform:stats"
	KeyPostsAll       = "posts:all"
)

// TTLs por operación
const (
	TTLDashboardStats = 5 * time.Minute
	TTLTrends         = 10 * time.Minute
	TTLPlatformStats  = 10 * time.Minute
	TTLTopPosts       = 10 * time.Minute
	TTLDemographics   = time.Hour
)

// DefaultTrendDays es la ventana que invalidan las mutaciones de engagement
const DefaultTrendDays = 30

// EngagementTrendsKey arma engagement:trends:{days}
func EngagementTrendsKey(days int) string {
	return "engagement:trends:" + strconv.Itoa(days)
}

// TopPostsKey arma top:posts:{limit}
func TopPostsKey(limit int) string {
	return "top:posts:" + strconv.Itoa(limit)
}

// DemographicsKey arma demographics:{id}, o demographics:all sin cuenta
func DemographicsKey(accountID *int64) string {
	if accountID == nil || *accountID == 0 {
		return "demographics:all"
	}
	return "demographics:" + strconv.FormatInt(*accountID, 10)
}

// PostsByAccountKey arma posts:account:{id}
func PostsByAccountKey(accountID int64) string {
	return "posts:account:" + strconv.FormatInt(accountID, 10)
}

// PostKey arma post:{id}
func PostKey(postID int64) string {
	return "post:" + strconv.FormatInt(postID, 10)
}

// Family devuelve el primer segmento de la clave (etiqueta de métricas)
func Family(key string) string {
	if i := strings.IndexByte(key, ':'); i >= 0 {
		return key[:i]
	}
	return key
}
