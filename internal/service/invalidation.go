package service

import (
	"context"

	"github.com/elsanchez/social-dashboard/internal/cache"
)

// Cada mutación borra un conjunto fijo de claves. Las funciones *Keys son
// puras para poder verificar la lista exacta.

// PostCreatedKeys son las claves que invalida crear un post
func PostCreatedKeys(accountID int64) []string {
	return []string{cache.KeyPostsAll, cache.PostsByAccountKey(accountID)}
}

// PostUpdatedKeys son las claves que invalida editar un post
func PostUpdatedKeys(accountID, postID int64) []string {
	return []string{cache.KeyPostsAll, cache.PostsByAccountKey(accountID), cache.PostKey(postID)}
}

// PostDeletedKeys son las claves que invalida borrar un post
func PostDeletedKeys(accountID, postID int64) []string {
	return []string{cache.KeyPostsAll, cache.PostsByAccountKey(accountID), cache.PostKey(postID)}
}

// PostPublishedKeys son las claves que invalida publicar un post.
// post:{id} no se incluye.
func PostPublishedKeys(accountID int64) []string {
	return []string{cache.KeyPostsAll, cache.PostsByAccountKey(accountID), cache.KeyDashboardStats}
}

// EngagementUpdatedKeys son las claves que invalida actualizar engagement.
// Solo la ventana de tendencias por defecto.
func EngagementUpdatedKeys(postID int64) []string {
	return []string{cache.KeyDashboardStats, cache.EngagementTrendsKey(cache.DefaultTrendDays), cache.PostKey(postID)}
}

// SeedKeys son las claves que invalida cargar los datos de demo
func SeedKeys() []string {
	return []string{cache.KeyDashboardStats, cache.KeyPlatformStats, cache.EngagementTrendsKey(cache.DefaultTrendDays), cache.KeyPostsAll}
}

// Invalidator aplica las invalidaciones sobre la caché
type Invalidator struct {
	cache *cache.Aside
}

// NewInvalidator crea un invalidador sobre c
func NewInvalidator(c *cache.Aside) *Invalidator {
	return &Invalidator{cache: c}
}

func (i *Invalidator) PostCreated(ctx context.Context, accountID int64) {
	i.cache.Delete(ctx, PostCreatedKeys(accountID)...)
}

func (i *Invalidator) PostUpdated(ctx context.Context, accountID, postID int64) {
	i.cache.Delete(ctx, PostUpdatedKeys(accountID, postID)...)
}

func (i *Invalidator) PostDeleted(ctx context.Context, accountID, postID int64) {
	i.cache.Delete(ctx, PostDeletedKeys(accountID, postID)...)
}

func (i *Invalidator) PostPublished(ctx context.Context, accountID int64) {
	i.cache.Delete(ctx, PostPublishedKeys(accountID)...)
}

func (i *Invalidator) EngagementUpdated(ctx context.Context, postID int64) {
	i.cache.Delete(ctx, EngagementUpdatedKeys(postID)...)
}

func (i *Invalidator) Seeded(ctx context.Context) {
	i.cache.Delete(ctx, SeedKeys()...)
}
