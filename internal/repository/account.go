package repository

import (
	"context"
	"time"

	"github.com/elsanchez/social-dashboard/internal/domain"
)

// AccountRepository define las operaciones sobre cuentas
type AccountRepository interface {
	// CRUD básico
	Create(ctx context.Context, acc *domain.Account) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Account, error)
	SetActive(ctx context.Context, id int64, active bool) error

	// Queries especializadas
	GetByExternalID(ctx context.Context, externalID string) (*domain.Account, error)
	ListActive(ctx context.Context, offset, limit int) ([]*domain.Account, error)
	Count(ctx context.Context) (int, error)
}

// AnalyticsRepository define las operaciones sobre snapshots de analytics
type AnalyticsRepository interface {
	Create(ctx context.Context, snap *domain.Snapshot) (int64, error)
	ListByAccount(ctx context.Context, accountID int64, since time.Time) ([]*domain.Snapshot, error)
}
