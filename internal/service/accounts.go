package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/elsanchez/social-dashboard/internal/domain"
	"github.com/elsanchez/social-dashboard/internal/repository"
	apperrors "github.com/elsanchez/social-dashboard/pkg/errors"
)

// CreateAccountInput son los datos para registrar una cuenta
type CreateAccountInput struct {
	Platform    string `json:"platform" validate:"required,oneof=twitter facebook instagram linkedin"`
	AccountName string `json:"account_name" validate:"required,max=255"`
	AccountID   string `json:"account_id" validate:"required,max=255"`
	AccessToken string `json:"access_token"`
}

// SnapshotInput son los contadores de un snapshot de analytics
type SnapshotInput struct {
	Date            *time.Time `json:"date"`
	Followers       int64      `json:"followers" validate:"min=0"`
	Following       int64      `json:"following" validate:"min=0"`
	TotalPosts      int64      `json:"total_posts" validate:"min=0"`
	TotalEngagement int64      `json:"total_engagement" validate:"min=0"`
	Reach           int64      `json:"reach" validate:"min=0"`
	Impressions     int64      `json:"impressions" validate:"min=0"`
	ProfileViews    int64      `json:"profile_views" validate:"min=0"`
}

// AccountService gestiona cuentas y sus snapshots
type AccountService struct {
	accounts  repository.AccountRepository
	analytics repository.AnalyticsRepository
	clock     clockwork.Clock
}

// NewAccountService crea el servicio. clock nil usa el reloj real.
func NewAccountService(accounts repository.AccountRepository, analytics repository.AnalyticsRepository, clock clockwork.Clock) *AccountService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &AccountService{accounts: accounts, analytics: analytics, clock: clock}
}

// Create registra una cuenta; el id externo debe ser único
func (s *AccountService) Create(ctx context.Context, in CreateAccountInput) (*domain.Account, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	existing, err := s.accounts.GetByExternalID(ctx, in.AccountID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to check account")
	}
	if existing != nil {
		return nil, apperrors.NewConflict("Account already exists")
	}

	acc := &domain.Account{
		Platform:    in.Platform,
		AccountName: in.AccountName,
		ExternalID:  in.AccountID,
		AccessToken: in.AccessToken,
		IsActive:    true,
		CreatedAt:   s.clock.Now().UTC(),
	}

	// Otra request pudo insertarla entre la consulta y el insert
	id, err := s.accounts.Create(ctx, acc)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewConflict("Account already exists")
		}
		return nil, apperrors.Wrap(err, "failed to create account")
	}
	acc.ID = id

	return acc, nil
}

// Get obtiene una cuenta, activa o no
func (s *AccountService) Get(ctx context.Context, id int64) (*domain.Account, error) {
	acc, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, "Account")
	}
	return acc, nil
}

// List lista las cuentas activas
func (s *AccountService) List(ctx context.Context, skip, limit int) ([]*domain.Account, error) {
	accounts, err := s.accounts.ListActive(ctx, skip, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list accounts")
	}
	return accounts, nil
}

// Deactivate desactiva la cuenta (borrado lógico)
func (s *AccountService) Deactivate(ctx context.Context, id int64) error {
	if err := s.accounts.SetActive(ctx, id, false); err != nil {
		return translate(err, "Account")
	}
	return nil
}

// AddSnapshot agrega un snapshot de analytics a la cuenta
func (s *AccountService) AddSnapshot(ctx context.Context, accountID int64, in SnapshotInput) (*domain.Snapshot, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	if _, err := s.Get(ctx, accountID); err != nil {
		return nil, err
	}

	date := s.clock.Now().UTC()
	if in.Date != nil {
		date = in.Date.UTC()
	}

	snap := &domain.Snapshot{
		AccountID:       accountID,
		Date:            date,
		Followers:       in.Followers,
		Following:       in.Following,
		TotalPosts:      in.TotalPosts,
		TotalEngagement: in.TotalEngagement,
		Reach:           in.Reach,
		Impressions:     in.Impressions,
		ProfileViews:    in.ProfileViews,
	}

	id, err := s.analytics.Create(ctx, snap)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create analytics")
	}
	snap.ID = id

	return snap, nil
}

// ListSnapshots lista los snapshots de los últimos days días, más recientes primero
func (s *AccountService) ListSnapshots(ctx context.Context, accountID int64, days int) ([]*domain.Snapshot, error) {
	if _, err := s.Get(ctx, accountID); err != nil {
		return nil, err
	}

	since := s.clock.Now().UTC().AddDate(0, 0, -days)
	snaps, err := s.analytics.ListByAccount(ctx, accountID, since)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list analytics")
	}

	return snaps, nil
}

// translate convierte repository.ErrNotFound en NotFound; el resto es interno
func translate(err error, entity string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewNotFound(entity + " not found")
	}
	return apperrors.Wrap(err, fmt.Sprintf("failed to access %s", strings.ToLower(entity)))
}
