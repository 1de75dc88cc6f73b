package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/elsanchez/social-dashboard/internal/domain"
	"github.com/elsanchez/social-dashboard/internal/repository"
)

// AccountRepository implementa repository.AccountRepository usando sqlx
type AccountRepository struct {
	db *sqlx.DB
}

// Compiletime check: asegura que implementa la interfaz
var _ repository.AccountRepository = (*AccountRepository)(nil)

// NewAccountRepository crea un nuevo repositorio de cuentas
func NewAccountRepository(db *sqlx.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// accountRow mapea la tabla SQL a struct Go
type accountRow struct {
	ID          int64          `db:"id"`
	Platform    string         `db:"platform"`
	AccountName string         `db:"account_name"`
	ExternalID  string         `db:"account_id"`
	AccessToken sql.NullString `db:"access_token"`
	IsActive    int            `db:"is_active"`
	CreatedAt   int64          `db:"created_at"`
}

// Create inserta una nueva cuenta
func (r *AccountRepository) Create(ctx context.Context, acc *domain.Account) (int64, error) {
	query := `
		INSERT INTO social_accounts (platform, account_name, account_id, access_token, is_active, created_at)
		VALUES (:platform, :account_name, :account_id, :access_token, :is_active, :created_at)
		RETURNING id
	`

	var token interface{}
	if acc.AccessToken != "" {
		token = acc.AccessToken
	}

	createdAt := acc.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	id, err := insertReturningID(ctx, r.db, query, map[string]interface{}{
		"platform":     acc.Platform,
		"account_name": acc.AccountName,
		"account_id":   acc.ExternalID,
		"access_token": token,
		"is_active":    boolToInt(acc.IsActive),
		"created_at":   createdAt.Unix(),
	})
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("account %s: %w", acc.ExternalID, repository.ErrDuplicate)
		}
		return 0, fmt.Errorf("insert account: %w", err)
	}

	return id, nil
}

// GetByID obtiene una cuenta por ID
func (r *AccountRepository) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	var row accountRow

	query := r.db.Rebind(`SELECT * FROM social_accounts WHERE id = ?`)
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("account %d: %w", id, repository.ErrNotFound)
		}
		return nil, fmt.Errorf("get account: %w", err)
	}

	return accountRowToDomain(&row), nil
}

// GetByExternalID busca por el identificador de la plataforma.
// Retorna nil, nil si no existe.
func (r *AccountRepository) GetByExternalID(ctx context.Context, externalID string) (*domain.Account, error) {
	var row accountRow

	query := r.db.Rebind(`SELECT * FROM social_accounts WHERE account_id = ?`)
	if err := r.db.GetContext(ctx, &row, query, externalID); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // No existe (no es error)
		}
		return nil, fmt.Errorf("get account by external id: %w", err)
	}

	return accountRowToDomain(&row), nil
}

// SetActive activa o desactiva una cuenta
func (r *AccountRepository) SetActive(ctx context.Context, id int64, active bool) error {
	query := r.db.Rebind(`UPDATE social_accounts SET is_active = ? WHERE id = ?`)

	result, err := r.db.ExecContext(ctx, query, boolToInt(active), id)
	if err != nil {
		return fmt.Errorf("set account active: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("account %d: %w", id, repository.ErrNotFound)
	}

	return nil
}

// ListActive lista las cuentas activas paginadas
func (r *AccountRepository) ListActive(ctx context.Context, offset, limit int) ([]*domain.Account, error) {
	var rows []accountRow

	query := r.db.Rebind(`
		SELECT * FROM social_accounts
		WHERE is_active = 1
		ORDER BY id ASC
		LIMIT ? OFFSET ?
	`)

	if err := r.db.SelectContext(ctx, &rows, query, limit, offset); err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}

	return accountRowsToDomain(rows), nil
}

// Count cuenta todas las cuentas, activas o no
func (r *AccountRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM social_accounts`)
	return count, err
}

// Helper: conversión row → domain
func accountRowToDomain(row *accountRow) *domain.Account {
	return &domain.Account{
		ID:          row.ID,
		Platform:    row.Platform,
		AccountName: row.AccountName,
		ExternalID:  row.ExternalID,
		AccessToken: row.AccessToken.String,
		IsActive:    row.IsActive == 1,
		CreatedAt:   fromUnix(row.CreatedAt),
	}
}

// Helper: conversión múltiples rows → domain
func accountRowsToDomain(rows []accountRow) []*domain.Account {
	accounts := make([]*domain.Account, 0, len(rows))

	for _, row := range rows {
		accounts = append(accounts, accountRowToDomain(&row))
	}

	return accounts
}
