package sqldb

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	gosqlite3 "github.com/mattn/go-sqlite3"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationsFS embed.FS

// Drivers soportados (nombres registrados en database/sql)
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "pgx"
)

// Options configura la conexión
type Options struct {
	Driver  string
	DSN     string // obligatorio para postgres
	DataDir string // solo sqlite; se ignora si hay DSN
}

// Database encapsula la conexión y los repositorios
type Database struct {
	DB             *sqlx.DB
	AccountRepo    *AccountRepository
	AnalyticsRepo  *AnalyticsRepository
	PostRepo       *PostRepository
	EngagementRepo *EngagementRepository
	CommentRepo    *CommentRepository
	StatsRepo      *StatsRepository
	sqlDB          *sql.DB // Para migrations
}

// NewDatabase abre la base de datos y ejecuta migrations
func NewDatabase(opts Options) (*Database, error) {
	if opts.Driver == "" {
		opts.Driver = DriverSQLite
	}

	dsn, err := resolveDSN(opts)
	if err != nil {
		return nil, err
	}

	// Abrir con database/sql (para migrations)
	sqlDB, err := sql.Open(opts.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := runMigrations(sqlDB, opts.Driver); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	// Abrir con sqlx (para queries)
	db := sqlx.NewDb(sqlDB, opts.Driver)

	if opts.Driver == DriverSQLite {
		db.SetMaxOpenConns(1) // SQLite no soporta concurrencia de escritura
	}

	database := &Database{
		DB:             db,
		sqlDB:          sqlDB,
		AccountRepo:    NewAccountRepository(db),
		AnalyticsRepo:  NewAnalyticsRepository(db),
		PostRepo:       NewPostRepository(db),
		EngagementRepo: NewEngagementRepository(db),
		CommentRepo:    NewCommentRepository(db),
		StatsRepo:      NewStatsRepository(db),
	}

	return database, nil
}

// resolveDSN arma el DSN; para sqlite crea el directorio de datos
func resolveDSN(opts Options) (string, error) {
	switch opts.Driver {
	case DriverSQLite:
		if opts.DSN != "" {
			return opts.DSN, nil
		}
		if err := os.MkdirAll(opts.DataDir, 0755); err != nil {
			return "", fmt.Errorf("create data directory: %w", err)
		}
		dbPath := filepath.Join(opts.DataDir, "dashboard.db")
		return dbPath + "?_foreign_keys=on&_busy_timeout=5000", nil
	case DriverPostgres:
		if opts.DSN == "" {
			return "", fmt.Errorf("postgres driver requires a DSN")
		}
		return opts.DSN, nil
	default:
		return "", fmt.Errorf("unsupported driver: %s", opts.Driver)
	}
}

// runMigrations ejecuta las migraciones usando golang-migrate
func runMigrations(db *sql.DB, driverName string) error {
	var (
		m   *migrate.Migrate
		dir string
	)

	switch driverName {
	case DriverSQLite:
		dir = "migrations/sqlite"
	case DriverPostgres:
		dir = "migrations/postgres"
	}

	source, err := iofs.New(migrationsFS, dir)
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	switch driverName {
	case DriverSQLite:
		driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
		if err != nil {
			return fmt.Errorf("create migration driver: %w", err)
		}
		m, err = migrate.NewWithInstance("iofs", source, "sqlite3", driver)
		if err != nil {
			return fmt.Errorf("create migrator: %w", err)
		}
	case DriverPostgres:
		driver, err := migratepgx.WithInstance(db, &migratepgx.Config{})
		if err != nil {
			return fmt.Errorf("create migration driver: %w", err)
		}
		m, err = migrate.NewWithInstance("iofs", source, "pgx5", driver)
		if err != nil {
			return fmt.Errorf("create migrator: %w", err)
		}
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}

// MigrationFiles lista los archivos de migración embebidos de un driver
func MigrationFiles(driverName string) ([]string, error) {
	dir := "migrations/sqlite"
	if driverName == DriverPostgres {
		dir = "migrations/postgres"
	}
	return fs.Glob(migrationsFS, dir+"/*.sql")
}

// Ping verifica la conexión
func (d *Database) Ping(ctx context.Context) error {
	return d.DB.PingContext(ctx)
}

// Close cierra la conexión a la base de datos
func (d *Database) Close() error {
	return d.DB.Close()
}

// withTx ejecuta fn en una transacción; rollback si fn falla
func withTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	return tx.Commit()
}

// insertReturningID ejecuta un INSERT ... RETURNING id con parámetros nombrados.
// Funciona igual en SQLite (>= 3.35) y PostgreSQL.
func insertReturningID(ctx context.Context, e sqlx.ExtContext, query string, arg interface{}) (int64, error) {
	rows, err := sqlx.NamedQueryContext(ctx, e, query, arg)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return 0, err
		}
		return 0, sql.ErrNoRows
	}

	var id int64
	if err := rows.Scan(&id); err != nil {
		return 0, err
	}

	return id, rows.Err()
}

// isUniqueViolation reconoce el error UNIQUE de ambos drivers
func isUniqueViolation(err error) bool {
	var sqliteErr gosqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == gosqlite3.ErrConstraintUnique
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.UniqueViolation
	}

	return false
}

// Helpers de conversión de timestamps (unix segundos, UTC)

func unixOrNil(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.Unix()
}

func fromUnix(sec int64) time.Time {
	return time.Unix(sec, 0).UTC()
}

func fromNullUnix(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := fromUnix(v.Int64)
	return &t
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
