package pg

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"time"

	"github.com/itchan-dev/bloghub/shared/config"
	"github.com/itchan-dev/bloghub/shared/errors"
	"github.com/itchan-dev/bloghub/shared/logger"
	sharedpg "github.com/itchan-dev/bloghub/shared/storage/pg"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

type Querier = sharedpg.Querier

const queryTimeout = 5 * time.Second

type Storage struct {
	db *sql.DB
}

func New(ctx context.Context, cfg *config.Config) (*Storage, error) {
	logger.Log.Info("connecting to database", "host", cfg.Private.Pg.Host, "dbname", cfg.Private.Pg.Dbname)
	db, err := sharedpg.Connect(ctx, cfg, sharedpg.DefaultConnectionConfig())
	if err != nil {
		return nil, err
	}
	logger.Log.Info("connected to database")
	return &Storage{db: db}, nil
}

// NewFromDB wraps an existing pool, used by tests and tools.
func NewFromDB(db *sql.DB) *Storage {
	return &Storage{db: db}
}

// Migrate applies the embedded goose migrations.
func Migrate(ctx context.Context, db *sql.DB) error {
	fsys, err := fs.Sub(migrations, MigrationsDir)
	if err != nil {
		return fmt.Errorf("failed to open embedded migrations: %w", err)
	}
	provider, err := goose.NewProvider(goose.DialectPostgres, db, fsys)
	if err != nil {
		return fmt.Errorf("failed to create migration provider: %w", err)
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	for _, r := range results {
		logger.Log.Info("migration applied", "version", r.Source.Version, "duration", r.Duration)
	}
	return nil
}

// MigrationsDir is the directory of the SQL files inside Migrations().
const MigrationsDir = "migrations"

// Migrations exposes the embedded SQL files for the migrate tool.
func Migrations() embed.FS {
	return migrations
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Storage) Cleanup() error {
	return s.db.Close()
}

func (s *Storage) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	return sharedpg.WithTx(ctx, s.db, fn)
}

// missingParent turns an insert that references a deleted row into NotFound.
func missingParent(err error, msg string) error {
	if sharedpg.IsForeignKeyViolation(err) {
		return errors.NotFound("%s", msg)
	}
	return err
}
