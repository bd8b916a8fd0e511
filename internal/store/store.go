// Package store implements persistence for SustainaWatt: the relational user,
// contact and sensor tables (SQLite through gorm, or PostgreSQL through pgx),
// prediction history in MongoDB and model artifacts in MinIO.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ayush/sustainawatt/internal/config"
	"github.com/ayush/sustainawatt/internal/models"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate key")
)

// Relational is the contract both relational backends satisfy. CreateUser is
// atomic and reports unique-index violations as ErrDuplicate.
type Relational interface {
	Migrate(ctx context.Context) error
	CreateUser(ctx context.Context, u *models.User) error
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateContactMessage(ctx context.Context, m *models.ContactMessage) error
	CreateSensorReading(ctx context.Context, r *models.SensorReading) error
	Close() error
}

// Open connects to the configured relational backend. Call Migrate before use.
// sl receives the SQLite driver's SQL log.
func Open(ctx context.Context, cfg config.DatabaseConfig, sl *slog.Logger, debug bool) (Relational, error) {
	switch cfg.Driver {
	case "sqlite":
		return OpenSQLite(cfg.SQLitePath, sl, debug)
	case "postgres":
		return OpenPostgres(ctx, cfg.PostgresDSN)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}
}
