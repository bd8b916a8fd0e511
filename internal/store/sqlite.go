package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ayush/sustainawatt/internal/models"
)

// SQLiteStore keeps the relational tables in a SQLite database through gorm.
type SQLiteStore struct {
	db *gorm.DB
}

// OpenSQLite opens (creating if needed) the database at path. ":memory:"
// gives a private in-memory database, which is what the tests use. SQL
// warnings go to sl; with debug every statement is logged at debug level.
// A nil sl discards them.
func OpenSQLite(path string, sl *slog.Logger, debug bool) (*SQLiteStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:         gormLogger(sl, debug),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SQLite: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	// SQLite has a single writer; one connection also keeps ":memory:"
	// pointing at the same database for the life of the pool.
	sqlDB.SetMaxOpenConns(1)
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func gormLogger(sl *slog.Logger, debug bool) logger.Interface {
	if sl == nil {
		sl = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	level, slogLevel := logger.Warn, slog.LevelWarn
	if debug {
		level, slogLevel = logger.Info, slog.LevelDebug
	}
	return logger.New(slog.NewLogLogger(sl.With("component", "sql").Handler(), slogLevel), logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

// Migrate creates the tables and unique indexes if they do not exist.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(
		&models.User{},
		&models.ContactMessage{},
		&models.SensorReading{},
	)
}

func (s *SQLiteStore) CreateUser(ctx context.Context, u *models.User) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(u).Error
	})
	if err != nil {
		return fmt.Errorf("create user: %w", translateGormError(err))
	}
	return nil
}

func (s *SQLiteStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.findUser(ctx, "username = ?", username)
}

func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findUser(ctx, "email = ?", email)
}

func (s *SQLiteStore) findUser(ctx context.Context, query string, arg string) (*models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).Where(query, arg).Take(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}

func (s *SQLiteStore) CreateContactMessage(ctx context.Context, m *models.ContactMessage) error {
	if err := s.db.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("create contact message: %w", err)
	}
	return nil
}

func (s *SQLiteStore) CreateSensorReading(ctx context.Context, r *models.SensorReading) error {
	if err := s.db.WithContext(ctx).Create(r).Error; err != nil {
		return fmt.Errorf("create sensor reading: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	return sqlDB.Close()
}

func translateGormError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	}
	return err
}
