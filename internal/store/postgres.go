package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ayush/sustainawatt/internal/models"
)

const pgUniqueViolation = "23505"

// PostgresStore keeps the relational tables in PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// OpenPostgres connects a pool to dsn and checks it is reachable.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	return NewPostgresStore(pool), nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id         BIGSERIAL    PRIMARY KEY,
		first_name VARCHAR(15)  NOT NULL,
		last_name  VARCHAR(15)  NOT NULL,
		username   VARCHAR(80)  UNIQUE NOT NULL,
		email      VARCHAR(120) UNIQUE NOT NULL,
		password   VARCHAR(80)  NOT NULL,
		created_at TIMESTAMPTZ  NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS contact_messages (
		id          BIGSERIAL    PRIMARY KEY,
		name        VARCHAR(100) NOT NULL,
		phone       VARCHAR(10)  NOT NULL,
		email       VARCHAR(100) NOT NULL,
		description TEXT         NOT NULL,
		created_at  TIMESTAMPTZ  NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS sensor_readings (
		id              BIGSERIAL        PRIMARY KEY,
		air_temperature DOUBLE PRECISION NOT NULL,
		pressure        DOUBLE PRECISION NOT NULL,
		wind_speed      DOUBLE PRECISION NOT NULL,
		created_at      TIMESTAMPTZ      NOT NULL DEFAULT NOW()
	)`,
}

// Migrate creates the tables if they don't exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

func (s *PostgresStore) CreateUser(ctx context.Context, u *models.User) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("create user: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO users (first_name, last_name, username, email, password)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		u.FirstName, u.LastName, u.Username, u.Email, u.Password,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		return fmt.Errorf("create user: %w", translatePgError(err))
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("create user: commit: %w", translatePgError(err))
	}
	return nil
}

func (s *PostgresStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.findUser(ctx, `SELECT id, first_name, last_name, username, email, password, created_at
		FROM users WHERE username = $1`, username)
}

func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findUser(ctx, `SELECT id, first_name, last_name, username, email, password, created_at
		FROM users WHERE email = $1`, email)
}

func (s *PostgresStore) findUser(ctx context.Context, query, arg string) (*models.User, error) {
	var u models.User
	err := s.pool.QueryRow(ctx, query, arg).
		Scan(&u.ID, &u.FirstName, &u.LastName, &u.Username, &u.Email, &u.Password, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}

func (s *PostgresStore) CreateContactMessage(ctx context.Context, m *models.ContactMessage) error {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO contact_messages (name, phone, email, description)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		m.Name, m.Phone, m.Email, m.Description,
	).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return fmt.Errorf("create contact message: %w", err)
	}
	return nil
}

func (s *PostgresStore) CreateSensorReading(ctx context.Context, r *models.SensorReading) error {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO sensor_readings (air_temperature, pressure, wind_speed)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		r.AirTemperature, r.Pressure, r.WindSpeed,
	).Scan(&r.ID, &r.CreatedAt)
	if err != nil {
		return fmt.Errorf("create sensor reading: %w", err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func translatePgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return fmt.Errorf("%w: %s", ErrDuplicate, pgErr.ConstraintName)
	}
	return err
}
