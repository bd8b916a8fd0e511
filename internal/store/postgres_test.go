package store

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayush/sustainawatt/internal/models"
)

// Runs against a real server: SUSTAINAWATT_TEST_POSTGRES_DSN=postgres://... go test ./internal/store
func newPostgresStore(t *testing.T) *PostgresStore {
	t.Helper()
	dsn := os.Getenv("SUSTAINAWATT_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("SUSTAINAWATT_TEST_POSTGRES_DSN not set")
	}
	ctx := context.Background()
	s, err := OpenPostgres(ctx, dsn)
	require.NoError(t, err)
	require.NoError(t, s.Migrate(ctx))
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestPostgresStore_UserLifecycle(t *testing.T) {
	s := newPostgresStore(t)
	ctx := context.Background()

	suffix := fmt.Sprint(time.Now().UnixNano())
	u := testUser("pg"+suffix, "pg"+suffix+"@gmail.com")
	require.NoError(t, s.CreateUser(ctx, u))
	assert.NotZero(t, u.ID)

	got, err := s.GetUserByUsername(ctx, u.Username)
	require.NoError(t, err)
	assert.Equal(t, u.Email, got.Email)

	got, err = s.GetUserByEmail(ctx, u.Email)
	require.NoError(t, err)
	assert.Equal(t, u.Username, got.Username)

	err = s.CreateUser(ctx, testUser(u.Username, "other"+suffix+"@gmail.com"))
	assert.ErrorIs(t, err, ErrDuplicate)

	_, err = s.GetUserByUsername(ctx, "missing"+suffix)
	assert.ErrorIs(t, err, ErrNotFound)

	// Migrate again: nothing lost.
	require.NoError(t, s.Migrate(ctx))
	_, err = s.GetUserByUsername(ctx, u.Username)
	assert.NoError(t, err)
}

func TestPostgresStore_ContactAndSensor(t *testing.T) {
	s := newPostgresStore(t)
	ctx := context.Background()

	m := &models.ContactMessage{Name: "Ann", Phone: "0123456789", Email: "ann@gmail.com", Description: "hi"}
	require.NoError(t, s.CreateContactMessage(ctx, m))
	assert.NotZero(t, m.ID)

	r := &models.SensorReading{AirTemperature: 10, Pressure: 1, WindSpeed: 3}
	require.NoError(t, s.CreateSensorReading(ctx, r))
	assert.NotZero(t, r.ID)
}
