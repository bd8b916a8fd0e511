package auth

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ayush/sustainawatt/internal/apperr"
	"github.com/ayush/sustainawatt/internal/logging"
	"github.com/ayush/sustainawatt/internal/models"
	"github.com/ayush/sustainawatt/internal/store"
)

func newTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	s, err := store.OpenSQLite(":memory:", nil, false)
	require.NoError(t, err)
	require.NoError(t, s.Migrate(context.Background()))
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newTestService(t *testing.T, users UserStore, opts Options) *Service {
	t.Helper()
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.MinCost
	}
	return NewService(users, opts, logging.Discard())
}

func ann() models.SignupForm {
	return models.SignupForm{
		FirstName: "Ann",
		LastName:  "Lee",
		Username:  "annlee01",
		Email:     "ann@gmail.com",
		Password:  "Abc12345@",
	}
}

func TestSignup_ThenDuplicateUsername(t *testing.T) {
	svc := newTestService(t, newTestStore(t), Options{})
	ctx := context.Background()

	u, err := svc.Signup(ctx, ann())
	require.NoError(t, err)
	assert.NotZero(t, u.ID)
	assert.NotEqual(t, "Abc12345@", u.Password, "password must be stored hashed")

	again := ann()
	again.Email = "ann.other@yahoo.com"
	_, err = svc.Signup(ctx, again)

	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperr.KindConflict, appErr.Kind)
	assert.Equal(t, "username", appErr.Field)
	assert.Equal(t, MsgUsernameTaken, appErr.Message)
	assert.ErrorIs(t, err, apperr.ErrUsernameTaken)
}

func TestSignup_DuplicateEmail(t *testing.T) {
	svc := newTestService(t, newTestStore(t), Options{})
	ctx := context.Background()

	_, err := svc.Signup(ctx, ann())
	require.NoError(t, err)

	other := ann()
	other.Username = "someoneelse"
	_, err = svc.Signup(ctx, other)

	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	assert.ErrorIs(t, err, apperr.ErrEmailTaken)
	assert.Equal(t, MsgEmailTaken, apperr.MessageOf(err))
}

func TestSignup_ValidationOrder(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(f *models.SignupForm)
		field  string
		msg    string
	}{
		{"bad first name", func(f *models.SignupForm) { f.FirstName = "Ann1" }, "firstname", MsgInvalidName},
		{"bad last name", func(f *models.SignupForm) { f.LastName = "" }, "lastname", MsgInvalidName},
		{"name checked before email", func(f *models.SignupForm) { f.FirstName = "A B"; f.Email = "x@aol.com" }, "firstname", MsgInvalidName},
		{"bad email", func(f *models.SignupForm) { f.Email = "ann@aol.com" }, "email", MsgInvalidEmail},
		{"email checked before password", func(f *models.SignupForm) { f.Email = "nope"; f.Password = "x" }, "email", MsgInvalidEmail},
		{"bad password", func(f *models.SignupForm) { f.Password = "abcdef1@" }, "password", MsgInvalidPassword},
		{"email too long", func(f *models.SignupForm) { f.Email = strings.Repeat("a", 115) + "@gmail.com" }, "email", MsgEmailTooLong},
		{"username too long", func(f *models.SignupForm) { f.Username = strings.Repeat("a", 81) }, "username", MsgUsernameTooLong},
		{"password checked before username length", func(f *models.SignupForm) { f.Username = strings.Repeat("a", 81); f.Password = "x" }, "password", MsgInvalidPassword},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t, newTestStore(t), Options{})
			f := ann()
			tt.mutate(&f)

			_, err := svc.Signup(context.Background(), f)

			var appErr *apperr.Error
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, apperr.KindValidation, appErr.Kind)
			assert.Equal(t, tt.field, appErr.Field)
			assert.Equal(t, tt.msg, appErr.Message)
		})
	}
}

func TestSignup_ValidationFailureWritesNothing(t *testing.T) {
	st := newTestStore(t)
	svc := newTestService(t, st, Options{})

	f := ann()
	f.Password = "weak"
	_, err := svc.Signup(context.Background(), f)
	require.Error(t, err)

	_, err = st.GetUserByUsername(context.Background(), "annlee01")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSignup_UsernameFormatOnlyWhenEnforced(t *testing.T) {
	f := ann()
	f.Username = "Ann"

	_, err := newTestService(t, newTestStore(t), Options{}).Signup(context.Background(), f)
	assert.NoError(t, err)

	_, err = newTestService(t, newTestStore(t), Options{EnforceUsernameFormat: true}).Signup(context.Background(), f)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.Equal(t, MsgInvalidUsername, apperr.MessageOf(err))
}

func TestSignup_LongestUsernameFits(t *testing.T) {
	f := ann()
	f.Username = strings.Repeat("a", models.MaxUsernameLen)

	_, err := newTestService(t, newTestStore(t), Options{}).Signup(context.Background(), f)
	assert.NoError(t, err)
}

func TestNewService_LogsWithCallerAttributes(t *testing.T) {
	var buf bytes.Buffer
	log := logging.New(&buf, "info", "text").With("component", "auth")
	svc := NewService(newTestStore(t), Options{BcryptCost: bcrypt.MinCost}, log)

	_, err := svc.Signup(context.Background(), ann())
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "user registered")
	assert.Equal(t, 1, strings.Count(out, "component=auth"))
}

func TestSignup_PasswordTooLongForBcrypt(t *testing.T) {
	svc := newTestService(t, newTestStore(t), Options{})
	f := ann()
	f.Password = "Aa1@" + strings.Repeat("x", 80)

	_, err := svc.Signup(context.Background(), f)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.Equal(t, MsgPasswordTooLong, apperr.MessageOf(err))
}

func TestCheckAvailability(t *testing.T) {
	svc := newTestService(t, newTestStore(t), Options{})
	ctx := context.Background()

	a, err := svc.CheckAvailability(ctx, "annlee01", "ann@gmail.com")
	require.NoError(t, err)
	assert.Equal(t, Available, a)

	_, err = svc.Signup(ctx, ann())
	require.NoError(t, err)

	a, _ = svc.CheckAvailability(ctx, "annlee01", "ann@gmail.com")
	assert.Equal(t, UsernameTaken, a, "username is checked first")

	a, _ = svc.CheckAvailability(ctx, "fresh", "ann@gmail.com")
	assert.Equal(t, EmailTaken, a)

	a, _ = svc.CheckAvailability(ctx, "fresh", "fresh@gmail.com")
	assert.Equal(t, Available, a)
}

func TestSignin(t *testing.T) {
	svc := newTestService(t, newTestStore(t), Options{})
	ctx := context.Background()
	_, err := svc.Signup(ctx, ann())
	require.NoError(t, err)

	u, err := svc.Signin(ctx, models.SigninForm{Username: "annlee01", Password: "Abc12345@"})
	require.NoError(t, err)
	assert.Equal(t, "ann@gmail.com", u.Email)

	_, err = svc.Signin(ctx, models.SigninForm{Username: "nobody", Password: "Abc12345@"})
	assert.Equal(t, apperr.KindAuthentication, apperr.KindOf(err))
	assert.ErrorIs(t, err, apperr.ErrUserNotFound)

	_, err = svc.Signin(ctx, models.SigninForm{Username: "annlee01", Password: "Abc12345!"})
	assert.Equal(t, apperr.KindAuthentication, apperr.KindOf(err))
	assert.ErrorIs(t, err, apperr.ErrWrongPassword)
}

func TestSignup_ConcurrentSameUsername(t *testing.T) {
	svc := newTestService(t, newTestStore(t), Options{})
	const n = 8

	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			f := ann()
			f.Email = "ann" + string(rune('a'+i)) + "@gmail.com"
			_, errs[i] = svc.Signup(context.Background(), f)
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		k := apperr.KindOf(err)
		assert.True(t, k == apperr.KindConflict || k == apperr.KindStorage, "unexpected error: %v", err)
	}
	assert.Equal(t, 1, successes)
}

// raceStore pretends every lookup misses, so only the unique index stands
// between two signups with the same username.
type raceStore struct {
	*store.SQLiteStore
	blind bool
}

func (r *raceStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	if r.blind {
		return nil, store.ErrNotFound
	}
	return r.SQLiteStore.GetUserByUsername(ctx, username)
}

func (r *raceStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if r.blind {
		return nil, store.ErrNotFound
	}
	return r.SQLiteStore.GetUserByEmail(ctx, email)
}

func (r *raceStore) CreateUser(ctx context.Context, u *models.User) error {
	err := r.SQLiteStore.CreateUser(ctx, u)
	r.blind = false
	return err
}

func TestSignup_UniqueIndexIsTheBackstop(t *testing.T) {
	rs := &raceStore{SQLiteStore: newTestStore(t)}
	svc := newTestService(t, rs, Options{})
	ctx := context.Background()

	_, err := svc.Signup(ctx, ann())
	require.NoError(t, err)

	rs.blind = true
	dup := ann()
	dup.Email = "ann2@gmail.com"
	_, err = svc.Signup(ctx, dup)

	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	assert.ErrorIs(t, err, apperr.ErrUsernameTaken)
}

type brokenStore struct{}

func (brokenStore) CreateUser(context.Context, *models.User) error {
	return errors.New("disk I/O error")
}
func (brokenStore) GetUserByUsername(context.Context, string) (*models.User, error) {
	return nil, store.ErrNotFound
}
func (brokenStore) GetUserByEmail(context.Context, string) (*models.User, error) {
	return nil, store.ErrNotFound
}

func TestSignup_StorageFailure(t *testing.T) {
	svc := newTestService(t, brokenStore{}, Options{})

	_, err := svc.Signup(context.Background(), ann())
	assert.Equal(t, apperr.KindStorage, apperr.KindOf(err))
	assert.ErrorContains(t, err, "disk I/O error")
}
