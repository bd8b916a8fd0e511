package auth

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"github.com/ayush/sustainawatt/internal/apperr"
	"github.com/ayush/sustainawatt/internal/logging"
	"github.com/ayush/sustainawatt/internal/models"
	"github.com/ayush/sustainawatt/internal/store"
	"github.com/ayush/sustainawatt/internal/validate"
)

// Messages shown to the user for each outcome of the pipeline.
const (
	MsgInvalidName     = "First name and last name must be between 1 and 15 characters long and contain only letters."
	MsgInvalidEmail    = "Email must be in a valid format (@gmail.com, @yahoo.com, @outlook.com, etc.)"
	MsgInvalidPassword = "Password must contain at least 8 characters, 1 capital letter, 1 small letter, and 1 symbol."
	MsgPasswordTooLong = "Password must be at most 72 bytes long."
	MsgInvalidUsername = "Username must be at least 6 characters and contain only lowercase letters, digits, '_' or '.'."
	MsgUsernameTooLong = "Username must be at most 80 characters long."
	MsgEmailTooLong    = "Email must be at most 120 characters long."
	MsgUsernameTaken   = "User already exists! Choose a different username."
	MsgEmailTaken      = "Email already exists! Use a different email address."
	MsgSignupOK        = "Registration successful. Now, user can sign in."
	MsgSigninOK        = "sign_in successful!"
	MsgWrongPassword   = "Incorrect password. Please try again."
	MsgUserNotFound    = "User not found. Please sign up first."
)

// UserStore defines the interface for user persistence.
type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// Availability is the outcome of the uniqueness check.
type Availability int

const (
	Available Availability = iota
	UsernameTaken
	EmailTaken
)

func (a Availability) String() string {
	switch a {
	case UsernameTaken:
		return "username taken"
	case EmailTaken:
		return "email taken"
	default:
		return "available"
	}
}

type Options struct {
	BcryptCost            int
	EnforceUsernameFormat bool
}

// Service is the signup and signin pipeline shared by every entry point.
type Service struct {
	users UserStore
	opts  Options
	log   logging.Logger
}

func NewService(users UserStore, opts Options, log logging.Logger) *Service {
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	return &Service{users: users, opts: opts, log: log}
}

// CheckAvailability looks the username up first, then the email.
func (s *Service) CheckAvailability(ctx context.Context, username, email string) (Availability, error) {
	taken, err := s.exists(ctx, s.users.GetUserByUsername, username)
	if err != nil {
		return Available, err
	}
	if taken {
		return UsernameTaken, nil
	}

	taken, err = s.exists(ctx, s.users.GetUserByEmail, email)
	if err != nil {
		return Available, err
	}
	if taken {
		return EmailTaken, nil
	}
	return Available, nil
}

func (s *Service) exists(ctx context.Context, find func(context.Context, string) (*models.User, error), v string) (bool, error) {
	_, err := find(ctx, v)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, store.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

// Validate runs the field validators in pipeline order and stops at the
// first failure.
func (s *Service) Validate(f models.SignupForm) error {
	if err := validate.Name(f.FirstName); err != nil {
		return apperr.Validation("firstname", MsgInvalidName, err)
	}
	if err := validate.Name(f.LastName); err != nil {
		return apperr.Validation("lastname", MsgInvalidName, err)
	}
	if err := validate.Email(f.Email); err != nil {
		return apperr.Validation("email", MsgInvalidEmail, err)
	}
	if utf8.RuneCountInString(f.Email) > models.MaxEmailLen {
		return apperr.Validation("email", MsgEmailTooLong, validate.ErrEmail)
	}
	if err := validate.Password(f.Password); err != nil {
		return apperr.Validation("password", MsgInvalidPassword, err)
	}
	if utf8.RuneCountInString(f.Username) > models.MaxUsernameLen {
		return apperr.Validation("username", MsgUsernameTooLong, validate.ErrUsername)
	}
	if s.opts.EnforceUsernameFormat {
		if err := validate.Username(f.Username); err != nil {
			return apperr.Validation("username", MsgInvalidUsername, err)
		}
	}
	return nil
}

// Signup validates the form, checks uniqueness and writes the user.
func (s *Service) Signup(ctx context.Context, f models.SignupForm) (*models.User, error) {
	if err := s.Validate(f); err != nil {
		return nil, err
	}

	avail, err := s.CheckAvailability(ctx, f.Username, f.Email)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	if err := conflictFor(avail); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(f.Password), s.opts.BcryptCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, apperr.Validation("password", MsgPasswordTooLong, err)
		}
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &models.User{
		FirstName: f.FirstName,
		LastName:  f.LastName,
		Username:  f.Username,
		Email:     f.Email,
		Password:  string(hash),
	}
	if err := s.users.CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			// Lost the race against a concurrent signup; the unique index
			// caught it. Report which field collided.
			if avail, cerr := s.CheckAvailability(ctx, f.Username, f.Email); cerr == nil {
				if conflict := conflictFor(avail); conflict != nil {
					return nil, conflict
				}
			}
			return nil, apperr.Conflict("username", MsgUsernameTaken, apperr.ErrUsernameTaken)
		}
		s.log.Error(ctx, "create user failed", "username", f.Username, "err", err)
		return nil, apperr.Storage(err)
	}

	s.log.Info(ctx, "user registered", "user_id", u.ID, "username", u.Username)
	return u, nil
}

func conflictFor(a Availability) error {
	switch a {
	case UsernameTaken:
		return apperr.Conflict("username", MsgUsernameTaken, apperr.ErrUsernameTaken)
	case EmailTaken:
		return apperr.Conflict("email", MsgEmailTaken, apperr.ErrEmailTaken)
	default:
		return nil
	}
}

// Signin looks the user up by username and compares the password. Unknown
// users and wrong passwords are reported separately.
func (s *Service) Signin(ctx context.Context, f models.SigninForm) (*models.User, error) {
	u, err := s.users.GetUserByUsername(ctx, f.Username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.Authentication(MsgUserNotFound, apperr.ErrUserNotFound)
		}
		return nil, apperr.Storage(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(f.Password)); err != nil {
		return nil, apperr.Authentication(MsgWrongPassword, apperr.ErrWrongPassword)
	}
	return u, nil
}
