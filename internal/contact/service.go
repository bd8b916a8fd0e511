// Package contact stores contact form submissions.
package contact

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ayush/sustainawatt/internal/apperr"
	"github.com/ayush/sustainawatt/internal/logging"
	"github.com/ayush/sustainawatt/internal/models"
)

const MsgSent = "Thank you! Your message has been sent."

// Field messages, keyed by struct field.
var fieldMessages = map[string]string{
	"Name":        "Please enter your name (at most 100 characters).",
	"Phone":       "Phone number must be exactly 10 digits.",
	"Email":       "Please enter a valid email address.",
	"Description": "Please enter a message.",
}

type Store interface {
	CreateContactMessage(ctx context.Context, m *models.ContactMessage) error
}

type Service struct {
	store    Store
	validate *validator.Validate
	log      logging.Logger
}

func NewService(store Store, log logging.Logger) *Service {
	return &Service{store: store, validate: validator.New(), log: log}
}

// Submit validates and stores a message. Only the first failing field is
// reported.
func (s *Service) Submit(ctx context.Context, m *models.ContactMessage) error {
	m.Name = strings.TrimSpace(m.Name)
	m.Phone = strings.TrimSpace(m.Phone)
	m.Email = strings.TrimSpace(m.Email)
	m.Description = strings.TrimSpace(m.Description)

	if err := s.validate.Struct(m); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			field := verrs[0].Field()
			return apperr.Validation(strings.ToLower(field), fieldMessages[field], err)
		}
		return err
	}

	if err := s.store.CreateContactMessage(ctx, m); err != nil {
		s.log.Error(ctx, "failed to store contact message", "err", err)
		return apperr.Storage(err)
	}
	s.log.Info(ctx, "contact message received", "id", m.ID)
	return nil
}
