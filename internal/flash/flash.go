// Package flash carries one-shot user messages across a redirect, the way a
// form handler reports its outcome on the page it redirects to.
package flash

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/ayush/sustainawatt/internal/logging"
)

const (
	TTL    = 10 * time.Minute
	Cookie = "flash_id"
)

// Categories used by the handlers.
const (
	Success = "success"
	Error   = "error"
	Info    = "info"
)

type Message struct {
	Category string `json:"category"`
	Text     string `json:"text"`
}

// Store persists pending messages under an opaque id until they are popped.
type Store interface {
	Push(ctx context.Context, id string, msg Message) error
	Pop(ctx context.Context, id string) ([]Message, error)
}

// Flasher binds a Store to the flash cookie.
type Flasher struct {
	store Store
	log   logging.Logger
}

func New(store Store, log logging.Logger) *Flasher {
	return &Flasher{store: store, log: log}
}

// Add queues a message for the next page the client renders. Failures are
// logged and swallowed: a lost flash must not fail the request that made it.
func (f *Flasher) Add(w http.ResponseWriter, r *http.Request, category, text string) {
	id := ""
	if c, err := r.Cookie(Cookie); err == nil && c.Value != "" {
		id = c.Value
	} else {
		id = uuid.New().String()
		http.SetCookie(w, &http.Cookie{
			Name:     Cookie,
			Value:    id,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
			MaxAge:   int(TTL / time.Second),
		})
	}

	if err := f.store.Push(r.Context(), id, Message{Category: category, Text: text}); err != nil {
		f.log.Error(r.Context(), "flash push failed", "err", err)
	}
}

// Take returns and clears the messages queued for this client.
func (f *Flasher) Take(r *http.Request) []Message {
	c, err := r.Cookie(Cookie)
	if err != nil || c.Value == "" {
		return nil
	}
	msgs, err := f.store.Pop(r.Context(), c.Value)
	if err != nil {
		f.log.Error(r.Context(), "flash pop failed", "err", err)
		return nil
	}
	return msgs
}
