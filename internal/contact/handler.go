package contact

import (
	"net/http"

	"github.com/ayush/sustainawatt/internal/apperr"
	"github.com/ayush/sustainawatt/internal/flash"
	"github.com/ayush/sustainawatt/internal/models"
	"github.com/ayush/sustainawatt/internal/web"
)

type Handler struct {
	svc     *Service
	pages   *web.Renderer
	flashes *flash.Flasher
}

func NewHandler(svc *Service, pages *web.Renderer, flashes *flash.Flasher) *Handler {
	return &Handler{svc: svc, pages: pages, flashes: flashes}
}

func (h *Handler) Form(w http.ResponseWriter, r *http.Request) {
	h.pages.Render(w, r, http.StatusOK, "contact.html", nil)
}

// Submit stores the message and redirects back to the form either way.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	m := &models.ContactMessage{
		Name:        r.PostFormValue("name"),
		Phone:       r.PostFormValue("phone"),
		Email:       r.PostFormValue("email"),
		Description: r.PostFormValue("description"),
	}
	if err := h.svc.Submit(r.Context(), m); err != nil {
		h.flashes.Add(w, r, flash.Error, apperr.MessageOf(err))
	} else {
		h.flashes.Add(w, r, flash.Success, MsgSent)
	}
	http.Redirect(w, r, "/contact", http.StatusSeeOther)
}
