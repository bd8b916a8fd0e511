package auth

import (
	"errors"
	"net/http"

	"github.com/ayush/sustainawatt/internal/apperr"
	"github.com/ayush/sustainawatt/internal/flash"
	"github.com/ayush/sustainawatt/internal/logging"
	"github.com/ayush/sustainawatt/internal/models"
	"github.com/ayush/sustainawatt/internal/web"
)

// Handler holds the signup and signin form handlers.
type Handler struct {
	svc     *Service
	pages   *web.Renderer
	flashes *flash.Flasher
	log     logging.Logger
}

func NewHandler(svc *Service, pages *web.Renderer, flashes *flash.Flasher, log logging.Logger) *Handler {
	return &Handler{svc: svc, pages: pages, flashes: flashes, log: log}
}

func (h *Handler) SignupPage(w http.ResponseWriter, r *http.Request) {
	h.pages.Render(w, r, http.StatusOK, "signup.html", nil)
}

func (h *Handler) SigninPage(w http.ResponseWriter, r *http.Request) {
	h.pages.Render(w, r, http.StatusOK, "signin.html", nil)
}

// Signup runs the registration pipeline and redirects with the outcome.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	form := models.SignupForm{
		FirstName: r.PostFormValue("firstname"),
		LastName:  r.PostFormValue("lastname"),
		Username:  r.PostFormValue("username"),
		Email:     r.PostFormValue("email"),
		Password:  r.PostFormValue("password"),
	}

	if _, err := h.svc.Signup(r.Context(), form); err != nil {
		if k := apperr.KindOf(err); k == apperr.KindStorage || k == apperr.KindInternal {
			h.log.Error(r.Context(), "signup failed", "err", err)
		}
		h.redirect(w, r, "/signup", flash.Error, apperr.MessageOf(err))
		return
	}
	h.redirect(w, r, "/signin", flash.Success, MsgSignupOK)
}

// Signin checks credentials. Unknown users are sent to /signup, wrong
// passwords back to /signin.
func (h *Handler) Signin(w http.ResponseWriter, r *http.Request) {
	form := models.SigninForm{
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
	}

	_, err := h.svc.Signin(r.Context(), form)
	switch {
	case err == nil:
		h.redirect(w, r, "/home", flash.Success, MsgSigninOK)
	case errors.Is(err, apperr.ErrUserNotFound):
		h.redirect(w, r, "/signup", flash.Error, MsgUserNotFound)
	case errors.Is(err, apperr.ErrWrongPassword):
		h.redirect(w, r, "/signin", flash.Error, MsgWrongPassword)
	default:
		h.log.Error(r.Context(), "signin failed", "err", err)
		h.redirect(w, r, "/signin", flash.Error, apperr.MessageOf(err))
	}
}

func (h *Handler) redirect(w http.ResponseWriter, r *http.Request, to, category, msg string) {
	h.flashes.Add(w, r, category, msg)
	http.Redirect(w, r, to, http.StatusSeeOther)
}
