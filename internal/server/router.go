// Package server assembles the HTTP routes.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ayush/sustainawatt/internal/auth"
	"github.com/ayush/sustainawatt/internal/contact"
	"github.com/ayush/sustainawatt/internal/logging"
	"github.com/ayush/sustainawatt/internal/middleware"
	"github.com/ayush/sustainawatt/internal/predict"
	"github.com/ayush/sustainawatt/internal/web"
)

// Deps are the handlers and settings the router wires together.
type Deps struct {
	Pages          *web.Renderer
	Auth           *auth.Handler
	Contact        *contact.Handler
	Predict        *predict.Handler
	AllowedOrigins []string
	Log            logging.Logger
}

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(d.Log))
	r.Use(chimw.Recoverer)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Pages
	r.Get("/", d.Pages.Page("index.html"))
	r.Get("/home", d.Pages.Page("home.html"))
	r.Get("/forgotpassword", d.Pages.Page("forgotpassword.html"))
	r.Get("/app2", d.Pages.Page("app2.html"))

	// Accounts
	r.Get("/signup", d.Auth.SignupPage)
	r.Post("/signup", d.Auth.Signup)
	r.Get("/signin", d.Auth.SigninPage)
	r.Post("/signin", d.Auth.Signin)

	// Contact
	r.Get("/contact", d.Contact.Form)
	r.Post("/contact", d.Contact.Submit)

	// Models
	r.Get("/app1", d.Predict.App1)
	r.Post("/app1", d.Predict.App1)
	r.Get("/input", d.Predict.InputForm)
	r.Post("/input", d.Predict.InputForm)
	r.Get("/predict", d.Predict.InputForm)
	r.Post("/predict", d.Predict.Predict)
	r.Post("/result", d.Predict.Result)
	r.Get("/check_smart_grid_stability", d.Predict.StabilityForm)
	r.Post("/check_smart_grid_stability", d.Predict.CheckStability)
	r.Get("/proceed_to_check", d.Predict.StabilityForm)
	r.Post("/proceed_to_check", d.Predict.StabilityForm)

	// Prediction history API
	r.Route("/api/predictions", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: d.AllowedOrigins,
			AllowedMethods: []string{"GET", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type"},
			MaxAge:         300,
		}))
		r.Get("/", d.Predict.History)
		r.Get("/{id}", d.Predict.GetPrediction)
	})

	return r
}
