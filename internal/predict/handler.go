package predict

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	jsoniter "github.com/json-iterator/go"

	"github.com/ayush/sustainawatt/internal/apperr"
	"github.com/ayush/sustainawatt/internal/logging"
	"github.com/ayush/sustainawatt/internal/models"
	"github.com/ayush/sustainawatt/internal/store"
	"github.com/ayush/sustainawatt/internal/web"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Handler holds the model-backed pages and the prediction history API.
type Handler struct {
	svc   *Service
	pages *web.Renderer
	log   logging.Logger
}

func NewHandler(svc *Service, pages *web.Renderer, log logging.Logger) *Handler {
	return &Handler{svc: svc, pages: pages, log: log}
}

// App1 renders the power score form and, on POST, the score.
func (h *Handler) App1(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.pages.Render(w, r, http.StatusOK, "app1.html", nil)
		return
	}
	weather, err := parseWeather(r, "airtemperature", "pressure", "windspeed")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	score, err := h.svc.ScorePower(r.Context(), weather)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.pages.Render(w, r, http.StatusOK, "app1.html", map[string]any{
		"Scored": true,
		"Score":  score,
	})
}

// InputForm renders the power generation form.
func (h *Handler) InputForm(w http.ResponseWriter, r *http.Request) {
	h.pages.Render(w, r, http.StatusOK, "input_form.html", nil)
}

// Predict runs the power generation forecast.
func (h *Handler) Predict(w http.ResponseWriter, r *http.Request) {
	weather, err := parseWeather(r, "air_temperature", "pressure", "wind_speed")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	v, err := h.svc.ForecastPowerGen(r.Context(), weather)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.pages.Render(w, r, http.StatusOK, "prediction_result.html", map[string]any{
		"PredictedPowerGen": v,
	})
}

// StabilityForm renders the grid stability form.
func (h *Handler) StabilityForm(w http.ResponseWriter, r *http.Request) {
	h.pages.Render(w, r, http.StatusOK, "check_smart_grid_stability.html", nil)
}

// Result renders the stability label only.
func (h *Handler) Result(w http.ResponseWriter, r *http.Request) {
	h.stability(w, r, false)
}

// CheckStability renders the stability label with the per-node generation.
func (h *Handler) CheckStability(w http.ResponseWriter, r *http.Request) {
	h.stability(w, r, true)
}

func (h *Handler) stability(w http.ResponseWriter, r *http.Request, withNodes bool) {
	g, err := parseGrid(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	res, err := h.svc.CheckStability(r.Context(), g)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	data := map[string]any{"Label": res.Label}
	if withNodes {
		data["NodeGeneration"] = res.Nodes
	}
	h.pages.Render(w, r, http.StatusOK, "result.html", data)
}

// History returns recent predictions as JSON. Query: kind, limit.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	kind := r.URL.Query().Get("kind")
	switch kind {
	case "", models.KindPowerScore, models.KindPowerGen, models.KindGridStability:
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown kind"})
		return
	}

	limit := int64(defaultHistoryLimit)
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 1 || n > maxHistoryLimit {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be between 1 and 100"})
			return
		}
		limit = n
	}

	preds, err := h.svc.Recent(r.Context(), kind, limit)
	if err != nil {
		h.historyError(w, r, err)
		return
	}
	if preds == nil {
		preds = []models.Prediction{}
	}
	writeJSON(w, http.StatusOK, preds)
}

// GetPrediction returns one stored prediction.
func (h *Handler) GetPrediction(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Prediction(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.historyError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) historyError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrNoHistory):
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
	case errors.Is(err, store.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	default:
		h.log.Error(r.Context(), "prediction history failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "database error"})
	}
}

// fail writes err as plain text. Bad input is a 400 on every endpoint.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch apperr.KindOf(err) {
	case apperr.KindBadRequest:
		http.Error(w, "Invalid input: "+apperr.MessageOf(err), http.StatusBadRequest)
	case apperr.KindStorage:
		h.log.Error(r.Context(), "prediction storage failed", "path", r.URL.Path, "err", err)
		http.Error(w, apperr.MessageOf(err), http.StatusInternalServerError)
	default:
		h.log.Error(r.Context(), "prediction failed", "path", r.URL.Path, "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
