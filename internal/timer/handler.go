package timer

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/2beens/fitdash/internal/countdown"
	"github.com/2beens/fitdash/internal/session"
	"github.com/2beens/fitdash/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service: service,
	}
}

func (h *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("", h.HandleState).Methods("GET", "OPTIONS").Name("timer-state")
	router.HandleFunc("/display", h.HandleDisplay).Methods("GET", "OPTIONS").Name("timer-display")
	router.HandleFunc("/toggle", h.HandleToggle).Methods("POST", "OPTIONS").Name("timer-toggle")
	router.HandleFunc("/duration", h.HandleChangeDuration).Methods("PUT", "POST", "OPTIONS").Name("timer-duration")
}

func (h *Handler) HandleState(w http.ResponseWriter, r *http.Request) {
	state, err := h.service.State(r.Context(), r.Header.Get(session.TokenHeader))
	if err != nil {
		h.writeError(w, "get timer state", err)
		return
	}
	pkg.WriteJSONOK(w, state)
}

func (h *Handler) HandleDisplay(w http.ResponseWriter, r *http.Request) {
	token := r.Header.Get(session.TokenHeader)
	display, label, ok := h.service.Surface(token)
	if !ok {
		// first visit, the countdown comes to life here
		state, err := h.service.State(r.Context(), token)
		if err != nil {
			h.writeError(w, "get timer display", err)
			return
		}
		display, label = state.Display, state.Label
	}
	pkg.WriteJSONOK(w, struct {
		Display string          `json:"display"`
		Label   countdown.Label `json:"label"`
	}{
		Display: display,
		Label:   label,
	})
}

func (h *Handler) HandleToggle(w http.ResponseWriter, r *http.Request) {
	state, err := h.service.Toggle(r.Context(), r.Header.Get(session.TokenHeader))
	if err != nil {
		h.writeError(w, "toggle timer", err)
		return
	}
	pkg.WriteJSONOK(w, state)
}

func (h *Handler) HandleChangeDuration(w http.ResponseWriter, r *http.Request) {
	type durationRequest struct {
		Minutes json.RawMessage `json:"minutes"`
	}

	var rawMinutes string
	if pkg.IsJSONRequest(r) {
		var req durationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Errorf("change timer duration, unmarshal json params: %s", err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		rawMinutes = rawValue(req.Minutes)
	} else {
		if err := r.ParseForm(); err != nil {
			log.Errorf("change timer duration, parse form error: %s", err)
			http.Error(w, "parse form error", http.StatusBadRequest)
			return
		}
		rawMinutes = r.Form.Get("minutes")
	}

	state, err := h.service.ChangeDuration(r.Context(), r.Header.Get(session.TokenHeader), rawMinutes)
	if err != nil {
		h.writeError(w, "change timer duration", err)
		return
	}
	pkg.WriteJSONOK(w, state)
}

func (h *Handler) writeError(w http.ResponseWriter, action string, err error) {
	switch {
	case errors.Is(err, countdown.ErrInvalidDuration):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, countdown.ErrControllerClosed):
		// session went away while the request was in flight
		http.Error(w, "timer closed", http.StatusGone)
	default:
		log.Errorf("%s: %s", action, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// rawValue accepts both {"minutes": "25"} and {"minutes": 25}.
func rawValue(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
