package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/2beens/fitdash/internal/middleware"
	"github.com/2beens/fitdash/internal/telemetry/metrics"
	"github.com/2beens/fitdash/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// TokenHeader carries the session token on every dashboard request.
const TokenHeader = "X-FITDASH-TOKEN"

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=session_test

type sessionService interface {
	Login(ctx context.Context, username string) (string, error)
	Logout(ctx context.Context, token string) (bool, error)
	View(ctx context.Context, token string) (View, error)
	ToggleProfileMenu(ctx context.Context, token string) (bool, error)
	CloseProfileMenu(ctx context.Context, token string) error
}

type Handler struct {
	service        sessionService
	metricsManager *metrics.Manager
	// called with the token of every session that logs out
	onLogout func(token string)
}

func NewHandler(service sessionService, metricsManager *metrics.Manager, onLogout func(token string)) *Handler {
	if onLogout == nil {
		onLogout = func(string) {}
	}
	return &Handler{
		service:        service,
		metricsManager: metricsManager,
		onLogout:       onLogout,
	}
}

func (h *Handler) SetupRoutes(
	mainRouter *mux.Router,
	rateLimiter middleware.RequestRateLimiter,
	loginRateLimitAllowedPerMin int,
) {
	mainRouter.HandleFunc("/view", h.HandleView).Methods("GET", "OPTIONS").Name("view")
	mainRouter.HandleFunc("/view/profile-menu/toggle", h.HandleToggleProfileMenu).Methods("POST", "OPTIONS").Name("profile-menu-toggle")
	mainRouter.HandleFunc("/view/profile-menu/close", h.HandleCloseProfileMenu).Methods("POST", "OPTIONS").Name("profile-menu-close")

	loginSubrouter := mainRouter.PathPrefix("/a").Subrouter()
	loginSubrouter.
		HandleFunc("/login", h.HandleLogin).
		Methods("POST", "OPTIONS").Name("login")
	loginSubrouter.
		HandleFunc("/logout", h.HandleLogout).
		Methods("GET", "POST", "OPTIONS").Name("logout")

	if rateLimiter != nil {
		loginSubrouter.Use(middleware.RateLimit(rateLimiter, "login", loginRateLimitAllowedPerMin, h.metricsManager))
	}
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	type loginRequest struct {
		Username string `json:"username"`
	}

	var loginReq loginRequest
	if pkg.IsJSONRequest(r) {
		if err := json.NewDecoder(r.Body).Decode(&loginReq); err != nil {
			log.Errorf("login, unmarshal json params: %s", err)
			http.Error(w, "login failed", http.StatusBadRequest)
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			log.Errorf("login failed, parse form error: %s", err)
			http.Error(w, "parse form error", http.StatusBadRequest)
			return
		}
		loginReq.Username = r.Form.Get("username")
	}

	username := strings.TrimSpace(loginReq.Username)
	token, err := h.service.Login(r.Context(), username)
	switch {
	case errors.Is(err, ErrEmptyUsername):
		http.Error(w, "error, username empty", http.StatusBadRequest)
		return
	case errors.Is(err, ErrUsernameTooLong):
		http.Error(w, "error, username too long", http.StatusBadRequest)
		return
	case err != nil:
		log.Errorf("login failed: %s", err)
		http.Error(w, "login failed", http.StatusInternalServerError)
		return
	}

	if h.metricsManager != nil {
		h.metricsManager.CounterLogins.Inc()
	}
	log.Tracef("new login: %s", username)

	pkg.WriteJSONOK(w, struct {
		Token string `json:"token"`
		View  View   `json:"view"`
	}{
		Token: token,
		View:  View{Page: PageDashboard, Username: username},
	})
}

func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	token := r.Header.Get(TokenHeader)
	if token == "" {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	loggedOut, err := h.service.Logout(r.Context(), token)
	if err != nil {
		log.Errorf("logout for [%s] failed: %s", token, err)
		http.Error(w, "logout error", http.StatusInternalServerError)
		return
	}

	h.onLogout(token)
	if !loggedOut {
		log.Tracef("logout for unknown session [%s]", token)
	} else if h.metricsManager != nil {
		h.metricsManager.CounterLogouts.Inc()
	}

	pkg.WriteJSONOK(w, struct {
		View View `json:"view"`
	}{
		View: loginView,
	})
}

func (h *Handler) HandleView(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.View(r.Context(), r.Header.Get(TokenHeader))
	if err != nil {
		log.Errorf("get view: %s", err)
		http.Error(w, "get view error", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSONOK(w, view)
}

func (h *Handler) HandleToggleProfileMenu(w http.ResponseWriter, r *http.Request) {
	open, err := h.service.ToggleProfileMenu(r.Context(), r.Header.Get(TokenHeader))
	if errors.Is(err, ErrSessionNotFound) {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Errorf("toggle profile menu: %s", err)
		http.Error(w, "toggle profile menu error", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSONOK(w, map[string]bool{"profileMenuOpen": open})
}

func (h *Handler) HandleCloseProfileMenu(w http.ResponseWriter, r *http.Request) {
	err := h.service.CloseProfileMenu(r.Context(), r.Header.Get(TokenHeader))
	if errors.Is(err, ErrSessionNotFound) {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Errorf("close profile menu: %s", err)
		http.Error(w, "close profile menu error", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSONOK(w, map[string]bool{"profileMenuOpen": false})
}
