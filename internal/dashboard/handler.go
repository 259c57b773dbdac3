package dashboard

import (
	"context"
	"net/http"

	"github.com/2beens/fitdash/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{
		store: store,
	}
}

func (h *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/exercises", h.payloadHandler("exercises", h.store.Exercises)).Methods("GET", "OPTIONS").Name("dashboard-exercises")
	router.HandleFunc("/chart/weekly", h.payloadHandler("weekly chart", h.store.WeeklyChart)).Methods("GET", "OPTIONS").Name("dashboard-chart-weekly")
	router.HandleFunc("/progress", h.payloadHandler("progress circles", h.store.ProgressCircles)).Methods("GET", "OPTIONS").Name("dashboard-progress")
}

func (h *Handler) payloadHandler(name string, get func(ctx context.Context) ([]byte, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, err := get(r.Context())
		if err != nil {
			log.Errorf("get %s: %s", name, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, payload)
	}
}
