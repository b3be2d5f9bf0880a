package stream

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	surveyservice "github.com/mayeul-docq/univia/internal/service/survey"
	"github.com/mayeul-docq/univia/pkg/utils"
)

const refreshInterval = 5 * time.Second

// Handler streams periodic state snapshots over Server-Sent Events, for
// clients that cannot hold a websocket.
type Handler struct {
	svc *surveyservice.Service
}

// New creates the stream handler.
func New(svc *surveyservice.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the SSE endpoint.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/stream/{studentID}", h.handleStream)
}

func (h *Handler) handleStream(w http.ResponseWriter, r *http.Request) {
	studentID := chi.URLParam(r, "studentID")
	if studentID == "" {
		utils.RespondError(w, http.StatusBadRequest, "studentID is required")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	state, err := h.svc.State(r.Context(), studentID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, surveyservice.ErrSessionNotFound) {
			status = http.StatusNotFound
		}
		utils.RespondError(w, status, err.Error())
		return
	}

	utils.SetupSSEHeaders(w)
	utils.SendSSEEvent(w, flusher, "state", state)

	log.Printf("[stream] opening state stream for student=%s", studentID)

	ticker := time.NewTicker(refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			log.Printf("[stream] closing state stream for student=%s", studentID)
			return
		case <-ticker.C:
			state, err := h.svc.State(r.Context(), studentID)
			if err != nil {
				utils.SendSSEEvent(w, flusher, "error", map[string]string{"error": err.Error()})
				return
			}
			utils.SendSSEEvent(w, flusher, "state", state)
		}
	}
}
