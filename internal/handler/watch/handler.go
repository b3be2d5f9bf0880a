package watch

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	surveyservice "github.com/mayeul-docq/univia/internal/service/survey"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
)

// Handler pushes state snapshots over a websocket so a frontend can mirror
// a survey live without polling.
type Handler struct {
	svc      *surveyservice.Service
	upgrader websocket.Upgrader
}

// New creates the watch handler.
func New(svc *surveyservice.Service) *Handler {
	return &Handler{
		svc: svc,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes mounts the websocket endpoint.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/watch/{studentID}", h.handleWatch)
}

func (h *Handler) handleWatch(w http.ResponseWriter, r *http.Request) {
	studentID := chi.URLParam(r, "studentID")
	if studentID == "" {
		http.Error(w, "studentID is required", http.StatusBadRequest)
		return
	}

	updates, cancel, err := h.svc.Watch(studentID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, surveyservice.ErrSessionNotFound) {
			status = http.StatusNotFound
		}
		http.Error(w, err.Error(), status)
		return
	}
	defer cancel()

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[watch] upgrade failed for student=%s: %v", studentID, err)
		return
	}
	defer conn.Close()

	log.Printf("[watch] stream opened for student=%s", studentID)

	// Drain reads so close frames are processed.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			log.Printf("[watch] stream closed by client for student=%s", studentID)
			return
		case <-r.Context().Done():
			return
		case state := <-updates:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(state); err != nil {
				log.Printf("[watch] write failed for student=%s: %v", studentID, err)
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
