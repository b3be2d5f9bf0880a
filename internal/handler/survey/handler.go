package survey

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mayeul-docq/univia/internal/model/survey"
	surveyservice "github.com/mayeul-docq/univia/internal/service/survey"
)

// Handler exposes the survey REST endpoints.
type Handler struct {
	svc *surveyservice.Service
}

// New creates the survey handler.
func New(svc *surveyservice.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the survey endpoints on the given router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/init", h.handleInit)
	r.Post("/comment", h.handleComment)
	r.Post("/answer", h.handleAnswer)
	r.Post("/pairwise", h.handlePairwise)
	r.Get("/state", h.handleState)
	r.Get("/ranking", h.handleRanking)
}

func (h *Handler) handleInit(w http.ResponseWriter, r *http.Request) {
	var payload survey.InitRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	studentID, state, err := h.svc.Init(r.Context(), payload.StudentID, payload.OpenAIAPIKey)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, survey.InitResponse{OK: true, StudentID: studentID, State: state})
}

func (h *Handler) handleComment(w http.ResponseWriter, r *http.Request) {
	var payload survey.CommentRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.StudentID == "" || payload.UniID == "" {
		respondError(w, http.StatusBadRequest, "student_id and uni_id are required")
		return
	}

	questions, state, err := h.svc.Comment(r.Context(), payload.StudentID, payload.UniID, payload.Text)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, survey.QuestionsResponse{OK: true, Questions: questions, State: state})
}

func (h *Handler) handleAnswer(w http.ResponseWriter, r *http.Request) {
	var payload survey.AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.StudentID == "" || payload.UniID == "" || payload.Slot == "" {
		respondError(w, http.StatusBadRequest, "student_id, uni_id and slot are required")
		return
	}

	questions, state, err := h.svc.Answer(r.Context(), payload.StudentID, payload.UniID, payload.Slot, payload.Value)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, survey.QuestionsResponse{OK: true, Questions: questions, State: state})
}

func (h *Handler) handlePairwise(w http.ResponseWriter, r *http.Request) {
	var payload survey.PairwiseRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.StudentID == "" || payload.BetterID == "" || payload.WorseID == "" {
		respondError(w, http.StatusBadRequest, "student_id, better_id and worse_id are required")
		return
	}

	state, err := h.svc.Pairwise(r.Context(), payload.StudentID, payload.BetterID, payload.WorseID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, survey.StateResponse{OK: true, State: state})
}

func (h *Handler) handleState(w http.ResponseWriter, r *http.Request) {
	studentID := r.URL.Query().Get("student_id")
	if studentID == "" {
		respondError(w, http.StatusBadRequest, "student_id query parameter is required")
		return
	}

	state, err := h.svc.State(r.Context(), studentID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, survey.StateResponse{OK: true, State: state})
}

func (h *Handler) handleRanking(w http.ResponseWriter, r *http.Request) {
	studentID := r.URL.Query().Get("student_id")
	if studentID == "" {
		respondError(w, http.StatusBadRequest, "student_id query parameter is required")
		return
	}

	ranking, stop, err := h.svc.Ranking(r.Context(), studentID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, survey.RankingResponse{OK: true, Stop: stop, Ranking: ranking})
}

func respondServiceError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, surveyservice.ErrSessionNotFound) {
		status = http.StatusNotFound
	}
	respondError(w, status, err.Error())
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
