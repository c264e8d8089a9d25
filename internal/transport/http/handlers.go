package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/quangngonz/mini-cs50x-answer-api/internal/app"
	"github.com/quangngonz/mini-cs50x-answer-api/internal/domain"
)

// Handler exposes the scoreboard use cases over plain JSON endpoints.
type Handler struct {
	service *app.ScoreboardService
}

func NewHandler(service *app.ScoreboardService) *Handler {
	return &Handler{service: service}
}

// Register wires the REST routes into the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /questions", h.listQuestions)
	mux.HandleFunc("GET /ranking", h.getRankings)
	mux.HandleFunc("POST /answer", h.submitAnswer)
	mux.HandleFunc("POST /hint", h.addHint)
	mux.HandleFunc("GET /teams/{team_name_id}/stats", h.teamStats)
	mux.HandleFunc("GET /teams/{team_name_id}/questions", h.teamQuestions)
	mux.HandleFunc("POST /team-name", h.updateTeamName)
	mux.HandleFunc("POST /team-lookup", h.teamByEmail)
}

type submitAnswerRequest struct {
	TeamNameID string `json:"team_name_id"`
	QuestionID int    `json:"question_id"`
	Answer     string `json:"answer"`
}

func (h *Handler) submitAnswer(w http.ResponseWriter, r *http.Request) {
	var req submitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	result, err := h.service.SubmitAnswer(r.Context(), req.TeamNameID, req.QuestionID, req.Answer)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type addHintRequest struct {
	TeamNameID string `json:"team_name_id"`
	QuestionID int    `json:"question_id"`
}

func (h *Handler) addHint(w http.ResponseWriter, r *http.Request) {
	var req addHintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	hint, err := h.service.AddHint(r.Context(), req.TeamNameID, req.QuestionID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Hint added successfully",
		"data":    hint,
	})
}

func (h *Handler) getRankings(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.ComputeRankings(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *Handler) listQuestions(w http.ResponseWriter, r *http.Request) {
	questions, err := h.service.ListQuestions(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, questions)
}

func (h *Handler) teamStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.TeamStats(r.Context(), r.PathValue("team_name_id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) teamQuestions(w http.ResponseWriter, r *http.Request) {
	progress, err := h.service.TeamQuestions(r.Context(), r.PathValue("team_name_id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"solves":     progress.Solves,
		"timestamps": progress.Timestamps,
	})
}

type updateTeamNameRequest struct {
	TeamNameID string `json:"team_name_id"`
	TeamName   string `json:"team_name"`
}

func (h *Handler) updateTeamName(w http.ResponseWriter, r *http.Request) {
	var req updateTeamNameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if err := h.service.UpdateTeamName(r.Context(), req.TeamNameID, req.TeamName); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Team name updated successfully"})
}

type teamLookupRequest struct {
	Email string `json:"email"`
}

func (h *Handler) teamByEmail(w http.ResponseWriter, r *http.Request) {
	var req teamLookupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	info, err := h.service.TeamByEmail(r.Context(), req.Email)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"team_name_id": info.TeamNameID})
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrMissingField):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrQuestionNotFound),
		errors.Is(err, domain.ErrTeamNotFound),
		errors.Is(err, domain.ErrTeamInfoNotFound):
		status = http.StatusNotFound
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("write response: %v", err)
	}
}
