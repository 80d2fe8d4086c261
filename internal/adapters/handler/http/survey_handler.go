package http

import (
	"errors"
	"net/http"

	"github.com/ascend-app/survey-api/internal/core/domain"
	"github.com/ascend-app/survey-api/internal/core/ports"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

type SurveyHandler struct {
	service ports.SurveyService
}

func NewSurveyHandler(service ports.SurveyService) *SurveyHandler {
	return &SurveyHandler{
		service: service,
	}
}

type createSurveyRequest struct {
	Title     string `json:"title"`
	Questions []struct {
		ID   string `json:"id"`
		Text string `json:"text"`
	} `json:"questions"`
}

func (h *SurveyHandler) CreateSurvey(w http.ResponseWriter, r *http.Request) {
	adminID, ok := AdminFromContext(r.Context())
	if !ok {
		respondError(w, r, http.StatusUnauthorized, "missing admin context")
		return
	}

	var req createSurveyRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	input := ports.CreateSurveyInput{
		AdminID: adminID,
		Title:   req.Title,
	}
	for _, q := range req.Questions {
		input.Questions = append(input.Questions, ports.QuestionInput{ID: q.ID, Text: q.Text})
	}

	survey, err := h.service.Create(r.Context(), input)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidSurvey) {
			respondError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		respondError(w, r, http.StatusInternalServerError, "failed to create survey")
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, survey)
}

func (h *SurveyHandler) GetSurvey(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	survey, err := h.service.GetSurvey(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidSurveyID) || errors.Is(err, domain.ErrSurveyNotFound) {
			respondError(w, r, http.StatusNotFound, "Survey not found or an error occurred.")
			return
		}
		respondError(w, r, http.StatusInternalServerError, "failed to fetch survey")
		return
	}

	render.JSON(w, r, survey)
}

func (h *SurveyHandler) ListSurveys(w http.ResponseWriter, r *http.Request) {
	adminID, ok := AdminFromContext(r.Context())
	if !ok {
		respondError(w, r, http.StatusUnauthorized, "missing admin context")
		return
	}

	surveys, err := h.service.ListSurveys(r.Context(), adminID)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, "failed to list surveys")
		return
	}
	if surveys == nil {
		surveys = []*domain.Survey{}
	}

	render.JSON(w, r, surveys)
}
