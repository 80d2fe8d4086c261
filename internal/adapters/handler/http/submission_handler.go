package http

import (
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/ascend-app/survey-api/internal/core/domain"
	"github.com/ascend-app/survey-api/internal/core/ports"
	"github.com/go-chi/render"
	"github.com/sirupsen/logrus"
)

type SubmissionHandler struct {
	service ports.SubmissionService
	limiter ports.RateLimiter
	log     *logrus.Logger
}

func NewSubmissionHandler(service ports.SubmissionService, limiter ports.RateLimiter, log *logrus.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		service: service,
		limiter: limiter,
		log:     log,
	}
}

type submitRequest struct {
	SurveyID string            `json:"surveyId"`
	Answers  map[string]string `json:"answers"`
}

// Preflight answers the CORS probe without touching any other component.
func (h *SubmissionHandler) Preflight(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// SubmitSurvey is the public submission gateway: parse, rate-limit, advisory
// admission, then the atomic recorder. Only the recorder's verdict is
// authoritative; everything before it is a cheap fast-path rejection.
func (h *SubmissionHandler) SubmitSurvey(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil || req.SurveyID == "" || len(req.Answers) == 0 {
		respondError(w, r, http.StatusBadRequest, "Missing surveyId or answers.")
		return
	}

	key := clientKey(r)
	if !h.limiter.Admit(r.Context(), key) {
		respondError(w, r, http.StatusTooManyRequests, "Too many requests. Please try again later.")
		return
	}

	_, err := h.service.Submit(r.Context(), ports.SubmitInput{
		SurveyID:    req.SurveyID,
		Answers:     req.Answers,
		SubmitterIP: key,
	})
	if err != nil {
		h.respondSubmitError(w, r, err)
		return
	}

	respondMessage(w, r, http.StatusOK, "Survey submitted successfully!")
}

func (h *SubmissionHandler) respondSubmitError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidSurveyID), errors.Is(err, domain.ErrSurveyNotFound):
		respondError(w, r, http.StatusNotFound, "Survey not found or an error occurred.")
	case errors.Is(err, domain.ErrSurveyExpired):
		respondError(w, r, http.StatusBadRequest, "This survey has expired.")
	case errors.Is(err, domain.ErrQuotaReached):
		respondError(w, r, http.StatusBadRequest, "This survey has reached its maximum number of votes.")
	case errors.Is(err, domain.ErrInvalidAnswers):
		respondError(w, r, http.StatusBadRequest, err.Error())
	default:
		h.log.WithError(err).Error("failed to record submission")
		respondError(w, r, http.StatusInternalServerError, "Failed to record submission atomically.")
	}
}

// clientKey derives the rate-limit key from the first X-Forwarded-For hop,
// falling back to the RemoteAddr host and finally to a shared "unknown"
// sentinel. Used only for throttling, never for deduplication.
func clientKey(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if ip := strings.TrimSpace(strings.Split(xff, ",")[0]); ip != "" {
			return ip
		}
	}

	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err == nil && host != "" {
		return host
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}
	return "unknown"
}
