package services

import (
	"context"
	"time"

	"github.com/ascend-app/survey-api/internal/core/domain"
	"github.com/ascend-app/survey-api/internal/core/ports"
	"github.com/google/uuid"
)

type submissionService struct {
	surveys  ports.SurveyRepository
	recorder ports.SubmissionRecorder
}

func NewSubmissionService(surveys ports.SurveyRepository, recorder ports.SubmissionRecorder) ports.SubmissionService {
	return &submissionService{
		surveys:  surveys,
		recorder: recorder,
	}
}

// Submit validates the answers against the survey and, when the snapshot
// looks eligible, delegates to the recorder. The eligibility check here is
// advisory: the recorder repeats it under a row lock and its verdict is the
// one that counts.
func (s *submissionService) Submit(ctx context.Context, input ports.SubmitInput) (*domain.Submission, error) {
	surveyID, err := uuid.Parse(input.SurveyID)
	if err != nil {
		return nil, domain.ErrInvalidSurveyID
	}

	survey, err := s.surveys.GetByID(ctx, surveyID)
	if err != nil {
		return nil, err
	}

	if err := survey.ValidateAnswers(input.Answers); err != nil {
		return nil, err
	}

	switch domain.CheckEligibility(survey, time.Now()) {
	case domain.Expired:
		return nil, domain.ErrSurveyExpired
	case domain.QuotaReached:
		return nil, domain.ErrQuotaReached
	}

	return s.recorder.Record(ctx, survey.ID, input.Answers, input.SubmitterIP)
}
