package ports

import (
	"context"

	"github.com/ascend-app/survey-api/internal/core/domain"
	"github.com/google/uuid"
)

// SubmissionRecorder records an accepted vote. Record must execute as a
// single atomic unit against the durable store: re-check expiry and quota
// while serialized against concurrent recorders for the same survey, then
// insert the submission and increment the vote counter together, or abort
// with domain.ErrSurveyExpired / domain.ErrQuotaReached without writing.
type SubmissionRecorder interface {
	Record(ctx context.Context, surveyID uuid.UUID, answers map[string]string, submitterIP string) (*domain.Submission, error)
}

type SubmitInput struct {
	SurveyID    string
	Answers     map[string]string
	SubmitterIP string
}

type SubmissionService interface {
	Submit(ctx context.Context, input SubmitInput) (*domain.Submission, error)
}
