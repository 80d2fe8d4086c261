package ports

import (
	"context"

	"github.com/ascend-app/survey-api/internal/core/domain"
	"github.com/google/uuid"
)

type SurveyRepository interface {
	Create(ctx context.Context, survey *domain.Survey) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Survey, error)
	ListByAdmin(ctx context.Context, adminID uuid.UUID) ([]*domain.Survey, error)
	SetPublicLink(ctx context.Context, id uuid.UUID, link string) error
}

type QuestionInput struct {
	ID   string
	Text string
}

type CreateSurveyInput struct {
	AdminID   uuid.UUID
	Title     string
	Questions []QuestionInput
}

type SurveyService interface {
	Create(ctx context.Context, input CreateSurveyInput) (*domain.Survey, error)
	GetSurvey(ctx context.Context, id string) (*domain.Survey, error)
	ListSurveys(ctx context.Context, adminID uuid.UUID) ([]*domain.Survey, error)
}
