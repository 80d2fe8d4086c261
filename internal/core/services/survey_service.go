package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ascend-app/survey-api/internal/core/domain"
	"github.com/ascend-app/survey-api/internal/core/ports"
	"github.com/google/uuid"
)

type surveyService struct {
	repo          ports.SurveyRepository
	publicBaseURL string
}

func NewSurveyService(repo ports.SurveyRepository, publicBaseURL string) ports.SurveyService {
	return &surveyService{
		repo:          repo,
		publicBaseURL: strings.TrimSuffix(publicBaseURL, "/"),
	}
}

func (s *surveyService) Create(ctx context.Context, input ports.CreateSurveyInput) (*domain.Survey, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrInvalidSurvey)
	}
	if len(input.Questions) != domain.QuestionsPerSurvey {
		return nil, fmt.Errorf("%w: exactly %d questions are required",
			domain.ErrInvalidSurvey, domain.QuestionsPerSurvey)
	}

	surveyID := uuid.New()
	now := time.Now()

	survey := &domain.Survey{
		ID:        surveyID,
		AdminID:   input.AdminID,
		Title:     strings.TrimSpace(input.Title),
		CreatedAt: now,
		ExpiresAt: now.Add(domain.SurveyLifetime),
		MaxVotes:  domain.MaxVotesPerSurvey,
	}

	for _, q := range input.Questions {
		if strings.TrimSpace(q.Text) == "" {
			return nil, fmt.Errorf("%w: question text is required", domain.ErrInvalidSurvey)
		}
		id := q.ID
		if id == "" {
			id = uuid.NewString()
		}
		survey.Questions = append(survey.Questions, domain.Question{
			ID:      id,
			Text:    strings.TrimSpace(q.Text),
			Options: domain.QuestionOptions,
		})
	}

	if err := s.repo.Create(ctx, survey); err != nil {
		return nil, err
	}

	link := fmt.Sprintf("%s/survey/%s", s.publicBaseURL, surveyID)
	if err := s.repo.SetPublicLink(ctx, surveyID, link); err != nil {
		return nil, err
	}
	survey.PublicLink = link

	return survey, nil
}

func (s *surveyService) GetSurvey(ctx context.Context, id string) (*domain.Survey, error) {
	surveyID, err := uuid.Parse(id)
	if err != nil {
		return nil, domain.ErrInvalidSurveyID
	}

	return s.repo.GetByID(ctx, surveyID)
}

func (s *surveyService) ListSurveys(ctx context.Context, adminID uuid.UUID) ([]*domain.Survey, error) {
	return s.repo.ListByAdmin(ctx, adminID)
}
