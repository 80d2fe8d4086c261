package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/ascend-app/survey-api/internal/core/domain"
	"github.com/ascend-app/survey-api/internal/core/ports"
	"github.com/google/uuid"
)

type surveyRepository struct {
	db *sql.DB
}

func NewSurveyRepository(db *sql.DB) ports.SurveyRepository {
	return &surveyRepository{
		db: db,
	}
}

func (r *surveyRepository) Create(ctx context.Context, survey *domain.Survey) error {
	questions, err := json.Marshal(survey.Questions)
	if err != nil {
		return fmt.Errorf("failed to encode questions: %w", err)
	}

	query := `
		INSERT INTO surveys (id, admin_id, title, questions, created_at, expires_at, max_votes, current_votes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = r.db.ExecContext(ctx, query,
		survey.ID, survey.AdminID, survey.Title, questions,
		survey.CreatedAt, survey.ExpiresAt, survey.MaxVotes, survey.CurrentVotes,
	)
	if err != nil {
		return fmt.Errorf("failed to insert survey: %w", err)
	}

	return nil
}

func (r *surveyRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Survey, error) {
	query := `
		SELECT id, admin_id, title, questions, created_at, expires_at, max_votes, current_votes, public_link
		FROM surveys
		WHERE id = $1
	`

	survey, err := scanSurvey(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrSurveyNotFound
		}
		return nil, fmt.Errorf("failed to get survey: %w", err)
	}

	return survey, nil
}

func (r *surveyRepository) ListByAdmin(ctx context.Context, adminID uuid.UUID) ([]*domain.Survey, error) {
	query := `
		SELECT id, admin_id, title, questions, created_at, expires_at, max_votes, current_votes, public_link
		FROM surveys
		WHERE admin_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, adminID)
	if err != nil {
		return nil, fmt.Errorf("failed to list surveys: %w", err)
	}
	defer rows.Close()

	var surveys []*domain.Survey
	for rows.Next() {
		survey, err := scanSurvey(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan survey: %w", err)
		}
		surveys = append(surveys, survey)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating surveys: %w", err)
	}

	return surveys, nil
}

func (r *surveyRepository) SetPublicLink(ctx context.Context, id uuid.UUID, link string) error {
	query := `UPDATE surveys SET public_link = $2 WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id, link)
	if err != nil {
		return fmt.Errorf("failed to set public link: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSurvey(row rowScanner) (*domain.Survey, error) {
	var survey domain.Survey
	var questions []byte
	var publicLink sql.NullString

	err := row.Scan(
		&survey.ID, &survey.AdminID, &survey.Title, &questions,
		&survey.CreatedAt, &survey.ExpiresAt, &survey.MaxVotes, &survey.CurrentVotes,
		&publicLink,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(questions, &survey.Questions); err != nil {
		return nil, fmt.Errorf("failed to decode questions: %w", err)
	}
	survey.PublicLink = publicLink.String

	return &survey, nil
}
