package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ascend-app/survey-api/internal/core/domain"
	"github.com/ascend-app/survey-api/internal/core/ports"
	"github.com/google/uuid"
)

type submissionRepository struct {
	db *sql.DB
}

func NewSubmissionRepository(db *sql.DB) ports.SubmissionRecorder {
	return &submissionRepository{
		db: db,
	}
}

// Record inserts a submission and increments the survey's vote counter in a
// single transaction. The survey row is locked with SELECT ... FOR UPDATE, so
// recorders for the same survey serialize on the store even when the gateway
// runs as multiple processes. Submissions per survey can therefore never
// exceed max_votes.
func (r *submissionRepository) Record(ctx context.Context, surveyID uuid.UUID, answers map[string]string, submitterIP string) (*domain.Submission, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var expiresAt time.Time
	var maxVotes, currentVotes int
	err = tx.QueryRowContext(ctx, `
		SELECT expires_at, max_votes, current_votes
		FROM surveys
		WHERE id = $1
		FOR UPDATE`,
		surveyID,
	).Scan(&expiresAt, &maxVotes, &currentVotes)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrSurveyNotFound
		}
		return nil, fmt.Errorf("failed to lock survey: %w", err)
	}

	now := time.Now()
	if now.After(expiresAt) {
		return nil, domain.ErrSurveyExpired
	}
	if currentVotes >= maxVotes {
		return nil, domain.ErrQuotaReached
	}

	submission := &domain.Submission{
		ID:          uuid.New(),
		SurveyID:    surveyID,
		SubmittedAt: now,
		Answers:     answers,
		SubmitterIP: submitterIP,
	}

	answersJSON, err := json.Marshal(answers)
	if err != nil {
		return nil, fmt.Errorf("failed to encode answers: %w", err)
	}

	var ip sql.NullString
	if submitterIP != "" {
		ip = sql.NullString{String: submitterIP, Valid: true}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO submissions (id, survey_id, submitted_at, answers, submitter_ip)
		VALUES ($1, $2, $3, $4, $5)`,
		submission.ID, submission.SurveyID, submission.SubmittedAt, answersJSON, ip,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert submission: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE surveys SET current_votes = current_votes + 1 WHERE id = $1`,
		surveyID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to increment vote count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit submission: %w", err)
	}

	return submission, nil
}
