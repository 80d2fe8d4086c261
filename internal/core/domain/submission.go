package domain

import (
	"time"

	"github.com/google/uuid"
)

type Submission struct {
	ID          uuid.UUID         `json:"id"`
	SurveyID    uuid.UUID         `json:"survey_id"`
	SubmittedAt time.Time         `json:"submitted_at"`
	Answers     map[string]string `json:"answers"`
	SubmitterIP string            `json:"submitter_ip,omitempty"`
}
