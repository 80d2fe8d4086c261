package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	// QuestionsPerSurvey is the fixed survey format: three yes/no questions.
	QuestionsPerSurvey = 3

	// MaxVotesPerSurvey caps how many submissions a survey may ever record.
	MaxVotesPerSurvey = 100

	// SurveyLifetime is how long a survey accepts submissions after creation.
	SurveyLifetime = 72 * time.Hour
)

// QuestionOptions is the fixed option set every question carries.
var QuestionOptions = []string{"Yes", "No"}

type Question struct {
	ID      string   `json:"id"`
	Text    string   `json:"text"`
	Options []string `json:"options"`
}

type Survey struct {
	ID           uuid.UUID  `json:"id"`
	AdminID      uuid.UUID  `json:"admin_id"`
	Title        string     `json:"title"`
	Questions    []Question `json:"questions"`
	CreatedAt    time.Time  `json:"created_at"`
	ExpiresAt    time.Time  `json:"expires_at"`
	MaxVotes     int        `json:"max_votes"`
	CurrentVotes int        `json:"current_votes"`
	PublicLink   string     `json:"public_link,omitempty"`
}

// ValidateAnswers checks that the answer keys are exactly the survey's
// question identifiers and every value is one of that question's options.
// No partial answers, no extra keys.
func (s *Survey) ValidateAnswers(answers map[string]string) error {
	if len(answers) != len(s.Questions) {
		return fmt.Errorf("%w: expected answers for %d questions, got %d",
			ErrInvalidAnswers, len(s.Questions), len(answers))
	}

	for _, q := range s.Questions {
		answer, ok := answers[q.ID]
		if !ok {
			return fmt.Errorf("%w: missing answer for question %q", ErrInvalidAnswers, q.ID)
		}

		validOption := false
		for _, opt := range q.Options {
			if opt == answer {
				validOption = true
				break
			}
		}
		if !validOption {
			return fmt.Errorf("%w: %q is not an option for question %q", ErrInvalidAnswers, answer, q.ID)
		}
	}

	return nil
}
