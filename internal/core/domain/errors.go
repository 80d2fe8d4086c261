package domain

import "errors"

var (
	ErrSurveyNotFound  = errors.New("survey not found")
	ErrInvalidSurveyID = errors.New("invalid survey id")
	ErrSurveyExpired   = errors.New("survey has expired")
	ErrQuotaReached    = errors.New("survey has reached its maximum number of votes")
	ErrInvalidAnswers  = errors.New("invalid answers")
	ErrInvalidSurvey   = errors.New("invalid survey")
	ErrInternal        = errors.New("internal server error")
)
