package domain

import "time"

// Eligibility is the outcome of the advisory admission check.
type Eligibility int

const (
	Eligible Eligibility = iota
	Expired
	QuotaReached
)

func (e Eligibility) String() string {
	switch e {
	case Eligible:
		return "eligible"
	case Expired:
		return "expired"
	case QuotaReached:
		return "quota_reached"
	default:
		return "unknown"
	}
}

// CheckEligibility evaluates a survey snapshot against the given instant.
// The snapshot may be stale by the time a submission is recorded, so this
// exists only to reject obviously-ineligible requests cheaply; the recorder
// re-checks under a row lock and is the sole authority.
func CheckEligibility(s *Survey, now time.Time) Eligibility {
	if now.After(s.ExpiresAt) {
		return Expired
	}
	if s.CurrentVotes >= s.MaxVotes {
		return QuotaReached
	}
	return Eligible
}
