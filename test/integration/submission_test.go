package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type submitResult struct {
	status int
	body   map[string]string
}

func submit(t *testing.T, serverURL string, surveyID string, answers map[string]string, headers map[string]string) submitResult {
	t.Helper()

	payload, err := json.Marshal(map[string]any{
		"surveyId": surveyID,
		"answers":  answers,
	})
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, serverURL+"/api/submit-survey", bytes.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return submitResult{status: resp.StatusCode, body: body}
}

func TestSubmitSurveyRecordsVote(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	surveyID := seedSurvey(t, app.DB, yesNoQuestions("q1", "q2", "q3"), 100, 0, time.Now().Add(time.Hour))

	res := submit(t, app.Server.URL, surveyID.String(),
		map[string]string{"q1": "Yes", "q2": "No", "q3": "Yes"}, nil)

	require.Equal(t, http.StatusOK, res.status)
	assert.Equal(t, "Survey submitted successfully!", res.body["message"])
	assert.Equal(t, 1, countSubmissions(t, app.DB, surveyID))
	assert.Equal(t, 1, currentVotes(t, app.DB, surveyID))
}

func TestTwoConcurrentSubmissionsForLastSlot(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	surveyID := seedSurvey(t, app.DB, yesNoQuestions("q1"), 1, 0, time.Now().Add(time.Hour))

	answers := []map[string]string{
		{"q1": "Yes"},
		{"q1": "No"},
	}

	results := make([]submitResult, 2)
	var wg sync.WaitGroup
	for i := range answers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = submit(t, app.Server.URL, surveyID.String(), answers[i], nil)
		}(i)
	}
	wg.Wait()

	statuses := []int{results[0].status, results[1].status}
	assert.ElementsMatch(t, []int{http.StatusOK, http.StatusBadRequest}, statuses)

	for _, res := range results {
		switch res.status {
		case http.StatusOK:
			assert.Equal(t, "Survey submitted successfully!", res.body["message"])
		case http.StatusBadRequest:
			assert.Equal(t, "This survey has reached its maximum number of votes.", res.body["error"])
		}
	}

	assert.Equal(t, 1, countSubmissions(t, app.DB, surveyID))
	assert.Equal(t, 1, currentVotes(t, app.DB, surveyID))
}

func TestQuotaInvariantUnderConcurrency(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	// One slot remains; 8 callers race for it.
	surveyID := seedSurvey(t, app.DB, yesNoQuestions("q1"), 5, 4, time.Now().Add(time.Hour))

	const callers = 8
	results := make([]submitResult, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = submit(t, app.Server.URL, surveyID.String(),
				map[string]string{"q1": "Yes"},
				map[string]string{"X-Forwarded-For": fmt.Sprintf("203.0.113.%d", i)})
		}(i)
	}
	wg.Wait()

	accepted := 0
	for _, res := range results {
		if res.status == http.StatusOK {
			accepted++
		} else {
			require.Equal(t, http.StatusBadRequest, res.status)
			assert.Equal(t, "This survey has reached its maximum number of votes.", res.body["error"])
		}
	}

	assert.Equal(t, 1, accepted)
	assert.Equal(t, 5, currentVotes(t, app.DB, surveyID))
	assert.Equal(t, 1, countSubmissions(t, app.DB, surveyID))
}

func TestExpiredSurveyRejectedEvenWithQuotaLeft(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	surveyID := seedSurvey(t, app.DB, yesNoQuestions("q1"), 100, 0, time.Now().Add(-time.Minute))

	res := submit(t, app.Server.URL, surveyID.String(), map[string]string{"q1": "Yes"}, nil)

	require.Equal(t, http.StatusBadRequest, res.status)
	assert.Equal(t, "This survey has expired.", res.body["error"])
	assert.Zero(t, countSubmissions(t, app.DB, surveyID))
}

func TestIncompleteAnswersRejectedBeforeRecording(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	surveyID := seedSurvey(t, app.DB, yesNoQuestions("q1", "q2", "q3"), 100, 0, time.Now().Add(time.Hour))

	tests := []struct {
		name    string
		answers map[string]string
	}{
		{"subset", map[string]string{"q1": "Yes"}},
		{"superset", map[string]string{"q1": "Yes", "q2": "No", "q3": "Yes", "q4": "No"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := submit(t, app.Server.URL, surveyID.String(), tt.answers, nil)
			assert.Equal(t, http.StatusBadRequest, res.status)
		})
	}

	assert.Zero(t, countSubmissions(t, app.DB, surveyID))
	assert.Zero(t, currentVotes(t, app.DB, surveyID))
}

func TestSubmitUnknownSurvey(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	res := submit(t, app.Server.URL, uuid.NewString(), map[string]string{"q1": "Yes"}, nil)

	require.Equal(t, http.StatusNotFound, res.status)
	assert.Equal(t, "Survey not found or an error occurred.", res.body["error"])
}
