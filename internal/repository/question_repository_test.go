package repository

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/exstem-candidate/internal/config"
	"github.com/stemsi/exstem-candidate/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *APIClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewAPIClient(&config.Config{
		APIBaseURL:  srv.URL,
		AccessToken: "secret-token",
		HTTPTimeout: 2 * time.Second,
	}, zerolog.Nop())
}

func TestFetchQuestions(t *testing.T) {
	api := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, QuestionListEndpoint, r.URL.Path)
		assert.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"success": true,
			"questions_count": 2,
			"total_marks": 8,
			"total_time": 10,
			"mark_per_each_answer": 4,
			"questions": [
				{"question_id": 7, "number": 1, "question": "2+2?", "comprehension": "Arithmetic.",
				 "options": [{"id": 1, "option": "3"}, {"id": 2, "option": "4"}]},
				{"question_id": 8, "question": "Capital?", "image": "http://img/1.png",
				 "options": [{"id": 3, "option": "Paris"}]}
			]
		}`))
	})

	set, err := NewQuestionRepository(api).FetchQuestions(context.Background())
	require.NoError(t, err)

	assert.Equal(t, model.Meta{QuestionsCount: 2, TotalMarks: 8, TotalTime: 10, MarkPerAnswer: 4}, set.Meta)
	require.Len(t, set.Questions, 2)
	q := set.Questions[0]
	assert.Equal(t, 7, q.ID)
	assert.Equal(t, "2+2?", q.Text)
	assert.True(t, q.HasComprehension())
	assert.Equal(t, []model.Option{{ID: 1, Text: "3"}, {ID: 2, Text: "4"}}, q.Options)
	assert.Equal(t, "http://img/1.png", set.Questions[1].Image)
	assert.Equal(t, 2, set.Questions[1].DisplayNumber(1))
}

func TestFetchQuestions_CountFallback(t *testing.T) {
	api := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": true, "questions": [{"question_id": 1, "options": []}]}`))
	})

	set, err := NewQuestionRepository(api).FetchQuestions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, set.Meta.QuestionsCount)
}

func TestFetchQuestions_Empty(t *testing.T) {
	api := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": true}`))
	})

	set, err := NewQuestionRepository(api).FetchQuestions(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, set.Questions)
	assert.Empty(t, set.Questions)
}

func TestFetchQuestions_Refused(t *testing.T) {
	api := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"success": false, "message": "Exam has not started"}`))
	})

	_, err := NewQuestionRepository(api).FetchQuestions(context.Background())
	require.ErrorIs(t, err, model.ErrFetchFailed)

	var ce *model.CollaboratorError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "Exam has not started", ce.Message)
}

func TestFetchQuestions_BadJSON(t *testing.T) {
	api := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`<html>bad gateway</html>`))
	})

	_, err := NewQuestionRepository(api).FetchQuestions(context.Background())
	assert.ErrorIs(t, err, model.ErrTransport)
	assert.NotErrorIs(t, err, model.ErrFetchFailed)
}

func TestFetchQuestions_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	api := NewAPIClient(&config.Config{APIBaseURL: srv.URL, HTTPTimeout: time.Second}, zerolog.Nop())

	_, err := NewQuestionRepository(api).FetchQuestions(context.Background())
	assert.ErrorIs(t, err, model.ErrTransport)
}

func TestWithToken(t *testing.T) {
	auth := make(chan string, 2)
	api := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		auth <- r.Header.Get("Authorization")
		w.Write([]byte(`{"success": true}`))
	})

	_, err := NewQuestionRepository(api.WithToken("other")).FetchQuestions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer other", <-auth)
	assert.Equal(t, "secret-token", api.token)

	_, err = NewQuestionRepository(api.WithToken("")).FetchQuestions(context.Background())
	require.NoError(t, err)
	assert.Empty(t, <-auth)
}
