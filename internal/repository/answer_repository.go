package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/stemsi/exstem-candidate/internal/model"
)

// AnswerSubmitEndpoint is the answer-submission path on the exam backend.
const AnswerSubmitEndpoint = "/answers/submit"

// AnswerRepository sends answer snapshots for grading.
type AnswerRepository struct {
	api *APIClient
}

// NewAnswerRepository creates a new AnswerRepository.
func NewAnswerRepository(api *APIClient) *AnswerRepository {
	return &AnswerRepository{api: api}
}

type submitResponse struct {
	Success     bool    `json:"success"`
	Message     string  `json:"message"`
	Score       float64 `json:"score"`
	Correct     int     `json:"correct"`
	Wrong       int     `json:"wrong"`
	NotAttended int     `json:"not_attended"`
}

// SubmitAnswers posts the snapshot as a form field "answers" holding a JSON
// array. A response with success=false yields a *model.CollaboratorError
// wrapping model.ErrSubmitFailed.
func (r *AnswerRepository) SubmitAnswers(ctx context.Context, snapshot []model.AnswerEntry) (*model.Score, error) {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("marshal answers: %w", err)
	}

	var res submitResponse
	if err := r.api.postForm(ctx, AnswerSubmitEndpoint, url.Values{"answers": {string(payload)}}, &res); err != nil {
		return nil, err
	}

	if !res.Success {
		return nil, &model.CollaboratorError{Kind: model.ErrSubmitFailed, Message: res.Message}
	}

	return &model.Score{
		Score:       res.Score,
		Correct:     res.Correct,
		Wrong:       res.Wrong,
		NotAttended: res.NotAttended,
	}, nil
}
