package repository

import (
	"context"

	"github.com/stemsi/exstem-candidate/internal/model"
)

// QuestionListEndpoint is the question-fetch path on the exam backend.
const QuestionListEndpoint = "/question/list"

// QuestionRepository fetches the candidate's question set.
type QuestionRepository struct {
	api *APIClient
}

// NewQuestionRepository creates a new QuestionRepository.
func NewQuestionRepository(api *APIClient) *QuestionRepository {
	return &QuestionRepository{api: api}
}

type questionListResponse struct {
	Success           bool             `json:"success"`
	Message           string           `json:"message"`
	Questions         []model.Question `json:"questions"`
	QuestionsCount    int              `json:"questions_count"`
	TotalMarks        int              `json:"total_marks"`
	TotalTime         int              `json:"total_time"`
	MarkPerEachAnswer int              `json:"mark_per_each_answer"`
}

// FetchQuestions loads the question list. A response with success=false
// yields a *model.CollaboratorError wrapping model.ErrFetchFailed.
func (r *QuestionRepository) FetchQuestions(ctx context.Context) (*model.QuestionSet, error) {
	var res questionListResponse
	if err := r.api.getJSON(ctx, QuestionListEndpoint, &res); err != nil {
		return nil, err
	}

	if !res.Success {
		return nil, &model.CollaboratorError{Kind: model.ErrFetchFailed, Message: res.Message}
	}

	qs := res.Questions
	if qs == nil {
		qs = []model.Question{}
	}
	count := res.QuestionsCount
	if count == 0 {
		count = len(qs)
	}

	return &model.QuestionSet{
		Questions: qs,
		Meta: model.Meta{
			QuestionsCount: count,
			TotalMarks:     res.TotalMarks,
			TotalTime:      res.TotalTime,
			MarkPerAnswer:  res.MarkPerEachAnswer,
		},
	}, nil
}
