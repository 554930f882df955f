package model

// Meta is the per-session information supplied once at load time.
type Meta struct {
	QuestionsCount int `json:"questions_count"`
	TotalMarks     int `json:"total_marks"`
	TotalTime      int `json:"total_time"` // minutes; zero means untimed
	MarkPerAnswer  int `json:"mark_per_each_answer"`
}

// TotalQuestions prefers the announced count over the loaded length.
func (m Meta) TotalQuestions(loaded int) int {
	if m.QuestionsCount > 0 {
		return m.QuestionsCount
	}
	return loaded
}

// AchievableMarks falls back to mark-per-answer times question count.
func (m Meta) AchievableMarks(loaded int) int {
	if m.TotalMarks > 0 {
		return m.TotalMarks
	}
	per := m.MarkPerAnswer
	if per <= 0 {
		per = 1
	}
	return per * m.TotalQuestions(loaded)
}

// QuestionSet is the successful payload of the question-fetch service.
type QuestionSet struct {
	Questions []Question `json:"questions"`
	Meta      Meta       `json:"meta"`
}

// AnswerEntry is one element of the submission snapshot. A nil
// SelectedOptionID is serialized as null (unanswered).
type AnswerEntry struct {
	QuestionID       int  `json:"question_id"`
	SelectedOptionID *int `json:"selected_option_id"`
}

// Score is the grading service's verdict for a submission.
type Score struct {
	Score       float64 `json:"score"`
	Correct     int     `json:"correct"`
	Wrong       int     `json:"wrong"`
	NotAttended int     `json:"not_attended"`
}

// ExamResult is what the results renderer receives.
type ExamResult struct {
	Score          float64 `json:"score"`
	Correct        int     `json:"correct"`
	Wrong          int     `json:"wrong"`
	NotAttended    int     `json:"not_attended"`
	TotalQuestions int     `json:"total_questions"`
	TotalMarks     int     `json:"total_marks"`
	ResultURL      string  `json:"result_url,omitempty"`
}
