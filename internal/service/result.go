package service

import (
	"net/url"
	"strconv"

	"github.com/stemsi/exstem-candidate/internal/model"
)

// BuildResult combines the grading verdict with the session meta into the
// values the results renderer shows.
func BuildResult(score model.Score, meta model.Meta, loaded int) model.ExamResult {
	return model.ExamResult{
		Score:          score.Score,
		Correct:        score.Correct,
		Wrong:          score.Wrong,
		NotAttended:    score.NotAttended,
		TotalQuestions: meta.TotalQuestions(loaded),
		TotalMarks:     meta.AchievableMarks(loaded),
	}
}

// ResultQuery encodes r as the renderer's query parameters.
func ResultQuery(r model.ExamResult) url.Values {
	return url.Values{
		"score":          {strconv.FormatFloat(r.Score, 'f', -1, 64)},
		"correct":        {strconv.Itoa(r.Correct)},
		"wrong":          {strconv.Itoa(r.Wrong)},
		"notAttended":    {strconv.Itoa(r.NotAttended)},
		"totalQuestions": {strconv.Itoa(r.TotalQuestions)},
		"totalMarks":     {strconv.Itoa(r.TotalMarks)},
	}
}

// ResultURL appends the result query to base, keeping any query base has.
func ResultURL(base string, r model.ExamResult) string {
	u, err := url.Parse(base)
	if err != nil {
		return base + "?" + ResultQuery(r).Encode()
	}
	q := u.Query()
	for k, v := range ResultQuery(r) {
		q[k] = v
	}
	u.RawQuery = q.Encode()
	return u.String()
}
