package service

import (
	"context"
	"sync"

	"github.com/stemsi/exstem-candidate/internal/model"
)

type fakeFetcher struct {
	set *model.QuestionSet
	err error
}

func (f *fakeFetcher) FetchQuestions(context.Context) (*model.QuestionSet, error) {
	return f.set, f.err
}

// fakeSubmitter records snapshots. When release is set, each call blocks
// until it receives from release.
type fakeSubmitter struct {
	mu        sync.Mutex
	snapshots [][]model.AnswerEntry
	score     *model.Score
	err       error
	started   chan struct{}
	release   chan struct{}
}

func (f *fakeSubmitter) SubmitAnswers(_ context.Context, snapshot []model.AnswerEntry) (*model.Score, error) {
	f.mu.Lock()
	f.snapshots = append(f.snapshots, snapshot)
	f.mu.Unlock()

	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.release != nil {
		<-f.release
	}
	return f.score, f.err
}

func (f *fakeSubmitter) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.snapshots)
}

func threeQuestions() []model.Question {
	return []model.Question{
		{ID: 11, Text: "q1", Options: []model.Option{{ID: 1, Text: "a"}, {ID: 2, Text: "b"}}},
		{ID: 12, Text: "q2", Options: []model.Option{{ID: 3, Text: "a"}, {ID: 4, Text: "b"}}},
		{ID: 13, Text: "q3", Options: []model.Option{{ID: 5, Text: "a"}, {ID: 6, Text: "b"}}},
	}
}
