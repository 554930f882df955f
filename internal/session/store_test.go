package session

import (
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/exstem-candidate/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleQuestions(n int) []model.Question {
	qs := make([]model.Question, n)
	for i := range qs {
		qs[i] = model.Question{
			ID:   100 + i,
			Text: "What is the answer?",
			Options: []model.Option{
				{ID: 1, Text: "one"},
				{ID: 2, Text: "two"},
				{ID: 5, Text: "five"},
			},
		}
	}
	return qs
}

func newLoadedStore(t *testing.T, n, totalTime int) *Store {
	t.Helper()
	s := NewStore(zerolog.Nop())
	require.NoError(t, s.Initialize(sampleQuestions(n), model.Meta{TotalTime: totalTime, MarkPerAnswer: 4}))
	return s
}

func TestInitialize_ThreeQuestions(t *testing.T) {
	s := newLoadedStore(t, 3, 10)
	st := s.State()

	assert.Equal(t, model.PhaseReady, st.Phase)
	require.NotNil(t, st.RemainingSeconds)
	assert.Equal(t, 600, *st.RemainingSeconds)
	assert.Equal(t, "10:00", st.RemainingDisplay)
	assert.Equal(t, []model.Status{model.StatusNotAnswered, model.StatusNotVisited, model.StatusNotVisited}, st.Statuses)
	assert.Equal(t, 0, st.CurrentPosition)
	assert.True(t, st.IsFirst)
	assert.False(t, st.IsLast)
	assert.NotEqual(t, uuid.Nil, st.SessionID)
	assert.Equal(t, model.SubmissionIdle, st.Submission)
}

func TestInitialize_Untimed(t *testing.T) {
	s := newLoadedStore(t, 2, 0)
	st := s.State()

	assert.Nil(t, st.RemainingSeconds)
	assert.Equal(t, "00:00", st.RemainingDisplay)
	assert.False(t, s.TimerBounded())
	assert.False(t, s.Tick())
}

func TestInitialize_Empty(t *testing.T) {
	s := NewStore(zerolog.Nop())
	err := s.Initialize(nil, model.Meta{TotalTime: 5})

	assert.ErrorIs(t, err, model.ErrEmptyQuestionSet)
	assert.Equal(t, model.PhaseEmpty, s.State().Phase)
	assert.False(t, s.Active())
	assert.False(t, s.SelectOption(1))
	assert.False(t, s.NavigateTo(0))
}

func TestInitialize_ResetsPreviousSession(t *testing.T) {
	s := newLoadedStore(t, 3, 10)
	first := s.ID()
	s.SelectOption(2)
	s.NavigateTo(2)

	require.NoError(t, s.Initialize(sampleQuestions(2), model.Meta{}))
	st := s.State()

	assert.NotEqual(t, first, st.SessionID)
	assert.Equal(t, 0, st.CurrentPosition)
	assert.Equal(t, []*int{nil, nil}, st.Answers)
	assert.Equal(t, []model.Status{model.StatusNotAnswered, model.StatusNotVisited}, st.Statuses)
}

func TestSelectThenNavigate(t *testing.T) {
	s := newLoadedStore(t, 3, 10)

	require.True(t, s.SelectOption(5))
	require.True(t, s.NavigateTo(2))

	st := s.State()
	assert.Equal(t, []model.Status{model.StatusAnswered, model.StatusNotVisited, model.StatusNotAnswered}, st.Statuses)
	require.NotNil(t, st.Answers[0])
	assert.Equal(t, 5, *st.Answers[0])
	assert.Nil(t, st.Answers[1])
	assert.Nil(t, st.Answers[2])
	assert.True(t, st.IsLast)
}

func TestSelectOption_EveryPosition(t *testing.T) {
	s := newLoadedStore(t, 4, 10)
	for p := 0; p < 4; p++ {
		require.True(t, s.NavigateTo(p))
		require.True(t, s.SelectOption(2))

		st := s.State()
		assert.True(t, st.Statuses[p].IsAnswered(), "position %d", p)
		require.NotNil(t, st.Answers[p])
		assert.Equal(t, 2, *st.Answers[p])
	}
}

func TestSelectOption_ZeroIsAnAnswer(t *testing.T) {
	s := newLoadedStore(t, 2, 0)
	require.True(t, s.SelectOption(0))
	require.True(t, s.NavigateTo(1))

	st := s.State()
	assert.Equal(t, model.StatusAnswered, st.Statuses[0])
	require.NotNil(t, st.Answers[0])
	assert.Equal(t, 0, *st.Answers[0])
}

func TestSelectOption_ReplacesAnswer(t *testing.T) {
	s := newLoadedStore(t, 1, 0)
	s.SelectOption(1)
	s.SelectOption(2)

	st := s.State()
	assert.Equal(t, 2, *st.Answers[0])
	assert.True(t, st.Current.Options[1].Selected)
	assert.False(t, st.Current.Options[0].Selected)
}

func TestNavigateTo_OutOfRange(t *testing.T) {
	s := newLoadedStore(t, 3, 10)
	s.SelectOption(1)
	before := s.State()

	assert.False(t, s.NavigateTo(-1))
	assert.False(t, s.NavigateTo(99))
	assert.False(t, s.NavigateTo(3))

	after := s.State()
	assert.Equal(t, before.CurrentPosition, after.CurrentPosition)
	assert.Equal(t, before.Statuses, after.Statuses)
	assert.Equal(t, before.Answers, after.Answers)
}

func TestNavigateTo_SamePositionIsIdempotent(t *testing.T) {
	statesAt := func(setup func(s *Store)) {
		s := newLoadedStore(t, 3, 10)
		setup(s)
		once := s.State()
		require.True(t, s.NavigateTo(once.CurrentPosition))
		first := s.State()
		require.True(t, s.NavigateTo(once.CurrentPosition))
		second := s.State()

		assert.Equal(t, first.Statuses, second.Statuses)
		assert.Equal(t, first.Answers, second.Answers)
	}

	statesAt(func(s *Store) {})
	statesAt(func(s *Store) { s.SelectOption(1) })
	statesAt(func(s *Store) { s.MarkForReview() })
	statesAt(func(s *Store) { s.MarkForReview(); s.SelectOption(2) })
}

func TestMarkSelectRoundTrip(t *testing.T) {
	markFirst := newLoadedStore(t, 2, 0)
	markFirst.MarkForReview()
	assert.Equal(t, model.StatusReview, markFirst.State().Statuses[0])
	markFirst.SelectOption(1)
	markFirst.NavigateTo(1)

	selectFirst := newLoadedStore(t, 2, 0)
	selectFirst.SelectOption(1)
	selectFirst.MarkForReview()
	selectFirst.NavigateTo(1)

	assert.Equal(t, model.StatusAnsweredReview, markFirst.State().Statuses[0])
	assert.Equal(t, model.StatusAnsweredReview, selectFirst.State().Statuses[0])
}

func TestReviewWithoutAnswerSurvivesLeaving(t *testing.T) {
	s := newLoadedStore(t, 2, 0)
	s.MarkForReview()
	s.NavigateTo(1)

	assert.Equal(t, model.StatusReview, s.State().Statuses[0])
}

func TestTick(t *testing.T) {
	s := newLoadedStore(t, 1, 1)
	for i := 0; i < 59; i++ {
		require.True(t, s.Tick())
	}
	assert.Equal(t, 1, *s.State().RemainingSeconds)

	assert.False(t, s.Tick())
	assert.Equal(t, 0, *s.State().RemainingSeconds)

	assert.False(t, s.Tick())
	assert.Equal(t, 0, *s.State().RemainingSeconds)
	assert.Equal(t, "00:00", s.State().RemainingDisplay)
}

func TestTick_EmitsExpiredOnce(t *testing.T) {
	s := NewStore(zerolog.Nop())
	events, cancel := s.Subscribe()
	defer cancel()

	require.NoError(t, s.Initialize(sampleQuestions(1), model.Meta{TotalTime: 1}))
	for s.Tick() {
	}
	s.Tick()

	var expired, ticks int
	for len(events) > 0 {
		switch (<-events).Type {
		case model.EventExpired:
			expired++
		case model.EventTick:
			ticks++
		}
	}
	assert.Equal(t, 1, expired)
	assert.Equal(t, 60, ticks)
}

func TestFormatRemaining(t *testing.T) {
	v := func(n int) *int { return &n }
	assert.Equal(t, "00:00", FormatRemaining(nil))
	assert.Equal(t, "00:00", FormatRemaining(v(0)))
	assert.Equal(t, "01:05", FormatRemaining(v(65)))
	assert.Equal(t, "120:00", FormatRemaining(v(7200)))
}

func TestShowComprehension(t *testing.T) {
	qs := sampleQuestions(2)
	qs[1].Comprehension = "Read this passage."
	s := NewStore(zerolog.Nop())
	require.NoError(t, s.Initialize(qs, model.Meta{}))

	assert.False(t, s.ShowComprehension(true), "question without passage")
	assert.True(t, s.ShowComprehension(false))

	s.NavigateTo(1)
	assert.True(t, s.ShowComprehension(true))
	assert.True(t, s.State().ShowComprehension)

	s.NavigateTo(0)
	assert.False(t, s.State().ShowComprehension, "navigation closes the panel")
}

func TestSubmitModal(t *testing.T) {
	s := newLoadedStore(t, 2, 0)

	assert.True(t, s.OpenSubmitModal())
	assert.True(t, s.State().ShowSubmitModal)
	assert.True(t, s.CloseSubmitModal())
	assert.False(t, s.State().ShowSubmitModal)

	s.OpenSubmitModal()
	_, _, err := s.BeginSubmit()
	require.NoError(t, err)
	assert.False(t, s.CloseSubmitModal(), "locked while submitting")
	assert.True(t, s.State().ShowSubmitModal)
}

func TestBeginSubmit(t *testing.T) {
	s := newLoadedStore(t, 3, 10)
	s.SelectOption(2)
	s.NavigateTo(2)
	s.SelectOption(5)

	id, snapshot, err := s.BeginSubmit()
	require.NoError(t, err)
	assert.Equal(t, s.ID(), id)
	require.Len(t, snapshot, 3)
	assert.Equal(t, 100, snapshot[0].QuestionID)
	assert.Equal(t, 2, *snapshot[0].SelectedOptionID)
	assert.Nil(t, snapshot[1].SelectedOptionID)
	assert.Equal(t, 5, *snapshot[2].SelectedOptionID)
	assert.Equal(t, model.SubmissionSubmitting, s.State().Submission)

	_, _, err = s.BeginSubmit()
	assert.ErrorIs(t, err, model.ErrSubmissionInProgress)
}

func TestBeginSubmit_NoSession(t *testing.T) {
	s := NewStore(zerolog.Nop())
	_, _, err := s.BeginSubmit()
	assert.ErrorIs(t, err, model.ErrNoActiveSession)
}

func TestFailSubmit_PreservesAnswers(t *testing.T) {
	s := newLoadedStore(t, 3, 10)
	s.SelectOption(1)
	s.NavigateTo(1)
	s.SelectOption(2)
	s.OpenSubmitModal()
	before := s.State()

	id, _, err := s.BeginSubmit()
	require.NoError(t, err)
	require.NoError(t, s.FailSubmit(id, "X"))

	after := s.State()
	assert.Equal(t, model.SubmissionFailed, after.Submission)
	assert.Equal(t, "X", after.SubmitError)
	assert.Equal(t, before.Answers, after.Answers)
	assert.Equal(t, before.Statuses, after.Statuses)
	assert.True(t, after.ShowSubmitModal)

	// Retry is allowed after a failure.
	_, _, err = s.BeginSubmit()
	assert.NoError(t, err)
	assert.Empty(t, s.State().SubmitError)
}

func TestSucceedSubmit(t *testing.T) {
	s := newLoadedStore(t, 3, 10)
	s.OpenSubmitModal()
	id, _, err := s.BeginSubmit()
	require.NoError(t, err)

	meta, loaded, err := s.SucceedSubmit(id)
	require.NoError(t, err)
	assert.Equal(t, 10, meta.TotalTime)
	assert.Equal(t, 3, loaded)

	st := s.State()
	assert.Equal(t, model.SubmissionSuccess, st.Submission)
	assert.False(t, st.ShowSubmitModal)
}

func TestSubmitResultAfterClose(t *testing.T) {
	s := newLoadedStore(t, 3, 10)
	id, _, err := s.BeginSubmit()
	require.NoError(t, err)

	s.Close()
	assert.ErrorIs(t, s.FailSubmit(id, "X"), model.ErrSessionClosed)
	_, _, err = s.SucceedSubmit(id)
	assert.ErrorIs(t, err, model.ErrSessionClosed)
	assert.Equal(t, model.PhaseClosed, s.State().Phase)
}

func TestSubmitResultForReplacedSession(t *testing.T) {
	s := newLoadedStore(t, 3, 10)
	id, _, err := s.BeginSubmit()
	require.NoError(t, err)

	require.NoError(t, s.Initialize(sampleQuestions(2), model.Meta{}))
	_, _, err = s.SucceedSubmit(id)
	assert.ErrorIs(t, err, model.ErrSessionClosed)
	assert.Equal(t, model.SubmissionIdle, s.State().Submission)
}

func TestStats(t *testing.T) {
	s := newLoadedStore(t, 5, 0)
	// answered, review, answered+review, not answered, not visited
	s.SelectOption(1)
	s.NavigateTo(1)
	s.MarkForReview()
	s.NavigateTo(2)
	s.SelectOption(2)
	s.MarkForReview()
	s.NavigateTo(3)

	st := s.Stats()
	assert.Equal(t, model.Stats{Total: 5, Answered: 2, Marked: 2, NotAnswered: 2, NotVisited: 1}, st)
}

func TestStats_PrefersAnnouncedCount(t *testing.T) {
	s := NewStore(zerolog.Nop())
	require.NoError(t, s.Initialize(sampleQuestions(2), model.Meta{QuestionsCount: 10}))
	assert.Equal(t, 10, s.Stats().Total)
}

func TestStateView(t *testing.T) {
	qs := sampleQuestions(2)
	qs[0].Text = ""
	qs[1].Number = 42
	s := NewStore(zerolog.Nop())
	require.NoError(t, s.Initialize(qs, model.Meta{}))

	st := s.State()
	require.NotNil(t, st.Current)
	assert.Equal(t, "Question 1", st.Current.Text)
	assert.Equal(t, 1, st.Current.Number)
	assert.Equal(t, []string{"A", "B", "C"}, []string{st.Current.Options[0].Letter, st.Current.Options[1].Letter, st.Current.Options[2].Letter})

	s.NavigateTo(1)
	assert.Equal(t, 42, s.State().Current.Number)
}

func TestStateIsACopy(t *testing.T) {
	s := newLoadedStore(t, 2, 1)
	s.SelectOption(1)
	st := s.State()

	*st.Answers[0] = 99
	*st.RemainingSeconds = 0
	st.Statuses[0] = model.StatusReview

	fresh := s.State()
	assert.Equal(t, 1, *fresh.Answers[0])
	assert.Equal(t, 60, *fresh.RemainingSeconds)
	assert.Equal(t, model.StatusAnswered, fresh.Statuses[0])
}

func TestClose(t *testing.T) {
	s := newLoadedStore(t, 2, 1)
	s.Close()

	st := s.State()
	assert.Equal(t, model.PhaseClosed, st.Phase)
	assert.Equal(t, uuid.Nil, st.SessionID)
	assert.Nil(t, st.Current)
	assert.False(t, s.Active())
	assert.False(t, s.MarkForReview())
	s.Close()
}

func TestSetFetchError(t *testing.T) {
	s := newLoadedStore(t, 2, 1)
	s.SetLoading()
	assert.Equal(t, model.PhaseLoading, s.State().Phase)

	s.SetFetchError("boom")
	st := s.State()
	assert.Equal(t, model.PhaseFetchFailed, st.Phase)
	assert.Equal(t, "boom", st.FetchError)
	assert.False(t, s.Active())
}

func TestSubscribe(t *testing.T) {
	s := NewStore(zerolog.Nop())
	events, cancel := s.Subscribe()

	require.NoError(t, s.Initialize(sampleQuestions(2), model.Meta{}))
	s.SelectOption(1)
	s.NavigateTo(1)

	ev := <-events
	assert.Equal(t, model.EventInitialized, ev.Type)
	assert.Equal(t, s.ID(), ev.SessionID)

	ev = <-events
	assert.Equal(t, model.EventSelected, ev.Type)
	assert.Equal(t, model.StatusAnswered, ev.Status)

	ev = <-events
	assert.Equal(t, model.EventNavigated, ev.Type)
	assert.Equal(t, 1, ev.Position)

	cancel()
	_, ok := <-events
	assert.False(t, ok)
	cancel()
}
