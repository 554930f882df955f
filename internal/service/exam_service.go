package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/stemsi/exstem-candidate/internal/metrics"
	"github.com/stemsi/exstem-candidate/internal/model"
	"github.com/stemsi/exstem-candidate/internal/session"
)

const (
	msgFetchFailed    = "Failed to load questions."
	msgFetchTransport = "Something went wrong while loading questions."
)

// QuestionFetcher is the question-fetch collaborator.
type QuestionFetcher interface {
	FetchQuestions(ctx context.Context) (*model.QuestionSet, error)
}

// ExamService owns the session lifecycle: it loads the question set into the
// store and starts and stops the countdown.
type ExamService struct {
	store     *session.Store
	countdown *session.Countdown
	fetcher   QuestionFetcher
	log       zerolog.Logger

	mu sync.Mutex
}

// NewExamService creates a new ExamService.
func NewExamService(store *session.Store, countdown *session.Countdown, fetcher QuestionFetcher, log zerolog.Logger) *ExamService {
	return &ExamService{
		store:     store,
		countdown: countdown,
		fetcher:   fetcher,
		log:       log.With().Str("component", "exam_service").Logger(),
	}
}

// Start tears down any live session, fetches a fresh question set and
// initializes the store with it. The returned state is valid even on error so
// the caller can render the failure. The countdown outlives ctx and is only
// stopped by Stop or by running out.
func (s *ExamService) Start(ctx context.Context) (model.SessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()
	s.store.SetLoading()

	set, err := s.fetcher.FetchQuestions(ctx)
	if err != nil {
		msg := fetchMessage(err)
		s.store.SetFetchError(msg)
		metrics.ObserveSessionStart("fetch_failed")
		s.log.Warn().Err(err).Str("message", msg).Msg("Question fetch failed")
		return s.store.State(), fmt.Errorf("fetch questions: %w", err)
	}

	if err := s.store.Initialize(set.Questions, set.Meta); err != nil {
		metrics.ObserveSessionStart("empty")
		s.log.Warn().Msg("Question set is empty")
		return s.store.State(), fmt.Errorf("initialize session: %w", err)
	}

	s.countdown.Start(context.WithoutCancel(ctx))
	metrics.ObserveSessionStart("ready")

	return s.store.State(), nil
}

// Stop ends the live session. A submission still in flight will have its
// result discarded.
func (s *ExamService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

func (s *ExamService) stopLocked() {
	s.countdown.Stop()
	s.store.Close()
}

// State returns the current session state.
func (s *ExamService) State() model.SessionState {
	return s.store.State()
}

// TimerRunning reports whether the countdown goroutine is alive.
func (s *ExamService) TimerRunning() bool {
	return s.countdown.Running()
}

func fetchMessage(err error) string {
	var ce *model.CollaboratorError
	if errors.As(err, &ce) && ce.Message != "" {
		return ce.Message
	}
	if errors.Is(err, model.ErrFetchFailed) {
		return msgFetchFailed
	}
	return msgFetchTransport
}
