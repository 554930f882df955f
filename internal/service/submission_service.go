package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/stemsi/exstem-candidate/internal/metrics"
	"github.com/stemsi/exstem-candidate/internal/model"
	"github.com/stemsi/exstem-candidate/internal/session"
)

const (
	msgSubmitFailed    = "Failed to submit. Please try again."
	msgSubmitTransport = "Something went wrong. Please try again."
)

// AnswerSubmitter is the answer-submission collaborator.
type AnswerSubmitter interface {
	SubmitAnswers(ctx context.Context, snapshot []model.AnswerEntry) (*model.Score, error)
}

// SubmissionService drives IDLE → SUBMITTING → SUCCESS | FAILED.
type SubmissionService struct {
	store     *session.Store
	submitter AnswerSubmitter
	resultURL string
	log       zerolog.Logger
}

// NewSubmissionService creates a new SubmissionService. resultURL is the
// results renderer location; empty disables link building.
func NewSubmissionService(store *session.Store, submitter AnswerSubmitter, resultURL string, log zerolog.Logger) *SubmissionService {
	return &SubmissionService{
		store:     store,
		submitter: submitter,
		resultURL: resultURL,
		log:       log.With().Str("component", "submission_service").Logger(),
	}
}

// Submit snapshots the answers and sends them for grading. A second call
// while one is outstanding fails with model.ErrSubmissionInProgress. On
// failure the exam state is left untouched and the call may be retried. The
// outgoing request is not cancelled with ctx once sent; if the session was
// torn down meanwhile the outcome is dropped and model.ErrSessionClosed is
// returned.
func (s *SubmissionService) Submit(ctx context.Context) (*model.ExamResult, error) {
	id, snapshot, err := s.store.BeginSubmit()
	if err != nil {
		return nil, err
	}

	log := s.log.With().Str("session_id", id.String()).Int("answers", len(snapshot)).Logger()
	log.Info().Msg("Submitting answers")

	score, err := s.submitter.SubmitAnswers(context.WithoutCancel(ctx), snapshot)
	if err != nil {
		msg := submitMessage(err)
		if ferr := s.store.FailSubmit(id, msg); ferr != nil {
			log.Warn().Err(err).Msg("Submission failed after session closed, discarding")
			metrics.ObserveSubmission("discarded")
			return nil, ferr
		}
		log.Warn().Err(err).Str("message", msg).Msg("Submission failed")
		metrics.ObserveSubmission("failed")
		return nil, fmt.Errorf("submit answers: %w", err)
	}

	meta, loaded, err := s.store.SucceedSubmit(id)
	if err != nil {
		log.Warn().Msg("Submission result arrived after session closed, discarding")
		metrics.ObserveSubmission("discarded")
		return nil, err
	}

	result := BuildResult(*score, meta, loaded)
	if s.resultURL != "" {
		result.ResultURL = ResultURL(s.resultURL, result)
	}

	log.Info().
		Float64("score", result.Score).
		Int("correct", result.Correct).
		Int("wrong", result.Wrong).
		Int("not_attended", result.NotAttended).
		Msg("Exam submitted and graded")
	metrics.ObserveSubmission("success")

	return &result, nil
}

// submitMessage returns the candidate-facing text for a submission error.
func submitMessage(err error) string {
	var ce *model.CollaboratorError
	if errors.As(err, &ce) && ce.Message != "" {
		return ce.Message
	}
	if errors.Is(err, model.ErrSubmitFailed) {
		return msgSubmitFailed
	}
	return msgSubmitTransport
}
