package model

import "errors"

var (
	// ErrFetchFailed means the question-fetch service reported failure.
	ErrFetchFailed = errors.New("fetch failed")
	// ErrEmptyQuestionSet means the service returned zero questions.
	ErrEmptyQuestionSet = errors.New("empty question set")
	// ErrSubmitFailed means the answer-submission service reported failure.
	ErrSubmitFailed = errors.New("submit failed")
	// ErrTransport covers network and decoding failures against a collaborator.
	ErrTransport = errors.New("transport error")
	// ErrSubmissionInProgress rejects a second concurrent submit.
	ErrSubmissionInProgress = errors.New("submission already in progress")
	// ErrNoActiveSession is returned when no exam is loaded.
	ErrNoActiveSession = errors.New("no active session")
	// ErrSessionClosed marks a submission result that arrived after teardown.
	ErrSessionClosed = errors.New("session closed")
)

// CollaboratorError carries the human-readable message a collaborator sent
// alongside its failure flag.
type CollaboratorError struct {
	Kind    error
	Message string
}

func (e *CollaboratorError) Error() string {
	if e.Message == "" {
		return e.Kind.Error()
	}
	return e.Kind.Error() + ": " + e.Message
}

func (e *CollaboratorError) Unwrap() error { return e.Kind }
