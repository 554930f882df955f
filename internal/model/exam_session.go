package model

import (
	"github.com/google/uuid"
)

// Status enumerates the per-question states of a session.
type Status string

const (
	StatusNotVisited     Status = "not_visited"
	StatusNotAnswered    Status = "not_answered"
	StatusAnswered       Status = "answered"
	StatusReview         Status = "review"
	StatusAnsweredReview Status = "answered_review"
)

// Valid reports whether s is one of the five known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusNotVisited, StatusNotAnswered, StatusAnswered, StatusReview, StatusAnsweredReview:
		return true
	}
	return false
}

// IsAnswered is true for statuses that carry a selected option.
func (s Status) IsAnswered() bool {
	return s == StatusAnswered || s == StatusAnsweredReview
}

// IsMarked is true for statuses flagged for review.
func (s Status) IsMarked() bool {
	return s == StatusReview || s == StatusAnsweredReview
}

// Phase is the loading lifecycle of the session view.
type Phase string

const (
	PhaseLoading     Phase = "LOADING"
	PhaseReady       Phase = "READY"
	PhaseFetchFailed Phase = "FETCH_FAILED"
	PhaseEmpty       Phase = "EMPTY"
	PhaseClosed      Phase = "CLOSED"
)

// SubmissionState enumerates the submission coordinator's states.
type SubmissionState string

const (
	SubmissionIdle       SubmissionState = "IDLE"
	SubmissionSubmitting SubmissionState = "SUBMITTING"
	SubmissionSuccess    SubmissionState = "SUCCESS"
	SubmissionFailed     SubmissionState = "FAILED"
)

// Stats are the counters shown in the submit confirmation.
type Stats struct {
	Total       int `json:"total"`
	Answered    int `json:"answered"`
	Marked      int `json:"marked"`
	NotAnswered int `json:"not_answered"`
	NotVisited  int `json:"not_visited"`
}

// SessionState is an immutable copy of the store, safe to hand to renderers.
type SessionState struct {
	SessionID         uuid.UUID             `json:"session_id"`
	Phase             Phase                 `json:"phase"`
	FetchError        string                `json:"fetch_error,omitempty"`
	Meta              Meta                  `json:"meta"`
	CurrentPosition   int                   `json:"current_position"`
	IsFirst           bool                  `json:"is_first"`
	IsLast            bool                  `json:"is_last"`
	Current           *QuestionForCandidate `json:"current,omitempty"`
	Statuses          []Status              `json:"statuses"`
	Answers           []*int                `json:"answers"`
	RemainingSeconds  *int                  `json:"remaining_seconds"`
	RemainingDisplay  string                `json:"remaining_display"`
	ShowComprehension bool                  `json:"show_comprehension"`
	ShowSubmitModal   bool                  `json:"show_submit_modal"`
	Submission        SubmissionState       `json:"submission"`
	SubmitError       string                `json:"submit_error,omitempty"`
	Stats             Stats                 `json:"stats"`
}

// EventType names a session transition published to observers.
type EventType string

const (
	EventInitialized     EventType = "initialized"
	EventSelected        EventType = "selected"
	EventReviewed        EventType = "reviewed"
	EventNavigated       EventType = "navigated"
	EventTick            EventType = "tick"
	EventExpired         EventType = "expired"
	EventPanelChanged    EventType = "panel_changed"
	EventSubmitStarted   EventType = "submit_started"
	EventSubmitFailed    EventType = "submit_failed"
	EventSubmitSucceeded EventType = "submit_succeeded"
	EventClosed          EventType = "closed"
)

// SessionEvent is a single observable change of the session.
type SessionEvent struct {
	Type             EventType `json:"type"`
	SessionID        uuid.UUID `json:"session_id"`
	Position         int       `json:"position"`
	Status           Status    `json:"status,omitempty"`
	RemainingSeconds *int      `json:"remaining_seconds,omitempty"`
	Message          string    `json:"message,omitempty"`
}
