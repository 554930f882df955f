package websocket

import "github.com/stemsi/exstem-candidate/internal/model"

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionAnswer        Action = "answer"
	ActionReview        Action = "review"
	ActionNavigate      Action = "navigate"
	ActionNext          Action = "next"
	ActionPrevious      Action = "previous"
	ActionMarkNext      Action = "mark_next"
	ActionNextOrSubmit  Action = "next_or_submit"
	ActionComprehension Action = "comprehension"
	ActionSubmit        Action = "submit"
	ActionPing          Action = "ping"
)

// RequestPayload is the single client message shape; which fields are
// meaningful depends on Action.
type RequestPayload struct {
	Action   Action `json:"action" binding:"required"`
	OptionID *int   `json:"option_id,omitempty" binding:"required_if=Action answer"`
	Position *int   `json:"position,omitempty" binding:"required_if=Action navigate"`
	Show     *bool  `json:"show,omitempty" binding:"required_if=Action comprehension"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventState     Event = "state"
	EventSubmitted Event = "submitted"
	EventError     Event = "error"
	EventPong      Event = "pong"
)

// StateResponse pushes the whole session after every change.
type StateResponse struct {
	Event   Event              `json:"event"`
	Trigger model.EventType    `json:"trigger,omitempty"`
	State   model.SessionState `json:"state"`
}

// SubmittedResponse carries the graded result.
type SubmittedResponse struct {
	Event  Event            `json:"event"`
	Result model.ExamResult `json:"result"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Code  string `json:"code,omitempty"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
