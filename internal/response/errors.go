package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Session ───────────────────────────────────────────────────────
	ErrNoActiveSession ErrCode = "NO_ACTIVE_SESSION"
	ErrNoComprehension ErrCode = "NO_COMPREHENSION"
	ErrModalLocked     ErrCode = "SUBMIT_MODAL_LOCKED"

	// ─── Collaborators ─────────────────────────────────────────────────
	ErrFetchFailed          ErrCode = "FETCH_FAILED"
	ErrNoQuestions          ErrCode = "NO_QUESTIONS"
	ErrSubmitFailed         ErrCode = "SUBMIT_FAILED"
	ErrSubmissionInProgress ErrCode = "SUBMISSION_IN_PROGRESS"
	ErrSessionClosed        ErrCode = "SESSION_CLOSED"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidPayload:
		return "Invalid request payload."

	// ─── Session ───────────────────────────────────────────────────────
	case ErrNoActiveSession:
		return "No exam is loaded."
	case ErrNoComprehension:
		return "This question has no comprehension paragraph."
	case ErrModalLocked:
		return "The confirmation cannot be closed while submitting."

	// ─── Collaborators ─────────────────────────────────────────────────
	case ErrFetchFailed:
		return "Failed to load questions."
	case ErrNoQuestions:
		return "No questions found."
	case ErrSubmitFailed:
		return "Failed to submit. Please try again."
	case ErrSubmissionInProgress:
		return "Your answers are already being submitted."
	case ErrSessionClosed:
		return "The exam session has ended."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "Internal server error."
	default:
		return "An unexpected error occurred."
	}
}
