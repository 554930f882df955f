package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/exstem-candidate/internal/metrics"
	"github.com/stemsi/exstem-candidate/internal/model"
	"github.com/stemsi/exstem-candidate/internal/response"
	"github.com/stemsi/exstem-candidate/internal/service"
	"github.com/stemsi/exstem-candidate/internal/session"
	"github.com/stemsi/exstem-candidate/internal/validator"
)

// SessionHandler exposes the live exam session to the presentation layer.
type SessionHandler struct {
	examService       *service.ExamService
	submissionService *service.SubmissionService
	store             *session.Store
	nav               *session.Navigator
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(
	examService *service.ExamService,
	submissionService *service.SubmissionService,
	store *session.Store,
	nav *session.Navigator,
) *SessionHandler {
	return &SessionHandler{
		examService:       examService,
		submissionService: submissionService,
		store:             store,
		nav:               nav,
	}
}

// Start godoc
// POST /api/v1/session/start
// Fetches the question set, resets the session and starts the countdown.
func (h *SessionHandler) Start(c *gin.Context) {
	state, err := h.examService.Start(c.Request.Context())
	if err != nil {
		switch {
		case errors.Is(err, model.ErrEmptyQuestionSet):
			response.FailWithMessage(c, http.StatusNotFound, response.ErrNoQuestions, response.GetMessage(response.ErrNoQuestions), state)
		default:
			response.FailWithMessage(c, http.StatusBadGateway, response.ErrFetchFailed, state.FetchError, state)
		}
		return
	}

	response.Success(c, http.StatusOK, state)
}

// Stop godoc
// POST /api/v1/session/stop
// Tears the session down and cancels the countdown.
func (h *SessionHandler) Stop(c *gin.Context) {
	h.examService.Stop()
	response.Success(c, http.StatusOK, h.store.State())
}

// GetState godoc
// GET /api/v1/session
func (h *SessionHandler) GetState(c *gin.Context) {
	response.Success(c, http.StatusOK, h.store.State())
}

// SelectOption godoc
// POST /api/v1/session/answer
// Records the chosen option for the current question.
func (h *SessionHandler) SelectOption(c *gin.Context) {
	var req model.SelectOptionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if !h.store.SelectOption(*req.OptionID) {
		response.Fail(c, http.StatusConflict, response.ErrNoActiveSession)
		return
	}
	response.Success(c, http.StatusOK, h.store.State())
}

// MarkForReview godoc
// POST /api/v1/session/review
func (h *SessionHandler) MarkForReview(c *gin.Context) {
	if !h.store.MarkForReview() {
		response.Fail(c, http.StatusConflict, response.ErrNoActiveSession)
		return
	}
	response.Success(c, http.StatusOK, h.store.State())
}

// Navigate godoc
// POST /api/v1/session/navigate
// Jumps to a position. Out-of-range positions are ignored, not rejected.
func (h *SessionHandler) Navigate(c *gin.Context) {
	var req model.NavigateRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	if !h.store.Active() {
		response.Fail(c, http.StatusConflict, response.ErrNoActiveSession)
		return
	}

	h.respondNav(c, "goto", h.nav.GoTo(*req.Position))
}

// Next godoc
// POST /api/v1/session/next
func (h *SessionHandler) Next(c *gin.Context) {
	h.withSession(c, func() { h.respondNav(c, "next", h.nav.Next()) })
}

// Previous godoc
// POST /api/v1/session/previous
func (h *SessionHandler) Previous(c *gin.Context) {
	h.withSession(c, func() { h.respondNav(c, "previous", h.nav.Previous()) })
}

// MarkAndNext godoc
// POST /api/v1/session/mark-next
func (h *SessionHandler) MarkAndNext(c *gin.Context) {
	h.withSession(c, func() { h.respondNav(c, "mark_next", h.nav.MarkAndAdvance()) })
}

// NextOrSubmit godoc
// POST /api/v1/session/next-or-submit
// On the last question this opens the submit confirmation instead.
func (h *SessionHandler) NextOrSubmit(c *gin.Context) {
	h.withSession(c, func() { h.respondNav(c, "next_or_submit", h.nav.NextOrSubmit()) })
}

// Comprehension godoc
// POST /api/v1/session/comprehension
func (h *SessionHandler) Comprehension(c *gin.Context) {
	var req model.ComprehensionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	if !h.store.Active() {
		response.Fail(c, http.StatusConflict, response.ErrNoActiveSession)
		return
	}
	if !h.store.ShowComprehension(*req.Show) {
		response.Fail(c, http.StatusConflict, response.ErrNoComprehension)
		return
	}
	response.Success(c, http.StatusOK, h.store.State())
}

// SubmitModal godoc
// POST /api/v1/session/submit-modal
func (h *SessionHandler) SubmitModal(c *gin.Context) {
	var req model.SubmitModalRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	if !h.store.Active() {
		response.Fail(c, http.StatusConflict, response.ErrNoActiveSession)
		return
	}

	var ok bool
	if *req.Open {
		ok = h.store.OpenSubmitModal()
	} else {
		ok = h.store.CloseSubmitModal()
	}
	if !ok {
		response.Fail(c, http.StatusConflict, response.ErrModalLocked)
		return
	}
	response.Success(c, http.StatusOK, h.store.State())
}

// Submit godoc
// POST /api/v1/session/submit
// Sends the answer snapshot for grading. Failure keeps every answer so the
// candidate can retry.
func (h *SessionHandler) Submit(c *gin.Context) {
	result, err := h.submissionService.Submit(c.Request.Context())
	if err != nil {
		code, status := submitErrorCode(err)
		msg := response.GetMessage(code)
		state := h.store.State()
		if code == response.ErrSubmitFailed && state.SubmitError != "" {
			msg = state.SubmitError
		}
		response.FailWithMessage(c, status, code, msg, state)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"result": result,
		"state":  h.store.State(),
	})
}

func submitErrorCode(err error) (response.ErrCode, int) {
	switch {
	case errors.Is(err, model.ErrSubmissionInProgress):
		return response.ErrSubmissionInProgress, http.StatusConflict
	case errors.Is(err, model.ErrNoActiveSession):
		return response.ErrNoActiveSession, http.StatusConflict
	case errors.Is(err, model.ErrSessionClosed):
		return response.ErrSessionClosed, http.StatusGone
	default:
		return response.ErrSubmitFailed, http.StatusBadGateway
	}
}

func (h *SessionHandler) withSession(c *gin.Context, fn func()) {
	if !h.store.Active() {
		response.Fail(c, http.StatusConflict, response.ErrNoActiveSession)
		return
	}
	fn()
}

func (h *SessionHandler) respondNav(c *gin.Context, name string, action session.Action) {
	metrics.ObserveNavigation(name, string(action))
	response.Success(c, http.StatusOK, gin.H{
		"action": action,
		"state":  h.store.State(),
	})
}
