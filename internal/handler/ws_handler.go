package handler

import (
	"context"
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stemsi/exstem-candidate/internal/metrics"
	"github.com/stemsi/exstem-candidate/internal/model"
	"github.com/stemsi/exstem-candidate/internal/response"
	"github.com/stemsi/exstem-candidate/internal/service"
	"github.com/stemsi/exstem-candidate/internal/session"
	"github.com/stemsi/exstem-candidate/internal/validator"
	ws "github.com/stemsi/exstem-candidate/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler streams the session to the presentation layer and accepts
// candidate actions on the same socket.
type WSHandler struct {
	store             *session.Store
	nav               *session.Navigator
	submissionService *service.SubmissionService
	log               zerolog.Logger
	upgrader          websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(store *session.Store, nav *session.Navigator, submissionService *service.SubmissionService, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		store:             store,
		nav:               nav,
		submissionService: submissionService,
		log:               log.With().Str("component", "ws_handler").Logger(),
		upgrader:          buildUpgrader(allowedOrigins),
	}
}

// SessionStream godoc
// WS /ws/v1/session/stream
// Pushes the full state on connect and after every session event.
func (h *WSHandler) SessionStream(c *gin.Context) {
	raw, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	conn := ws.Wrap(raw)
	defer conn.Close()

	wsLog := h.log.With().Str("request_id", response.RequestID(c)).Logger()
	wsLog.Info().Msg("Client connected")

	events, unsubscribe := h.store.Subscribe()
	defer unsubscribe()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	if err := conn.WriteTyped(ws.StateResponse{Event: ws.EventState, State: h.store.State()}); err != nil {
		return
	}

	go h.pushState(ctx, conn, events, wsLog)

	for {
		var msg ws.RequestPayload
		if err := conn.ReadPayload(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			} else {
				wsLog.Debug().Msg("Connection closed")
			}
			return
		}

		if fields := validator.Struct(&msg); fields != nil {
			conn.WriteError(string(response.ErrValidation), joinFields(fields))
			continue
		}

		h.handleAction(ctx, conn, wsLog, &msg)
	}
}

// pushState forwards every store event as a full state snapshot.
func (h *WSHandler) pushState(ctx context.Context, conn *ws.Conn, events <-chan model.SessionEvent, wsLog zerolog.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := conn.WriteTyped(ws.StateResponse{Event: ws.EventState, Trigger: ev.Type, State: h.store.State()}); err != nil {
				wsLog.Debug().Err(err).Msg("State push failed")
				return
			}
		}
	}
}

func (h *WSHandler) handleAction(ctx context.Context, conn *ws.Conn, wsLog zerolog.Logger, msg *ws.RequestPayload) {
	if msg.Action == ws.ActionPing {
		conn.WriteTyped(ws.PongResponse{Event: ws.EventPong})
		return
	}

	if !h.store.Active() {
		conn.WriteError(string(response.ErrNoActiveSession), response.GetMessage(response.ErrNoActiveSession))
		return
	}

	// Successful mutations answer through pushState; only refusals are
	// reported here.
	switch msg.Action {
	case ws.ActionAnswer:
		h.store.SelectOption(*msg.OptionID)
	case ws.ActionReview:
		h.store.MarkForReview()
	case ws.ActionNavigate:
		metrics.ObserveNavigation("goto", string(h.nav.GoTo(*msg.Position)))
	case ws.ActionNext:
		metrics.ObserveNavigation("next", string(h.nav.Next()))
	case ws.ActionPrevious:
		metrics.ObserveNavigation("previous", string(h.nav.Previous()))
	case ws.ActionMarkNext:
		metrics.ObserveNavigation("mark_next", string(h.nav.MarkAndAdvance()))
	case ws.ActionNextOrSubmit:
		metrics.ObserveNavigation("next_or_submit", string(h.nav.NextOrSubmit()))
	case ws.ActionComprehension:
		if !h.store.ShowComprehension(*msg.Show) {
			conn.WriteError(string(response.ErrNoComprehension), response.GetMessage(response.ErrNoComprehension))
		}
	case ws.ActionSubmit:
		// Submission has network latency; keep reading actions meanwhile.
		go h.handleSubmit(ctx, conn, wsLog)
	default:
		wsLog.Warn().Str("action", string(msg.Action)).Msg("Unknown action")
		conn.WriteError(string(response.ErrInvalidPayload), "unknown action: "+string(msg.Action))
	}
}

func (h *WSHandler) handleSubmit(ctx context.Context, conn *ws.Conn, wsLog zerolog.Logger) {
	result, err := h.submissionService.Submit(ctx)
	if err != nil {
		code, _ := submitErrorCode(err)
		msg := response.GetMessage(code)
		if st := h.store.State(); code == response.ErrSubmitFailed && st.SubmitError != "" {
			msg = st.SubmitError
		}
		wsLog.Debug().Err(err).Msg("Submit refused or failed")
		conn.WriteError(string(code), msg)
		return
	}
	conn.WriteTyped(ws.SubmittedResponse{Event: ws.EventSubmitted, Result: *result})
}

// joinFields flattens a validation field map into one sorted message.
func joinFields(fields map[string]string) string {
	msgs := make([]string, 0, len(fields))
	for _, m := range fields {
		msgs = append(msgs, m)
	}
	sort.Strings(msgs)
	return strings.Join(msgs, "; ")
}
