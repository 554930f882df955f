package handler

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stemsi/exstem-candidate/internal/response"
	"github.com/stemsi/exstem-candidate/internal/service"
)

const redisPingTimeout = 2 * time.Second

// SystemHandler reports daemon health.
type SystemHandler struct {
	examService *service.ExamService
	rdb         *redis.Client
	startTime   time.Time
}

// NewSystemHandler creates a new SystemHandler. rdb may be nil when the
// monitor feed is disabled.
func NewSystemHandler(examService *service.ExamService, rdb *redis.Client) *SystemHandler {
	return &SystemHandler{
		examService: examService,
		rdb:         rdb,
		startTime:   time.Now(),
	}
}

type healthStatus struct {
	Status       string `json:"status"`
	Uptime       string `json:"uptime"`
	Phase        string `json:"phase"`
	TimerRunning bool   `json:"timer_running"`
	Redis        string `json:"redis"`
	Goroutines   int    `json:"goroutines"`
}

// Health godoc
// GET /health
func (h *SystemHandler) Health(c *gin.Context) {
	state := h.examService.State()
	resp := healthStatus{
		Status:       "ok",
		Uptime:       time.Since(h.startTime).Truncate(time.Second).String(),
		Phase:        string(state.Phase),
		TimerRunning: h.examService.TimerRunning(),
		Redis:        h.redisStatus(c.Request.Context()),
		Goroutines:   runtime.NumGoroutine(),
	}
	response.Success(c, http.StatusOK, resp)
}

func (h *SystemHandler) redisStatus(ctx context.Context) string {
	if h.rdb == nil {
		return "disabled"
	}
	ctx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := h.rdb.Ping(ctx).Err(); err != nil {
		return "unreachable"
	}
	return "ok"
}
