package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/exstem-candidate/internal/config"
	"github.com/stemsi/exstem-candidate/internal/metrics"
	"github.com/stemsi/exstem-candidate/internal/model"
	"github.com/stemsi/exstem-candidate/internal/session"
)

// tickPublishEvery throttles countdown events on the monitor feed.
const tickPublishEvery = 60

// MonitorWorker relays session events to Redis Pub/Sub for a proctor
// dashboard and keeps the remaining-time gauge current. Nothing is stored;
// with a nil Redis client it only updates metrics.
type MonitorWorker struct {
	rdb    *redis.Client
	events <-chan model.SessionEvent
	cancel func()
	log    zerolog.Logger
}

// NewMonitorWorker subscribes to store immediately, so events emitted before
// Start is scheduled are not lost.
func NewMonitorWorker(store *session.Store, rdb *redis.Client, log zerolog.Logger) *MonitorWorker {
	events, cancel := store.Subscribe()
	return &MonitorWorker{
		rdb:    rdb,
		events: events,
		cancel: cancel,
		log:    log.With().Str("component", "monitor_worker").Logger(),
	}
}

// Start begins the worker loop. Call in a goroutine.
func (w *MonitorWorker) Start(ctx context.Context) {
	w.log.Info().Bool("redis", w.rdb != nil).Msg("Worker started")
	defer w.cancel()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopped")
			return
		case ev, ok := <-w.events:
			if !ok {
				return
			}
			w.handle(ctx, ev)
		}
	}
}

func (w *MonitorWorker) handle(ctx context.Context, ev model.SessionEvent) {
	switch ev.Type {
	case model.EventInitialized, model.EventTick, model.EventExpired:
		metrics.SetRemaining(ev.RemainingSeconds)
	case model.EventClosed:
		metrics.SetRemaining(nil)
	}

	if w.rdb == nil || !shouldPublish(ev) {
		return
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		w.log.Error().Err(err).Msg("Marshal error")
		return
	}

	channels := []string{
		config.ChannelKey.SessionMonitorChannel(ev.SessionID.String()),
		config.ChannelKey.MonitorFeedChannel(),
	}
	for _, ch := range channels {
		w.publish(ctx, ch, payload, ev)
	}
}

func (w *MonitorWorker) publish(ctx context.Context, channel string, payload []byte, ev model.SessionEvent) {
	var err error
	for attempt := 1; attempt <= config.WorkerKey.MonitorPublishTries; attempt++ {
		if err = w.rdb.Publish(ctx, channel, payload).Err(); err == nil {
			return
		}
		if ctx.Err() != nil {
			return
		}
		time.Sleep(time.Duration(attempt) * 100 * time.Millisecond)
	}
	w.log.Error().Err(err).
		Str("channel", channel).
		Str("event", string(ev.Type)).
		Msg("Publish failed, dropping event")
}

func shouldPublish(ev model.SessionEvent) bool {
	if ev.Type != model.EventTick {
		return true
	}
	return ev.RemainingSeconds != nil && *ev.RemainingSeconds%tickPublishEvery == 0
}
