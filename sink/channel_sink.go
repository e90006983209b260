package sink

import (
	"care-thread/domain/event"
	"context"
	"log/slog"
	"sync/atomic"
)

// ChannelSink buffers events for one live session. The transport handler
// owning the session drains Events.
type ChannelSink struct {
	Events  chan event.DomainEvent
	log     *slog.Logger
	dropped atomic.Int64
}

func NewChannelSink(bufferSize int, log *slog.Logger) *ChannelSink {
	return &ChannelSink{Events: make(chan event.DomainEvent, bufferSize), log: log}
}

func (s *ChannelSink) Name() string { return "session" }

// Consume never blocks the fanout: a full buffer drops the event.
func (s *ChannelSink) Consume(ctx context.Context, e event.DomainEvent) error {
	select {
	case s.Events <- e:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		total := s.dropped.Add(1)
		s.log.Warn("Session buffer full, event dropped", "thread", e.ThreadID(), "dropped", total)
		return nil
	}
}

// Dropped returns how many events were lost to backpressure.
func (s *ChannelSink) Dropped() int64 {
	return s.dropped.Load()
}
