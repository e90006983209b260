package workers

import (
	"care-thread/contract"
	"care-thread/domain/event"
	"context"
	"log/slog"
	"time"
)

// EventFanout is the audit hook of the thread service and the delivery
// side of the synchronization layer.
//
// Record queues an audit event. Run delivers each queued event to the
// permanent sinks (audit log, audit store, search index) and then to every
// live session following the event's thread. Each sink gets its own
// timeout so a slow subscriber cannot stall the others.
//
// Delivery is in-process and best effort: no retries, no durability.
type EventFanout struct {
	log            *slog.Logger
	events         chan event.AuditEvent
	permanentSinks []contract.EventSink
	registry       contract.IRegistry
	sinkTimeout    time.Duration
}

func NewEventFanout(log *slog.Logger, registry contract.IRegistry, bufferSize int,
	sinkTimeout time.Duration, sinks ...contract.EventSink) *EventFanout {
	return &EventFanout{
		log:            log,
		events:         make(chan event.AuditEvent, bufferSize),
		permanentSinks: sinks,
		registry:       registry,
		sinkTimeout:    sinkTimeout,
	}
}

// Record enqueues the event, waiting for room in the buffer unless ctx ends first.
func (w *EventFanout) Record(ctx context.Context, e event.AuditEvent) error {
	select {
	case w.events <- e:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run delivers recorded events until ctx ends. Events still queued at that
// point are delivered before Run returns.
func (w *EventFanout) Run(ctx context.Context) error {
	for {
		select {
		case evt := <-w.events:
			w.Fanout(ctx, evt)
		case <-ctx.Done():
			drained := w.drain(context.WithoutCancel(ctx))
			w.log.Debug("Context done, stopping audit fanout", "drained", drained)
			return nil
		}
	}
}

// drain empties the queue without waiting for new events.
func (w *EventFanout) drain(ctx context.Context) int {
	count := 0
	for {
		select {
		case evt := <-w.events:
			w.Fanout(ctx, evt)
			count++
		default:
			return count
		}
	}
}

// Fanout delivers one event to permanent sinks first, then thread followers.
func (w *EventFanout) Fanout(ctx context.Context, evt event.DomainEvent) {
	for _, sink := range w.permanentSinks {
		w.deliver(ctx, sink, evt)
	}
	for _, sink := range w.registry.GetSinksForThread(evt.ThreadID()) {
		w.deliver(ctx, sink, evt)
	}
}

func (w *EventFanout) deliver(ctx context.Context, sink contract.EventSink, evt event.DomainEvent) {
	sinkCtx, cancel := context.WithTimeout(ctx, w.sinkTimeout)
	defer cancel()
	if err := sink.Consume(sinkCtx, evt); err != nil {
		w.log.Warn("Sink failed to consume event",
			"sink", sinkName(sink), "thread", evt.ThreadID(), "error", err)
	}
}

func sinkName(sink contract.EventSink) string {
	if named, ok := sink.(interface{ Name() string }); ok {
		return named.Name()
	}
	return "anonymous"
}
