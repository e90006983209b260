// Package runtime propagates audit events to sinks and live subscribers.
// It orchestrates the synchronization layer without containing business logic or domain rules.
package runtime

import (
	"care-thread/contract"
	"care-thread/domain"
	"care-thread/domain/event"
	"care-thread/runtime/workers"
	"context"
	"log/slog"
	"time"
)

type Orchestrator struct {
	log        *slog.Logger
	supervisor contract.ISupervisor
	registry   contract.IRegistry
	fanout     *workers.EventFanout
}

func NewOrchestrator(log *slog.Logger, supervisor contract.ISupervisor, registry *Registry,
	bufferSize int, sinkTimeout time.Duration, permanentSinks ...contract.EventSink) *Orchestrator {
	return &Orchestrator{
		log:        log,
		supervisor: supervisor,
		registry:   registry,
		fanout:     workers.NewEventFanout(log, registry, bufferSize, sinkTimeout, permanentSinks...),
	}
}

// AuditHook is the hook handed to the thread service.
func (o *Orchestrator) AuditHook() contract.AuditHook {
	return o.fanout
}

// Record lets the orchestrator itself be used as the audit hook.
func (o *Orchestrator) Record(ctx context.Context, e event.AuditEvent) error {
	return o.fanout.Record(ctx, e)
}

// Subscribe attaches a live session to a thread. Authorization is the
// caller's job: the thread service checks access before a stream opens.
func (o *Orchestrator) Subscribe(sessionID string, threadID domain.ThreadID, sink contract.EventSink) {
	o.registry.Subscribe(sessionID, threadID, sink)
}

func (o *Orchestrator) Unsubscribe(sessionID string, threadID domain.ThreadID) {
	o.registry.Unsubscribe(sessionID, threadID)
}

// Start registers the fanout worker and blocks while the supervisor runs.
func (o *Orchestrator) Start(ctx context.Context) {
	o.supervisor.Add(o.fanout)
	o.log.Info("Starting orchestrator and all supervised workers")
	o.supervisor.Run(ctx)
}

// Stop cancels the supervised context. The fanout delivers what is still
// queued, then Start returns.
func (o *Orchestrator) Stop() {
	o.log.Info("Requesting orchestrator shutdown")
	o.supervisor.Stop()
}
