package sink

import (
	"care-thread/domain/event"
	"context"
	"fmt"
	"log/slog"
)

// AuditLogSink writes every audit event as one structured log line.
type AuditLogSink struct {
	log *slog.Logger
}

func NewAuditLogSink(log *slog.Logger) AuditLogSink {
	return AuditLogSink{log: log}
}

func (s AuditLogSink) Name() string { return "audit-log" }

func (s AuditLogSink) Consume(ctx context.Context, e event.DomainEvent) error {
	switch evt := e.(type) {
	case event.AuditEvent:
		attrs := []any{
			"id", evt.ID,
			"user", evt.UserID,
			"action", evt.Action,
			"thread", evt.Thread,
			"target", evt.TargetID,
			"at", evt.At,
		}
		for k, v := range evt.Details {
			attrs = append(attrs, k, v)
		}
		s.log.InfoContext(ctx, "Audit", attrs...)
	default:
		s.log.Debug(fmt.Sprintf("Not implemented event : %v", evt))
	}
	return nil
}
