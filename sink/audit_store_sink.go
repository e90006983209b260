package sink

import (
	"care-thread/domain/event"
	"care-thread/repositories"
	"context"
	"fmt"
	"log/slog"
)

// AuditStoreSink persists the audit trail so it can be read back per thread.
type AuditStoreSink struct {
	repository repositories.IAuditRepository
	log        *slog.Logger
}

func NewAuditStoreSink(repository repositories.IAuditRepository, log *slog.Logger) AuditStoreSink {
	return AuditStoreSink{repository: repository, log: log}
}

func (s AuditStoreSink) Name() string { return "audit-store" }

func (s AuditStoreSink) Consume(ctx context.Context, e event.DomainEvent) error {
	switch evt := e.(type) {
	case event.AuditEvent:
		return s.repository.StoreEvent(ctx, evt)
	default:
		s.log.Debug(fmt.Sprintf("Not implemented event : %v", evt))
		return nil
	}
}
