//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"care-thread/domain"
	"care-thread/domain/event"
	"context"
	"reflect"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

type EventSink interface {
	Consume(ctx context.Context, e event.DomainEvent) error
}

// AuditHook receives one event per successful mutation. Where the trail is
// persisted and how it is formatted is up to the implementation.
type AuditHook interface {
	Record(ctx context.Context, e event.AuditEvent) error
}

type IRegistry interface {
	GetSinksForThread(threadID domain.ThreadID) []EventSink
	Subscribe(sessionID string, threadID domain.ThreadID, sink EventSink)
	Unsubscribe(sessionID string, threadID domain.ThreadID)
}
