//go:generate go run go.uber.org/mock/mockgen -source=audit.go -destination=../mocks/mock_audit_repository.go -package=mocks
package repositories

import (
	"care-thread/domain"
	"care-thread/domain/event"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
)

type IAuditRepository interface {
	StoreEvent(ctx context.Context, e event.AuditEvent) error
	GetEvents(ctx context.Context, threadID domain.ThreadID, cursor *string) ([]event.AuditEvent, *string, error)
}

type AuditRepository struct {
	db          *badger.DB
	log         *slog.Logger
	limitEvents int
}

func NewAuditRepository(db *badger.DB, log *slog.Logger, limitEvents int) AuditRepository {
	return AuditRepository{db: db, log: log, limitEvents: limitEvents}
}

type DiskAuditEvent struct {
	ID       string            `bson:"id"`
	UserID   string            `bson:"user_id"`
	Action   string            `bson:"action"`
	ThreadID string            `bson:"thread_id"`
	TargetID string            `bson:"target_id"`
	At       int64             `bson:"at"`
	Details  map[string]string `bson:"details,omitempty"`
}

// StoreEvent persists an audit event.
// The key is formatted as "audit:{thread_id}:{timestamp_padded}:{uuid}" to:
//  1. Keep events of a thread chronologically sorted (19-digit zero padding).
//  2. Never overwrite two events landing on the same nanosecond.
func (a AuditRepository) StoreEvent(ctx context.Context, e event.AuditEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key := fmt.Sprintf("audit:%s:%019d:%s", e.Thread, e.At.UnixNano(), e.ID)
	data, err := bson.Marshal(fromAuditEvent(e))
	if err != nil {
		return unavailable(err)
	}
	err = a.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
	if err != nil {
		return unavailable(err)
	}
	return nil
}

// GetEvents returns the audit trail of a thread, newest first.
// The returned cursor is the key suffix of the last event read; pass it back
// to continue with older events.
func (a AuditRepository) GetEvents(ctx context.Context, threadID domain.ThreadID, cursor *string) ([]event.AuditEvent, *string, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	var events []event.AuditEvent
	var lastKey string
	err := a.db.View(func(txn *badger.Txn) error {
		prefixStr := fmt.Sprintf("audit:%s:", threadID)
		prefix := []byte(prefixStr)
		prefixLen := len(prefixStr)
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		var seekKey []byte
		switch cursor {
		case nil:
			// Start after the newest possible key and walk backwards
			seekKey = append(prefix, []byte("9999999999999999999~")...)
		default:
			seekKey = append(prefix, []byte(*cursor)...)
		}

		it.Seek(seekKey)

		if cursor != nil && it.ValidForPrefix(prefix) {
			it.Next()
		}

		for ; it.ValidForPrefix(prefix); it.Next() {
			if a.limitEvents > 0 && len(events) == a.limitEvents {
				a.log.Debug(fmt.Sprintf("Maximum of %d audit events reached", a.limitEvents))
				break
			}
			item := it.Item()
			lastKey = string(item.Key()[prefixLen:])
			var disk DiskAuditEvent
			err := item.Value(func(val []byte) error {
				return bson.Unmarshal(val, &disk)
			})
			if err != nil {
				return err
			}
			events = append(events, toAuditEvent(disk))
		}
		return nil
	})
	if err != nil {
		return nil, nil, unavailable(err)
	}
	return events, &lastKey, nil
}

func fromAuditEvent(e event.AuditEvent) DiskAuditEvent {
	return DiskAuditEvent{
		ID:       e.ID.String(),
		UserID:   string(e.UserID),
		Action:   string(e.Action),
		ThreadID: string(e.Thread),
		TargetID: e.TargetID,
		At:       e.At.UnixNano(),
		Details:  e.Details,
	}
}

func toAuditEvent(d DiskAuditEvent) event.AuditEvent {
	id, _ := uuid.Parse(d.ID)
	return event.AuditEvent{
		ID:       id,
		UserID:   domain.UserID(d.UserID),
		Action:   event.Action(d.Action),
		Thread:   domain.ThreadID(d.ThreadID),
		TargetID: d.TargetID,
		At:       time.Unix(0, d.At).UTC(),
		Details:  d.Details,
	}
}
