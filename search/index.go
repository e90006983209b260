//go:generate go run go.uber.org/mock/mockgen -source=index.go -destination=../mocks/mock_message_index.go -package=mocks

// Package search keeps a full-text index of thread messages.
// It is fed by audit events and never decides who may read what:
// access checks happen in the thread service before a query runs.
package search

import (
	"care-thread/domain"
	"care-thread/domain/event"
	"care-thread/repositories"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/blugelabs/bluge"
	"github.com/google/uuid"
)

const (
	fieldThread  = "thread"
	fieldSender  = "sender"
	fieldContent = "content"
	fieldSeq     = "seq"
)

// Hit is one search result, in relevance order.
type Hit struct {
	MessageID uuid.UUID
	Seq       uint64
	Score     float64
}

type IMessageIndex interface {
	Index(message domain.Message) error
	Remove(messageID uuid.UUID) error
	Search(ctx context.Context, threadID domain.ThreadID, text string, limit int) ([]Hit, error)
}

type MessageIndex struct {
	writer     *bluge.Writer
	repository repositories.IThreadRepository
	log        *slog.Logger
}

func NewMessageIndex(writer *bluge.Writer, repository repositories.IThreadRepository, log *slog.Logger) *MessageIndex {
	return &MessageIndex{writer: writer, repository: repository, log: log}
}

func (i *MessageIndex) Name() string { return "search-index" }

// Consume keeps the index in sync with the log: sent messages are loaded
// from the store and indexed, deleted ones are dropped.
func (i *MessageIndex) Consume(ctx context.Context, e event.DomainEvent) error {
	evt, ok := e.(event.AuditEvent)
	if !ok {
		return nil
	}
	switch evt.Action {
	case event.MessageSent:
		id, err := uuid.Parse(evt.TargetID)
		if err != nil {
			return fmt.Errorf("invalid message id %q: %w", evt.TargetID, err)
		}
		m, err := i.repository.GetMessage(ctx, evt.Thread, id)
		if err != nil {
			return err
		}
		return i.Index(m)
	case event.MessageDeleted:
		id, err := uuid.Parse(evt.TargetID)
		if err != nil {
			return fmt.Errorf("invalid message id %q: %w", evt.TargetID, err)
		}
		return i.Remove(id)
	}
	return nil
}

// Index adds or replaces a message. System messages and tombstones are skipped.
func (i *MessageIndex) Index(m domain.Message) error {
	if m.IsSystem() || m.Deleted || strings.TrimSpace(m.Content) == "" {
		return nil
	}
	doc := bluge.NewDocument(m.ID.String()).
		AddField(bluge.NewKeywordField(fieldThread, string(m.ThreadID))).
		AddField(bluge.NewKeywordField(fieldSender, string(m.SenderID)).StoreValue()).
		AddField(bluge.NewTextField(fieldContent, m.Content)).
		AddField(bluge.NewNumericField(fieldSeq, float64(m.Seq)).StoreValue())
	if err := i.writer.Update(doc.ID(), doc); err != nil {
		return fmt.Errorf("index message %s: %w", m.ID, err)
	}
	return nil
}

func (i *MessageIndex) Remove(messageID uuid.UUID) error {
	if err := i.writer.Delete(bluge.Identifier(messageID.String())); err != nil {
		return fmt.Errorf("remove message %s: %w", messageID, err)
	}
	return nil
}

// Search runs a match query on message content restricted to one thread.
func (i *MessageIndex) Search(ctx context.Context, threadID domain.ThreadID, text string, limit int) ([]Hit, error) {
	reader, err := i.writer.Reader()
	if err != nil {
		return nil, fmt.Errorf("open index reader: %w", err)
	}
	defer func() {
		_ = reader.Close()
	}()

	query := bluge.NewBooleanQuery().
		AddMust(bluge.NewTermQuery(string(threadID)).SetField(fieldThread)).
		AddMust(bluge.NewMatchQuery(text).SetField(fieldContent))
	request := bluge.NewTopNSearch(limit, query)

	matches, err := reader.Search(ctx, request)
	if err != nil {
		return nil, fmt.Errorf("search thread %s: %w", threadID, err)
	}

	var hits []Hit
	match, err := matches.Next()
	for err == nil && match != nil {
		hit := Hit{Score: match.Score}
		visitErr := match.VisitStoredFields(func(field string, value []byte) bool {
			switch field {
			case "_id":
				hit.MessageID, _ = uuid.Parse(string(value))
			case fieldSeq:
				if seq, decodeErr := bluge.DecodeNumericFloat64(value); decodeErr == nil {
					hit.Seq = uint64(seq)
				}
			}
			return true
		})
		if visitErr != nil {
			return nil, visitErr
		}
		if hit.MessageID != uuid.Nil {
			hits = append(hits, hit)
		}
		match, err = matches.Next()
	}
	if err != nil {
		return nil, err
	}
	i.log.Debug("Search executed", "thread", threadID, "hits", len(hits))
	return hits, nil
}
