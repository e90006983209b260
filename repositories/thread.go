//go:generate go run go.uber.org/mock/mockgen -source=thread.go -destination=../mocks/mock_thread_repository.go -package=mocks
package repositories

import (
	"care-thread/domain"
	"care-thread/errors"
	"context"
	goerrors "errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/bson"
)

type IThreadRepository interface {
	GetAdmission(ctx context.Context, id domain.ThreadID) (domain.Admission, error)
	ListAdmissions(ctx context.Context) ([]domain.Admission, error)
	GetMessage(ctx context.Context, threadID domain.ThreadID, messageID uuid.UUID) (domain.Message, error)
	GetMessages(ctx context.Context, threadID domain.ThreadID, afterSeq uint64, limit int) ([]domain.Message, error)
	Save(ctx context.Context, change ThreadChange) error
}

// ThreadChange is one atomic commit: the admission record plus every new or
// modified message. Either all of it is written or none of it.
type ThreadChange struct {
	Admission domain.Admission
	Messages  []domain.Message
}

type ThreadRepository struct {
	db       *badger.DB
	log      *slog.Logger
	pageSize int
}

func NewThreadRepository(db *badger.DB, log *slog.Logger, pageSize int) ThreadRepository {
	return ThreadRepository{db: db, log: log, pageSize: pageSize}
}

type DiskAdmission struct {
	ID              string   `bson:"id"`
	FirstName       string   `bson:"first_name"`
	MiddleName      string   `bson:"middle_name,omitempty"`
	LastName        string   `bson:"last_name"`
	Age             int      `bson:"age"`
	Sex             string   `bson:"sex,omitempty"`
	Diagnosis       string   `bson:"diagnosis,omitempty"`
	PatientNumber   string   `bson:"patient_number,omitempty"`
	Ward            string   `bson:"ward,omitempty"`
	Room            string   `bson:"room,omitempty"`
	AvatarColor     string   `bson:"avatar_color,omitempty"`
	Background      string   `bson:"background,omitempty"`
	MainCareOwnerID string   `bson:"main_care_owner_id"`
	Members         []string `bson:"members"`
	Status          string   `bson:"status"`
	DateAdmitted    int64    `bson:"date_admitted"`
	DateDischarged  *int64   `bson:"date_discharged,omitempty"`
	LastSeq         int64    `bson:"last_seq"`
	LastActivity    int64    `bson:"last_activity"`
}

type DiskMessage struct {
	ID            string   `bson:"id"`
	ThreadID      string   `bson:"thread_id"`
	Seq           int64    `bson:"seq"`
	SenderID      string   `bson:"sender_id"`
	At            int64    `bson:"at"`
	Kind          string   `bson:"kind"`
	Content       string   `bson:"content"`
	AttachmentRef string   `bson:"attachment_ref,omitempty"`
	SystemEvent   string   `bson:"system_event,omitempty"`
	Subject       string   `bson:"subject,omitempty"`
	ReadBy        []string `bson:"read_by"`
	Deleted       bool     `bson:"deleted"`
	DeletedAt     *int64   `bson:"deleted_at,omitempty"`
}

func admissionKey(id domain.ThreadID) []byte {
	return []byte(fmt.Sprintf("adm:%s", id))
}

func messagePrefix(threadID domain.ThreadID) string {
	return fmt.Sprintf("msg:%s:", threadID)
}

// messageKey is formatted as "msg:{thread_id}:{seq_padded}". The 20-digit
// zero padding keeps lexicographical order equal to seq order.
func messageKey(threadID domain.ThreadID, seq uint64) []byte {
	return []byte(fmt.Sprintf("%s%020d", messagePrefix(threadID), seq))
}

// messageIndexKey maps a message id to its slot key.
func messageIndexKey(id uuid.UUID) []byte {
	return []byte(fmt.Sprintf("idx:msg:%s", id))
}

func (r ThreadRepository) GetAdmission(ctx context.Context, id domain.ThreadID) (domain.Admission, error) {
	if err := ctx.Err(); err != nil {
		return domain.Admission{}, err
	}
	var disk DiskAdmission
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(admissionKey(id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return bson.Unmarshal(val, &disk)
		})
	})
	if goerrors.Is(err, badger.ErrKeyNotFound) {
		return domain.Admission{}, errors.ErrThreadNotFound
	}
	if err != nil {
		return domain.Admission{}, unavailable(err)
	}
	return toAdmission(disk), nil
}

// ListAdmissions returns every admission, active or discharged.
func (r ThreadRepository) ListAdmissions(ctx context.Context) ([]domain.Admission, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var admissions []domain.Admission
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := []byte("adm:")
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var disk DiskAdmission
			err := it.Item().Value(func(val []byte) error {
				return bson.Unmarshal(val, &disk)
			})
			if err != nil {
				return err
			}
			admissions = append(admissions, toAdmission(disk))
		}
		return nil
	})
	if err != nil {
		return nil, unavailable(err)
	}
	return admissions, nil
}

// GetMessage resolves the message through its id index.
func (r ThreadRepository) GetMessage(ctx context.Context, threadID domain.ThreadID, messageID uuid.UUID) (domain.Message, error) {
	if err := ctx.Err(); err != nil {
		return domain.Message{}, err
	}
	var disk DiskMessage
	err := r.db.View(func(txn *badger.Txn) error {
		idx, err := txn.Get(messageIndexKey(messageID))
		if err != nil {
			return err
		}
		slotKey, err := idx.ValueCopy(nil)
		if err != nil {
			return err
		}
		item, err := txn.Get(slotKey)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return bson.Unmarshal(val, &disk)
		})
	})
	if goerrors.Is(err, badger.ErrKeyNotFound) {
		return domain.Message{}, errors.ErrMessageNotFound
	}
	if err != nil {
		return domain.Message{}, unavailable(err)
	}
	if domain.ThreadID(disk.ThreadID) != threadID {
		return domain.Message{}, errors.ErrMessageNotFound
	}
	return toMessage(disk), nil
}

// GetMessages scans the thread log forward, starting right after afterSeq.
// Thanks to the padded seq in the key, messages come out in log order.
// It stops once limit messages were collected, limit <= 0 means the page size.
func (r ThreadRepository) GetMessages(ctx context.Context, threadID domain.ThreadID, afterSeq uint64, limit int) ([]domain.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = r.pageSize
	}
	// Nothing can come after the last seq, afterSeq+1 would wrap to 0
	if afterSeq == math.MaxUint64 {
		return nil, nil
	}
	var messages []domain.Message
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := []byte(messagePrefix(threadID))
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(messageKey(threadID, afterSeq+1)); it.ValidForPrefix(prefix); it.Next() {
			if limit > 0 && len(messages) == limit {
				r.log.Debug(fmt.Sprintf("Maximum of %d message reached", limit))
				break
			}
			var disk DiskMessage
			err := it.Item().Value(func(val []byte) error {
				return bson.Unmarshal(val, &disk)
			})
			if err != nil {
				return err
			}
			messages = append(messages, toMessage(disk))
		}
		return nil
	})
	if err != nil {
		return nil, unavailable(err)
	}
	return messages, nil
}

// Save writes the admission and its changed messages in a single transaction.
func (r ThreadRepository) Save(ctx context.Context, change ThreadChange) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	admissionBytes, err := bson.Marshal(fromAdmission(change.Admission))
	if err != nil {
		return unavailable(err)
	}
	type entry struct {
		key, indexKey, value []byte
	}
	entries := make([]entry, 0, len(change.Messages))
	for _, m := range change.Messages {
		value, err := bson.Marshal(fromMessage(m))
		if err != nil {
			return unavailable(err)
		}
		entries = append(entries, entry{
			key:      messageKey(m.ThreadID, m.Seq),
			indexKey: messageIndexKey(m.ID),
			value:    value,
		})
	}
	err = r.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(admissionKey(change.Admission.ID), admissionBytes); err != nil {
			return err
		}
		for _, e := range entries {
			if err := txn.Set(e.key, e.value); err != nil {
				return err
			}
			if err := txn.Set(e.indexKey, e.key); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return unavailable(err)
	}
	return nil
}

func unavailable(err error) error {
	return fmt.Errorf("%w: %v", errors.ErrStorageUnavailable, err)
}

func fromAdmission(a domain.Admission) DiskAdmission {
	return DiskAdmission{
		ID:              string(a.ID),
		FirstName:       a.Patient.FirstName,
		MiddleName:      a.Patient.MiddleName,
		LastName:        a.Patient.LastName,
		Age:             a.Patient.Age,
		Sex:             a.Patient.Sex,
		Diagnosis:       a.Patient.Diagnosis,
		PatientNumber:   a.Patient.PatientNumber,
		Ward:            a.Patient.Ward,
		Room:            a.Patient.Room,
		AvatarColor:     a.Appearance.AvatarColor,
		Background:      a.Appearance.Background,
		MainCareOwnerID: string(a.MainCareOwnerID),
		Members:         toStrings(a.Members),
		Status:          string(a.Status),
		DateAdmitted:    a.DateAdmitted.UnixNano(),
		DateDischarged:  toNanos(a.DateDischarged),
		LastSeq:         int64(a.LastSeq),
		LastActivity:    a.LastActivity.UnixNano(),
	}
}

func toAdmission(d DiskAdmission) domain.Admission {
	return domain.Admission{
		ID: domain.ThreadID(d.ID),
		Patient: domain.PatientDetails{
			FirstName:     d.FirstName,
			MiddleName:    d.MiddleName,
			LastName:      d.LastName,
			Age:           d.Age,
			Sex:           d.Sex,
			Diagnosis:     d.Diagnosis,
			PatientNumber: d.PatientNumber,
			Ward:          d.Ward,
			Room:          d.Room,
		},
		Appearance: domain.Appearance{
			AvatarColor: d.AvatarColor,
			Background:  d.Background,
		},
		MainCareOwnerID: domain.UserID(d.MainCareOwnerID),
		Members:         toUserIDs(d.Members),
		Status:          domain.AdmissionStatus(d.Status),
		DateAdmitted:    time.Unix(0, d.DateAdmitted).UTC(),
		DateDischarged:  fromNanos(d.DateDischarged),
		LastSeq:         uint64(d.LastSeq),
		LastActivity:    time.Unix(0, d.LastActivity).UTC(),
	}
}

func fromMessage(m domain.Message) DiskMessage {
	return DiskMessage{
		ID:            m.ID.String(),
		ThreadID:      string(m.ThreadID),
		Seq:           int64(m.Seq),
		SenderID:      string(m.SenderID),
		At:            m.Timestamp.UnixNano(),
		Kind:          string(m.Kind),
		Content:       m.Content,
		AttachmentRef: m.AttachmentRef,
		SystemEvent:   string(m.SystemEvent),
		Subject:       string(m.Subject),
		ReadBy:        toStrings(m.ReadBy),
		Deleted:       m.Deleted,
		DeletedAt:     toNanos(m.DeletedAt),
	}
}

func toMessage(d DiskMessage) domain.Message {
	return domain.Message{
		ID:            uuid.MustParse(d.ID),
		ThreadID:      domain.ThreadID(d.ThreadID),
		Seq:           uint64(d.Seq),
		SenderID:      domain.UserID(d.SenderID),
		Timestamp:     time.Unix(0, d.At).UTC(),
		Kind:          domain.MessageKind(d.Kind),
		Content:       d.Content,
		AttachmentRef: d.AttachmentRef,
		SystemEvent:   domain.SystemEvent(d.SystemEvent),
		Subject:       domain.UserID(d.Subject),
		ReadBy:        toUserIDs(d.ReadBy),
		Deleted:       d.Deleted,
		DeletedAt:     fromNanos(d.DeletedAt),
	}
}

func toStrings(ids []domain.UserID) []string {
	return lo.Map(ids, func(id domain.UserID, _ int) string { return string(id) })
}

func toUserIDs(ids []string) []domain.UserID {
	if len(ids) == 0 {
		return nil
	}
	return lo.Map(ids, func(id string, _ int) domain.UserID { return domain.UserID(id) })
}

func toNanos(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	return lo.ToPtr(t.UnixNano())
}

func fromNanos(n *int64) *time.Time {
	if n == nil {
		return nil
	}
	return lo.ToPtr(time.Unix(0, *n).UTC())
}

// DecodeAdmission turns a raw "adm:" value back into an admission. Offline tools use it.
func DecodeAdmission(val []byte) (domain.Admission, error) {
	var disk DiskAdmission
	if err := bson.Unmarshal(val, &disk); err != nil {
		return domain.Admission{}, err
	}
	return toAdmission(disk), nil
}

// DecodeMessage turns a raw "msg:" value back into a message.
func DecodeMessage(val []byte) (domain.Message, error) {
	var disk DiskMessage
	if err := bson.Unmarshal(val, &disk); err != nil {
		return domain.Message{}, err
	}
	if _, err := uuid.Parse(disk.ID); err != nil {
		return domain.Message{}, err
	}
	return toMessage(disk), nil
}
