package repositories

import (
	"care-thread/domain"
	"care-thread/errors"
	"context"
	"fmt"
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

func openDB(t *testing.T) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newThread(t *testing.T, id domain.ThreadID) (domain.Admission, domain.Message) {
	t.Helper()
	a, msg, err := domain.Admit(id, "u1", domain.PatientDetails{FirstName: "Jane", LastName: "Doe", Age: 67}, domain.Appearance{}, t0, uuid.New())
	require.NoError(t, err)
	return a, msg
}

func TestThreadRepository_Save_And_Get(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repository := NewThreadRepository(openDB(t), logs.GetLoggerFromLevel(slog.LevelDebug), 10)
	a, admittedMsg := newThread(t, "t1")
	discharged, dischargeMsg, err := domain.Discharge(a, "u1", t0.Add(time.Hour), uuid.New())
	req.NoError(err)

	// When the admission and its log are committed
	req.NoError(repository.Save(ctx, ThreadChange{Admission: a, Messages: []domain.Message{admittedMsg}}))
	req.NoError(repository.Save(ctx, ThreadChange{Admission: discharged, Messages: []domain.Message{dischargeMsg}}))

	// Then everything reads back as written
	got, err := repository.GetAdmission(ctx, "t1")
	req.NoError(err)
	req.Equal(discharged, got)

	msg, err := repository.GetMessage(ctx, "t1", dischargeMsg.ID)
	req.NoError(err)
	req.Equal(dischargeMsg, msg)

	messages, err := repository.GetMessages(ctx, "t1", 0, 0)
	req.NoError(err)
	req.Equal([]domain.Message{admittedMsg, dischargeMsg}, messages)
}

func TestThreadRepository_Not_Found(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repository := NewThreadRepository(openDB(t), slog.Default(), 10)
	a, msg := newThread(t, "t1")
	req.NoError(repository.Save(ctx, ThreadChange{Admission: a, Messages: []domain.Message{msg}}))

	_, err := repository.GetAdmission(ctx, "nope")
	req.ErrorIs(err, errors.ErrThreadNotFound)

	_, err = repository.GetMessage(ctx, "t1", uuid.New())
	req.ErrorIs(err, errors.ErrMessageNotFound)

	// A message is only reachable through its own thread
	_, err = repository.GetMessage(ctx, "t2", msg.ID)
	req.ErrorIs(err, errors.ErrMessageNotFound)
}

func TestThreadRepository_GetMessages_Pages_In_Seq_Order(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repository := NewThreadRepository(openDB(t), slog.Default(), 4)
	a, first := newThread(t, "t1")
	req.NoError(repository.Save(ctx, ThreadChange{Admission: a, Messages: []domain.Message{first}}))

	// Given 11 more messages, some with a skewed clock
	for i := 0; i < 11; i++ {
		at := t0.Add(time.Duration(11-i) * time.Minute)
		next, m, err := domain.Append(a, "u1", domain.Draft{Kind: domain.KindText, Content: fmt.Sprintf("note %d", i)}, at, uuid.New())
		req.NoError(err)
		a = next
		req.NoError(repository.Save(ctx, ThreadChange{Admission: a, Messages: []domain.Message{m}}))
	}

	// Given another thread whose keys share a prefix
	other, otherMsg := newThread(t, "t10")
	req.NoError(repository.Save(ctx, ThreadChange{Admission: other, Messages: []domain.Message{otherMsg}}))

	// When paging through the log
	var seqs []uint64
	var after uint64
	for {
		page, err := repository.GetMessages(ctx, "t1", after, 0)
		req.NoError(err)
		for _, m := range page {
			req.Equal(domain.ThreadID("t1"), m.ThreadID)
			seqs = append(seqs, m.Seq)
		}
		if len(page) < 4 {
			break
		}
		after = page[len(page)-1].Seq
	}

	// Then seq is strictly increasing with no gap
	req.Len(seqs, 12)
	for i, seq := range seqs {
		req.Equal(uint64(i+1), seq)
	}

	limited, err := repository.GetMessages(ctx, "t1", 10, 5)
	req.NoError(err)
	req.Len(limited, 2)
}

func TestThreadRepository_GetMessages_After_Last_Possible_Seq(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repository := NewThreadRepository(openDB(t), slog.Default(), 10)
	a, first := newThread(t, "t1")
	req.NoError(repository.Save(ctx, ThreadChange{Admission: a, Messages: []domain.Message{first}}))

	// When the cursor is the highest seq there is
	messages, err := repository.GetMessages(ctx, "t1", math.MaxUint64, 10)

	// Then the page is empty instead of restarting from the beginning
	req.NoError(err)
	req.Empty(messages)
}

func TestThreadRepository_ListAdmissions(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repository := NewThreadRepository(openDB(t), slog.Default(), 10)
	for _, id := range []domain.ThreadID{"t1", "t2", "t3"} {
		a, msg := newThread(t, id)
		req.NoError(repository.Save(ctx, ThreadChange{Admission: a, Messages: []domain.Message{msg}}))
	}

	admissions, err := repository.ListAdmissions(ctx)

	req.NoError(err)
	req.Len(admissions, 3)
}

func TestThreadRepository_Updates_Message_In_Place(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repository := NewThreadRepository(openDB(t), slog.Default(), 10)
	a, _ := newThread(t, "t1")
	a, _, err := domain.AddMember(a, domain.User{ID: "u1", Role: domain.RoleHealthcareWorker}, "u2", t0, uuid.New())
	req.NoError(err)
	a, m, err := domain.Append(a, "u2", domain.Draft{Kind: domain.KindText, Content: "Vitals stable"}, t0, uuid.New())
	req.NoError(err)
	req.NoError(repository.Save(ctx, ThreadChange{Admission: a, Messages: []domain.Message{m}}))

	// When the message is read then tombstoned
	read, changed := domain.MarkRead(a, m, "u1")
	req.True(changed)
	req.NoError(repository.Save(ctx, ThreadChange{Admission: a, Messages: []domain.Message{read}}))
	deleted, _, err := domain.Tombstone(read, domain.User{ID: "u2", Role: domain.RoleHealthcareWorker}, t0.Add(time.Hour))
	req.NoError(err)
	req.NoError(repository.Save(ctx, ThreadChange{Admission: a, Messages: []domain.Message{deleted}}))

	// Then the slot keeps its seq and the latest state
	got, err := repository.GetMessage(ctx, "t1", m.ID)
	req.NoError(err)
	req.Equal(deleted, got)
	req.Equal(m.Seq, got.Seq)
	req.ElementsMatch([]domain.UserID{"u1", "u2"}, got.ReadBy)

	messages, err := repository.GetMessages(ctx, "t1", m.Seq-1, 0)
	req.NoError(err)
	req.Len(messages, 1)
}

func TestThreadRepository_Decode(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	db := openDB(t)
	repository := NewThreadRepository(db, slog.Default(), 10)
	a, msg := newThread(t, "t1")
	req.NoError(repository.Save(ctx, ThreadChange{Admission: a, Messages: []domain.Message{msg}}))

	err := db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(admissionKey("t1"))
		req.NoError(err)
		val, err := item.ValueCopy(nil)
		req.NoError(err)
		decoded, err := DecodeAdmission(val)
		req.NoError(err)
		req.Equal(a, decoded)

		item, err = txn.Get(messageKey("t1", 1))
		req.NoError(err)
		val, err = item.ValueCopy(nil)
		req.NoError(err)
		decodedMsg, err := DecodeMessage(val)
		req.NoError(err)
		req.Equal(msg, decodedMsg)
		return nil
	})
	req.NoError(err)

	_, err = DecodeMessage([]byte("garbage"))
	req.Error(err)
}

func TestThreadRepository_Canceled_Context(t *testing.T) {
	req := require.New(t)
	repository := NewThreadRepository(openDB(t), slog.Default(), 10)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repository.GetAdmission(ctx, "t1")
	req.ErrorIs(err, context.Canceled)
}
