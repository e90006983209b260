package services

import (
	"care-thread/contract"
	"care-thread/domain"
	"care-thread/domain/event"
	"care-thread/errors"
	"care-thread/repositories"
	"care-thread/search"
	"context"
	"log/slog"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/mama165/sdk-go/logs"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

var (
	t0      = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	owner   = domain.User{ID: "u1", Role: domain.RoleHealthcareWorker}
	nurse   = domain.User{ID: "u2", Role: domain.RoleHealthcareWorker}
	visitor = domain.User{ID: "u3", Role: domain.RoleHealthcareWorker}
	admin   = domain.User{ID: "adm", Role: domain.RoleAdmin}
	clerk   = domain.User{ID: "clerk", Role: domain.RoleSystemClerk}
	patient = domain.PatientDetails{FirstName: "Jane", LastName: "Doe", Age: 67, Ward: "B2", Diagnosis: "Pneumonia"}
)

// recordingHook keeps every audit event and forwards it to sinks, the way
// the fanout would.
type recordingHook struct {
	mu     sync.Mutex
	events []event.AuditEvent
	sinks  []contract.EventSink
}

func (h *recordingHook) Record(ctx context.Context, e event.AuditEvent) error {
	h.mu.Lock()
	h.events = append(h.events, e)
	h.mu.Unlock()
	for _, sink := range h.sinks {
		if err := sink.Consume(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func (h *recordingHook) actions() []event.Action {
	h.mu.Lock()
	defer h.mu.Unlock()
	return lo.Map(h.events, func(e event.AuditEvent, _ int) event.Action { return e.Action })
}

// fakeClock returns a settable instant, advancing one second per read.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

func (c *fakeClock) Set(at time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = at
}

type harness struct {
	service    *ThreadService
	repository repositories.ThreadRepository
	hook       *recordingHook
	clock      *fakeClock
}

// newHarness wires the service on badger and bluge with a page size of 3,
// small enough for every scan to cross page boundaries.
func newHarness(t *testing.T) harness {
	t.Helper()
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	req.NoError(err)
	t.Cleanup(func() { _ = db.Close() })
	blugeWriter, err := bluge.OpenWriter(bluge.DefaultConfig(t.TempDir()))
	req.NoError(err)
	t.Cleanup(func() { _ = blugeWriter.Close() })

	repository := repositories.NewThreadRepository(db, log, 3)
	users := repositories.NewUserRepository(db)
	for _, u := range []domain.User{owner, nurse, visitor, admin, clerk} {
		req.NoError(users.UpsertUser(context.Background(), u))
	}
	index := search.NewMessageIndex(blugeWriter, repository, log)
	hook := &recordingHook{sinks: []contract.EventSink{index}}
	clock := &fakeClock{now: t0}

	service := NewThreadService(repository, users, hook, index, log, 3, WithClock(clock.Now))
	return harness{service: service, repository: repository, hook: hook, clock: clock}
}

// admitWithNurse creates a thread owned by u1 with u2 as member.
func (h harness) admitWithNurse(t *testing.T) domain.ThreadID {
	t.Helper()
	ctx := context.Background()
	admission, err := h.service.CreateAdmission(ctx, owner.ID, patient, domain.Appearance{AvatarColor: "teal"})
	require.NoError(t, err)
	require.NoError(t, h.service.AddMember(ctx, admission.ID, owner.ID, nurse.ID))
	return admission.ID
}

func text(content string) domain.Draft {
	return domain.Draft{Kind: domain.KindText, Content: content}
}

func (h harness) log(t *testing.T, threadID domain.ThreadID) []domain.Message {
	t.Helper()
	var messages []domain.Message
	for m, err := range h.service.ListFrom(context.Background(), threadID, owner.ID, 0) {
		require.NoError(t, err)
		messages = append(messages, m)
	}
	return messages
}

func TestThreadService_Scenario_Send_Then_Read(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	h := newHarness(t)

	// Given u1 owns a thread and added u2
	threadID := h.admitWithNurse(t)

	// When u2 posts
	msg, err := h.service.SendMessage(ctx, threadID, nurse.ID, text("Vitals stable"))
	req.NoError(err)

	// Then u2 has read it and u1 has one unread message
	req.Equal([]domain.UserID{nurse.ID}, msg.ReadBy)
	req.False(msg.ReadByOthers())
	unread, err := h.service.UnreadCount(ctx, threadID, owner.ID)
	req.NoError(err)
	req.Equal(1, unread)

	// When u1 reads it twice
	req.NoError(h.service.MarkMessageRead(ctx, threadID, msg.ID, owner.ID))
	req.NoError(h.service.MarkMessageRead(ctx, threadID, msg.ID, owner.ID))

	// Then the count drops to zero and only one read was audited
	unread, err = h.service.UnreadCount(ctx, threadID, owner.ID)
	req.NoError(err)
	req.Zero(unread)
	stored, err := h.repository.GetMessage(ctx, threadID, msg.ID)
	req.NoError(err)
	req.Equal([]domain.UserID{owner.ID, nurse.ID}, stored.ReadBy)
	req.True(stored.ReadByOthers())
	req.Equal([]event.Action{event.AdmissionCreated, event.MemberAdded, event.MessageSent, event.MessageRead}, h.hook.actions())
}

func TestThreadService_Scenario_Discharge_Closes_Thread(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	h := newHarness(t)
	threadID := h.admitWithNurse(t)

	// When u1 discharges the thread
	req.NoError(h.service.Discharge(ctx, threadID, owner.ID))

	// Then u2 can no longer post
	_, err := h.service.SendMessage(ctx, threadID, nurse.ID, text("Follow-up"))
	req.ErrorIs(err, errors.ErrThreadClosed)

	// And the log ends with the discharge system message
	messages := h.log(t, threadID)
	last := messages[len(messages)-1]
	req.Equal(domain.KindSystem, last.Kind)
	req.Equal(domain.EventDischarged, last.SystemEvent)

	// And discharging again changes nothing
	req.NoError(h.service.Discharge(ctx, threadID, owner.ID))
	req.Len(h.log(t, threadID), len(messages))

	// When the thread is readmitted, posting works again
	req.NoError(h.service.Readmit(ctx, threadID, nurse.ID))
	_, err = h.service.SendMessage(ctx, threadID, nurse.ID, text("Back on B2"))
	req.NoError(err)
	req.Equal([]event.Action{
		event.AdmissionCreated, event.MemberAdded, event.AdmissionDischarged, event.AdmissionReadmitted, event.MessageSent,
	}, h.hook.actions())
}

func TestThreadService_Scenario_Non_Member_Cannot_Post(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	h := newHarness(t)
	threadID := h.admitWithNurse(t)
	before := h.log(t, threadID)
	eventsBefore := len(h.hook.actions())

	// When u3, not a member, posts
	_, err := h.service.SendMessage(ctx, threadID, visitor.ID, text("Hello"))

	// Then nothing changed
	req.ErrorIs(err, errors.ErrPermissionDenied)
	req.Equal(before, h.log(t, threadID))
	req.Len(h.hook.actions(), eventsBefore)
}

func TestThreadService_Membership_Gating_On_Read(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	h := newHarness(t)
	threadID := h.admitWithNurse(t)
	msg, err := h.service.SendMessage(ctx, threadID, nurse.ID, text("Vitals stable"))
	req.NoError(err)
	eventsBefore := len(h.hook.actions())

	// A non-member is rejected
	req.ErrorIs(h.service.MarkMessageRead(ctx, threadID, msg.ID, visitor.ID), errors.ErrPermissionDenied)

	// A member reading a system message gets a silent success
	system := h.log(t, threadID)[0]
	req.True(system.IsSystem())
	req.NoError(h.service.MarkMessageRead(ctx, threadID, system.ID, owner.ID))

	// Neither call left a trace
	stored, err := h.repository.GetMessage(ctx, threadID, msg.ID)
	req.NoError(err)
	req.Equal([]domain.UserID{nurse.ID}, stored.ReadBy)
	req.Len(h.hook.actions(), eventsBefore)

	// And a non-member sees no unread count
	unread, err := h.service.UnreadCount(ctx, threadID, visitor.ID)
	req.NoError(err)
	req.Zero(unread)
}

func TestThreadService_Ordering_Ignores_Clock_Skew(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	h := newHarness(t)
	threadID := h.admitWithNurse(t)

	// Given the clock jumps back and forth between appends
	contents := []string{"one", "two", "three", "four", "five", "six", "seven"}
	for i, content := range contents {
		if i%2 == 1 {
			h.clock.Set(t0.Add(-time.Duration(i) * time.Hour))
		} else {
			h.clock.Set(t0.Add(time.Duration(i) * time.Hour))
		}
		_, err := h.service.SendMessage(ctx, threadID, nurse.ID, text(content))
		req.NoError(err)
	}

	// Then the log reads back in append order with gap-free seq
	messages := h.log(t, threadID)
	req.Len(messages, 2+len(contents))
	for i, m := range messages {
		req.Equal(uint64(i+1), m.Seq)
		if i > 0 {
			req.False(m.Timestamp.Before(messages[i-1].Timestamp))
		}
	}
	texts := lo.FilterMap(messages, func(m domain.Message, _ int) (string, bool) { return m.Content, !m.IsSystem() })
	req.Equal(contents, texts)

	// And the unread counter crosses pages correctly
	unread, err := h.service.UnreadCount(ctx, threadID, owner.ID)
	req.NoError(err)
	req.Equal(len(contents), unread)
}

func TestThreadService_Concurrent_Sends_Keep_Seq_Gap_Free(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	h := newHarness(t)
	threadID := h.admitWithNurse(t)

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			author := owner.ID
			if i%2 == 0 {
				author = nurse.ID
			}
			_, err := h.service.SendMessage(ctx, threadID, author, text("ping"))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		req.NoError(err)
	}

	seqs := lo.Map(h.log(t, threadID), func(m domain.Message, _ int) uint64 { return m.Seq })
	req.Len(seqs, 22)
	req.True(slices.IsSorted(seqs))
	req.Equal(uint64(22), seqs[len(seqs)-1])
}

func TestThreadService_Owner_Protection(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	h := newHarness(t)
	threadID := h.admitWithNurse(t)

	for _, actor := range []domain.User{owner, nurse, visitor, admin, clerk} {
		err := h.service.RemoveMember(ctx, threadID, actor.ID, owner.ID)
		req.ErrorIs(err, errors.ErrCannotRemoveOwner, "actor %s", actor.ID)
	}
	req.ErrorIs(h.service.LeaveThread(ctx, threadID, owner.ID), errors.ErrCannotRemoveOwner)
	// An actor missing from the directory still hits the owner rule
	req.ErrorIs(h.service.RemoveMember(ctx, threadID, "ghost", owner.ID), errors.ErrCannotRemoveOwner)

	admission, err := h.service.GetAdmission(ctx, threadID)
	req.NoError(err)
	req.True(admission.HasMember(owner.ID))
}

func TestThreadService_Membership_Changes(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	h := newHarness(t)
	threadID := h.admitWithNurse(t)

	// A plain member cannot add someone
	req.ErrorIs(h.service.AddMember(ctx, threadID, nurse.ID, visitor.ID), errors.ErrPermissionDenied)
	// An unknown user cannot be added
	req.ErrorIs(h.service.AddMember(ctx, threadID, clerk.ID, "ghost"), errors.ErrUserNotFound)
	// An unknown actor holds no rights
	req.ErrorIs(h.service.AddMember(ctx, threadID, "ghost", visitor.ID), errors.ErrPermissionDenied)

	// A clerk adds u3, adding again is a no-op
	req.NoError(h.service.AddMember(ctx, threadID, clerk.ID, visitor.ID))
	req.NoError(h.service.AddMember(ctx, threadID, clerk.ID, visitor.ID))

	// u3 leaves, the owner removes u2
	req.NoError(h.service.LeaveThread(ctx, threadID, visitor.ID))
	req.NoError(h.service.RemoveMember(ctx, threadID, owner.ID, nurse.ID))

	admission, err := h.service.GetAdmission(ctx, threadID)
	req.NoError(err)
	req.Equal([]domain.UserID{owner.ID}, admission.Members)
	req.Equal([]event.Action{
		event.AdmissionCreated, event.MemberAdded, event.MemberAdded, event.MemberLeft, event.MemberRemoved,
	}, h.hook.actions())

	// Membership is frozen once discharged
	req.NoError(h.service.Discharge(ctx, threadID, owner.ID))
	req.ErrorIs(h.service.AddMember(ctx, threadID, owner.ID, nurse.ID), errors.ErrThreadClosed)
}

func TestThreadService_Delete_Message(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	h := newHarness(t)
	threadID := h.admitWithNurse(t)
	msg, err := h.service.SendMessage(ctx, threadID, nurse.ID, text("wrong chart"))
	req.NoError(err)

	// Only the sender or an admin may delete
	req.ErrorIs(h.service.DeleteMessage(ctx, threadID, msg.ID, owner.ID), errors.ErrPermissionDenied)
	req.ErrorIs(h.service.DeleteMessage(ctx, threadID, uuid.New(), nurse.ID), errors.ErrMessageNotFound)

	// The thread is discharged, deletion still works and is idempotent
	req.NoError(h.service.Discharge(ctx, threadID, owner.ID))
	req.NoError(h.service.DeleteMessage(ctx, threadID, msg.ID, admin.ID))
	req.NoError(h.service.DeleteMessage(ctx, threadID, msg.ID, nurse.ID))

	stored, err := h.repository.GetMessage(ctx, threadID, msg.ID)
	req.NoError(err)
	req.True(stored.Deleted)
	req.Empty(stored.Content)
	req.Equal(msg.Seq, stored.Seq)
	req.Equal(1, lo.Count(h.hook.actions(), event.MessageDeleted))

	// A tombstone is never unread
	unread, err := h.service.UnreadCount(ctx, threadID, owner.ID)
	req.NoError(err)
	req.Zero(unread)
}

func TestThreadService_Removed_Sender_Deletes_Own_Message(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	h := newHarness(t)
	threadID := h.admitWithNurse(t)

	// Given a message from u2, who is then removed from the thread
	msg, err := h.service.SendMessage(ctx, threadID, nurse.ID, text("wrong patient"))
	req.NoError(err)
	req.NoError(h.service.RemoveMember(ctx, threadID, owner.ID, nurse.ID))

	// When u2 deletes it
	err = h.service.DeleteMessage(ctx, threadID, msg.ID, nurse.ID)

	// Then the message is tombstoned
	req.NoError(err)
	stored, err := h.repository.GetMessage(ctx, threadID, msg.ID)
	req.NoError(err)
	req.True(stored.Deleted)
	req.Empty(stored.Content)
	req.Equal(event.MessageDeleted, h.hook.actions()[len(h.hook.actions())-1])

	// A non-member who is not the sender still cannot delete
	req.ErrorIs(h.service.DeleteMessage(ctx, threadID, msg.ID, visitor.ID), errors.ErrPermissionDenied)
}

func TestThreadService_Search(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	h := newHarness(t)
	threadID := h.admitWithNurse(t)
	dose, err := h.service.SendMessage(ctx, threadID, nurse.ID, text("insulin dose given"))
	req.NoError(err)
	_, err = h.service.SendMessage(ctx, threadID, owner.ID, text("insulin pump checked"))
	req.NoError(err)

	// Members find both messages
	found, err := h.service.SearchMessages(ctx, threadID, owner.ID, "insulin", 10)
	req.NoError(err)
	req.Len(found, 2)

	// Non-members are rejected
	_, err = h.service.SearchMessages(ctx, threadID, visitor.ID, "insulin", 10)
	req.ErrorIs(err, errors.ErrPermissionDenied)

	// Deleted messages disappear from results
	req.NoError(h.service.DeleteMessage(ctx, threadID, dose.ID, nurse.ID))
	found, err = h.service.SearchMessages(ctx, threadID, owner.ID, "insulin", 10)
	req.NoError(err)
	req.Len(found, 1)
	req.NotEqual(dose.ID, found[0].ID)
}

func TestThreadService_ListMessages_Pages(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	h := newHarness(t)
	threadID := h.admitWithNurse(t)
	for _, content := range []string{"a", "b", "c"} {
		_, err := h.service.SendMessage(ctx, threadID, nurse.ID, text(content))
		req.NoError(err)
	}

	// Given 5 messages and a page size of 3, a larger limit is clamped
	page, next, err := h.service.ListMessages(ctx, threadID, owner.ID, 0, 50)
	req.NoError(err)
	req.Len(page, 3)
	req.NotNil(next)
	req.Equal(uint64(3), *next)

	page, next, err = h.service.ListMessages(ctx, threadID, owner.ID, *next, 50)
	req.NoError(err)
	req.Len(page, 2)
	req.Nil(next)

	_, _, err = h.service.ListMessages(ctx, threadID, visitor.ID, 0, 10)
	req.ErrorIs(err, errors.ErrPermissionDenied)
}

func TestThreadService_ListThreads_Roster(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	h := newHarness(t)

	// Given a quiet thread, then a busier one u1 has not read
	quiet := h.admitWithNurse(t)
	busy := h.admitWithNurse(t)
	for _, content := range []string{"a", "b"} {
		_, err := h.service.SendMessage(ctx, busy, nurse.ID, text(content))
		req.NoError(err)
	}
	// And a thread u1 is not part of
	foreign, err := h.service.CreateAdmission(ctx, visitor.ID, patient, domain.Appearance{})
	req.NoError(err)

	summaries, err := h.service.ListThreads(ctx, owner.ID)
	req.NoError(err)

	// Then unread first, then latest activity
	req.Equal([]domain.ThreadID{busy, foreign.ID, quiet}, lo.Map(summaries, func(s domain.ThreadSummary, _ int) domain.ThreadID {
		return s.Admission.ID
	}))
	req.Equal(2, summaries[0].Unread)
	req.False(summaries[1].IsMember)
	req.Zero(summaries[1].Unread)
}

func TestThreadService_Admission_Edit(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	h := newHarness(t)
	threadID := h.admitWithNurse(t)

	moved := patient
	moved.Room = "12"
	updated, err := h.service.UpdateAdmission(ctx, threadID, nurse.ID, moved, domain.Appearance{})
	req.NoError(err)
	req.Equal("12", updated.Patient.Room)

	_, err = h.service.UpdateAdmission(ctx, threadID, visitor.ID, moved, domain.Appearance{})
	req.ErrorIs(err, errors.ErrPermissionDenied)

	_, err = h.service.UpdateAdmission(ctx, threadID, owner.ID, domain.PatientDetails{}, domain.Appearance{})
	req.ErrorIs(err, errors.ErrInvalidAdmission)

	_, err = h.service.CreateAdmission(ctx, "ghost", patient, domain.Appearance{})
	req.ErrorIs(err, errors.ErrPermissionDenied)
}
