//go:generate go run go.uber.org/mock/mockgen -source=thread_service.go -destination=../mocks/mock_thread_service.go -package=mocks
package services

import (
	"care-thread/contract"
	"care-thread/domain"
	"care-thread/domain/event"
	"care-thread/errors"
	"care-thread/repositories"
	"care-thread/search"
	"context"
	goerrors "errors"
	"fmt"
	"iter"
	"log/slog"
	"slices"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

type IThreadService interface {
	CreateAdmission(ctx context.Context, ownerID domain.UserID, patient domain.PatientDetails, appearance domain.Appearance) (domain.Admission, error)
	GetAdmission(ctx context.Context, threadID domain.ThreadID) (domain.Admission, error)
	UpdateAdmission(ctx context.Context, threadID domain.ThreadID, actorID domain.UserID, patient domain.PatientDetails, appearance domain.Appearance) (domain.Admission, error)
	SendMessage(ctx context.Context, threadID domain.ThreadID, authorID domain.UserID, draft domain.Draft) (domain.Message, error)
	MarkMessageRead(ctx context.Context, threadID domain.ThreadID, messageID uuid.UUID, userID domain.UserID) error
	DeleteMessage(ctx context.Context, threadID domain.ThreadID, messageID uuid.UUID, requestorID domain.UserID) error
	AddMember(ctx context.Context, threadID domain.ThreadID, actorID, newUserID domain.UserID) error
	RemoveMember(ctx context.Context, threadID domain.ThreadID, actorID, targetUserID domain.UserID) error
	LeaveThread(ctx context.Context, threadID domain.ThreadID, userID domain.UserID) error
	Discharge(ctx context.Context, threadID domain.ThreadID, actorID domain.UserID) error
	Readmit(ctx context.Context, threadID domain.ThreadID, actorID domain.UserID) error
	UnreadCount(ctx context.Context, threadID domain.ThreadID, userID domain.UserID) (int, error)
	ListMessages(ctx context.Context, threadID domain.ThreadID, userID domain.UserID, afterSeq uint64, limit int) ([]domain.Message, *uint64, error)
	ListFrom(ctx context.Context, threadID domain.ThreadID, userID domain.UserID, afterSeq uint64) iter.Seq2[domain.Message, error]
	ListThreads(ctx context.Context, userID domain.UserID) ([]domain.ThreadSummary, error)
	SearchMessages(ctx context.Context, threadID domain.ThreadID, userID domain.UserID, text string, limit int) ([]domain.Message, error)
	CheckAccess(ctx context.Context, threadID domain.ThreadID, userID domain.UserID) error
}

type Option func(*ThreadService)

// WithClock replaces the wall clock, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *ThreadService) { s.now = now }
}

func WithIDGenerator(newID func() uuid.UUID) Option {
	return func(s *ThreadService) { s.newID = newID }
}

// WithMaxContentLength caps text content below the hard draft limit.
func WithMaxContentLength(n int) Option {
	return func(s *ThreadService) { s.maxContentLength = n }
}

// ThreadService applies the pure domain transitions to a loaded thread,
// commits the result and only then reports it to the audit hook.
type ThreadService struct {
	repository       repositories.IThreadRepository
	users            repositories.IUserRepository
	audit            contract.AuditHook
	index            search.IMessageIndex
	log              *slog.Logger
	pageSize         int
	maxContentLength int
	now              func() time.Time
	newID            func() uuid.UUID
	locks            *threadLocks
}

func NewThreadService(repository repositories.IThreadRepository, users repositories.IUserRepository,
	audit contract.AuditHook, index search.IMessageIndex, log *slog.Logger, pageSize int, opts ...Option) *ThreadService {
	s := &ThreadService{
		repository: repository,
		users:      users,
		audit:      audit,
		index:      index,
		log:        log,
		pageSize:   pageSize,
		now:        time.Now,
		newID:      uuid.New,
		locks:      newThreadLocks(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.pageSize <= 0 {
		s.pageSize = 100
	}
	return s
}

func (s *ThreadService) CreateAdmission(ctx context.Context, ownerID domain.UserID,
	patient domain.PatientDetails, appearance domain.Appearance) (domain.Admission, error) {
	if _, err := s.actor(ctx, ownerID); err != nil {
		return domain.Admission{}, err
	}
	at := s.clock()
	threadID := domain.ThreadID(s.newID().String())
	admission, msg, err := domain.Admit(threadID, ownerID, patient, appearance, at, s.newID())
	if err != nil {
		return domain.Admission{}, err
	}
	if err := s.repository.Save(ctx, repositories.ThreadChange{Admission: admission, Messages: []domain.Message{msg}}); err != nil {
		return domain.Admission{}, err
	}
	s.record(ctx, ownerID, event.AdmissionCreated, threadID, string(threadID), at, map[string]string{
		"patient": admission.Patient.FullName(),
	})
	return admission, nil
}

// GetAdmission returns the admission metadata. Like the roster, it is
// visible to every known user.
func (s *ThreadService) GetAdmission(ctx context.Context, threadID domain.ThreadID) (domain.Admission, error) {
	return s.repository.GetAdmission(ctx, threadID)
}

// UpdateAdmission replaces patient details and appearance, last writer wins.
func (s *ThreadService) UpdateAdmission(ctx context.Context, threadID domain.ThreadID, actorID domain.UserID,
	patient domain.PatientDetails, appearance domain.Appearance) (domain.Admission, error) {
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return domain.Admission{}, err
	}
	unlock := s.locks.lock(threadID)
	defer unlock()

	admission, err := s.repository.GetAdmission(ctx, threadID)
	if err != nil {
		return domain.Admission{}, err
	}
	at := s.clock()
	next, err := domain.UpdateDetails(admission, actor, patient, appearance, at)
	if err != nil {
		return domain.Admission{}, err
	}
	if err := s.repository.Save(ctx, repositories.ThreadChange{Admission: next}); err != nil {
		return domain.Admission{}, err
	}
	s.record(ctx, actorID, event.AdmissionUpdated, threadID, string(threadID), at, nil)
	return next, nil
}

func (s *ThreadService) SendMessage(ctx context.Context, threadID domain.ThreadID, authorID domain.UserID,
	draft domain.Draft) (domain.Message, error) {
	unlock := s.locks.lock(threadID)
	defer unlock()

	admission, err := s.repository.GetAdmission(ctx, threadID)
	if err != nil {
		return domain.Message{}, err
	}
	if err := domain.CheckWrite(authorID, admission); err != nil {
		return domain.Message{}, err
	}
	if s.maxContentLength > 0 && len(draft.Content) > s.maxContentLength {
		return domain.Message{}, fmt.Errorf("%w: content longer than %d bytes", errors.ErrInvalidDraft, s.maxContentLength)
	}
	at := s.clock()
	next, msg, err := domain.Append(admission, authorID, draft, at, s.newID())
	if err != nil {
		return domain.Message{}, err
	}
	if err := s.repository.Save(ctx, repositories.ThreadChange{Admission: next, Messages: []domain.Message{msg}}); err != nil {
		return domain.Message{}, err
	}
	s.record(ctx, authorID, event.MessageSent, threadID, msg.ID.String(), at, map[string]string{
		"kind": string(msg.Kind),
		"seq":  strconv.FormatUint(msg.Seq, 10),
	})
	return msg, nil
}

// MarkMessageRead is idempotent: reading twice, or reading a system message
// or a tombstone, succeeds without any change. Non-members are rejected.
func (s *ThreadService) MarkMessageRead(ctx context.Context, threadID domain.ThreadID, messageID uuid.UUID,
	userID domain.UserID) error {
	unlock := s.locks.lock(threadID)
	defer unlock()

	admission, err := s.repository.GetAdmission(ctx, threadID)
	if err != nil {
		return err
	}
	if !domain.CanAccess(userID, admission) {
		return errors.ErrPermissionDenied
	}
	msg, err := s.repository.GetMessage(ctx, threadID, messageID)
	if err != nil {
		return err
	}
	next, changed := domain.MarkRead(admission, msg, userID)
	if !changed {
		return nil
	}
	if err := s.repository.Save(ctx, repositories.ThreadChange{Admission: admission, Messages: []domain.Message{next}}); err != nil {
		return err
	}
	s.record(ctx, userID, event.MessageRead, threadID, messageID.String(), s.clock(), nil)
	return nil
}

// DeleteMessage tombstones the message. Only the sender or an admin may
// delete, current membership is not required. Deletion stays possible on
// a discharged thread, it removes content but never adds any.
func (s *ThreadService) DeleteMessage(ctx context.Context, threadID domain.ThreadID, messageID uuid.UUID,
	requestorID domain.UserID) error {
	requestor, err := s.actor(ctx, requestorID)
	if err != nil {
		return err
	}
	unlock := s.locks.lock(threadID)
	defer unlock()

	admission, err := s.repository.GetAdmission(ctx, threadID)
	if err != nil {
		return err
	}
	msg, err := s.repository.GetMessage(ctx, threadID, messageID)
	if err != nil {
		return err
	}
	at := s.clock()
	next, changed, err := domain.Tombstone(msg, requestor, at)
	if err != nil || !changed {
		return err
	}
	if err := s.repository.Save(ctx, repositories.ThreadChange{Admission: admission, Messages: []domain.Message{next}}); err != nil {
		return err
	}
	s.record(ctx, requestorID, event.MessageDeleted, threadID, messageID.String(), at, map[string]string{
		"seq": strconv.FormatUint(next.Seq, 10),
	})
	return nil
}

func (s *ThreadService) AddMember(ctx context.Context, threadID domain.ThreadID, actorID, newUserID domain.UserID) error {
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return err
	}
	unlock := s.locks.lock(threadID)
	defer unlock()

	admission, err := s.repository.GetAdmission(ctx, threadID)
	if err != nil {
		return err
	}
	at := s.clock()
	next, messages, err := domain.AddMember(admission, actor, newUserID, at, s.newID())
	if err != nil || len(messages) == 0 {
		return err
	}
	if _, err := s.users.GetUser(ctx, newUserID); err != nil {
		return err
	}
	if err := s.repository.Save(ctx, repositories.ThreadChange{Admission: next, Messages: messages}); err != nil {
		return err
	}
	s.record(ctx, actorID, event.MemberAdded, threadID, string(newUserID), at, seqDetails(messages))
	return nil
}

func (s *ThreadService) RemoveMember(ctx context.Context, threadID domain.ThreadID, actorID, targetUserID domain.UserID) error {
	unlock := s.locks.lock(threadID)
	defer unlock()

	admission, err := s.repository.GetAdmission(ctx, threadID)
	if err != nil {
		return err
	}
	// The owner is protected whoever the actor is, even an unknown one.
	if targetUserID == admission.MainCareOwnerID {
		return errors.ErrCannotRemoveOwner
	}
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return err
	}
	at := s.clock()
	next, messages, err := domain.RemoveMember(admission, actor, targetUserID, at, s.newID())
	if err != nil || len(messages) == 0 {
		return err
	}
	if err := s.repository.Save(ctx, repositories.ThreadChange{Admission: next, Messages: messages}); err != nil {
		return err
	}
	action := event.MemberRemoved
	if actorID == targetUserID {
		action = event.MemberLeft
	}
	s.record(ctx, actorID, action, threadID, string(targetUserID), at, seqDetails(messages))
	return nil
}

// LeaveThread is a self removal. The owner cannot leave.
func (s *ThreadService) LeaveThread(ctx context.Context, threadID domain.ThreadID, userID domain.UserID) error {
	return s.RemoveMember(ctx, threadID, userID, userID)
}

// Discharge closes the thread. Discharging a discharged thread is a no-op.
func (s *ThreadService) Discharge(ctx context.Context, threadID domain.ThreadID, actorID domain.UserID) error {
	unlock := s.locks.lock(threadID)
	defer unlock()

	admission, err := s.repository.GetAdmission(ctx, threadID)
	if err != nil {
		return err
	}
	at := s.clock()
	next, msg, err := domain.Discharge(admission, actorID, at, s.newID())
	if goerrors.Is(err, errors.ErrInvalidTransition) {
		s.log.Debug("Thread already discharged", "thread", threadID)
		return nil
	}
	if err != nil {
		return err
	}
	if err := s.repository.Save(ctx, repositories.ThreadChange{Admission: next, Messages: []domain.Message{msg}}); err != nil {
		return err
	}
	s.record(ctx, actorID, event.AdmissionDischarged, threadID, string(threadID), at, seqDetails([]domain.Message{msg}))
	return nil
}

// Readmit reopens the thread. Readmitting an active thread is a no-op.
func (s *ThreadService) Readmit(ctx context.Context, threadID domain.ThreadID, actorID domain.UserID) error {
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return err
	}
	unlock := s.locks.lock(threadID)
	defer unlock()

	admission, err := s.repository.GetAdmission(ctx, threadID)
	if err != nil {
		return err
	}
	at := s.clock()
	next, msg, err := domain.Readmit(admission, actor, at, s.newID())
	if goerrors.Is(err, errors.ErrInvalidTransition) {
		s.log.Debug("Thread already active", "thread", threadID)
		return nil
	}
	if err != nil {
		return err
	}
	if err := s.repository.Save(ctx, repositories.ThreadChange{Admission: next, Messages: []domain.Message{msg}}); err != nil {
		return err
	}
	s.record(ctx, actorID, event.AdmissionReadmitted, threadID, string(threadID), at, seqDetails([]domain.Message{msg}))
	return nil
}

// UnreadCount is recomputed from the log on every call. Non-members get 0.
func (s *ThreadService) UnreadCount(ctx context.Context, threadID domain.ThreadID, userID domain.UserID) (int, error) {
	admission, err := s.repository.GetAdmission(ctx, threadID)
	if err != nil {
		return 0, err
	}
	return s.unread(ctx, admission, userID)
}

func (s *ThreadService) unread(ctx context.Context, admission domain.Admission, userID domain.UserID) (int, error) {
	if !domain.CanAccess(userID, admission) {
		return 0, nil
	}
	var scanErr error
	messages := func(yield func(domain.Message) bool) {
		for m, err := range s.scan(ctx, admission.ID, 0) {
			if err != nil {
				scanErr = err
				return
			}
			if !yield(m) {
				return
			}
		}
	}
	count := domain.UnreadCount(messages, userID)
	if scanErr != nil {
		return 0, scanErr
	}
	return count, nil
}

// ListMessages returns one page of the log after afterSeq, in seq order.
// The cursor is nil once the end of the log is reached.
func (s *ThreadService) ListMessages(ctx context.Context, threadID domain.ThreadID, userID domain.UserID,
	afterSeq uint64, limit int) ([]domain.Message, *uint64, error) {
	if err := s.CheckAccess(ctx, threadID, userID); err != nil {
		return nil, nil, err
	}
	if limit <= 0 || limit > s.pageSize {
		limit = s.pageSize
	}
	messages, err := s.repository.GetMessages(ctx, threadID, afterSeq, limit)
	if err != nil {
		return nil, nil, err
	}
	if len(messages) < limit {
		return messages, nil, nil
	}
	return messages, lo.ToPtr(messages[len(messages)-1].Seq), nil
}

// ListFrom streams the log lazily, one page at a time.
func (s *ThreadService) ListFrom(ctx context.Context, threadID domain.ThreadID, userID domain.UserID,
	afterSeq uint64) iter.Seq2[domain.Message, error] {
	return func(yield func(domain.Message, error) bool) {
		if err := s.CheckAccess(ctx, threadID, userID); err != nil {
			yield(domain.Message{}, err)
			return
		}
		for m, err := range s.scan(ctx, threadID, afterSeq) {
			if !yield(m, err) || err != nil {
				return
			}
		}
	}
}

func (s *ThreadService) scan(ctx context.Context, threadID domain.ThreadID, afterSeq uint64) iter.Seq2[domain.Message, error] {
	return func(yield func(domain.Message, error) bool) {
		cursor := afterSeq
		for {
			page, err := s.repository.GetMessages(ctx, threadID, cursor, s.pageSize)
			if err != nil {
				yield(domain.Message{}, err)
				return
			}
			for _, m := range page {
				if !yield(m, nil) {
					return
				}
			}
			if len(page) < s.pageSize {
				return
			}
			cursor = page[len(page)-1].Seq
		}
	}
}

// ListThreads is the roster: every admission, most unread first, then most
// recent activity first.
func (s *ThreadService) ListThreads(ctx context.Context, userID domain.UserID) ([]domain.ThreadSummary, error) {
	admissions, err := s.repository.ListAdmissions(ctx)
	if err != nil {
		return nil, err
	}
	summaries := make([]domain.ThreadSummary, 0, len(admissions))
	for _, a := range admissions {
		unread, err := s.unread(ctx, a, userID)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, domain.ThreadSummary{
			Admission: a,
			IsMember:  domain.CanAccess(userID, a),
			Unread:    unread,
		})
	}
	slices.SortStableFunc(summaries, func(x, y domain.ThreadSummary) int {
		if x.Unread != y.Unread {
			return y.Unread - x.Unread
		}
		return y.Admission.LastActivity.Compare(x.Admission.LastActivity)
	})
	return summaries, nil
}

// SearchMessages runs a full-text query on one thread. Hits the index has
// not caught up with yet, such as fresh tombstones, are filtered out.
func (s *ThreadService) SearchMessages(ctx context.Context, threadID domain.ThreadID, userID domain.UserID,
	text string, limit int) ([]domain.Message, error) {
	if err := s.CheckAccess(ctx, threadID, userID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > s.pageSize {
		limit = s.pageSize
	}
	hits, err := s.index.Search(ctx, threadID, text, limit)
	if err != nil {
		return nil, err
	}
	var messages []domain.Message
	for _, hit := range hits {
		m, err := s.repository.GetMessage(ctx, threadID, hit.MessageID)
		if goerrors.Is(err, errors.ErrMessageNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if !m.Deleted {
			messages = append(messages, m)
		}
	}
	return messages, nil
}

// CheckAccess fails with ErrPermissionDenied unless userID is a member.
// Transports call it before opening a live stream on the thread.
func (s *ThreadService) CheckAccess(ctx context.Context, threadID domain.ThreadID, userID domain.UserID) error {
	admission, err := s.repository.GetAdmission(ctx, threadID)
	if err != nil {
		return err
	}
	if !domain.CanAccess(userID, admission) {
		return errors.ErrPermissionDenied
	}
	return nil
}

// actor resolves a caller in the directory. Unknown callers hold no rights.
func (s *ThreadService) actor(ctx context.Context, id domain.UserID) (domain.User, error) {
	user, err := s.users.GetUser(ctx, id)
	if goerrors.Is(err, errors.ErrUserNotFound) {
		return domain.User{}, errors.ErrPermissionDenied
	}
	if err != nil {
		return domain.User{}, err
	}
	return user, nil
}

func (s *ThreadService) clock() time.Time {
	return s.now().UTC()
}

// record reports a committed mutation. The change is already durable, so
// a failing hook is logged and never turned into a caller error.
func (s *ThreadService) record(ctx context.Context, userID domain.UserID, action event.Action, threadID domain.ThreadID,
	targetID string, at time.Time, details map[string]string) {
	evt := event.AuditEvent{
		ID:       s.newID(),
		UserID:   userID,
		Action:   action,
		Thread:   threadID,
		TargetID: targetID,
		At:       at,
		Details:  details,
	}
	if err := s.audit.Record(ctx, evt); err != nil {
		s.log.Error("Audit event lost", "action", action, "thread", threadID, "error", err)
	}
}

func seqDetails(messages []domain.Message) map[string]string {
	if len(messages) == 0 {
		return nil
	}
	return map[string]string{"seq": strconv.FormatUint(messages[len(messages)-1].Seq, 10)}
}
