package api

import (
	"care-thread/domain"
	"care-thread/errors"
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/samber/lo"
)

// upsertUser mirrors an identity provider entry into the directory.
// Only admins may change roles.
func (s *Server) upsertUser(w http.ResponseWriter, r *http.Request) {
	callerID, err := caller(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	actor, err := s.users.GetUser(r.Context(), callerID)
	if err != nil || actor.Role != domain.RoleAdmin {
		s.writeError(w, r, errors.ErrPermissionDenied)
		return
	}
	var body userRequest
	if err := s.decode(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	user := domain.User{
		ID:          domain.UserID(mux.Vars(r)["userId"]),
		Role:        domain.Role(body.Role),
		DisplayName: body.DisplayName,
	}
	if err := s.users.UpsertUser(r.Context(), user); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listThreads(w http.ResponseWriter, r *http.Request) {
	callerID, err := caller(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	summaries, err := s.service.ListThreads(r.Context(), callerID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, lo.Map(summaries, func(summary domain.ThreadSummary, _ int) summaryResponse {
		return toSummaryResponse(summary)
	}))
}

func (s *Server) createAdmission(w http.ResponseWriter, r *http.Request) {
	callerID, err := caller(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var body admissionRequest
	if err := s.decode(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	admission, err := s.service.CreateAdmission(r.Context(), callerID, body.Patient.toDomain(), body.Appearance.toDomain())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, toAdmissionResponse(admission))
}

func (s *Server) getAdmission(w http.ResponseWriter, r *http.Request) {
	callerID, err := caller(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	admission, err := s.service.GetAdmission(r.Context(), threadIDFrom(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toSummaryResponse(domain.ThreadSummary{
		Admission: admission,
		IsMember:  domain.CanAccess(callerID, admission),
	}).Admission)
}

func (s *Server) updateAdmission(w http.ResponseWriter, r *http.Request) {
	callerID, err := caller(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var body admissionRequest
	if err := s.decode(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	admission, err := s.service.UpdateAdmission(r.Context(), threadIDFrom(r), callerID,
		body.Patient.toDomain(), body.Appearance.toDomain())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toAdmissionResponse(admission))
}

func (s *Server) discharge(w http.ResponseWriter, r *http.Request) {
	s.threadAction(w, r, s.service.Discharge)
}

func (s *Server) readmit(w http.ResponseWriter, r *http.Request) {
	s.threadAction(w, r, s.service.Readmit)
}

func (s *Server) leave(w http.ResponseWriter, r *http.Request) {
	s.threadAction(w, r, s.service.LeaveThread)
}

type threadActionFunc = func(ctx context.Context, threadID domain.ThreadID, userID domain.UserID) error

func (s *Server) threadAction(w http.ResponseWriter, r *http.Request, action threadActionFunc) {
	callerID, err := caller(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := action(r.Context(), threadIDFrom(r), callerID); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) unreadCount(w http.ResponseWriter, r *http.Request) {
	callerID, err := caller(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	count, err := s.service.UnreadCount(r.Context(), threadIDFrom(r), callerID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]int{"unread": count})
}

func (s *Server) listMessages(w http.ResponseWriter, r *http.Request) {
	callerID, err := caller(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	after, limit, err := pagination(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	messages, next, err := s.service.ListMessages(r.Context(), threadIDFrom(r), callerID, after, limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, pageResponse{
		Messages: lo.Map(messages, func(m domain.Message, _ int) messageResponse { return toMessageResponse(m) }),
		Next:     next,
	})
}

func (s *Server) sendMessage(w http.ResponseWriter, r *http.Request) {
	callerID, err := caller(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var body messageRequest
	if err := s.decode(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	msg, err := s.service.SendMessage(r.Context(), threadIDFrom(r), callerID, body.toDomain())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, toMessageResponse(msg))
}

func (s *Server) markRead(w http.ResponseWriter, r *http.Request) {
	s.messageAction(w, r, s.service.MarkMessageRead)
}

func (s *Server) deleteMessage(w http.ResponseWriter, r *http.Request) {
	s.messageAction(w, r, s.service.DeleteMessage)
}

type messageActionFunc = func(ctx context.Context, threadID domain.ThreadID, messageID uuid.UUID, userID domain.UserID) error

func (s *Server) messageAction(w http.ResponseWriter, r *http.Request, action messageActionFunc) {
	callerID, err := caller(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	messageID, err := uuid.Parse(mux.Vars(r)["messageId"])
	if err != nil {
		s.writeError(w, r, errors.ErrMessageNotFound)
		return
	}
	if err := action(r.Context(), threadIDFrom(r), messageID, callerID); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) addMember(w http.ResponseWriter, r *http.Request) {
	callerID, err := caller(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var body memberRequest
	if err := s.decode(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.service.AddMember(r.Context(), threadIDFrom(r), callerID, domain.UserID(body.UserID)); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) removeMember(w http.ResponseWriter, r *http.Request) {
	callerID, err := caller(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	target := domain.UserID(mux.Vars(r)["userId"])
	if err := s.service.RemoveMember(r.Context(), threadIDFrom(r), callerID, target); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) searchMessages(w http.ResponseWriter, r *http.Request) {
	callerID, err := caller(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	text := r.URL.Query().Get("q")
	if text == "" {
		s.writeError(w, r, fmt.Errorf("%w: missing q parameter", errors.ErrInvalidRequest))
		return
	}
	_, limit, err := pagination(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	messages, err := s.service.SearchMessages(r.Context(), threadIDFrom(r), callerID, text, limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, lo.Map(messages, func(m domain.Message, _ int) messageResponse { return toMessageResponse(m) }))
}

// listAudit reads the persisted audit trail of a thread, newest first.
func (s *Server) listAudit(w http.ResponseWriter, r *http.Request) {
	callerID, err := caller(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	threadID := threadIDFrom(r)
	if err := s.service.CheckAccess(r.Context(), threadID, callerID); err != nil {
		s.writeError(w, r, err)
		return
	}
	var cursor *string
	if c := r.URL.Query().Get("cursor"); c != "" {
		cursor = &c
	}
	events, next, err := s.audit.GetEvents(r.Context(), threadID, cursor)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	page := auditPageResponse{Events: make([]auditResponse, 0, len(events))}
	for _, e := range events {
		page.Events = append(page.Events, toAuditResponse(e))
	}
	if len(events) > 0 {
		page.Cursor = next
	}
	s.writeJSON(w, http.StatusOK, page)
}

func pagination(r *http.Request) (uint64, int, error) {
	query := r.URL.Query()
	var after uint64
	var limit int
	var err error
	if v := query.Get("after"); v != "" {
		if after, err = strconv.ParseUint(v, 10, 64); err != nil {
			return 0, 0, fmt.Errorf("%w: invalid after parameter", errors.ErrInvalidRequest)
		}
	}
	if v := query.Get("limit"); v != "" {
		if limit, err = strconv.Atoi(v); err != nil || limit < 0 {
			return 0, 0, fmt.Errorf("%w: invalid limit parameter", errors.ErrInvalidRequest)
		}
	}
	return after, limit, nil
}
