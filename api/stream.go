package api

import (
	"care-thread/domain"
	"care-thread/domain/event"
	"care-thread/sink"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// stream pushes the thread's audit events to the caller as server-sent
// events. Clients refetch what they need through the regular endpoints.
// The stream ends when the caller leaves or is removed from the thread.
func (s *Server) stream(w http.ResponseWriter, r *http.Request) {
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
	flusher, ok := w.(http.Flusher)
	if !ok {
		s.writeError(w, r, fmt.Errorf("streaming unsupported"))
		return
	}

	sessionID := uuid.NewString()
	session := sink.NewChannelSink(s.sessionBuffer, s.log)
	s.subscriptions.Subscribe(sessionID, threadID, session)
	defer s.subscriptions.Unsubscribe(sessionID, threadID)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()
	s.log.Debug("Stream opened", "session", sessionID, "thread", threadID, "user", callerID)

	heartbeat := time.NewTicker(s.heartbeat)
	defer heartbeat.Stop()
	for {
		select {
		case <-r.Context().Done():
			s.log.Debug("Stream closed by client", "session", sessionID)
			return
		case <-heartbeat.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()
		case e := <-session.Events:
			evt, ok := e.(event.AuditEvent)
			if !ok {
				continue
			}
			data, err := json.Marshal(toAuditResponse(evt))
			if err != nil {
				s.log.Warn("Failed to encode stream event", "error", err)
				continue
			}
			if _, err := fmt.Fprintf(w, "id: %s\nevent: %s\ndata: %s\n\n", evt.ID, evt.Action, data); err != nil {
				return
			}
			flusher.Flush()
			if revokes(evt, callerID) {
				s.log.Debug("Stream closed, access revoked", "session", sessionID)
				return
			}
		}
	}
}

// revokes reports whether the event removes userID from the thread.
func revokes(evt event.AuditEvent, userID domain.UserID) bool {
	switch evt.Action {
	case event.MemberRemoved, event.MemberLeft:
		return evt.TargetID == string(userID)
	}
	return false
}
