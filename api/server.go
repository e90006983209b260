// Package api exposes the thread service over HTTP. Handlers decode and
// validate payloads, take the caller id from the verified token and map
// service failures to status codes. They hold no business rule.
package api

import (
	"care-thread/auth"
	"care-thread/contract"
	"care-thread/domain"
	"care-thread/errors"
	"care-thread/repositories"
	"care-thread/services"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

// Subscriptions attaches live sessions to threads.
type Subscriptions interface {
	Subscribe(sessionID string, threadID domain.ThreadID, sink contract.EventSink)
	Unsubscribe(sessionID string, threadID domain.ThreadID)
}

type Server struct {
	service       services.IThreadService
	users         repositories.IUserRepository
	audit         repositories.IAuditRepository
	subscriptions Subscriptions
	verifier      auth.Verifier
	log           *slog.Logger
	validate      *validator.Validate
	sessionBuffer int
	heartbeat     time.Duration
}

func NewServer(service services.IThreadService, users repositories.IUserRepository, audit repositories.IAuditRepository,
	subscriptions Subscriptions, verifier auth.Verifier, log *slog.Logger, sessionBuffer int) *Server {
	return &Server{
		service:       service,
		users:         users,
		audit:         audit,
		subscriptions: subscriptions,
		verifier:      verifier,
		log:           log,
		validate:      validator.New(),
		sessionBuffer: sessionBuffer,
		heartbeat:     15 * time.Second,
	}
}

// Router builds the route table. Everything under /api requires a bearer token.
func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/health", s.health).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()
	api.Use(auth.Middleware(s.verifier, s.log))

	api.HandleFunc("/users/{userId}", s.upsertUser).Methods(http.MethodPut)

	api.HandleFunc("/threads", s.listThreads).Methods(http.MethodGet)
	api.HandleFunc("/threads", s.createAdmission).Methods(http.MethodPost)
	api.HandleFunc("/threads/{threadId}", s.getAdmission).Methods(http.MethodGet)
	api.HandleFunc("/threads/{threadId}", s.updateAdmission).Methods(http.MethodPut)
	api.HandleFunc("/threads/{threadId}/discharge", s.discharge).Methods(http.MethodPost)
	api.HandleFunc("/threads/{threadId}/readmit", s.readmit).Methods(http.MethodPost)
	api.HandleFunc("/threads/{threadId}/unread", s.unreadCount).Methods(http.MethodGet)
	api.HandleFunc("/threads/{threadId}/search", s.searchMessages).Methods(http.MethodGet)
	api.HandleFunc("/threads/{threadId}/audit", s.listAudit).Methods(http.MethodGet)
	api.HandleFunc("/threads/{threadId}/events", s.stream).Methods(http.MethodGet)

	api.HandleFunc("/threads/{threadId}/messages", s.listMessages).Methods(http.MethodGet)
	api.HandleFunc("/threads/{threadId}/messages", s.sendMessage).Methods(http.MethodPost)
	api.HandleFunc("/threads/{threadId}/messages/{messageId}/read", s.markRead).Methods(http.MethodPost)
	api.HandleFunc("/threads/{threadId}/messages/{messageId}", s.deleteMessage).Methods(http.MethodDelete)

	api.HandleFunc("/threads/{threadId}/members", s.addMember).Methods(http.MethodPost)
	api.HandleFunc("/threads/{threadId}/members/{userId}", s.removeMember).Methods(http.MethodDelete)
	api.HandleFunc("/threads/{threadId}/leave", s.leave).Methods(http.MethodPost)
	return router
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// decode reads a JSON body into dst and runs the struct validator on it.
func (s *Server) decode(r *http.Request, dst any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidRequest, err)
	}
	if err := s.validate.Struct(dst); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidRequest, err)
	}
	return nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.Warn("Failed to encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.log.Error("Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	} else {
		s.log.Debug("Request rejected", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	s.writeJSON(w, status, errorResponse{Error: err.Error(), Reason: reasonFor(err)})
}

func caller(r *http.Request) (domain.UserID, error) {
	id, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		return "", errors.ErrUnauthenticated
	}
	return id, nil
}

func threadIDFrom(r *http.Request) domain.ThreadID {
	return domain.ThreadID(mux.Vars(r)["threadId"])
}
