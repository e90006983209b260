package runtime

import (
	"care-thread/contract"
	"care-thread/domain"
	"sync"
)

type Set map[string]struct{}

// Registry tracks which live sessions follow which thread.
type Registry struct {
	mu             sync.RWMutex
	sessions       map[string]contract.EventSink // map session -> Sink
	threadSessions map[domain.ThreadID]Set       // map thread to sessions
}

func NewRegistry() *Registry {
	return &Registry{
		sessions:       make(map[string]contract.EventSink),
		threadSessions: make(map[domain.ThreadID]Set),
	}
}

// GetSinksForThread resolves the sessions following a thread into their sinks.
// Returns nil if nobody follows the thread.
func (r *Registry) GetSinksForThread(threadID domain.ThreadID) []contract.EventSink {
	r.mu.RLock()
	defer r.mu.RUnlock()

	followers, ok := r.threadSessions[threadID]
	if !ok {
		return nil
	}
	var activeSinks []contract.EventSink
	for sessionID := range followers {
		if sink, exists := r.sessions[sessionID]; exists {
			activeSinks = append(activeSinks, sink)
		}
	}
	return activeSinks
}

// Subscribe registers a session sink and attaches it to a thread.
// A session may follow several threads with the same sink.
func (r *Registry) Subscribe(sessionID string, threadID domain.ThreadID, sink contract.EventSink) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[sessionID] = sink

	if _, ok := r.threadSessions[threadID]; !ok {
		r.threadSessions[threadID] = make(Set)
	}
	r.threadSessions[threadID][sessionID] = struct{}{}
}

// Unsubscribe detaches a session from a thread. The session sink is dropped
// once it follows no thread anymore, and empty thread entries are removed.
func (r *Registry) Unsubscribe(sessionID string, threadID domain.ThreadID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if followers, ok := r.threadSessions[threadID]; ok {
		delete(followers, sessionID)
		if len(followers) == 0 {
			delete(r.threadSessions, threadID)
		}
	}

	for _, followers := range r.threadSessions {
		if _, ok := followers[sessionID]; ok {
			return
		}
	}
	delete(r.sessions, sessionID)
}
