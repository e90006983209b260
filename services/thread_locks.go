package services

import (
	"care-thread/domain"
	"sync"
)

// threadLocks hands out one mutex per thread. Mutations of a thread are
// read-modify-commit sequences and must not interleave, otherwise two
// writers would compute the same next seq.
type threadLocks struct {
	mu    sync.Mutex
	locks map[domain.ThreadID]*refLock
}

type refLock struct {
	sync.Mutex
	refs int
}

func newThreadLocks() *threadLocks {
	return &threadLocks{locks: make(map[domain.ThreadID]*refLock)}
}

// lock blocks until the thread is free and returns the matching unlock.
func (t *threadLocks) lock(threadID domain.ThreadID) func() {
	t.mu.Lock()
	l, ok := t.locks[threadID]
	if !ok {
		l = &refLock{}
		t.locks[threadID] = l
	}
	l.refs++
	t.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		t.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(t.locks, threadID)
		}
		t.mu.Unlock()
	}
}
