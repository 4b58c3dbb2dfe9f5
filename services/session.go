package services

import (
	"errors"
	"sync"
	"time"

	"drive-thru/models"
)

var ErrSessionNotFound = errors.New("session not found")

// Session is one customer conversation at a lane. It owns exactly one order.
type Session struct {
	ID        string
	StoreID   string
	LaneID    string
	TestMode  bool
	Order     models.Order
	CreatedAt time.Time
}

// sessionEntry pairs a session with the mutex that sequences its updates, so
// the lock exists exactly as long as the session does.
type sessionEntry struct {
	mu       sync.Mutex
	sess     Session // written under both mu and the store's mu
	lastSeen time.Time
	gone     bool // set under mu once the entry left the map
}

// SessionStore keeps live sessions in memory. Updates to one session are
// serialized; different sessions never wait on each other.
type SessionStore struct {
	mu      sync.RWMutex
	entries map[string]*sessionEntry
	now     func() time.Time
}

func NewSessionStore() *SessionStore {
	return &SessionStore{entries: make(map[string]*sessionEntry), now: time.Now}
}

func (s *SessionStore) entry(id string) (*sessionEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[id]
	return e, ok
}

// lockEntry locks the entry for id. Unknown ids and entries removed while
// waiting for the lock give ErrSessionNotFound without allocating anything.
func (s *SessionStore) lockEntry(id string) (*sessionEntry, error) {
	e, ok := s.entry(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	e.mu.Lock()
	if e.gone {
		e.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	return e, nil
}

func (s *SessionStore) Put(sess Session) {
	s.mu.Lock()
	s.entries[sess.ID] = &sessionEntry{sess: sess, lastSeen: s.now()}
	s.mu.Unlock()
}

func (s *SessionStore) Get(id string) (Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[id]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	return e.sess, nil
}

// Delete drops the session. It waits for an update in progress to finish.
func (s *SessionStore) Delete(id string) error {
	e, err := s.lockEntry(id)
	if err != nil {
		return err
	}
	defer e.mu.Unlock()
	s.remove(id, e)
	return nil
}

// remove takes e out of the map. The caller holds e.mu.
func (s *SessionStore) remove(id string, e *sessionEntry) {
	s.mu.Lock()
	if s.entries[id] == e {
		delete(s.entries, id)
	}
	s.mu.Unlock()
	e.gone = true
}

func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Update runs fn on a copy of the session while holding the session's lock
// and stores the copy only when fn returns nil. On error the stored session
// is returned unchanged.
func (s *SessionStore) Update(id string, fn func(sess *Session) error) (Session, error) {
	return s.update(id, fn, nil)
}

// update is Update with a hook that runs after the copy is stored and before
// the lock is released, so hooks on one session observe commits in order.
func (s *SessionStore) update(id string, fn func(sess *Session) error, committed func(Session)) (Session, error) {
	e, err := s.lockEntry(id)
	if err != nil {
		return Session{}, err
	}
	defer e.mu.Unlock()

	next := e.sess
	if err := fn(&next); err != nil {
		return e.sess, err
	}
	s.mu.Lock()
	e.sess = next
	s.mu.Unlock()
	e.lastSeen = s.now()
	if committed != nil {
		committed(next)
	}
	return next, nil
}

// Expire removes sessions with no update for longer than idle and returns
// their ids. Sessions busy with an update are skipped.
func (s *SessionStore) Expire(idle time.Duration) []string {
	cutoff := s.now().Add(-idle)

	s.mu.RLock()
	candidates := make(map[string]*sessionEntry)
	for id, e := range s.entries {
		candidates[id] = e
	}
	s.mu.RUnlock()

	var expired []string
	for id, e := range candidates {
		if !e.mu.TryLock() {
			continue
		}
		if !e.gone && e.lastSeen.Before(cutoff) {
			s.remove(id, e)
			expired = append(expired, id)
		}
		e.mu.Unlock()
	}
	return expired
}
