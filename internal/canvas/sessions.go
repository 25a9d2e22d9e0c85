package canvas

import (
	"log"
	"sync"
	"time"
)

// Session is the canvas of one signed-in user.
type Session struct {
	Editor *Editor
	Inbox  *Inbox

	lastSeen time.Time
}

// Sessions keeps one canvas per principal. A canvas nobody touched for idleTTL is dropped;
// a zero idleTTL keeps every canvas for the lifetime of the process.
type Sessions struct {
	mu        sync.Mutex
	boards    Boards
	logger    *log.Logger
	idleTTL   time.Duration
	lastSweep time.Time
	sessions  map[string]*Session
}

func NewSessions(boards Boards, logger *log.Logger, idleTTL time.Duration) *Sessions {
	if logger == nil {
		logger = log.Default()
	}
	return &Sessions{
		boards:   boards,
		logger:   logger,
		idleTTL:  idleTTL,
		sessions: make(map[string]*Session),
	}
}

// Get returns the session of principalID, creating it on first use.
func (s *Sessions) Get(principalID string) *Session {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.evictIdle(now)
	if sess, ok := s.sessions[principalID]; ok {
		sess.lastSeen = now
		return sess
	}
	inbox := NewInbox()
	sess := &Session{
		Editor:   NewEditor(principalID, s.boards, inbox, s.logger),
		Inbox:    inbox,
		lastSeen: now,
	}
	s.sessions[principalID] = sess
	return sess
}

// Len is the number of live sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// evictIdle drops idle sessions, at most once per quarter of idleTTL. Saves already
// running on a dropped editor still finish.
func (s *Sessions) evictIdle(now time.Time) {
	if s.idleTTL <= 0 || now.Sub(s.lastSweep) < s.idleTTL/4 {
		return
	}
	s.lastSweep = now
	for id, sess := range s.sessions {
		if now.Sub(sess.lastSeen) > s.idleTTL {
			delete(s.sessions, id)
			s.logger.Printf("🧹 dropped idle canvas of %s", id)
		}
	}
}
