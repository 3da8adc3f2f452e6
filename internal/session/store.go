package session

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Store keeps one session per user. Sessions idle for longer than the ttl, or
// pushed out by newer users once the store is full, are dropped as if reset.
type Store struct {
	cache *expirable.LRU[int64, *Session]
}

func NewStore(size int, ttl time.Duration) *Store {
	return &Store{cache: expirable.NewLRU[int64, *Session](size, nil, ttl)}
}

// Get returns the user's session, creating an idle one if needed. Every call
// extends the session's lifetime.
func (s *Store) Get(userID int64) *Session {
	sess, ok := s.cache.Get(userID)
	if !ok {
		sess = New(userID)
	}
	s.cache.Add(userID, sess)
	return sess
}

// Peek returns the session without creating or touching it.
func (s *Store) Peek(userID int64) (*Session, bool) {
	return s.cache.Peek(userID)
}

// Clear forgets the user's session.
func (s *Store) Clear(userID int64) {
	s.cache.Remove(userID)
}

func (s *Store) Len() int {
	return s.cache.Len()
}
