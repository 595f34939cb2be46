package mem

import (
	"sync"
	"time"
)

// RevokedTokenStore remembers signed-out session ids until their token
// would have expired anyway.
type RevokedTokenStore interface {
	Revoke(tokenID string, email string, until time.Time)

	// IsRevoked reports whether tokenID was revoked and is still tracked.
	IsRevoked(tokenID string) bool

	// Sweep drops entries whose tokens have expired and returns how many.
	Sweep() int
}

type entry struct {
	email     string
	expiresAt time.Time
}

type RevokedTokens struct {
	mu   sync.RWMutex
	data map[string]entry
	now  func() time.Time
}

func NewRevokedTokens() *RevokedTokens {
	return &RevokedTokens{
		data: make(map[string]entry),
		now:  time.Now,
	}
}

func (s *RevokedTokens) Revoke(tokenID string, email string, until time.Time) {
	if tokenID == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[tokenID] = entry{
		email:     email,
		expiresAt: until,
	}
}

func (s *RevokedTokens) IsRevoked(tokenID string) bool {
	s.mu.RLock()
	e, ok := s.data[tokenID]
	s.mu.RUnlock()
	if !ok {
		return false
	}
	if s.now().After(e.expiresAt) {
		// the token itself is expired now, validation rejects it anyway
		s.mu.Lock()
		delete(s.data, tokenID)
		s.mu.Unlock()
		return false
	}
	return true
}

func (s *RevokedTokens) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	n := 0
	for id, e := range s.data {
		if now.After(e.expiresAt) {
			delete(s.data, id)
			n++
		}
	}
	return n
}

func (s *RevokedTokens) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
