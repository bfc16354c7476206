package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/noah-isme/synergo-api/internal/quiz"
	appErrors "github.com/noah-isme/synergo-api/pkg/errors"
)

// sessionStore keeps quiz sessions in process memory when Redis is not configured.
// Sessions are stored as JSON so callers never share mutable state, and expire ttl
// after their last save.
type sessionStore struct {
	ttl   time.Duration
	now   func() time.Time
	mu    sync.RWMutex
	items map[string]storedSession
}

type storedSession struct {
	payload []byte
	savedAt time.Time
}

func newSessionStore(ttl time.Duration) *sessionStore {
	return &sessionStore{
		ttl:   ttl,
		now:   time.Now,
		items: make(map[string]storedSession),
	}
}

func (s *sessionStore) Save(_ context.Context, session *quiz.Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[session.ID] = storedSession{payload: payload, savedAt: s.now()}
	s.evictExpiredLocked()
	return nil
}

func (s *sessionStore) Get(_ context.Context, id string) (*quiz.Session, error) {
	s.mu.RLock()
	stored, ok := s.items[id]
	s.mu.RUnlock()
	if !ok || s.expired(stored) {
		if ok {
			_ = s.Delete(context.Background(), id)
		}
		return nil, appErrors.Clone(appErrors.ErrNotFound, "quiz session not found")
	}
	var session quiz.Session
	if err := json.Unmarshal(stored.payload, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *sessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.items, id)
	s.mu.Unlock()
	return nil
}

func (s *sessionStore) expired(stored storedSession) bool {
	return s.ttl > 0 && s.now().Sub(stored.savedAt) > s.ttl
}

func (s *sessionStore) evictExpiredLocked() {
	for id, stored := range s.items {
		if s.expired(stored) {
			delete(s.items, id)
		}
	}
}
