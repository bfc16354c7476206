package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/synergo-api/internal/quiz"
	appErrors "github.com/noah-isme/synergo-api/pkg/errors"
)

const quizSessionKeyPrefix = "synergo:quiz:session:"

// QuizSessionRepository keeps quiz sessions in Redis between requests.
type QuizSessionRepository struct {
	cache *CacheRepository
	ttl   time.Duration
}

// NewQuizSessionRepository constructs the repository. Sessions expire after ttl of inactivity.
func NewQuizSessionRepository(client *redis.Client, ttl time.Duration) *QuizSessionRepository {
	return &QuizSessionRepository{cache: NewCacheRepository(client, nil), ttl: ttl}
}

// Save stores the session and refreshes its expiry.
func (r *QuizSessionRepository) Save(ctx context.Context, session *quiz.Session) error {
	if session == nil {
		return fmt.Errorf("save quiz session: nil session")
	}
	return r.cache.Set(ctx, quizSessionKey(session.ID), session, r.ttl)
}

// Get loads a session. Unknown or expired ids return appErrors.ErrNotFound.
func (r *QuizSessionRepository) Get(ctx context.Context, id string) (*quiz.Session, error) {
	var session quiz.Session
	if err := r.cache.Get(ctx, quizSessionKey(id), &session); err != nil {
		if errors.Is(err, appErrors.ErrCacheMiss) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "quiz session not found")
		}
		return nil, err
	}
	if err := session.Validate(); err != nil {
		return nil, fmt.Errorf("decode quiz session %s: %w", id, err)
	}
	return &session, nil
}

// Delete removes a session.
func (r *QuizSessionRepository) Delete(ctx context.Context, id string) error {
	return r.cache.Delete(ctx, quizSessionKey(id))
}

func quizSessionKey(id string) string {
	return quizSessionKeyPrefix + id
}
