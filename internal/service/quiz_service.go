package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/synergo-api/internal/dto"
	"github.com/noah-isme/synergo-api/internal/models"
	"github.com/noah-isme/synergo-api/internal/quiz"
	appErrors "github.com/noah-isme/synergo-api/pkg/errors"
)

// QuizSessionStore persists sessions between requests.
type QuizSessionStore interface {
	Save(ctx context.Context, session *quiz.Session) error
	Get(ctx context.Context, id string) (*quiz.Session, error)
	Delete(ctx context.Context, id string) error
}

type quizListReader interface {
	List(ctx context.Context, kind models.WorklistKind) ([]models.WorklistItem, error)
}

// QuizConfig tunes deck sizes and session lifetime.
type QuizConfig struct {
	DefaultQuestions int
	MaxQuestions     int
	SessionTTL       time.Duration
}

// QuizService builds decks from the quiz list and drives sessions.
type QuizService struct {
	worklists     quizListReader
	nomenclatures nomenclatureLister
	sessions      QuizSessionStore
	generator     *quiz.Generator
	metrics       *MetricsService
	validator     *validator.Validate
	logger        *zap.Logger
	cfg           QuizConfig
	mu            sync.Mutex
}

// NewQuizService constructs the service. A nil store keeps sessions in memory; a nil
// generator draws from the default random source.
func NewQuizService(worklists quizListReader, nomenclatures nomenclatureLister, sessions QuizSessionStore, generator *quiz.Generator, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, cfg QuizConfig) *QuizService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 2 * time.Hour
	}
	if cfg.DefaultQuestions <= 0 {
		cfg.DefaultQuestions = 10
	}
	if cfg.MaxQuestions <= 0 {
		cfg.MaxQuestions = 100
	}
	if sessions == nil {
		sessions = newSessionStore(cfg.SessionTTL)
	}
	if generator == nil {
		generator = quiz.NewGenerator(nil)
	}
	return &QuizService{
		worklists:     worklists,
		nomenclatures: nomenclatures,
		sessions:      sessions,
		generator:     generator,
		metrics:       metrics,
		validator:     validate,
		logger:        logger,
		cfg:           cfg,
	}
}

// Capacity reports how many questions the quiz list supports.
func (s *QuizService) Capacity(ctx context.Context) (*dto.QuizCapacity, error) {
	items, noms, err := s.inputs(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.QuizCapacity{
		Capacity:     quiz.Capacity(items, noms),
		QuizListSize: len(items),
		DefaultCount: s.cfg.DefaultQuestions,
		MaxCount:     s.cfg.MaxQuestions,
	}, nil
}

// Preview generates a deck with its answers without starting a session.
func (s *QuizService) Preview(ctx context.Context, count int) ([]quiz.Question, error) {
	deck, err := s.deck(ctx, count)
	if err != nil {
		return nil, err
	}
	return deck, nil
}

// Start generates a deck and opens a session over it.
func (s *QuizService) Start(ctx context.Context, req dto.StartQuizRequest) (*dto.QuizSessionView, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	deck, err := s.deck(ctx, req.Count)
	if err != nil {
		return nil, err
	}
	session := quiz.NewSession(uuid.NewString(), deck)
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store quiz session")
	}
	s.metrics.RecordQuizSession(QuizEventStarted)
	s.logger.Info("quiz session started", zap.String("session_id", session.ID), zap.Int("questions", len(deck)))
	view := sessionView(session)
	return &view, nil
}

// Get returns the current state of a session.
func (s *QuizService) Get(ctx context.Context, id string) (*dto.QuizSessionView, error) {
	session, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	view := sessionView(session)
	return &view, nil
}

// Answer scores the selection for the current question.
func (s *QuizService) Answer(ctx context.Context, id string, req dto.AnswerQuizRequest) (*dto.QuizAnswerResponse, error) {
	var record quiz.AnswerRecord
	session, err := s.mutate(ctx, id, func(session *quiz.Session) error {
		var err error
		record, err = session.Answer(req.Selection)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.metrics.RecordQuizAnswer(string(record.Question.Type), record.IsCorrect, false)
	return &dto.QuizAnswerResponse{
		IsCorrect:      record.IsCorrect,
		CorrectAnswers: record.Question.CorrectAnswers,
		Session:        sessionView(session),
	}, nil
}

// Skip records the current question as missed and moves on.
func (s *QuizService) Skip(ctx context.Context, id string) (*dto.QuizSessionView, error) {
	var skipped quiz.QuestionType
	session, err := s.mutate(ctx, id, func(session *quiz.Session) error {
		current, err := session.Current()
		if err != nil {
			return err
		}
		skipped = current.Type
		_, err = session.Skip()
		return err
	})
	if err != nil {
		return nil, err
	}
	s.metrics.RecordQuizAnswer(string(skipped), false, true)
	view := sessionView(session)
	return &view, nil
}

// Advance moves past an answered question.
func (s *QuizService) Advance(ctx context.Context, id string) (*dto.QuizSessionView, error) {
	session, err := s.mutate(ctx, id, func(session *quiz.Session) error {
		_, err := session.Advance()
		return err
	})
	if err != nil {
		return nil, err
	}
	view := sessionView(session)
	return &view, nil
}

// Result returns the summary of a completed session.
func (s *QuizService) Result(ctx context.Context, id string) (*quiz.Result, error) {
	session, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	result, err := session.Result()
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Abandon discards a session.
func (s *QuizService) Abandon(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := s.sessions.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete quiz session")
	}
	if !session.Completed() {
		s.metrics.RecordQuizSession(QuizEventAbandoned)
	}
	return nil
}

// mutate loads a session, applies fn and saves it back. Sessions are updated one at a time.
func (s *QuizService) mutate(ctx context.Context, id string, fn func(*quiz.Session) error) (*quiz.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	wasCompleted := session.Completed()
	if err := fn(session); err != nil {
		return nil, err
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store quiz session")
	}
	if !wasCompleted && session.Completed() {
		s.metrics.RecordQuizSession(QuizEventCompleted)
		if result, err := session.Result(); err == nil {
			s.metrics.ObserveQuizScore(result.Percentage)
			s.logger.Info("quiz session completed", zap.String("session_id", id), zap.Int("percentage", result.Percentage))
		}
	}
	return session, nil
}

func (s *QuizService) load(ctx context.Context, id string) (*quiz.Session, error) {
	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		if errors.Is(err, appErrors.ErrNotFound) {
			return nil, err
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load quiz session")
	}
	return session, nil
}

func (s *QuizService) deck(ctx context.Context, count int) ([]quiz.Question, error) {
	if count <= 0 {
		count = s.cfg.DefaultQuestions
	}
	if count > s.cfg.MaxQuestions {
		count = s.cfg.MaxQuestions
	}
	items, noms, err := s.inputs(ctx)
	if err != nil {
		return nil, err
	}
	deck := s.generator.Generate(items, noms, count)
	if len(deck) == 0 {
		return nil, appErrors.Clone(appErrors.ErrEmptyDeck, "")
	}
	return deck, nil
}

func (s *QuizService) inputs(ctx context.Context) ([]models.Media, []models.Nomenclature, error) {
	listed, err := s.worklists.List(ctx, models.WorklistQuiz)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load quiz list")
	}
	items := make([]models.Media, len(listed))
	for i, l := range listed {
		items[i] = l.Media
	}
	noms, err := s.nomenclatures.List(ctx)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list nomenclatures")
	}
	return items, noms, nil
}

// sessionView hides the answers of the pending question.
func sessionView(session *quiz.Session) dto.QuizSessionView {
	view := dto.QuizSessionView{
		ID:           session.ID,
		State:        session.State,
		CurrentIndex: session.CurrentIndex,
		Total:        len(session.Questions),
		Answered:     session.Answered,
		Scores:       session.Scores,
	}
	if current, err := session.Current(); err == nil {
		q := questionView(current)
		view.Current = &q
	}
	if session.Answered && len(session.Answers) > 0 {
		last := session.Answers[len(session.Answers)-1]
		view.LastAnswer = &last
	}
	if result, err := session.Result(); err == nil {
		view.Result = &result
	}
	return view
}

// questionView renders a question without its correct answers. Tags and annotations
// of the shown media are the answers of identification questions and are dropped.
func questionView(q quiz.Question) dto.QuestionView {
	view := dto.QuestionView{
		ID:          q.ID,
		Type:        q.Type,
		MultiSelect: q.MultiSelect(),
		Options:     q.Options,
	}
	if q.Media != nil {
		media := *q.Media
		media.Tags = models.StringList{}
		media.Annotations = models.AnnotationList{}
		view.Media = &media
	}
	switch q.Type {
	case quiz.TypeIdentification:
		view.Prompt = "Select every label that applies to this resource"
	case quiz.TypeDescription:
		view.Prompt = fmt.Sprintf("Which description matches %q?", q.Nomenclature.Label)
	case quiz.TypeInterpretation:
		view.Prompt = fmt.Sprintf("Which interpretation matches %q?", q.Nomenclature.Label)
	}
	return view
}
