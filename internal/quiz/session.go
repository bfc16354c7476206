package quiz

import (
	"math"
	"time"

	appErrors "github.com/noah-isme/synergo-api/pkg/errors"
)

// State is the lifecycle position of a session.
type State string

const (
	StateInProgress State = "in_progress"
	StateCompleted  State = "completed"
)

// TypeScore accumulates answers for one question type.
type TypeScore struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

// AnswerRecord is one answered or skipped question.
type AnswerRecord struct {
	Question        Question `json:"question"`
	SelectedAnswers []string `json:"selected_answers"`
	IsCorrect       bool     `json:"is_correct"`
	Skipped         bool     `json:"skipped"`
}

// Result summarises a completed session.
type Result struct {
	Scores     map[QuestionType]TypeScore `json:"scores"`
	TotalScore int                        `json:"total_score"`
	Total      int                        `json:"total"`
	Answers    []AnswerRecord             `json:"answers"`
	Percentage int                        `json:"percentage"`
}

// Session walks a fixed deck one question at a time. Each question must be answered
// or skipped before Advance moves on; the session completes after the last one.
// The exported fields let the session round-trip through JSON between requests.
type Session struct {
	ID           string                     `json:"id"`
	Questions    []Question                 `json:"questions"`
	CurrentIndex int                        `json:"current_index"`
	Answered     bool                       `json:"answered"`
	State        State                      `json:"state"`
	Scores       map[QuestionType]TypeScore `json:"scores"`
	Answers      []AnswerRecord             `json:"answers"`
	StartedAt    int64                      `json:"started_at"`
	CompletedAt  int64                      `json:"completed_at,omitempty"`
}

// NewSession starts a session over questions. An empty deck is completed immediately.
func NewSession(id string, questions []Question) *Session {
	s := &Session{
		ID:        id,
		Questions: append([]Question(nil), questions...),
		State:     StateInProgress,
		Scores:    make(map[QuestionType]TypeScore, len(QuestionTypes)),
		Answers:   make([]AnswerRecord, 0, len(questions)),
		StartedAt: time.Now().UnixMilli(),
	}
	for _, t := range QuestionTypes {
		s.Scores[t] = TypeScore{}
	}
	if len(s.Questions) == 0 {
		s.complete()
	}
	return s
}

// Completed reports whether the session reached its terminal state.
func (s *Session) Completed() bool {
	return s.State == StateCompleted
}

// Current returns the question awaiting an answer.
func (s *Session) Current() (Question, error) {
	if s.Completed() {
		return Question{}, appErrors.Clone(appErrors.ErrSessionCompleted, "")
	}
	return s.Questions[s.CurrentIndex], nil
}

// Answer scores selection against the current question. Identification questions
// need the exact label set; text questions need the single correct string.
func (s *Session) Answer(selection []string) (AnswerRecord, error) {
	q, err := s.pending()
	if err != nil {
		return AnswerRecord{}, err
	}
	if len(selection) == 0 {
		return AnswerRecord{}, appErrors.Clone(appErrors.ErrInvalidSelection, "select at least one option or skip")
	}
	if !q.MultiSelect() && len(selection) > 1 {
		return AnswerRecord{}, appErrors.Clone(appErrors.ErrInvalidSelection, "this question accepts a single option")
	}
	for _, v := range selection {
		if !q.HasOption(v) {
			return AnswerRecord{}, appErrors.Clone(appErrors.ErrInvalidSelection, "selection is not one of the offered options")
		}
	}

	record := AnswerRecord{
		Question:        q,
		SelectedAnswers: append([]string(nil), selection...),
		IsCorrect:       q.IsCorrect(selection),
	}
	s.record(record)
	return record, nil
}

// Skip records the current question as missed and advances. The result is returned
// when the skipped question was the last one.
func (s *Session) Skip() (*Result, error) {
	q, err := s.pending()
	if err != nil {
		return nil, err
	}
	s.record(AnswerRecord{Question: q, SelectedAnswers: []string{}, Skipped: true})
	return s.Advance()
}

// Advance moves past an answered question. It returns the result once the deck is exhausted.
func (s *Session) Advance() (*Result, error) {
	if s.Completed() {
		return nil, appErrors.Clone(appErrors.ErrSessionCompleted, "")
	}
	if !s.Answered {
		return nil, appErrors.Clone(appErrors.ErrNotAnswered, "")
	}
	if s.CurrentIndex+1 < len(s.Questions) {
		s.CurrentIndex++
		s.Answered = false
		return nil, nil
	}
	s.complete()
	result := s.result()
	return &result, nil
}

// Result returns the summary of a completed session.
func (s *Session) Result() (Result, error) {
	if !s.Completed() {
		return Result{}, appErrors.Clone(appErrors.ErrSessionInProgress, "")
	}
	return s.result(), nil
}

// Validate checks a decoded session before it is used again.
func (s *Session) Validate() error {
	invalid := appErrors.Clone(appErrors.ErrInvalidQuestion, "stored quiz session is corrupted")
	switch s.State {
	case StateCompleted:
	case StateInProgress:
		if s.CurrentIndex < 0 || s.CurrentIndex >= len(s.Questions) {
			return invalid
		}
	default:
		return invalid
	}
	for _, q := range s.Questions {
		if err := q.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) pending() (Question, error) {
	q, err := s.Current()
	if err != nil {
		return Question{}, err
	}
	if s.Answered {
		return Question{}, appErrors.Clone(appErrors.ErrAlreadyAnswered, "")
	}
	return q, nil
}

func (s *Session) record(a AnswerRecord) {
	if s.Scores == nil {
		s.Scores = make(map[QuestionType]TypeScore, len(QuestionTypes))
	}
	score := s.Scores[a.Question.Type]
	score.Total++
	if a.IsCorrect {
		score.Correct++
	}
	s.Scores[a.Question.Type] = score
	s.Answers = append(s.Answers, a)
	s.Answered = true
}

func (s *Session) complete() {
	s.State = StateCompleted
	s.Answered = false
	s.CompletedAt = time.Now().UnixMilli()
}

func (s *Session) result() Result {
	scores := make(map[QuestionType]TypeScore, len(s.Scores))
	totalScore := 0
	for t, score := range s.Scores {
		scores[t] = score
		totalScore += score.Correct
	}
	total := len(s.Questions)
	percentage := 0
	if total > 0 {
		percentage = int(math.Round(100 * float64(totalScore) / float64(total)))
	}
	answers := make([]AnswerRecord, len(s.Answers))
	copy(answers, s.Answers)
	return Result{
		Scores:     scores,
		TotalScore: totalScore,
		Total:      total,
		Answers:    answers,
		Percentage: percentage,
	}
}
