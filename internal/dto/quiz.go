package dto

import (
	"github.com/noah-isme/synergo-api/internal/models"
	"github.com/noah-isme/synergo-api/internal/quiz"
)

// StartQuizRequest asks for a new session. Count falls back to the configured default.
type StartQuizRequest struct {
	Count int `json:"count" validate:"omitempty,min=1"`
}

// AnswerQuizRequest carries the selected options for the current question.
type AnswerQuizRequest struct {
	Selection []string `json:"selection"`
}

// QuizCapacity describes how many questions the current quiz list supports.
type QuizCapacity struct {
	Capacity     int `json:"capacity"`
	QuizListSize int `json:"quiz_list_size"`
	DefaultCount int `json:"default_count"`
	MaxCount     int `json:"max_count"`
}

// QuestionView is a question without its answers.
type QuestionView struct {
	ID          string            `json:"id"`
	Type        quiz.QuestionType `json:"type"`
	Prompt      string            `json:"prompt"`
	Media       *models.Media     `json:"media,omitempty"`
	MultiSelect bool              `json:"multi_select"`
	Options     []string          `json:"options"`
}

// QuizSessionView is the client facing state of a session.
type QuizSessionView struct {
	ID           string                               `json:"id"`
	State        quiz.State                           `json:"state"`
	CurrentIndex int                                  `json:"current_index"`
	Total        int                                  `json:"total"`
	Answered     bool                                 `json:"answered"`
	Current      *QuestionView                        `json:"current,omitempty"`
	LastAnswer   *quiz.AnswerRecord                   `json:"last_answer,omitempty"`
	Scores       map[quiz.QuestionType]quiz.TypeScore `json:"scores"`
	Result       *quiz.Result                         `json:"result,omitempty"`
}

// QuizAnswerResponse returns the verdict with the updated session.
type QuizAnswerResponse struct {
	IsCorrect      bool            `json:"is_correct"`
	CorrectAnswers []string        `json:"correct_answers"`
	Session        QuizSessionView `json:"session"`
}
