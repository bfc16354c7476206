package quiz

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/noah-isme/synergo-api/internal/models"
	appErrors "github.com/noah-isme/synergo-api/pkg/errors"
)

// QuestionType discriminates the three question variants.
type QuestionType string

const (
	// TypeIdentification shows a media item and asks for all of its tags.
	TypeIdentification QuestionType = "identification"
	// TypeDescription shows a label and asks for its description.
	TypeDescription QuestionType = "description"
	// TypeInterpretation shows a label and asks for its interpretation.
	TypeInterpretation QuestionType = "interpretation"
)

// QuestionTypes lists every variant in display order.
var QuestionTypes = []QuestionType{TypeIdentification, TypeDescription, TypeInterpretation}

// Valid reports whether t is a known variant.
func (t QuestionType) Valid() bool {
	return t == TypeIdentification || t == TypeDescription || t == TypeInterpretation
}

// Question is immutable once generated. Identification questions carry Media and
// accept several selections; description and interpretation questions carry
// Nomenclature and accept exactly one.
type Question struct {
	ID             string               `json:"id"`
	Type           QuestionType         `json:"type"`
	Media          *models.Media        `json:"media,omitempty"`
	Nomenclature   *models.Nomenclature `json:"nomenclature,omitempty"`
	CorrectAnswers []string             `json:"correct_answers"`
	Options        []string             `json:"options"`
}

// NewIdentificationQuestion asks which labels apply to media.
func NewIdentificationQuestion(media models.Media, correct, options []string) (Question, error) {
	m := media
	q := Question{
		ID:             uuid.NewString(),
		Type:           TypeIdentification,
		Media:          &m,
		CorrectAnswers: append([]string(nil), correct...),
		Options:        append([]string(nil), options...),
	}
	return q, q.Validate()
}

// NewTextQuestion asks for the description or interpretation of n.
func NewTextQuestion(t QuestionType, n models.Nomenclature, options []string) (Question, error) {
	if t != TypeDescription && t != TypeInterpretation {
		return Question{}, appErrors.Clone(appErrors.ErrInvalidQuestion, fmt.Sprintf("%s is not a text question", t))
	}
	nom := n
	q := Question{
		ID:             uuid.NewString(),
		Type:           t,
		Nomenclature:   &nom,
		CorrectAnswers: []string{expectedText(t, n)},
		Options:        append([]string(nil), options...),
	}
	return q, q.Validate()
}

// MultiSelect reports whether more than one option may be selected.
func (q Question) MultiSelect() bool {
	return q.Type == TypeIdentification
}

// Validate checks the variant invariants. It is used on freshly built and decoded questions.
func (q Question) Validate() error {
	invalid := func(msg string) error {
		return appErrors.Clone(appErrors.ErrInvalidQuestion, msg)
	}
	if q.ID == "" {
		return invalid("question id is required")
	}
	switch q.Type {
	case TypeIdentification:
		if q.Media == nil || q.Nomenclature != nil {
			return invalid("identification question must reference media only")
		}
		if len(q.CorrectAnswers) == 0 {
			return invalid("identification question needs at least one correct label")
		}
	case TypeDescription, TypeInterpretation:
		if q.Nomenclature == nil || q.Media != nil {
			return invalid(fmt.Sprintf("%s question must reference a nomenclature only", q.Type))
		}
		if len(q.CorrectAnswers) != 1 || q.CorrectAnswers[0] != expectedText(q.Type, *q.Nomenclature) {
			return invalid(fmt.Sprintf("%s question must have the nomenclature %s as its answer", q.Type, q.Type))
		}
		if strings.TrimSpace(q.CorrectAnswers[0]) == "" {
			return invalid(fmt.Sprintf("nomenclature %s is blank", q.Type))
		}
		if len(q.Options) < 2 {
			return invalid("text question needs distractors")
		}
	default:
		return invalid(fmt.Sprintf("unknown question type %q", q.Type))
	}

	seen := make(map[string]struct{}, len(q.Options))
	for _, o := range q.Options {
		if _, dup := seen[o]; dup {
			return invalid("options must be distinct")
		}
		seen[o] = struct{}{}
	}
	for _, c := range q.CorrectAnswers {
		if _, ok := seen[c]; !ok {
			return invalid("every correct answer must be offered as an option")
		}
	}
	return nil
}

// HasOption reports whether value is one of the offered options.
func (q Question) HasOption(value string) bool {
	for _, o := range q.Options {
		if o == value {
			return true
		}
	}
	return false
}

// IsCorrect scores a selection. Identification requires the exact set of correct
// labels regardless of order; text questions require the exact correct string.
func (q Question) IsCorrect(selection []string) bool {
	if !q.MultiSelect() {
		return len(selection) == 1 && len(q.CorrectAnswers) == 1 && selection[0] == q.CorrectAnswers[0]
	}
	want := toSet(q.CorrectAnswers)
	got := toSet(selection)
	if len(want) != len(got) {
		return false
	}
	for v := range got {
		if _, ok := want[v]; !ok {
			return false
		}
	}
	return true
}

func expectedText(t QuestionType, n models.Nomenclature) string {
	if t == TypeInterpretation {
		return n.Interpretation
	}
	return n.Description
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
