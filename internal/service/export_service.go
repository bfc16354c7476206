package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/synergo-api/internal/quiz"
	appErrors "github.com/noah-isme/synergo-api/pkg/errors"
	"github.com/noah-isme/synergo-api/pkg/export"
)

// Export formats.
const (
	FormatCSV = "csv"
	FormatPDF = "pdf"
)

var questionTypeLabels = map[quiz.QuestionType]string{
	quiz.TypeIdentification: "Identification",
	quiz.TypeDescription:    "Description",
	quiz.TypeInterpretation: "Interpretation",
}

// ExportFile is a rendered document.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService renders the vocabulary and quiz results as downloadable documents.
type ExportService struct {
	nomenclatures nomenclatureLister
	renderers     map[string]export.Exporter
	logger        *zap.Logger
	now           func() time.Time
}

// NewExportService constructs an ExportService with the CSV and PDF renderers.
func NewExportService(nomenclatures nomenclatureLister, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		nomenclatures: nomenclatures,
		renderers: map[string]export.Exporter{
			FormatCSV: export.NewCSVExporter(),
			FormatPDF: export.NewPDFExporter(),
		},
		logger: logger,
		now:    time.Now,
	}
}

// Nomenclatures renders the vocabulary glossary.
func (s *ExportService) Nomenclatures(ctx context.Context, format string) (*ExportFile, error) {
	items, err := s.nomenclatures.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list nomenclatures")
	}
	rows := make([]map[string]string, 0, len(items))
	for _, n := range items {
		rows = append(rows, map[string]string{
			"Label":          n.Label,
			"Description":    n.Description,
			"Interpretation": n.Interpretation,
		})
	}
	dataset := export.Dataset{
		Title: "Nomenclature glossary",
		Summary: []export.Field{
			{Label: "Entries", Value: fmt.Sprintf("%d", len(items))},
			{Label: "Generated", Value: s.now().UTC().Format(time.RFC3339)},
		},
		Headers: []string{"Label", "Description", "Interpretation"},
		Rows:    rows,
	}
	return s.render(dataset, format, "nomenclatures")
}

// QuizResult renders the answers of a completed session.
func (s *ExportService) QuizResult(ctx context.Context, sessionID string, result *quiz.Result) (*ExportFile, error) {
	if result == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "result is required")
	}
	summary := []export.Field{
		{Label: "Score", Value: fmt.Sprintf("%d / %d (%d%%)", result.TotalScore, result.Total, result.Percentage)},
	}
	for _, t := range quiz.QuestionTypes {
		score := result.Scores[t]
		if score.Total == 0 {
			continue
		}
		summary = append(summary, export.Field{Label: questionTypeLabels[t], Value: fmt.Sprintf("%d / %d", score.Correct, score.Total)})
	}

	rows := make([]map[string]string, 0, len(result.Answers))
	for i, answer := range result.Answers {
		verdict := "wrong"
		switch {
		case answer.Skipped:
			verdict = "skipped"
		case answer.IsCorrect:
			verdict = "correct"
		}
		rows = append(rows, map[string]string{
			"#":       fmt.Sprintf("%d", i+1),
			"Type":    string(answer.Question.Type),
			"Subject": questionSubject(answer.Question),
			"Answer":  strings.Join(answer.SelectedAnswers, ", "),
			"Correct": strings.Join(answer.Question.CorrectAnswers, ", "),
			"Result":  verdict,
		})
	}
	dataset := export.Dataset{
		Title:   "Quiz result",
		Summary: summary,
		Headers: []string{"#", "Type", "Subject", "Answer", "Correct", "Result"},
		Rows:    rows,
	}
	name := "quiz_result"
	if len(sessionID) >= 8 {
		name += "_" + sessionID[:8]
	}
	return s.render(dataset, FormatPDF, name)
}

func (s *ExportService) render(dataset export.Dataset, format, name string) (*ExportFile, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = FormatCSV
	}
	renderer, ok := s.renderers[format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported format %q", format))
	}
	data, err := renderer.Render(dataset)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	return &ExportFile{
		Filename:    fmt.Sprintf("%s_%s.%s", name, s.now().UTC().Format("20060102_150405"), renderer.Extension()),
		ContentType: renderer.ContentType(),
		Data:        data,
	}, nil
}

func questionSubject(q quiz.Question) string {
	switch {
	case q.Media != nil:
		return q.Media.Title
	case q.Nomenclature != nil:
		return q.Nomenclature.Label
	default:
		return ""
	}
}
