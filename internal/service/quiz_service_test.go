package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/synergo-api/internal/dto"
	"github.com/noah-isme/synergo-api/internal/models"
	"github.com/noah-isme/synergo-api/internal/quiz"
	appErrors "github.com/noah-isme/synergo-api/pkg/errors"
)

func newQuizServiceForTest(t *testing.T, listed ...models.Media) (*QuizService, *MetricsService) {
	t.Helper()
	mediaRepo := newMediaRepoStub(listed...)
	worklists := newWorklistRepoStub(mediaRepo)
	for i, m := range listed {
		_, err := worklists.Add(context.Background(), models.WorklistQuiz, models.WorklistEntry{MediaID: m.ID, AddedAt: int64(i)})
		require.NoError(t, err)
	}
	noms := &nomenclatureRepoStub{items: []models.Nomenclature{
		{ID: "n-1", Label: "foo"}, {ID: "n-2", Label: "bar"}, {ID: "n-3", Label: "baz"}, {ID: "n-4", Label: "qux"},
	}}
	metrics := NewMetricsService()
	svc := NewQuizService(worklists, noms, nil, quiz.NewGenerator(quiz.NewSeededRand(7)), metrics, nil, nil, QuizConfig{DefaultQuestions: 5})
	return svc, metrics
}

func TestQuizServiceCapacity(t *testing.T) {
	svc, _ := newQuizServiceForTest(t, video("m-1", "Foo clip", "foo"))

	capacity, err := svc.Capacity(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, capacity.Capacity)
	assert.Equal(t, 1, capacity.QuizListSize)
	assert.Equal(t, 5, capacity.DefaultCount)
	assert.Equal(t, 100, capacity.MaxCount)
}

func TestQuizServiceStartWithEmptyListFails(t *testing.T) {
	svc, _ := newQuizServiceForTest(t)

	_, err := svc.Start(context.Background(), dto.StartQuizRequest{})
	assert.ErrorIs(t, err, appErrors.ErrEmptyDeck)
}

func TestQuizServiceFullSession(t *testing.T) {
	svc, metrics := newQuizServiceForTest(t, video("m-1", "Foo clip", "foo"))
	ctx := context.Background()

	view, err := svc.Start(ctx, dto.StartQuizRequest{Count: 3})
	require.NoError(t, err)
	assert.Equal(t, quiz.StateInProgress, view.State)
	assert.Equal(t, 1, view.Total)
	require.NotNil(t, view.Current)
	assert.Equal(t, quiz.TypeIdentification, view.Current.Type)
	assert.True(t, view.Current.MultiSelect)
	assert.Empty(t, view.Current.Media.Tags)
	assert.Contains(t, view.Current.Options, "foo")

	_, err = svc.Answer(ctx, view.ID, dto.AnswerQuizRequest{Selection: []string{"nope"}})
	assert.ErrorIs(t, err, appErrors.ErrInvalidSelection)

	_, err = svc.Advance(ctx, view.ID)
	assert.ErrorIs(t, err, appErrors.ErrNotAnswered)

	_, err = svc.Result(ctx, view.ID)
	assert.ErrorIs(t, err, appErrors.ErrSessionInProgress)

	answer, err := svc.Answer(ctx, view.ID, dto.AnswerQuizRequest{Selection: []string{"foo"}})
	require.NoError(t, err)
	assert.True(t, answer.IsCorrect)
	assert.Equal(t, []string{"foo"}, answer.CorrectAnswers)
	require.NotNil(t, answer.Session.LastAnswer)

	_, err = svc.Answer(ctx, view.ID, dto.AnswerQuizRequest{Selection: []string{"foo"}})
	assert.ErrorIs(t, err, appErrors.ErrAlreadyAnswered)

	view, err = svc.Advance(ctx, view.ID)
	require.NoError(t, err)
	assert.Equal(t, quiz.StateCompleted, view.State)
	require.NotNil(t, view.Result)
	assert.Equal(t, 100, view.Result.Percentage)

	result, err := svc.Result(ctx, view.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, result.TotalScore)
	assert.Equal(t, 1, result.Scores[quiz.TypeIdentification].Correct)

	_, err = svc.Skip(ctx, view.ID)
	assert.ErrorIs(t, err, appErrors.ErrSessionCompleted)

	snapshot := metrics.Snapshot()
	assert.Equal(t, uint64(1), snapshot.QuizSessionsStarted)
	assert.Equal(t, uint64(1), snapshot.QuizSessionsCompleted)
	assert.Equal(t, uint64(1), snapshot.QuizAnswers)
}

func TestQuizServiceSkipLastQuestionCompletes(t *testing.T) {
	svc, _ := newQuizServiceForTest(t, video("m-1", "Foo clip", "foo"))
	ctx := context.Background()

	view, err := svc.Start(ctx, dto.StartQuizRequest{})
	require.NoError(t, err)

	view, err = svc.Skip(ctx, view.ID)
	require.NoError(t, err)
	assert.Equal(t, quiz.StateCompleted, view.State)
	require.NotNil(t, view.Result)
	assert.Equal(t, 0, view.Result.Percentage)
	require.Len(t, view.Result.Answers, 1)
	assert.True(t, view.Result.Answers[0].Skipped)
}

func TestQuizServiceAbandon(t *testing.T) {
	svc, _ := newQuizServiceForTest(t, video("m-1", "Foo clip", "foo"))
	ctx := context.Background()

	view, err := svc.Start(ctx, dto.StartQuizRequest{})
	require.NoError(t, err)

	require.NoError(t, svc.Abandon(ctx, view.ID))
	_, err = svc.Get(ctx, view.ID)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
	assert.ErrorIs(t, svc.Abandon(ctx, view.ID), appErrors.ErrNotFound)
}

func TestQuizServicePreviewKeepsAnswers(t *testing.T) {
	svc, _ := newQuizServiceForTest(t, video("m-1", "Foo clip", "foo"))

	deck, err := svc.Preview(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, deck, 1)
	assert.Equal(t, []string{"foo"}, deck[0].CorrectAnswers)
}

func TestSessionStoreExpiresAfterTTL(t *testing.T) {
	store := newSessionStore(time.Minute)
	current := time.Unix(0, 0)
	store.now = func() time.Time { return current }
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, quiz.NewSession("s-1", nil)))
	got, err := store.Get(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, quiz.StateCompleted, got.State)

	current = current.Add(2 * time.Minute)
	_, err = store.Get(ctx, "s-1")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}
