package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/synergo-api/internal/dto"
	"github.com/noah-isme/synergo-api/internal/models"
	appErrors "github.com/noah-isme/synergo-api/pkg/errors"
)

func newWorklistServiceForTest(media ...models.Media) (*WorklistService, *worklistRepoStub) {
	mediaRepo := newMediaRepoStub(media...)
	repo := newWorklistRepoStub(mediaRepo)
	svc := NewWorklistService(repo, mediaRepo, nil, nil, nil)
	tick := int64(0)
	svc.now = func() time.Time {
		tick += 10
		return time.UnixMilli(tick)
	}
	return svc, repo
}

func TestWorklistServiceAddIsIdempotent(t *testing.T) {
	svc, _ := newWorklistServiceForTest(video("m-1", "Jab"))

	res, err := svc.Add(context.Background(), models.WorklistQuiz, dto.AddWorklistRequest{MediaID: "m-1"})
	require.NoError(t, err)
	assert.True(t, res.Added)

	res, err = svc.Add(context.Background(), models.WorklistQuiz, dto.AddWorklistRequest{MediaID: "m-1"})
	require.NoError(t, err)
	assert.False(t, res.Added)

	items, err := svc.List(context.Background(), models.WorklistQuiz)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestWorklistServiceRejectsUnknownMediaAndKind(t *testing.T) {
	svc, _ := newWorklistServiceForTest()

	_, err := svc.Add(context.Background(), models.WorklistReview, dto.AddWorklistRequest{MediaID: "ghost"})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	_, err = svc.List(context.Background(), models.WorklistKind("favourites"))
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestWorklistServiceBulkAddReportsEachID(t *testing.T) {
	svc, _ := newWorklistServiceForTest(video("a", "A"), video("b", "B"), video("c", "C"))

	_, err := svc.Add(context.Background(), models.WorklistReview, dto.AddWorklistRequest{MediaID: "b"})
	require.NoError(t, err)

	result, err := svc.BulkAdd(context.Background(), models.WorklistReview, dto.BulkAddWorklistRequest{
		MediaIDs: []string{"a", "b", "ghost", "a", "c"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, result.Added)
	assert.Equal(t, []string{"b"}, result.Existing)
	assert.Equal(t, []string{"ghost"}, result.Missing)

	items, err := svc.List(context.Background(), models.WorklistReview)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "c", items[0].ID)
}

func TestWorklistServiceBulkAddLimit(t *testing.T) {
	svc, _ := newWorklistServiceForTest()
	ids := make([]string, models.MaxBulkWorklistAdd+1)
	for i := range ids {
		ids[i] = "id"
	}

	_, err := svc.BulkAdd(context.Background(), models.WorklistQuiz, dto.BulkAddWorklistRequest{MediaIDs: ids})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestWorklistServiceRemoveAndClear(t *testing.T) {
	svc, _ := newWorklistServiceForTest(video("a", "A"), video("b", "B"))
	for _, id := range []string{"a", "b"} {
		_, err := svc.Add(context.Background(), models.WorklistQuiz, dto.AddWorklistRequest{MediaID: id})
		require.NoError(t, err)
	}

	require.NoError(t, svc.Remove(context.Background(), models.WorklistQuiz, "a"))
	assert.ErrorIs(t, svc.Remove(context.Background(), models.WorklistQuiz, "a"), appErrors.ErrNotFound)

	cleared, err := svc.Clear(context.Background(), models.WorklistQuiz)
	require.NoError(t, err)
	assert.Equal(t, 1, cleared.Removed)
}
