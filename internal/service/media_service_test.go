package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/synergo-api/internal/dto"
	"github.com/noah-isme/synergo-api/internal/models"
	appErrors "github.com/noah-isme/synergo-api/pkg/errors"
)

func newMediaServiceForTest(repo *mediaRepoStub, queue *queueStub) *MediaService {
	var enqueuer jobEnqueuer
	if queue != nil {
		enqueuer = queue
	}
	svc := NewMediaService(repo, enqueuer, nil, nil, nil)
	svc.now = func() time.Time { return time.UnixMilli(1_000) }
	return svc
}

func TestMediaServiceCreateNormalises(t *testing.T) {
	repo := newMediaRepoStub()
	queue := &queueStub{}
	svc := newMediaServiceForTest(repo, queue)

	item, err := svc.Create(context.Background(), dto.CreateMediaRequest{
		Type:        "video",
		Title:       "  Jab drill ",
		Src:         "/resources/jab.mp4",
		Tags:        []string{" boxing_punch_jab ", "", "boxing_punch_jab", "guard"},
		Annotations: []dto.AnnotationRequest{{Time: 1.5, Label: " guard "}},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, item.ID)
	assert.Equal(t, "Jab drill", item.Title)
	assert.Equal(t, models.StringList{"boxing_punch_jab", "guard"}, item.Tags)
	assert.Equal(t, "guard", item.Annotations[0].Label)
	assert.Equal(t, models.DefaultFPS, item.FPS)
	assert.Equal(t, int64(1_000), item.AddedAt)
	assert.Equal(t, item.AddedAt, item.UpdatedAt)
	require.Len(t, queue.jobs, 1)
	assert.Equal(t, NomenclatureSyncJob, queue.jobs[0].Type)
	assert.Equal(t, NomenclatureSyncJob+":"+item.ID, queue.jobs[0].Key)
	assert.Equal(t, item.ID, queue.jobs[0].Payload)
}

func TestMediaServiceCreateRejectsInvalidPayload(t *testing.T) {
	svc := newMediaServiceForTest(newMediaRepoStub(), nil)

	_, err := svc.Create(context.Background(), dto.CreateMediaRequest{Type: "audio", Title: "x", Src: "y"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.Create(context.Background(), dto.CreateMediaRequest{
		Type: "video", Title: "x", Src: "y",
		Annotations: []dto.AnnotationRequest{{Time: -1, Label: "guard"}},
	})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.Create(context.Background(), dto.CreateMediaRequest{Type: "photo", Title: "   ", Src: "y"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestMediaServiceUpdateBumpsUpdatedAt(t *testing.T) {
	existing := video("m-1", "Jab", "jab")
	existing.UpdatedAt = 5_000
	repo := newMediaRepoStub(existing)
	svc := newMediaServiceForTest(repo, nil)

	tags := []string{"hook", "hook"}
	title := "Hook"
	item, err := svc.Update(context.Background(), "m-1", dto.UpdateMediaRequest{Title: &title, Tags: &tags})
	require.NoError(t, err)

	assert.Equal(t, "Hook", item.Title)
	assert.Equal(t, models.StringList{"hook"}, item.Tags)
	assert.Equal(t, int64(5_001), item.UpdatedAt)
	assert.Equal(t, "Hook", repo.items["m-1"].Title)
}

func TestMediaServiceUpdateAndDeleteMissing(t *testing.T) {
	svc := newMediaServiceForTest(newMediaRepoStub(), nil)

	_, err := svc.Update(context.Background(), "missing", dto.UpdateMediaRequest{})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	err = svc.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestMediaServiceListPaginates(t *testing.T) {
	repo := newMediaRepoStub(video("a", "A"), photo("b", "B"), video("c", "C"))
	svc := newMediaServiceForTest(repo, nil)

	items, page, hit, err := svc.List(context.Background(), dto.MediaListQuery{Type: "video", PageSize: 1, Page: 2})
	require.NoError(t, err)
	assert.False(t, hit)
	require.Len(t, items, 1)
	assert.Equal(t, "c", items[0].ID)
	assert.Equal(t, 2, page.TotalCount)
}

func TestMediaServiceSearchCombinesFilters(t *testing.T) {
	repo := newMediaRepoStub(
		video("1", "Jab basics", "boxing_punch_jab"),
		photo("2", "Jab photo", "boxing_punch_jab"),
		video("3", "Hook", "boxing_punch_hook"),
		video("4", "Low kick", "kickboxing_kick_low"),
	)
	svc := newMediaServiceForTest(repo, nil)

	items, err := svc.Search(context.Background(), dto.MediaSearchQuery{Type: "video", Category: "boxing"})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "3"}, mediaIDs(items))

	items, err = svc.Search(context.Background(), dto.MediaSearchQuery{Query: "jab"})
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "1"}, mediaIDs(items))

	items, err = svc.Search(context.Background(), dto.MediaSearchQuery{SimilarTo: "boxing_punch_hook", Limit: 2})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "3", items[0].ID)
}

func TestMediaServiceSearchPropagatesRepositoryErrors(t *testing.T) {
	repo := newMediaRepoStub()
	repo.err = errors.New("boom")
	svc := newMediaServiceForTest(repo, nil)

	_, err := svc.Search(context.Background(), dto.MediaSearchQuery{})
	assert.ErrorIs(t, err, appErrors.ErrInternal)
}

func TestMediaServiceCategoryTree(t *testing.T) {
	repo := newMediaRepoStub(video("1", "Jab", "boxing_punch_jab", "plain"), video("2", "Hook", "boxing_punch_hook"))
	svc := newMediaServiceForTest(repo, nil)

	tree, hit, err := svc.CategoryTree(context.Background())
	require.NoError(t, err)
	assert.False(t, hit)
	require.Len(t, tree, 1)
	assert.Equal(t, "boxing", tree[0].Key)
}

func TestMediaServiceNextNumber(t *testing.T) {
	repo := newMediaRepoStub()
	repo.numbers = map[string]string{"20240101_club_a_jab": "004"}
	svc := newMediaServiceForTest(repo, nil)

	res, err := svc.NextNumber(context.Background(), dto.NextNumberQuery{Date: "20240101", Source: "Club A", Subject: "Jab"})
	require.NoError(t, err)
	assert.Equal(t, "004", res.Number)
	assert.Equal(t, "20240101_club_a_jab_004", res.Filename)

	_, err = svc.NextNumber(context.Background(), dto.NextNumberQuery{Date: "2024", Source: "x", Subject: "y"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func mediaIDs(items []models.Media) []string {
	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	return ids
}

func TestRegisterValidationsAddsMediaTypeRule(t *testing.T) {
	v := validator.New()
	require.NoError(t, RegisterValidations(v))

	assert.NoError(t, v.Var("photo", "mediatype"))
	assert.NoError(t, v.Var("video", "mediatype"))
	assert.Error(t, v.Var("audio", "mediatype"))
}
