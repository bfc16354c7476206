package service

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/noah-isme/synergo-api/internal/models"
	"github.com/noah-isme/synergo-api/pkg/jobs"
)

type mediaRepoStub struct {
	items   map[string]models.Media
	order   []string
	numbers map[string]string
	err     error
}

func newMediaRepoStub(items ...models.Media) *mediaRepoStub {
	repo := &mediaRepoStub{items: map[string]models.Media{}}
	for _, item := range items {
		repo.items[item.ID] = item
		repo.order = append(repo.order, item.ID)
	}
	return repo
}

func (r *mediaRepoStub) List(ctx context.Context, filter models.MediaFilter) ([]models.Media, int, error) {
	all, err := r.ListAll(ctx)
	if err != nil {
		return nil, 0, err
	}
	var filtered []models.Media
	for _, item := range all {
		if filter.Type == "" || item.Type == filter.Type {
			filtered = append(filtered, item)
		}
	}
	start := (filter.Page - 1) * filter.PageSize
	if start > len(filtered) {
		start = len(filtered)
	}
	end := start + filter.PageSize
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[start:end], len(filtered), nil
}

func (r *mediaRepoStub) ListAll(ctx context.Context) ([]models.Media, error) {
	if r.err != nil {
		return nil, r.err
	}
	result := make([]models.Media, 0, len(r.order))
	for _, id := range r.order {
		result = append(result, r.items[id])
	}
	return result, nil
}

func (r *mediaRepoStub) FindByID(ctx context.Context, id string) (*models.Media, error) {
	if r.err != nil {
		return nil, r.err
	}
	item, ok := r.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &item, nil
}

func (r *mediaRepoStub) ExistingIDs(ctx context.Context, ids []string) (map[string]bool, error) {
	found := map[string]bool{}
	for _, id := range ids {
		if _, ok := r.items[id]; ok {
			found[id] = true
		}
	}
	return found, r.err
}

func (r *mediaRepoStub) Create(ctx context.Context, item *models.Media) error {
	if r.err != nil {
		return r.err
	}
	r.items[item.ID] = *item
	r.order = append(r.order, item.ID)
	return nil
}

func (r *mediaRepoStub) Update(ctx context.Context, item *models.Media) error {
	if r.err != nil {
		return r.err
	}
	if _, ok := r.items[item.ID]; !ok {
		return sql.ErrNoRows
	}
	r.items[item.ID] = *item
	return nil
}

func (r *mediaRepoStub) Delete(ctx context.Context, id string) error {
	if r.err != nil {
		return r.err
	}
	if _, ok := r.items[id]; !ok {
		return sql.ErrNoRows
	}
	delete(r.items, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *mediaRepoStub) NextResourceNumber(ctx context.Context, datePrefix, source, subject string) (string, error) {
	if n, ok := r.numbers[datePrefix+"_"+source+"_"+subject]; ok {
		return n, nil
	}
	return "001", r.err
}

type nomenclatureRepoStub struct {
	items []models.Nomenclature
	err   error
}

func (r *nomenclatureRepoStub) List(ctx context.Context) ([]models.Nomenclature, error) {
	if r.err != nil {
		return nil, r.err
	}
	result := append([]models.Nomenclature(nil), r.items...)
	sort.SliceStable(result, func(i, j int) bool { return result[i].Label < result[j].Label })
	return result, nil
}

func (r *nomenclatureRepoStub) FindByID(ctx context.Context, id string) (*models.Nomenclature, error) {
	for _, n := range r.items {
		if n.ID == id {
			item := n
			return &item, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r *nomenclatureRepoStub) ExistsByLabel(ctx context.Context, label, excludeID string) (bool, error) {
	for _, n := range r.items {
		if strings.EqualFold(n.Label, label) && n.ID != excludeID {
			return true, nil
		}
	}
	return false, r.err
}

func (r *nomenclatureRepoStub) Create(ctx context.Context, item *models.Nomenclature) error {
	if r.err != nil {
		return r.err
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	r.items = append(r.items, *item)
	return nil
}

func (r *nomenclatureRepoStub) Update(ctx context.Context, item *models.Nomenclature) error {
	for i, n := range r.items {
		if n.ID == item.ID {
			r.items[i] = *item
			return nil
		}
	}
	return sql.ErrNoRows
}

func (r *nomenclatureRepoStub) Delete(ctx context.Context, id string) error {
	for i, n := range r.items {
		if n.ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

func (r *nomenclatureRepoStub) InsertMissing(ctx context.Context, items []models.Nomenclature) (int, error) {
	if r.err != nil {
		return 0, r.err
	}
	added := 0
	for _, item := range items {
		exists, _ := r.ExistsByLabel(ctx, item.Label, "")
		if exists {
			continue
		}
		if item.ID == "" {
			item.ID = uuid.NewString()
		}
		r.items = append(r.items, item)
		added++
	}
	return added, nil
}

type worklistRepoStub struct {
	media   *mediaRepoStub
	entries map[models.WorklistKind][]models.WorklistEntry
	err     error
}

func newWorklistRepoStub(media *mediaRepoStub) *worklistRepoStub {
	return &worklistRepoStub{media: media, entries: map[models.WorklistKind][]models.WorklistEntry{}}
}

func (r *worklistRepoStub) List(ctx context.Context, kind models.WorklistKind) ([]models.WorklistItem, error) {
	if r.err != nil {
		return nil, r.err
	}
	entries := append([]models.WorklistEntry(nil), r.entries[kind]...)
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].AddedAt > entries[j].AddedAt })
	items := make([]models.WorklistItem, 0, len(entries))
	for _, e := range entries {
		if m, ok := r.media.items[e.MediaID]; ok {
			items = append(items, models.WorklistItem{Media: m, ListedAt: e.AddedAt})
		}
	}
	return items, nil
}

func (r *worklistRepoStub) Add(ctx context.Context, kind models.WorklistKind, entry models.WorklistEntry) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	for _, e := range r.entries[kind] {
		if e.MediaID == entry.MediaID {
			return false, nil
		}
	}
	r.entries[kind] = append(r.entries[kind], entry)
	return true, nil
}

func (r *worklistRepoStub) Remove(ctx context.Context, kind models.WorklistKind, mediaID string) (bool, error) {
	for i, e := range r.entries[kind] {
		if e.MediaID == mediaID {
			r.entries[kind] = append(r.entries[kind][:i], r.entries[kind][i+1:]...)
			return true, nil
		}
	}
	return false, r.err
}

func (r *worklistRepoStub) Clear(ctx context.Context, kind models.WorklistKind) (int, error) {
	n := len(r.entries[kind])
	r.entries[kind] = nil
	return n, r.err
}

func (r *worklistRepoStub) Count(ctx context.Context, kind models.WorklistKind) (int, error) {
	return len(r.entries[kind]), r.err
}

type queueStub struct {
	mu   sync.Mutex
	jobs []jobs.Job
	err  error
}

func (q *queueStub) Enqueue(job jobs.Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, job)
	return nil
}

func video(id, title string, tags ...string) models.Media {
	return models.Media{ID: id, Type: models.MediaTypeVideo, Title: title, Src: "/resources/" + id + ".mp4", Tags: tags, FPS: 30, AddedAt: 1, UpdatedAt: 1}
}

func photo(id, title string, tags ...string) models.Media {
	return models.Media{ID: id, Type: models.MediaTypePhoto, Title: title, Src: "/resources/" + id + ".jpg", Tags: tags, FPS: 30, AddedAt: 1, UpdatedAt: 1}
}
