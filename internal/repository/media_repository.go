package repository

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/synergo-api/internal/models"
)

const mediaColumns = `id, type, title, description, src, tags, annotations, fps, added_at, updated_at, source, publication_date`

var resourceNumberPattern = regexp.MustCompile(`_(\d{3})\.[^.]+$`)

// MediaRepository persists catalogued resources.
type MediaRepository struct {
	db *sqlx.DB
}

// NewMediaRepository constructs the repository.
func NewMediaRepository(db *sqlx.DB) *MediaRepository {
	return &MediaRepository{db: db}
}

// List returns a page of media, most recently updated first, and the total count.
func (r *MediaRepository) List(ctx context.Context, filter models.MediaFilter) ([]models.Media, int, error) {
	where := ""
	args := []interface{}{}
	if filter.Type != "" {
		where = " WHERE type = ?"
		args = append(args, string(filter.Type))
	}

	var total int
	if err := r.db.GetContext(ctx, &total, r.db.Rebind(`SELECT COUNT(*) FROM media`+where), args...); err != nil {
		return nil, 0, fmt.Errorf("count media: %w", err)
	}

	page, size := filter.Page, filter.PageSize
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 50
	}
	query := `SELECT ` + mediaColumns + ` FROM media` + where + ` ORDER BY updated_at DESC, id ASC LIMIT ? OFFSET ?`
	args = append(args, size, (page-1)*size)

	var items []models.Media
	if err := r.db.SelectContext(ctx, &items, r.db.Rebind(query), args...); err != nil {
		return nil, 0, fmt.Errorf("list media: %w", err)
	}
	return items, total, nil
}

// ListAll returns every media item, most recently updated first.
func (r *MediaRepository) ListAll(ctx context.Context) ([]models.Media, error) {
	var items []models.Media
	if err := r.db.SelectContext(ctx, &items, `SELECT `+mediaColumns+` FROM media ORDER BY updated_at DESC, id ASC`); err != nil {
		return nil, fmt.Errorf("list all media: %w", err)
	}
	return items, nil
}

// FindByID fetches a single media item.
func (r *MediaRepository) FindByID(ctx context.Context, id string) (*models.Media, error) {
	var item models.Media
	if err := r.db.GetContext(ctx, &item, r.db.Rebind(`SELECT `+mediaColumns+` FROM media WHERE id = ?`), id); err != nil {
		return nil, err
	}
	return &item, nil
}

// ExistingIDs returns the subset of ids present in the store.
func (r *MediaRepository) ExistingIDs(ctx context.Context, ids []string) (map[string]bool, error) {
	found := make(map[string]bool, len(ids))
	if len(ids) == 0 {
		return found, nil
	}
	query, args, err := sqlx.In(`SELECT id FROM media WHERE id IN (?)`, ids)
	if err != nil {
		return nil, fmt.Errorf("build media id lookup: %w", err)
	}
	var rows []string
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("lookup media ids: %w", err)
	}
	for _, id := range rows {
		found[id] = true
	}
	return found, nil
}

// Create inserts a media item.
func (r *MediaRepository) Create(ctx context.Context, item *models.Media) error {
	const query = `INSERT INTO media (` + mediaColumns + `)
VALUES (:id, :type, :title, :description, :src, :tags, :annotations, :fps, :added_at, :updated_at, :source, :publication_date)`
	if _, err := r.db.NamedExecContext(ctx, query, item); err != nil {
		return fmt.Errorf("insert media: %w", err)
	}
	return nil
}

// Update overwrites the mutable fields of a media item.
func (r *MediaRepository) Update(ctx context.Context, item *models.Media) error {
	const query = `UPDATE media SET type = :type, title = :title, description = :description, src = :src,
tags = :tags, annotations = :annotations, fps = :fps, updated_at = :updated_at,
source = :source, publication_date = :publication_date
WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, item)
	if err != nil {
		return fmt.Errorf("update media: %w", err)
	}
	return expectAffected(res)
}

// Delete removes a media item together with its worklist memberships.
func (r *MediaRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete media tx: %w", err)
	}
	for _, kind := range []models.WorklistKind{models.WorklistReview, models.WorklistQuiz} {
		if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM `+kind.Table()+` WHERE media_id = ?`), id); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("delete %s membership: %w", kind, err)
		}
	}
	res, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM media WHERE id = ?`), id)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("delete media: %w", err)
	}
	if err := expectAffected(res); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete media tx: %w", err)
	}
	return nil
}

// NextResourceNumber returns the next three digit sequence for resource files named
// <date>_<source>_<subject>_NNN.<ext>.
func (r *MediaRepository) NextResourceNumber(ctx context.Context, datePrefix, source, subject string) (string, error) {
	prefix := strings.Join([]string{datePrefix, source, subject}, "_") + "_"
	var sources []string
	query := r.db.Rebind(`SELECT src FROM media WHERE src LIKE ? ORDER BY src DESC`)
	if err := r.db.SelectContext(ctx, &sources, query, prefix+"%"); err != nil {
		return "", fmt.Errorf("list resource numbers: %w", err)
	}
	highest := 0
	for _, src := range sources {
		if !strings.HasPrefix(src, prefix) {
			continue
		}
		match := resourceNumberPattern.FindStringSubmatch(src)
		if match == nil {
			continue
		}
		if n, err := strconv.Atoi(match[1]); err == nil && n > highest {
			highest = n
		}
	}
	return fmt.Sprintf("%03d", highest+1), nil
}

func expectAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
