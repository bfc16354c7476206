package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/synergo-api/internal/models"
)

// WorklistRepository persists review and quiz list memberships.
type WorklistRepository struct {
	db *sqlx.DB
}

// NewWorklistRepository constructs the repository.
func NewWorklistRepository(db *sqlx.DB) *WorklistRepository {
	return &WorklistRepository{db: db}
}

// List returns the media of a worklist, most recently listed first.
func (r *WorklistRepository) List(ctx context.Context, kind models.WorklistKind) ([]models.WorklistItem, error) {
	query := `SELECT m.id, m.type, m.title, m.description, m.src, m.tags, m.annotations, m.fps,
m.added_at, m.updated_at, m.source, m.publication_date, l.added_at AS listed_at
FROM ` + kind.Table() + ` l
JOIN media m ON m.id = l.media_id
ORDER BY l.added_at DESC, m.id ASC`
	var items []models.WorklistItem
	if err := r.db.SelectContext(ctx, &items, query); err != nil {
		return nil, fmt.Errorf("list %s worklist: %w", kind, err)
	}
	return items, nil
}

// MediaIDs returns the ids in a worklist, most recently listed first.
func (r *WorklistRepository) MediaIDs(ctx context.Context, kind models.WorklistKind) ([]string, error) {
	var ids []string
	if err := r.db.SelectContext(ctx, &ids, `SELECT media_id FROM `+kind.Table()+` ORDER BY added_at DESC, media_id ASC`); err != nil {
		return nil, fmt.Errorf("list %s worklist ids: %w", kind, err)
	}
	return ids, nil
}

// Add inserts a membership and reports whether it was new.
func (r *WorklistRepository) Add(ctx context.Context, kind models.WorklistKind, entry models.WorklistEntry) (bool, error) {
	query := `INSERT INTO ` + kind.Table() + ` (media_id, added_at) VALUES (:media_id, :added_at) ON CONFLICT DO NOTHING`
	res, err := r.db.NamedExecContext(ctx, query, entry)
	if err != nil {
		return false, fmt.Errorf("add to %s worklist: %w", kind, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// Remove deletes a membership. Removing an absent item is not an error.
func (r *WorklistRepository) Remove(ctx context.Context, kind models.WorklistKind, mediaID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM `+kind.Table()+` WHERE media_id = ?`), mediaID)
	if err != nil {
		return false, fmt.Errorf("remove from %s worklist: %w", kind, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// Clear empties a worklist and returns how many entries were removed.
func (r *WorklistRepository) Clear(ctx context.Context, kind models.WorklistKind) (int, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM `+kind.Table())
	if err != nil {
		return 0, fmt.Errorf("clear %s worklist: %w", kind, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return int(affected), nil
}

// Contains reports whether mediaID is in the worklist.
func (r *WorklistRepository) Contains(ctx context.Context, kind models.WorklistKind, mediaID string) (bool, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, r.db.Rebind(`SELECT COUNT(*) FROM `+kind.Table()+` WHERE media_id = ?`), mediaID); err != nil {
		return false, fmt.Errorf("check %s worklist: %w", kind, err)
	}
	return count > 0, nil
}

// Count returns the size of a worklist.
func (r *WorklistRepository) Count(ctx context.Context, kind models.WorklistKind) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM `+kind.Table()); err != nil {
		return 0, fmt.Errorf("count %s worklist: %w", kind, err)
	}
	return count, nil
}
