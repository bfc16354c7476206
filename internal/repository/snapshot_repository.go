package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/synergo-api/internal/models"
)

// SnapshotRepository exports and replaces the whole store in one transaction.
type SnapshotRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewSnapshotRepository constructs the repository.
func NewSnapshotRepository(db *sqlx.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db, now: time.Now}
}

// Export reads every table into a snapshot.
func (r *SnapshotRepository) Export(ctx context.Context) (*models.DatabaseSnapshot, error) {
	snapshot := &models.DatabaseSnapshot{
		Media:         []models.Media{},
		Nomenclatures: []models.Nomenclature{},
		ReviewList:    []string{},
		QuizList:      []string{},
		ExportedAt:    r.now().UnixMilli(),
	}
	if err := r.db.SelectContext(ctx, &snapshot.Media, `SELECT `+mediaColumns+` FROM media ORDER BY added_at ASC, id ASC`); err != nil {
		return nil, fmt.Errorf("export media: %w", err)
	}
	if err := r.db.SelectContext(ctx, &snapshot.Nomenclatures, `SELECT `+nomenclatureColumns+` FROM nomenclatures ORDER BY label ASC`); err != nil {
		return nil, fmt.Errorf("export nomenclatures: %w", err)
	}
	if err := r.db.SelectContext(ctx, &snapshot.ReviewList, `SELECT media_id FROM review_list ORDER BY added_at ASC, media_id ASC`); err != nil {
		return nil, fmt.Errorf("export review list: %w", err)
	}
	if err := r.db.SelectContext(ctx, &snapshot.QuizList, `SELECT media_id FROM quiz_list ORDER BY added_at ASC, media_id ASC`); err != nil {
		return nil, fmt.Errorf("export quiz list: %w", err)
	}
	return snapshot, nil
}

// Import replaces the store content with the snapshot. Worklist ids that reference
// unknown media are skipped; list order is kept by assigning increasing timestamps.
func (r *SnapshotRepository) Import(ctx context.Context, snapshot *models.DatabaseSnapshot) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin import tx: %w", err)
	}
	if err := r.clear(ctx, tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	known := make(map[string]bool, len(snapshot.Media))
	const insertMedia = `INSERT INTO media (` + mediaColumns + `)
VALUES (:id, :type, :title, :description, :src, :tags, :annotations, :fps, :added_at, :updated_at, :source, :publication_date)`
	for _, item := range snapshot.Media {
		if _, err := tx.NamedExecContext(ctx, insertMedia, item); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("import media %s: %w", item.ID, err)
		}
		known[item.ID] = true
	}

	const insertNomenclature = `INSERT INTO nomenclatures (` + nomenclatureColumns + `)
VALUES (:id, :label, :description, :interpretation) ON CONFLICT DO NOTHING`
	for _, n := range snapshot.Nomenclatures {
		if _, err := tx.NamedExecContext(ctx, insertNomenclature, n); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("import nomenclature %s: %w", n.ID, err)
		}
	}

	base := r.now().UnixMilli()
	lists := []struct {
		kind models.WorklistKind
		ids  []string
	}{
		{models.WorklistReview, snapshot.ReviewList},
		{models.WorklistQuiz, snapshot.QuizList},
	}
	for _, list := range lists {
		query := `INSERT INTO ` + list.kind.Table() + ` (media_id, added_at) VALUES (:media_id, :added_at) ON CONFLICT DO NOTHING`
		for i, id := range list.ids {
			if !known[id] {
				continue
			}
			entry := models.WorklistEntry{MediaID: id, AddedAt: base + int64(i)}
			if _, err := tx.NamedExecContext(ctx, query, entry); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("import %s worklist: %w", list.kind, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit import tx: %w", err)
	}
	return nil
}

// Reset deletes every row.
func (r *SnapshotRepository) Reset(ctx context.Context) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin reset tx: %w", err)
	}
	if err := r.clear(ctx, tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit reset tx: %w", err)
	}
	return nil
}

func (r *SnapshotRepository) clear(ctx context.Context, tx *sqlx.Tx) error {
	for _, table := range []string{"review_list", "quiz_list", "media", "nomenclatures"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}
