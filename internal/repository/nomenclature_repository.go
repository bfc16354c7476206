package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/synergo-api/internal/models"
)

const nomenclatureColumns = `id, label, description, interpretation`

// NomenclatureRepository persists the controlled vocabulary. Labels are unique ignoring case.
type NomenclatureRepository struct {
	db *sqlx.DB
}

// NewNomenclatureRepository constructs the repository.
func NewNomenclatureRepository(db *sqlx.DB) *NomenclatureRepository {
	return &NomenclatureRepository{db: db}
}

// List returns the vocabulary ordered by label.
func (r *NomenclatureRepository) List(ctx context.Context) ([]models.Nomenclature, error) {
	var items []models.Nomenclature
	if err := r.db.SelectContext(ctx, &items, `SELECT `+nomenclatureColumns+` FROM nomenclatures ORDER BY label ASC`); err != nil {
		return nil, fmt.Errorf("list nomenclatures: %w", err)
	}
	return items, nil
}

// FindByID fetches a single entry.
func (r *NomenclatureRepository) FindByID(ctx context.Context, id string) (*models.Nomenclature, error) {
	var item models.Nomenclature
	if err := r.db.GetContext(ctx, &item, r.db.Rebind(`SELECT `+nomenclatureColumns+` FROM nomenclatures WHERE id = ?`), id); err != nil {
		return nil, err
	}
	return &item, nil
}

// FindByLabel fetches the entry whose label matches ignoring case.
func (r *NomenclatureRepository) FindByLabel(ctx context.Context, label string) (*models.Nomenclature, error) {
	var item models.Nomenclature
	query := r.db.Rebind(`SELECT ` + nomenclatureColumns + ` FROM nomenclatures WHERE LOWER(label) = LOWER(?)`)
	if err := r.db.GetContext(ctx, &item, query, label); err != nil {
		return nil, err
	}
	return &item, nil
}

// ExistsByLabel reports whether another entry already uses label, ignoring case.
func (r *NomenclatureRepository) ExistsByLabel(ctx context.Context, label, excludeID string) (bool, error) {
	var count int
	query := r.db.Rebind(`SELECT COUNT(*) FROM nomenclatures WHERE LOWER(label) = LOWER(?) AND id <> ?`)
	if err := r.db.GetContext(ctx, &count, query, label, excludeID); err != nil {
		return false, fmt.Errorf("check nomenclature label: %w", err)
	}
	return count > 0, nil
}

// Create inserts an entry, generating its id when empty.
func (r *NomenclatureRepository) Create(ctx context.Context, item *models.Nomenclature) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	const query = `INSERT INTO nomenclatures (` + nomenclatureColumns + `) VALUES (:id, :label, :description, :interpretation)`
	if _, err := r.db.NamedExecContext(ctx, query, item); err != nil {
		return fmt.Errorf("insert nomenclature: %w", err)
	}
	return nil
}

// InsertMissing inserts entries whose label is not stored yet and returns how many were added.
// Existing rows are never touched. An entry whose id is already taken by a row with another
// label, such as a renamed seed entry, is stored under a fresh id.
func (r *NomenclatureRepository) InsertMissing(ctx context.Context, items []models.Nomenclature) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin nomenclature sync tx: %w", err)
	}
	labelQuery := tx.Rebind(`SELECT COUNT(*) FROM nomenclatures WHERE LOWER(label) = LOWER(?)`)
	idQuery := tx.Rebind(`SELECT COUNT(*) FROM nomenclatures WHERE id = ?`)
	const insert = `INSERT INTO nomenclatures (` + nomenclatureColumns + `) VALUES (:id, :label, :description, :interpretation)`
	added := 0
	for i := range items {
		var count int
		if err := tx.GetContext(ctx, &count, labelQuery, items[i].Label); err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("check nomenclature label %q: %w", items[i].Label, err)
		}
		if count > 0 {
			continue
		}
		if items[i].ID != "" {
			if err := tx.GetContext(ctx, &count, idQuery, items[i].ID); err != nil {
				_ = tx.Rollback()
				return 0, fmt.Errorf("check nomenclature id %q: %w", items[i].ID, err)
			}
		}
		if items[i].ID == "" || count > 0 {
			items[i].ID = uuid.NewString()
		}
		if _, err := tx.NamedExecContext(ctx, insert, items[i]); err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("insert nomenclature %q: %w", items[i].Label, err)
		}
		added++
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit nomenclature sync tx: %w", err)
	}
	return added, nil
}

// Update overwrites label, description and interpretation.
func (r *NomenclatureRepository) Update(ctx context.Context, item *models.Nomenclature) error {
	const query = `UPDATE nomenclatures SET label = :label, description = :description, interpretation = :interpretation WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, item)
	if err != nil {
		return fmt.Errorf("update nomenclature: %w", err)
	}
	return expectAffected(res)
}

// Delete removes an entry.
func (r *NomenclatureRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM nomenclatures WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("delete nomenclature: %w", err)
	}
	return expectAffected(res)
}
