package models

// SeedIDPrefix marks nomenclatures created by vocabulary sync rather than by a user.
const SeedIDPrefix = "seed-"

// Nomenclature is a controlled-vocabulary term usable as a tag or annotation label.
type Nomenclature struct {
	ID             string `db:"id" json:"id"`
	Label          string `db:"label" json:"label"`
	Description    string `db:"description" json:"description"`
	Interpretation string `db:"interpretation" json:"interpretation"`
}

// NewSeedNomenclature builds the blank entry derived from a label found on media.
func NewSeedNomenclature(label string) Nomenclature {
	return Nomenclature{ID: SeedIDPrefix + label, Label: label}
}
