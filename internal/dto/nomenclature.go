package dto

// NomenclatureRequest describes payload for creating or replacing a vocabulary entry.
type NomenclatureRequest struct {
	Label          string `json:"label" validate:"required,max=255"`
	Description    string `json:"description" validate:"max=4000"`
	Interpretation string `json:"interpretation" validate:"max=4000"`
}

// NomenclatureSyncResult reports a vocabulary reconciliation.
type NomenclatureSyncResult struct {
	Added int `json:"added"`
	Total int `json:"total"`
}
