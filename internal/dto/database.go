package dto

// DatabaseResetResponse reports the store content after a reset or import.
type DatabaseResetResponse struct {
	Media         int `json:"media"`
	Nomenclatures int `json:"nomenclatures"`
}
