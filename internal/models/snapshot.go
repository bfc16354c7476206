package models

// DatabaseSnapshot is the full portable content of the store, used for backups and imports.
// Worklists are stored as ordered media ids.
type DatabaseSnapshot struct {
	Media         []Media        `json:"media"`
	Nomenclatures []Nomenclature `json:"nomenclatures"`
	ReviewList    []string       `json:"review_list"`
	QuizList      []string       `json:"quiz_list"`
	ExportedAt    int64          `json:"exported_at,omitempty"`
}

// BackupFile describes a snapshot written to backup storage.
type BackupFile struct {
	ID          string `json:"id"`
	Filename    string `json:"filename"`
	Size        int64  `json:"size"`
	Token       string `json:"token"`
	DownloadURL string `json:"download_url"`
	ExpiresAt   int64  `json:"expires_at"`
}
