package models

// WorklistKind names one of the two working sets built from the catalogue.
type WorklistKind string

const (
	WorklistReview WorklistKind = "review"
	WorklistQuiz   WorklistKind = "quiz"

	// MaxBulkWorklistAdd caps a single bulk membership request.
	MaxBulkWorklistAdd = 100
)

// Valid reports whether k is a known worklist.
func (k WorklistKind) Valid() bool {
	return k == WorklistReview || k == WorklistQuiz
}

// Table returns the membership table backing the worklist.
func (k WorklistKind) Table() string {
	if k == WorklistQuiz {
		return "quiz_list"
	}
	return "review_list"
}

// WorklistEntry records that a media item belongs to a worklist.
type WorklistEntry struct {
	MediaID string `db:"media_id" json:"media_id"`
	AddedAt int64  `db:"added_at" json:"added_at"`
}

// WorklistItem is a worklist membership joined with its media.
type WorklistItem struct {
	Media
	ListedAt int64 `db:"listed_at" json:"listed_at"`
}

// BulkAddResult reports how a bulk membership request was applied.
type BulkAddResult struct {
	Added    []string `json:"added"`
	Existing []string `json:"existing"`
	Missing  []string `json:"missing"`
}
