package dto

// AddWorklistRequest adds one media item to a list.
type AddWorklistRequest struct {
	MediaID string `json:"media_id" validate:"required"`
}

// BulkAddWorklistRequest adds several media items to a list.
type BulkAddWorklistRequest struct {
	MediaIDs []string `json:"media_ids" validate:"required,min=1,max=100,dive,required"`
}

// WorklistAddResponse tells whether the item was newly listed.
type WorklistAddResponse struct {
	MediaID string `json:"media_id"`
	Added   bool   `json:"added"`
}

// WorklistClearResponse reports how many items were removed.
type WorklistClearResponse struct {
	Removed int `json:"removed"`
}
