package dto

import "github.com/noah-isme/synergo-api/internal/models"

// AnnotationRequest applies a label at a moment of a video, in seconds.
type AnnotationRequest struct {
	Time  float64 `json:"time" validate:"gte=0"`
	Label string  `json:"label" validate:"required,max=255"`
}

// CreateMediaRequest describes payload for cataloguing a resource.
type CreateMediaRequest struct {
	Type            string              `json:"type" validate:"required,mediatype"`
	Title           string              `json:"title" validate:"required,max=255"`
	Description     string              `json:"description" validate:"max=4000"`
	Src             string              `json:"src" validate:"required,max=1024"`
	Tags            []string            `json:"tags" validate:"max=200,dive,max=255"`
	Annotations     []AnnotationRequest `json:"annotations" validate:"max=1000,dive"`
	FPS             int                 `json:"fps" validate:"omitempty,min=1,max=240"`
	Source          string              `json:"source" validate:"max=255"`
	PublicationDate string              `json:"publication_date" validate:"max=32"`
}

// UpdateMediaRequest carries a partial update; nil fields are left untouched.
type UpdateMediaRequest struct {
	Type            *string              `json:"type" validate:"omitempty,mediatype"`
	Title           *string              `json:"title" validate:"omitempty,min=1,max=255"`
	Description     *string              `json:"description" validate:"omitempty,max=4000"`
	Src             *string              `json:"src" validate:"omitempty,min=1,max=1024"`
	Tags            *[]string            `json:"tags" validate:"omitempty,max=200,dive,max=255"`
	Annotations     *[]AnnotationRequest `json:"annotations" validate:"omitempty,max=1000,dive"`
	FPS             *int                 `json:"fps" validate:"omitempty,min=1,max=240"`
	Source          *string              `json:"source" validate:"omitempty,max=255"`
	PublicationDate *string              `json:"publication_date" validate:"omitempty,max=32"`
}

// MediaListQuery captures listing filters.
type MediaListQuery struct {
	Type     string `form:"type" validate:"omitempty,mediatype"`
	Page     int    `form:"page" validate:"omitempty,min=1"`
	PageSize int    `form:"page_size" validate:"omitempty,min=1,max=500"`
}

// MediaSearchQuery captures catalogue search criteria.
type MediaSearchQuery struct {
	Query     string   `form:"q"`
	Fields    []string `form:"fields"`
	Type      string   `form:"type" validate:"omitempty,mediatype"`
	Category  string   `form:"category"`
	SimilarTo string   `form:"similar_to"`
	Limit     int      `form:"limit" validate:"omitempty,min=1,max=500"`
}

// NextNumberQuery identifies a resource file series.
type NextNumberQuery struct {
	Date    string `form:"date" validate:"required,len=8,numeric"`
	Source  string `form:"source" validate:"required,max=64"`
	Subject string `form:"subject" validate:"required,max=64"`
}

// NextNumberResponse returns the next file number and the suggested file stem.
type NextNumberResponse struct {
	Number   string `json:"number"`
	Filename string `json:"filename"`
}

// MediaListResponse wraps a page of media.
type MediaListResponse struct {
	Items []models.Media `json:"items"`
}
