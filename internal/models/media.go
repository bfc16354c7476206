package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// MediaType discriminates video resources from photos.
type MediaType string

const (
	MediaTypeVideo MediaType = "video"
	MediaTypePhoto MediaType = "photo"

	// DefaultFPS is applied to videos created without an explicit frame rate.
	DefaultFPS = 30
)

// Valid reports whether t is a known media type.
func (t MediaType) Valid() bool {
	return t == MediaTypeVideo || t == MediaTypePhoto
}

// Annotation applies a vocabulary label to a moment of a video.
type Annotation struct {
	Time  float64 `json:"time"`
	Label string  `json:"label"`
}

// Media is a catalogued video or photo resource. Timestamps are unix milliseconds.
type Media struct {
	ID              string         `db:"id" json:"id"`
	Type            MediaType      `db:"type" json:"type"`
	Title           string         `db:"title" json:"title"`
	Description     string         `db:"description" json:"description"`
	Src             string         `db:"src" json:"src"`
	Tags            StringList     `db:"tags" json:"tags"`
	Annotations     AnnotationList `db:"annotations" json:"annotations"`
	FPS             int            `db:"fps" json:"fps"`
	AddedAt         int64          `db:"added_at" json:"added_at"`
	UpdatedAt       int64          `db:"updated_at" json:"updated_at"`
	Source          string         `db:"source" json:"source"`
	PublicationDate string         `db:"publication_date" json:"publication_date"`
}

// Labels returns every vocabulary usage of the item: tags first, then annotation labels.
func (m Media) Labels() []string {
	labels := make([]string, 0, len(m.Tags)+len(m.Annotations))
	labels = append(labels, m.Tags...)
	for _, a := range m.Annotations {
		labels = append(labels, a.Label)
	}
	return labels
}

// MediaFilter narrows media listings.
type MediaFilter struct {
	Type     MediaType
	Page     int
	PageSize int
}

// MediaSearch groups the optional criteria of a catalogue search.
type MediaSearch struct {
	Query          string
	Type           MediaType
	CategoryPrefix string
	SimilarToTag   string
	Limit          int
}

// StringList is a JSON encoded list of strings stored in a text column.
type StringList []string

// Scan implements sql.Scanner.
func (l *StringList) Scan(src any) error {
	return scanJSON(src, l, "StringList")
}

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	return valueJSON(l)
}

// AnnotationList is a JSON encoded list of annotations stored in a text column.
type AnnotationList []Annotation

// Scan implements sql.Scanner.
func (l *AnnotationList) Scan(src any) error {
	return scanJSON(src, l, "AnnotationList")
}

// Value implements driver.Valuer.
func (l AnnotationList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	return valueJSON(l)
}

func scanJSON(src any, dst any, name string) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("%s: unsupported src type %T", name, src)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

func valueJSON(v any) (driver.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}
