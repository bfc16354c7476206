// Package catalog holds the pure search, classification and vocabulary rules
// applied to media collections. Nothing here performs I/O.
package catalog

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/noah-isme/synergo-api/internal/models"
)

// SearchField names a media attribute considered by FuzzySearch.
type SearchField string

const (
	FieldTitle       SearchField = "title"
	FieldDescription SearchField = "description"
	FieldTags        SearchField = "tags"
)

// DefaultSearchFields is used when FuzzySearch receives no explicit field.
var DefaultSearchFields = []SearchField{FieldTitle, FieldDescription, FieldTags}

// ParseSearchFields maps raw names onto known fields, ignoring unknown ones.
func ParseSearchFields(raw []string) []SearchField {
	fields := make([]SearchField, 0, len(raw))
	for _, r := range raw {
		switch f := SearchField(strings.ToLower(strings.TrimSpace(r))); f {
		case FieldTitle, FieldDescription, FieldTags:
			fields = append(fields, f)
		}
	}
	return fields
}

// FuzzySearch ranks items against query. A blank query returns items untouched.
// Items scoring zero are dropped and ties keep their input order.
func FuzzySearch(items []models.Media, query string, fields ...SearchField) []models.Media {
	if strings.TrimSpace(query) == "" {
		return items
	}
	if len(fields) == 0 {
		fields = DefaultSearchFields
	}

	type hit struct {
		item  models.Media
		score float64
	}
	hits := make([]hit, 0, len(items))
	for _, item := range items {
		if s := Score(item, query, fields...); s > 0 {
			hits = append(hits, hit{item: item, score: s})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })

	result := make([]models.Media, len(hits))
	for i, h := range hits {
		result[i] = h.item
	}
	return result
}

// Score computes the relevance of item for query over the given fields.
//
// Every tag containing the query adds 2. A text field containing the query adds
// weight * bonus * (1 + len(query)/len(field)) where weight is 3 for the title and 1
// otherwise, and bonus is 2 when the field starts with the query.
func Score(item models.Media, query string, fields ...SearchField) float64 {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return 0
	}
	if len(fields) == 0 {
		fields = DefaultSearchFields
	}

	score := 0.0
	for _, field := range fields {
		switch field {
		case FieldTags:
			for _, tag := range item.Tags {
				if strings.Contains(strings.ToLower(tag), needle) {
					score += 2
				}
			}
		case FieldTitle:
			score += textScore(item.Title, needle, 3)
		case FieldDescription:
			score += textScore(item.Description, needle, 1)
		}
	}
	return score
}

func textScore(value, needle string, weight float64) float64 {
	haystack := strings.ToLower(value)
	if haystack == "" || !strings.Contains(haystack, needle) {
		return 0
	}
	bonus := 1.0
	if strings.HasPrefix(haystack, needle) {
		bonus = 2
	}
	ratio := float64(utf8.RuneCountInString(needle)) / float64(utf8.RuneCountInString(haystack))
	return weight * bonus * (1 + ratio)
}
