package catalog

import (
	"sort"
	"strings"

	"github.com/noah-isme/synergo-api/internal/models"
)

// TagParts is the positional decomposition of an underscore separated tag such as R_C_E_3_1.
type TagParts struct {
	Raw            string `json:"raw"`
	Category       string `json:"category"`
	Subcategory    string `json:"subcategory"`
	Type           string `json:"type"`
	Level          string `json:"level"`
	Variant        string `json:"variant"`
	IsHierarchical bool   `json:"is_hierarchical"`
}

// ParseHierarchicalTag splits tag on underscores. Tags with at least three parts are hierarchical.
func ParseHierarchicalTag(tag string) TagParts {
	parts := strings.Split(tag, "_")
	at := func(i int) string {
		if i < len(parts) {
			return parts[i]
		}
		return ""
	}
	return TagParts{
		Raw:            tag,
		Category:       at(0),
		Subcategory:    at(1),
		Type:           at(2),
		Level:          at(3),
		Variant:        at(4),
		IsHierarchical: len(parts) >= 3,
	}
}

// SubcategoryNode groups the types seen under a category_subcategory key.
type SubcategoryNode struct {
	Key   string   `json:"key"`
	Types []string `json:"types"`
}

// CategoryNode is one root of the category tree.
type CategoryNode struct {
	Key           string            `json:"key"`
	Subcategories []SubcategoryNode `json:"subcategories"`
}

// ExtractCategoryTree builds category -> subcategory -> types from hierarchical tags,
// in first-seen order. Flat tags are ignored.
func ExtractCategoryTree(media []models.Media) []CategoryNode {
	tree := make([]CategoryNode, 0)
	catIndex := make(map[string]int)
	subIndex := make(map[string]int)
	typeSeen := make(map[string]struct{})

	for _, item := range media {
		for _, tag := range item.Tags {
			parsed := ParseHierarchicalTag(tag)
			if !parsed.IsHierarchical {
				continue
			}
			ci, ok := catIndex[parsed.Category]
			if !ok {
				ci = len(tree)
				catIndex[parsed.Category] = ci
				tree = append(tree, CategoryNode{Key: parsed.Category, Subcategories: []SubcategoryNode{}})
			}
			if parsed.Subcategory == "" {
				continue
			}
			subKey := parsed.Category + "_" + parsed.Subcategory
			si, ok := subIndex[subKey]
			if !ok {
				si = len(tree[ci].Subcategories)
				subIndex[subKey] = si
				tree[ci].Subcategories = append(tree[ci].Subcategories, SubcategoryNode{Key: subKey, Types: []string{}})
			}
			if parsed.Type == "" {
				continue
			}
			typeKey := subKey + "\x00" + parsed.Type
			if _, dup := typeSeen[typeKey]; dup {
				continue
			}
			typeSeen[typeKey] = struct{}{}
			tree[ci].Subcategories[si].Types = append(tree[ci].Subcategories[si].Types, parsed.Type)
		}
	}
	return tree
}

// FilterByCategoryPrefix keeps items having a tag that starts with prefix. An empty
// prefix returns media untouched.
func FilterByCategoryPrefix(media []models.Media, prefix string) []models.Media {
	if prefix == "" {
		return media
	}
	filtered := make([]models.Media, 0, len(media))
	for _, item := range media {
		for _, tag := range item.Tags {
			if strings.HasPrefix(tag, prefix) {
				filtered = append(filtered, item)
				break
			}
		}
	}
	return filtered
}

// FilterByType keeps items of type t. An empty type returns media untouched.
func FilterByType(media []models.Media, t models.MediaType) []models.Media {
	if t == "" {
		return media
	}
	filtered := make([]models.Media, 0, len(media))
	for _, item := range media {
		if item.Type == t {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

// FindSimilarByTag ranks media by how closely their tags match tag: +1 per tag sharing
// the category, +2 sharing the subcategory, +3 sharing the type and +10 for the exact
// tag. Empty components never match. At most limit items with a positive score are returned.
func FindSimilarByTag(tag string, media []models.Media, limit int) []models.Media {
	if tag == "" || limit <= 0 {
		return nil
	}
	ref := ParseHierarchicalTag(tag)

	type hit struct {
		item  models.Media
		score int
	}
	hits := make([]hit, 0, len(media))
	for _, item := range media {
		score := 0
		for _, itemTag := range item.Tags {
			parsed := ParseHierarchicalTag(itemTag)
			if sameComponent(parsed.Category, ref.Category) {
				score++
			}
			if sameComponent(parsed.Subcategory, ref.Subcategory) {
				score += 2
			}
			if sameComponent(parsed.Type, ref.Type) {
				score += 3
			}
			if itemTag == tag {
				score += 10
			}
		}
		if score > 0 {
			hits = append(hits, hit{item: item, score: score})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })

	if len(hits) > limit {
		hits = hits[:limit]
	}
	result := make([]models.Media, len(hits))
	for i, h := range hits {
		result[i] = h.item
	}
	return result
}

func sameComponent(a, b string) bool {
	return a != "" && a == b
}
