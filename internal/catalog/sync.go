package catalog

import (
	"strings"

	"github.com/noah-isme/synergo-api/internal/models"
)

// DeriveNomenclatures collects every distinct tag and annotation label across media as a
// blank seed entry, in first-seen order. Identity is case-sensitive here; case folding
// happens when entries are reconciled against the stored vocabulary. Blank labels are skipped.
func DeriveNomenclatures(media []models.Media) []models.Nomenclature {
	seen := make(map[string]struct{})
	derived := make([]models.Nomenclature, 0)
	for _, item := range media {
		for _, label := range item.Labels() {
			if strings.TrimSpace(label) == "" {
				continue
			}
			if _, ok := seen[label]; ok {
				continue
			}
			seen[label] = struct{}{}
			derived = append(derived, models.NewSeedNomenclature(label))
		}
	}
	return derived
}

// ReconcileNomenclatures appends derived entries whose label is absent from existing,
// comparing labels case-insensitively. existing is never modified. When nothing is
// added the very same slice is returned along with false, so callers can skip writes.
func ReconcileNomenclatures(derived, existing []models.Nomenclature) ([]models.Nomenclature, bool) {
	known := make(map[string]struct{}, len(existing))
	for _, n := range existing {
		known[foldLabel(n.Label)] = struct{}{}
	}

	var additions []models.Nomenclature
	for _, d := range derived {
		key := foldLabel(d.Label)
		if _, ok := known[key]; ok {
			continue
		}
		known[key] = struct{}{}
		additions = append(additions, d)
	}
	if len(additions) == 0 {
		return existing, false
	}

	merged := make([]models.Nomenclature, 0, len(existing)+len(additions))
	merged = append(merged, existing...)
	merged = append(merged, additions...)
	return merged, true
}

// UpsertByLabel returns the existing entry matching candidate's label, ignoring case,
// untouched. Otherwise candidate is returned with created set to true.
func UpsertByLabel(candidate models.Nomenclature, existing []models.Nomenclature) (models.Nomenclature, bool) {
	if found, ok := FindByLabel(candidate.Label, existing); ok {
		return found, false
	}
	return candidate, true
}

// FindByLabel looks up an entry by label, ignoring case and surrounding blanks.
func FindByLabel(label string, nomenclatures []models.Nomenclature) (models.Nomenclature, bool) {
	key := foldLabel(label)
	for _, n := range nomenclatures {
		if foldLabel(n.Label) == key {
			return n, true
		}
	}
	return models.Nomenclature{}, false
}

// IsLabelUsed reports whether any media item carries label as a tag or annotation.
func IsLabelUsed(label string, media []models.Media) bool {
	key := foldLabel(label)
	if key == "" {
		return false
	}
	for _, item := range media {
		for _, l := range item.Labels() {
			if foldLabel(l) == key {
				return true
			}
		}
	}
	return false
}

// NormalizeTags trims tags, drops blanks and removes duplicates keeping the first occurrence.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

func foldLabel(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}
