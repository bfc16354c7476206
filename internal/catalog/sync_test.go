package catalog

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/synergo-api/internal/models"
)

func TestDeriveNomenclaturesScenario(t *testing.T) {
	a := models.Media{ID: "A", Tags: models.StringList{"R_C_E_3_1"}}
	b := models.Media{ID: "B", Tags: models.StringList{"R_C_E_3_1", "other"}}
	c := models.Media{ID: "C"}

	derived := DeriveNomenclatures([]models.Media{a, b, c})
	require.Len(t, derived, 2)
	assert.Equal(t, models.Nomenclature{ID: "seed-R_C_E_3_1", Label: "R_C_E_3_1"}, derived[0])
	assert.Equal(t, "other", derived[1].Label)
}

func TestDeriveNomenclaturesIncludesAnnotationsCaseSensitive(t *testing.T) {
	media := []models.Media{
		{Type: models.MediaTypeVideo, Annotations: models.AnnotationList{{Time: 1, Label: "Jab"}, {Time: 2, Label: "jab"}, {Time: 3, Label: " "}}},
		{Type: models.MediaTypePhoto, Tags: models.StringList{"Jab"}},
	}
	derived := DeriveNomenclatures(media)
	assert.Equal(t, []string{"Jab", "jab"}, labels(derived))
}

func TestDeriveThenReconcileNoDuplicates(t *testing.T) {
	media := make([]models.Media, 0, 50)
	for i := 0; i < 50; i++ {
		media = append(media, models.Media{ID: fmt.Sprint(i), Tags: models.StringList{"jab", "cross"}})
	}
	merged, added := ReconcileNomenclatures(DeriveNomenclatures(media), nil)
	assert.True(t, added)
	assert.Equal(t, []string{"jab", "cross"}, labels(merged))
}

func TestReconcileReturnsSameSliceWhenNothingNew(t *testing.T) {
	existing := []models.Nomenclature{
		{ID: "1", Label: "Jab", Description: "lead punch"},
		{ID: "2", Label: "Cross"},
	}
	derived := []models.Nomenclature{models.NewSeedNomenclature("jab"), models.NewSeedNomenclature("CROSS")}

	merged, added := ReconcileNomenclatures(derived, existing)
	assert.False(t, added)
	assert.Equal(t, existing, merged)
	assert.Same(t, &existing[0], &merged[0])
}

func TestReconcileAppendsWithoutMutating(t *testing.T) {
	existing := make([]models.Nomenclature, 1, 4)
	existing[0] = models.Nomenclature{ID: "1", Label: "Jab", Description: "kept"}
	derived := []models.Nomenclature{models.NewSeedNomenclature("JAB"), models.NewSeedNomenclature("Hook"), models.NewSeedNomenclature("hook")}

	merged, added := ReconcileNomenclatures(derived, existing)
	assert.True(t, added)
	assert.Equal(t, []string{"Jab", "Hook"}, labels(merged))
	assert.Equal(t, "kept", merged[0].Description)
	assert.Len(t, existing, 1)
	assert.Equal(t, models.Nomenclature{}, existing[:2][1], "backing array untouched")
}

func TestUpsertByLabelFirstWriterWins(t *testing.T) {
	existing := []models.Nomenclature{{ID: "1", Label: "Jab", Description: "user text"}}

	got, created := UpsertByLabel(models.Nomenclature{ID: "x", Label: " jab "}, existing)
	assert.False(t, created)
	assert.Equal(t, existing[0], got)

	got, created = UpsertByLabel(models.Nomenclature{ID: "x", Label: "Hook"}, existing)
	assert.True(t, created)
	assert.Equal(t, "x", got.ID)
}

func TestIsLabelUsed(t *testing.T) {
	media := []models.Media{
		{Tags: models.StringList{"Jab"}},
		{Annotations: models.AnnotationList{{Time: 4, Label: "Hook"}}},
	}
	assert.True(t, IsLabelUsed(" jab", media))
	assert.True(t, IsLabelUsed("HOOK", media))
	assert.False(t, IsLabelUsed("cross", media))
	assert.False(t, IsLabelUsed("  ", media))
}

func TestNormalizeTags(t *testing.T) {
	assert.Equal(t, []string{"jab", "Jab", "cross"}, NormalizeTags([]string{" jab", "", "Jab", "jab ", "cross", "  "}))
}

func labels(list []models.Nomenclature) []string {
	out := make([]string, len(list))
	for i, n := range list {
		out[i] = n.Label
	}
	return out
}
