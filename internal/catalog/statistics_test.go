package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/synergo-api/internal/models"
)

func TestComputeStatistics(t *testing.T) {
	media := []models.Media{
		{Type: models.MediaTypeVideo, Tags: models.StringList{"R_C_E", "jab"}, Annotations: models.AnnotationList{{Time: 1, Label: "hook"}, {Time: 2, Label: "jab"}}},
		{Type: models.MediaTypeVideo, Tags: models.StringList{"jab"}},
		{Type: models.MediaTypePhoto, Tags: models.StringList{"R_D_F"}},
	}
	nomenclatures := []models.Nomenclature{{Label: "Jab"}, {Label: "hook"}, {Label: "unused"}, {Label: "cross"}}

	stats := ComputeStatistics(media, nomenclatures)

	assert.Equal(t, 3, stats.TotalMedia)
	assert.Equal(t, 2, stats.TotalVideos)
	assert.Equal(t, 1, stats.TotalPhotos)
	assert.Equal(t, 4, stats.TotalTags)
	assert.Equal(t, 2, stats.TotalAnnotations)
	assert.Equal(t, map[string]int{"video": 2, "photo": 1}, stats.TypeDistribution)
	assert.Equal(t, []models.LabelCount{{Label: "jab", Count: 2}, {Label: "R_C_E", Count: 1}, {Label: "R_D_F", Count: 1}}, stats.TopTags)
	assert.Equal(t, []models.LabelCount{{Label: "R", Count: 2}, {Label: "jab", Count: 2}}, stats.CategoryDistribution)
	assert.Equal(t, []models.Nomenclature{{Label: "unused"}, {Label: "cross"}}, stats.UnusedNomenclatures)
	assert.Equal(t, 1.3, stats.AverageTagsPerMedia)
	assert.Equal(t, 1.0, stats.AverageAnnotationsPerVideo)
	assert.Equal(t, 50.0, stats.UsageRate)
}

func TestComputeStatisticsEmpty(t *testing.T) {
	stats := ComputeStatistics(nil, nil)
	assert.Zero(t, stats.TotalMedia)
	assert.Empty(t, stats.TopTags)
	assert.Zero(t, stats.AverageTagsPerMedia)
	assert.Zero(t, stats.UsageRate)
}
