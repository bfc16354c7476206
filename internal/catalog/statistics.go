package catalog

import (
	"math"
	"sort"

	"github.com/noah-isme/synergo-api/internal/models"
)

const topTagLimit = 10

// ComputeStatistics summarises media and vocabulary usage. Averages are rounded to one decimal.
func ComputeStatistics(media []models.Media, nomenclatures []models.Nomenclature) models.Statistics {
	stats := models.Statistics{
		TotalMedia:           len(media),
		TotalNomenclatures:   len(nomenclatures),
		TypeDistribution:     map[string]int{string(models.MediaTypeVideo): 0, string(models.MediaTypePhoto): 0},
		TopTags:              []models.LabelCount{},
		CategoryDistribution: []models.LabelCount{},
		UnusedNomenclatures:  []models.Nomenclature{},
	}

	tagCounts := newCounter()
	categoryCounts := newCounter()
	for _, item := range media {
		stats.TypeDistribution[string(item.Type)]++
		if item.Type == models.MediaTypeVideo {
			stats.TotalVideos++
		} else {
			stats.TotalPhotos++
		}
		stats.TotalAnnotations += len(item.Annotations)
		for _, tag := range item.Tags {
			stats.TotalTags++
			tagCounts.add(tag)
			if category := ParseHierarchicalTag(tag).Category; category != "" {
				categoryCounts.add(category)
			}
		}
	}

	stats.TopTags = tagCounts.ranked(topTagLimit)
	stats.CategoryDistribution = categoryCounts.ranked(0)

	used := 0
	for _, n := range nomenclatures {
		if IsLabelUsed(n.Label, media) {
			used++
			continue
		}
		stats.UnusedNomenclatures = append(stats.UnusedNomenclatures, n)
	}

	if stats.TotalMedia > 0 {
		stats.AverageTagsPerMedia = round1(float64(stats.TotalTags) / float64(stats.TotalMedia))
	}
	if stats.TotalVideos > 0 {
		stats.AverageAnnotationsPerVideo = round1(float64(stats.TotalAnnotations) / float64(stats.TotalVideos))
	}
	if stats.TotalNomenclatures > 0 {
		stats.UsageRate = round1(100 * float64(used) / float64(stats.TotalNomenclatures))
	}
	return stats
}

// counter tallies labels while remembering first-seen order for stable ranking.
type counter struct {
	order  []string
	counts map[string]int
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(label string) {
	if _, ok := c.counts[label]; !ok {
		c.order = append(c.order, label)
	}
	c.counts[label]++
}

func (c *counter) ranked(limit int) []models.LabelCount {
	out := make([]models.LabelCount, 0, len(c.order))
	for _, label := range c.order {
		out = append(out, models.LabelCount{Label: label, Count: c.counts[label]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
