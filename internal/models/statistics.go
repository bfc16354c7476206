package models

// LabelCount pairs a label with how often it occurs.
type LabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Statistics summarises the catalogue and its vocabulary.
type Statistics struct {
	TotalMedia                 int            `json:"total_media"`
	TotalVideos                int            `json:"total_videos"`
	TotalPhotos                int            `json:"total_photos"`
	TotalNomenclatures         int            `json:"total_nomenclatures"`
	TotalTags                  int            `json:"total_tags"`
	TotalAnnotations           int            `json:"total_annotations"`
	TypeDistribution           map[string]int `json:"type_distribution"`
	TopTags                    []LabelCount   `json:"top_tags"`
	CategoryDistribution       []LabelCount   `json:"category_distribution"`
	UnusedNomenclatures        []Nomenclature `json:"unused_nomenclatures"`
	AverageTagsPerMedia        float64        `json:"average_tags_per_media"`
	AverageAnnotationsPerVideo float64        `json:"average_annotations_per_video"`
	UsageRate                  float64        `json:"usage_rate"`
	ReviewListSize             int            `json:"review_list_size"`
	QuizListSize               int            `json:"quiz_list_size"`
}
