package quiz

import (
	"strings"

	"github.com/noah-isme/synergo-api/internal/catalog"
	"github.com/noah-isme/synergo-api/internal/models"
	"github.com/noah-isme/synergo-api/pkg/similarity"
)

const (
	textDistractors              = 3
	identificationOptions        = 6
	minIdentificationDistractors = 3
)

// Generator builds quiz decks from the quiz worklist and the vocabulary.
type Generator struct {
	rand Rand
}

// NewGenerator returns a generator drawing randomness from r, or from DefaultRand when r is nil.
func NewGenerator(r Rand) *Generator {
	if r == nil {
		r = DefaultRand()
	}
	return &Generator{rand: r}
}

// Generate returns at most count questions. Candidates are built per variant, each
// pool is shuffled, then questions are drawn from a uniformly chosen non-empty pool
// until count is reached or every pool is exhausted. The type mix of the deck
// therefore varies between runs. An empty items list yields an empty deck.
//
// Description and interpretation questions need three distractor texts that are
// non-blank, distinct from each other and distinct from the correct text. Entries
// sharing a text count once, so Capacity may report fewer text questions than the
// number of used nomenclatures with text.
func (g *Generator) Generate(items []models.Media, nomenclatures []models.Nomenclature, count int) []Question {
	if count <= 0 || len(items) == 0 {
		return []Question{}
	}

	used := usedNomenclatures(items, nomenclatures)
	pools := [][]Question{
		g.identificationPool(items, nomenclatures),
		g.textPool(TypeDescription, used),
		g.textPool(TypeInterpretation, used),
	}
	for _, pool := range pools {
		g.shuffle(pool)
	}

	deck := make([]Question, 0, count)
	for len(deck) < count {
		open := make([]int, 0, len(pools))
		for i, pool := range pools {
			if len(pool) > 0 {
				open = append(open, i)
			}
		}
		if len(open) == 0 {
			break
		}
		pick := open[g.rand.IntN(len(open))]
		deck = append(deck, pools[pick][0])
		pools[pick] = pools[pick][1:]
	}

	g.shuffle(deck)
	return deck
}

// Capacity is the largest deck Generate can produce for the inputs, useful to clamp
// the requested question count. Text questions follow the eligibility rules on Generate.
func Capacity(items []models.Media, nomenclatures []models.Nomenclature) int {
	if len(items) == 0 {
		return 0
	}
	total := 0
	for _, item := range items {
		if len(catalog.NormalizeTags(item.Tags)) > 0 {
			total++
		}
	}
	used := usedNomenclatures(items, nomenclatures)
	for _, t := range []QuestionType{TypeDescription, TypeInterpretation} {
		for i := range used {
			if _, ok := textDistractorPool(t, used, i); ok {
				total++
			}
		}
	}
	return total
}

func (g *Generator) identificationPool(items []models.Media, nomenclatures []models.Nomenclature) []Question {
	labels := allLabels(items, nomenclatures)
	pool := make([]Question, 0, len(items))
	for _, item := range items {
		correct := catalog.NormalizeTags(item.Tags)
		if len(correct) == 0 {
			continue
		}
		distractors := similarity.MostSimilarToSet(correct, labels, max(4, len(correct)+3))
		take := min(len(distractors), max(minIdentificationDistractors, identificationOptions-len(correct)))

		options := make([]string, 0, len(correct)+take)
		options = append(options, correct...)
		options = append(options, distractors[:take]...)
		shuffleStrings(g.rand, options)

		q, err := NewIdentificationQuestion(item, correct, options)
		if err != nil {
			continue
		}
		pool = append(pool, q)
	}
	return pool
}

func (g *Generator) textPool(t QuestionType, used []models.Nomenclature) []Question {
	pool := make([]Question, 0, len(used))
	for i, n := range used {
		others, ok := textDistractorPool(t, used, i)
		if !ok {
			continue
		}
		shuffleStrings(g.rand, others)
		options := append([]string{expectedText(t, n)}, others[:textDistractors]...)
		shuffleStrings(g.rand, options)

		q, err := NewTextQuestion(t, n, options)
		if err != nil {
			continue
		}
		pool = append(pool, q)
	}
	return pool
}

// textDistractorPool returns the distinct non-blank texts of the other used
// nomenclatures that differ from the text of used[idx]. The entry is eligible only
// when its own text is non-blank and at least three such distractors exist.
func textDistractorPool(t QuestionType, used []models.Nomenclature, idx int) ([]string, bool) {
	own := expectedText(t, used[idx])
	if strings.TrimSpace(own) == "" {
		return nil, false
	}
	seen := map[string]struct{}{own: {}}
	others := make([]string, 0, len(used))
	for i, n := range used {
		text := expectedText(t, n)
		if i == idx || strings.TrimSpace(text) == "" {
			continue
		}
		if _, dup := seen[text]; dup {
			continue
		}
		seen[text] = struct{}{}
		others = append(others, text)
	}
	return others, len(others) >= textDistractors
}

// usedNomenclatures keeps the vocabulary entries whose label appears, ignoring case,
// among the tags of items.
func usedNomenclatures(items []models.Media, nomenclatures []models.Nomenclature) []models.Nomenclature {
	tags := make(map[string]struct{})
	for _, item := range items {
		for _, tag := range item.Tags {
			tags[strings.ToLower(strings.TrimSpace(tag))] = struct{}{}
		}
	}
	used := make([]models.Nomenclature, 0, len(nomenclatures))
	for _, n := range nomenclatures {
		if _, ok := tags[strings.ToLower(strings.TrimSpace(n.Label))]; ok {
			used = append(used, n)
		}
	}
	return used
}

// allLabels is the distractor vocabulary: every nomenclature label followed by the
// quiz tags missing from it, deduplicated ignoring case.
func allLabels(items []models.Media, nomenclatures []models.Nomenclature) []string {
	seen := make(map[string]struct{})
	labels := make([]string, 0, len(nomenclatures))
	add := func(label string) {
		label = strings.TrimSpace(label)
		key := strings.ToLower(label)
		if label == "" {
			return
		}
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		labels = append(labels, label)
	}
	for _, n := range nomenclatures {
		add(n.Label)
	}
	for _, item := range items {
		for _, tag := range item.Tags {
			add(tag)
		}
	}
	return labels
}

func (g *Generator) shuffle(questions []Question) {
	g.rand.Shuffle(len(questions), func(i, j int) { questions[i], questions[j] = questions[j], questions[i] })
}
