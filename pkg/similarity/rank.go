package similarity

import (
	"sort"
	"strings"
)

type scored struct {
	value string
	score float64
}

// MostSimilar ranks candidates by CombinedScore against target and returns at most
// count of them. Candidates equal to target or to any exclude entry, ignoring case,
// are skipped. Ties keep input order.
func MostSimilar(target string, candidates []string, count int, exclude ...string) []string {
	skip := lowerSet(append([]string{target}, exclude...))
	return rank(candidates, skip, count, func(candidate string) float64 {
		return CombinedScore(target, candidate)
	})
}

// MostSimilarToSet ranks candidates by their average CombinedScore over targets.
// Candidates equal to any target, ignoring case, are skipped.
func MostSimilarToSet(targets, candidates []string, count int) []string {
	if len(targets) == 0 {
		return nil
	}
	skip := lowerSet(targets)
	return rank(candidates, skip, count, func(candidate string) float64 {
		sum := 0.0
		for _, target := range targets {
			sum += CombinedScore(target, candidate)
		}
		return sum / float64(len(targets))
	})
}

func rank(candidates []string, skip map[string]struct{}, count int, score func(string) float64) []string {
	if count <= 0 {
		return nil
	}
	ranked := make([]scored, 0, len(candidates))
	for _, candidate := range candidates {
		if _, excluded := skip[strings.ToLower(candidate)]; excluded {
			continue
		}
		ranked = append(ranked, scored{value: candidate, score: score(candidate)})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	if len(ranked) > count {
		ranked = ranked[:count]
	}
	out := make([]string, len(ranked))
	for i, r := range ranked {
		out[i] = r.value
	}
	return out
}

func lowerSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[strings.ToLower(v)] = struct{}{}
	}
	return set
}
