// Package similarity scores how alike two vocabulary labels are. It backs
// distractor selection for quiz questions.
package similarity

import (
	"strings"
	"unicode"
)

const (
	// PrefixWeight scales the shared-prefix ratio in CombinedScore.
	PrefixWeight = 0.3
	// TokenWeight is added to CombinedScore for every shared token.
	TokenWeight = 0.2
)

// EditDistance returns the case-insensitive Levenshtein distance between a and b.
func EditDistance(a, b string) int {
	ra := []rune(strings.ToLower(a))
	rb := []rune(strings.ToLower(b))
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			if ra[i-1] == rb[j-1] {
				curr[j] = prev[j-1]
				continue
			}
			curr[j] = 1 + min(prev[j-1], curr[j-1], prev[j])
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

// Similarity normalises EditDistance into [0, 1]. Two empty strings are identical.
func Similarity(a, b string) float64 {
	longest := max(runeLen(a), runeLen(b))
	if longest == 0 {
		return 1
	}
	return 1 - float64(EditDistance(a, b))/float64(longest)
}

// CommonPrefixLength returns the length in runes of the longest case-insensitive common prefix.
func CommonPrefixLength(a, b string) int {
	ra := []rune(strings.ToLower(a))
	rb := []rune(strings.ToLower(b))
	n := 0
	for n < len(ra) && n < len(rb) && ra[n] == rb[n] {
		n++
	}
	return n
}

// CommonTokenCount counts the distinct tokens present in both strings. Tokens are
// separated by whitespace, underscores or hyphens.
func CommonTokenCount(a, b string) int {
	left := tokenSet(a)
	if len(left) == 0 {
		return 0
	}
	count := 0
	for token := range tokenSet(b) {
		if _, ok := left[token]; ok {
			count++
		}
	}
	return count
}

// CombinedScore blends edit similarity with prefix and token bonuses. Higher is more alike.
func CombinedScore(a, b string) float64 {
	longest := max(runeLen(a), runeLen(b), 1)
	prefix := float64(CommonPrefixLength(a, b)) / float64(longest)
	return Similarity(a, b) + PrefixWeight*prefix + TokenWeight*float64(CommonTokenCount(a, b))
}

func tokenSet(s string) map[string]struct{} {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return unicode.IsSpace(r) || r == '_' || r == '-'
	})
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

func runeLen(s string) int {
	return len([]rune(s))
}
