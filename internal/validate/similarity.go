package validate

import "strings"

// minTitleLen guards against false positives on truncated strings:
// titles shorter than this are never considered for similarity.
const minTitleLen = 5

// TitleSimilarity computes a token-set ratio between two titles after
// normalization: 2·|A∩B| / (|A|+|B|). Identical token sets score 1.0
// regardless of ordering or repeated words.
func (n *Normalizer) TitleSimilarity(a, b string) float64 {
	if len([]rune(a)) < minTitleLen || len([]rune(b)) < minTitleLen {
		return 0
	}
	ta, tb := n.Tokens(a), n.Tokens(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}
	inter := 0
	for w := range ta {
		if tb[w] {
			inter++
		}
	}
	return 2 * float64(inter) / float64(len(ta)+len(tb))
}

// overlapCount returns how many significant words (longer than 4 runes)
// from title occur in text. Used for anchor-text and page-title scoring.
func overlapCount(n *Normalizer, title, text string) int {
	lower := n.Normalize(text)
	count := 0
	for w := range n.Tokens(title) {
		if len([]rune(w)) > 4 && containsWord(lower, w) {
			count++
		}
	}
	return count
}

func containsWord(haystack, word string) bool {
	for i := 0; ; {
		j := strings.Index(haystack[i:], word)
		if j < 0 {
			return false
		}
		j += i
		before := j == 0 || haystack[j-1] == ' '
		after := j+len(word) == len(haystack) || haystack[j+len(word)] == ' '
		if before && after {
			return true
		}
		i = j + 1
	}
}
