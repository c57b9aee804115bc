package matcher

import "strings"

// Levenshtein returns the minimum number of single-rune edits (insert,
// delete, substitute) transforming a into b.
func Levenshtein(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := 0; j <= len(rb); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min3(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

// Similarity scores how alike two clean titles are on a 0-100 scale:
// identical 100, one containing the other 70 plus up to 25 by length ratio,
// otherwise Levenshtein scaled against the longer title.
func Similarity(a, b string) int {
	if a == b {
		return 100
	}
	if a == "" || b == "" {
		return 0
	}

	la, lb := len([]rune(a)), len([]rune(b))
	minLen, maxLen := la, lb
	if minLen > maxLen {
		minLen, maxLen = maxLen, minLen
	}

	if strings.Contains(a, b) || strings.Contains(b, a) {
		return 70 + 25*minLen/maxLen
	}

	dist := Levenshtein(a, b)
	score := 100 * (maxLen - dist) / maxLen
	if score < 0 {
		return 0
	}
	return score
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
