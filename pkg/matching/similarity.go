package matching

import "strings"

// NormalizeString lowercases and trims a string for comparison
func NormalizeString(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// SimilarityRatio computes the similarity between two strings as a value in
// [0, 1] using the Ratcliff/Obershelp algorithm: twice the number of matching
// characters divided by the total number of characters. Comparison is done on
// the normalized forms; if either side normalizes to empty the ratio is 0.
func SimilarityRatio(s1, s2 string) float64 {
	a := []rune(NormalizeString(s1))
	b := []rune(NormalizeString(s2))

	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}

	matched := matchingTotal(a, b)
	return 2.0 * float64(matched) / float64(len(a)+len(b))
}

// matchingTotal counts the characters covered by recursively taking the
// longest matching block and matching the pieces to its left and right.
func matchingTotal(a, b []rune) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	ai, bi, size := longestMatch(a, b)
	if size == 0 {
		return 0
	}

	total := size
	total += matchingTotal(a[:ai], b[:bi])
	total += matchingTotal(a[ai+size:], b[bi+size:])
	return total
}

// longestMatch finds the longest block common to a and b. Ties are broken in
// favor of the earliest block in a, then the earliest in b.
func longestMatch(a, b []rune) (bestA, bestB, bestSize int) {
	b2j := make(map[rune][]int, len(b))
	for j, r := range b {
		b2j[r] = append(b2j[r], j)
	}

	// j2len[j] holds the length of the match ending at a[i-1], b[j-1]
	j2len := make(map[int]int)
	for i := range a {
		newJ2len := make(map[int]int)
		for _, j := range b2j[a[i]] {
			k := j2len[j-1] + 1
			newJ2len[j] = k
			if k > bestSize {
				bestA = i - k + 1
				bestB = j - k + 1
				bestSize = k
			}
		}
		j2len = newJ2len
	}
	return bestA, bestB, bestSize
}
