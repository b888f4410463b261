package diag

import (
	"sort"
	"strings"
)

// Candidate is a name visible in scope, paired with the line it was
// declared on, used as input to FuzzyMatch.
type Candidate struct {
	Name string
	Line int
}

// Levenshtein returns the edit distance between a and b.
func Levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	la, lb := len(ra), len(rb)
	if la == 0 {
		return lb
	}
	if lb == 0 {
		return la
	}
	prev := make([]int, lb+1)
	cur := make([]int, lb+1)
	for j := 0; j <= lb; j++ {
		prev[j] = j
	}
	for i := 1; i <= la; i++ {
		cur[0] = i
		for j := 1; j <= lb; j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			del := prev[j] + 1
			ins := cur[j-1] + 1
			sub := prev[j-1] + cost
			m := del
			if ins < m {
				m = ins
			}
			if sub < m {
				m = sub
			}
			cur[j] = m
		}
		prev, cur = cur, prev
	}
	return prev[lb]
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// sharesAffix reports whether a and b share a case-insensitive four
// character prefix or suffix, used to widen the fuzzy threshold for
// names that are clearly related (e.g. "username"/"userName").
func sharesAffix(a, b string) bool {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	if len(la) < 4 || len(lb) < 4 {
		return false
	}
	return la[:4] == lb[:4] || la[len(la)-4:] == lb[len(lb)-4:]
}

// FuzzyMatch finds up to three names in candidates within edit distance
// of target: threshold max(3, len/2), widened by one step when a
// four-character prefix/suffix match exists. Results are sorted by
// distance and capped at three.
func FuzzyMatch(target string, candidates []Candidate) []SimilarName {
	threshold := maxInt(3, len(target)/2)

	type scored struct {
		cand Candidate
		dist int
	}
	var scoredList []scored
	for _, c := range candidates {
		if c.Name == target {
			continue
		}
		d := Levenshtein(target, c.Name)
		limit := threshold
		if sharesAffix(target, c.Name) {
			limit++
		}
		if d <= limit {
			scoredList = append(scoredList, scored{c, d})
		}
	}
	sort.Slice(scoredList, func(i, j int) bool {
		if scoredList[i].dist != scoredList[j].dist {
			return scoredList[i].dist < scoredList[j].dist
		}
		return scoredList[i].cand.Name < scoredList[j].cand.Name
	})
	if len(scoredList) > 3 {
		scoredList = scoredList[:3]
	}
	out := make([]SimilarName, 0, len(scoredList))
	for _, s := range scoredList {
		out = append(out, SimilarName{Name: s.cand.Name, DeclaredLine: s.cand.Line, Distance: s.dist})
	}
	return out
}
