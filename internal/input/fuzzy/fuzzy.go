package fuzzy

import (
	"slices"
	"strings"
	"unicode"
)

// Score weights.
const (
	baseScore      = 100
	adjacentBonus  = 20
	boundaryBonus  = 15
	firstRuneBonus = 25
	prefixBonus    = 50
	gapPenalty     = 2
	shortTextLimit = 20
)

// Match is a candidate that matched a query.
type Match struct {
	// Index is the candidate's position in the input slice.
	Index int

	// Text is the candidate.
	Text string

	// Score ranks the match; higher is better.
	Score int

	// Positions are the rune indices of the matched runes.
	Positions []int
}

// Rank returns the candidates matching query, best first. Ties keep input
// order. A blank query matches every candidate with a zero score.
// limit <= 0 returns all matches.
func Rank(query string, candidates []string, limit int) []Match {
	q := []rune(strings.ToLower(strings.TrimSpace(query)))

	var out []Match
	for i, text := range candidates {
		if len(q) == 0 {
			out = append(out, Match{Index: i, Text: text})
			continue
		}
		pos, ok := positions(q, text)
		if !ok {
			continue
		}
		out = append(out, Match{Index: i, Text: text, Score: score(q, text, pos), Positions: pos})
	}

	slices.SortStableFunc(out, func(a, b Match) int { return b.Score - a.Score })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// positions finds q in text with a greedy left-to-right scan.
func positions(q []rune, text string) ([]int, bool) {
	pos := make([]int, 0, len(q))
	i := 0
	for idx, r := range []rune(strings.ToLower(text)) {
		if i < len(q) && r == q[i] {
			pos = append(pos, idx)
			i++
		}
	}
	return pos, i == len(q)
}

func score(q []rune, text string, pos []int) int {
	runes := []rune(text)
	s := baseScore

	for i, p := range pos {
		if i > 0 && p == pos[i-1]+1 {
			s += adjacentBonus
		}
		if startsWord(runes, p) {
			s += boundaryBonus
		}
	}

	first, last := pos[0], pos[len(pos)-1]
	if first == 0 {
		s += firstRuneBonus
	}
	s -= first
	s -= (last - first + 1 - len(pos)) * gapPenalty

	if len(runes) < shortTextLimit {
		s += shortTextLimit - len(runes)
	}
	if strings.HasPrefix(strings.ToLower(text), string(q)) {
		s += prefixBonus
	}
	return max(s, 1)
}

// startsWord reports whether runes[i] follows a separator or is an
// upper-case rune after a lower-case one.
func startsWord(runes []rune, i int) bool {
	if i == 0 {
		return true
	}
	prev, cur := runes[i-1], runes[i]
	if unicode.IsSpace(prev) || unicode.IsPunct(prev) || unicode.IsSymbol(prev) {
		return true
	}
	return unicode.IsLower(prev) && unicode.IsUpper(cur)
}
