// Package fuzzy ranks strings against a subsequence query.
//
// A candidate matches when every query rune appears in it in order,
// ignoring case. Matches score higher when the runes are adjacent, start
// words or start the candidate:
//
//	fuzzy.Rank("nc", []string{"node.copy", "node.cut", "view.fit"}, 0)
//	// node.cut, then node.copy
package fuzzy
