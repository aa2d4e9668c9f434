package keymap

import "github.com/dshills/canvaskeys/internal/input/fuzzy"

// Find returns the bindings whose keys, action or description match query,
// best match first. A blank query returns every binding.
func (k *Keymap) Find(query string, limit int) []Binding {
	candidates := make([]string, len(k.Bindings))
	for i, b := range k.Bindings {
		candidates[i] = b.Action + " " + b.Keys + " " + b.Description
	}

	matches := fuzzy.Rank(query, candidates, limit)
	out := make([]Binding, len(matches))
	for i, m := range matches {
		out[i] = k.Bindings[m.Index]
	}
	return out
}
