package mood

import "strings"

// Detector maps free text onto a mood id by exact keyword matching.
// It is read-only after construction and safe for concurrent use.
type Detector struct {
	ids      []string
	keywords []map[string]struct{} // parallel to ids
}

// NewDetector indexes the keywords of every node in reg.
func NewDetector(reg *Registry) *Detector {
	d := &Detector{
		ids:      make([]string, 0, reg.Len()),
		keywords: make([]map[string]struct{}, 0, reg.Len()),
	}
	for _, n := range reg.nodes {
		set := make(map[string]struct{}, len(n.Keywords))
		for _, kw := range n.Keywords {
			set[kw] = struct{}{}
		}
		d.ids = append(d.ids, n.ID)
		d.keywords = append(d.keywords, set)
	}
	return d
}

// Detect returns the first mood, in registry order, that has a keyword equal
// to one of the whitespace-separated tokens of text. Matching is
// case-insensitive and token-exact ("sadness" does not match "sad").
// When nothing matches it returns Neutral.
func (d *Detector) Detect(text string) string {
	tokens := tokenize(text)
	for i, set := range d.keywords {
		if matchesAny(set, tokens) {
			return d.ids[i]
		}
	}
	return Neutral
}

// DetectAll returns every matching mood in registry order. The result is
// empty, not nil, when nothing matches.
func (d *Detector) DetectAll(text string) []string {
	tokens := tokenize(text)
	out := []string{}
	for i, set := range d.keywords {
		if matchesAny(set, tokens) {
			out = append(out, d.ids[i])
		}
	}
	return out
}

func tokenize(text string) []string {
	return strings.Fields(strings.ToLower(text))
}

func matchesAny(set map[string]struct{}, tokens []string) bool {
	for _, tok := range tokens {
		if _, ok := set[tok]; ok {
			return true
		}
	}
	return false
}
