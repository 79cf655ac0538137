package hoststore

import (
	"strings"

	ahocorasick "github.com/petar-dambovaliev/aho-corasick"
	"github.com/orsinium-labs/stopwords"
)

// TextPrizer counts node-label occurrences in free text with a single
// Aho-Corasick pass, for callers that want a document to drive
// pcst_nodes.prize rather than setting it by hand. Labels that are
// themselves stopwords never enter the automaton, so a label like "a" or
// "the" can't dominate every document it's run against.
type TextPrizer struct {
	ac      ahocorasick.AhoCorasick
	pattern []string // pattern index -> node id, parallel to the AC's pattern order
}

// NewTextPrizer builds an automaton over labels, keyed by node id. Labels
// are matched case-insensitively as whole words; a label containing only
// stopwords (or no content at all) is skipped.
func NewTextPrizer(labels map[string]string) *TextPrizer {
	p := &TextPrizer{}
	ids := make([]string, 0, len(labels))
	patterns := make([]string, 0, len(labels))
	for id, label := range labels {
		norm := strings.TrimSpace(label)
		if norm == "" || isStopPhrase(norm) {
			continue
		}
		ids = append(ids, id)
		patterns = append(patterns, norm)
	}
	p.pattern = ids

	builder := ahocorasick.NewAhoCorasickBuilder(ahocorasick.Opts{
		AsciiCaseInsensitive: true,
		MatchOnlyWholeWords:  true,
		MatchKind:            ahocorasick.LeftMostLongestMatch,
	})
	p.ac = builder.Build(patterns)
	return p
}

// isStopPhrase reports whether every word of phrase is an English stopword,
// in which case it carries no useful signal as a prize-bearing label.
func isStopPhrase(phrase string) bool {
	for _, word := range strings.Fields(phrase) {
		if !stopwords.English.IsStopword(strings.ToLower(word)) {
			return false
		}
	}
	return true
}

// Count scans text once and returns, per node id, how many times its label
// occurred.
func (p *TextPrizer) Count(text string) map[string]int {
	counts := make(map[string]int)
	for _, m := range p.ac.FindAll(text) {
		id := p.pattern[m.Pattern()]
		counts[id]++
	}
	return counts
}

// ApplyCounts adds weight*count to each matched node's stored prize, for
// nodes already present in worldID. Unmatched nodes are left untouched.
func (s *Store) ApplyCounts(worldID string, counts map[string]int, weight float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, count := range counts {
		if count == 0 {
			continue
		}
		if _, err := s.db.Exec(`
			UPDATE pcst_nodes SET prize = prize + ? WHERE id = ? AND world_id = ?
		`, weight*float64(count), id, worldID); err != nil {
			return err
		}
	}
	return nil
}
