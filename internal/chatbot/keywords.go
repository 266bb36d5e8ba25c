package chatbot

import (
	"fmt"
	"sort"
	"strings"

	goahocorasick "github.com/anknown/ahocorasick"
	"github.com/samber/lo"
)

// keywordSet reports whether any of its keywords occurs inside a text.
type keywordSet struct {
	words   []string
	machine *goahocorasick.Machine
}

func newKeywordSet(words []string) (*keywordSet, error) {
	normalized := lo.Uniq(lo.FilterMap(words, func(w string, _ int) (string, bool) {
		w = normalize(w)
		return w, w != ""
	}))
	if len(normalized) == 0 {
		return &keywordSet{}, nil
	}

	// the double-array trie is built from sorted keys
	sort.Strings(normalized)

	patterns := lo.Map(normalized, func(w string, _ int) []rune { return []rune(w) })

	m := new(goahocorasick.Machine)
	if err := m.Build(patterns); err != nil {
		return nil, fmt.Errorf("building keyword automaton for %v: %w", normalized, err)
	}

	return &keywordSet{words: normalized, machine: m}, nil
}

// matches expects text to be normalized already.
func (k *keywordSet) matches(text []rune) bool {
	if k == nil || k.machine == nil || len(text) == 0 {
		return false
	}
	return len(k.machine.MultiPatternSearch(text, true)) > 0
}

func (k *keywordSet) size() int {
	if k == nil {
		return 0
	}
	return len(k.words)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
