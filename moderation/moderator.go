// Package moderation censors configured words in message content before it
// is persisted.
package moderation

import (
	"unicode"

	goahocorasick "github.com/anknown/ahocorasick"
)

type Censor struct {
	matcher     *goahocorasick.Machine
	replacement rune
}

// NewCensor builds the Aho-Corasick automaton over the lowered word list.
// An empty list yields a disabled censor that passes content through.
func NewCensor(words []string, replacement rune) (*Censor, error) {
	if len(words) == 0 {
		return &Censor{replacement: replacement}, nil
	}

	patterns := make([][]rune, len(words))
	for i, word := range words {
		patterns[i] = lowerRunes([]rune(word))
	}

	m := new(goahocorasick.Machine)
	if err := m.Build(patterns); err != nil {
		return nil, err
	}
	return &Censor{matcher: m, replacement: replacement}, nil
}

// Apply replaces every occurrence of a censored word with the replacement
// rune. Matching is case-insensitive; the lowered copy is built rune by rune
// so the indices line up with the original text.
func (c *Censor) Apply(content string) string {
	if c.matcher == nil {
		return content
	}

	original := []rune(content)
	lowered := lowerRunes(original)

	spans := c.matcher.MultiPatternSearch(lowered, false)
	if len(spans) == 0 {
		return content
	}

	for _, span := range spans {
		end := span.Pos + len(span.Word)
		if span.Pos < 0 || end > len(original) {
			continue
		}
		for i := span.Pos; i < end; i++ {
			original[i] = c.replacement
		}
	}
	return string(original)
}

func lowerRunes(in []rune) []rune {
	out := make([]rune, len(in))
	for i, r := range in {
		out[i] = unicode.ToLower(r)
	}
	return out
}
