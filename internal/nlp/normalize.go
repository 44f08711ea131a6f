// Package nlp normalizes Vietnamese question text for fuzzy matching.
package nlp

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// contentPrefixes are the tag prefixes kept by Normalize: nouns, verbs, adjectives.
var contentPrefixes = []string{TagNoun, TagVerb, TagAdjective}

// Normalizer reduces text to its content words.
type Normalizer struct {
	tagger Tagger
}

// New creates a Normalizer. A nil tagger falls back to the built-in lexicon tagger.
func New(tagger Tagger) *Normalizer {
	if tagger == nil {
		tagger = NewLexiconTagger(nil)
	}
	return &Normalizer{tagger: tagger}
}

// Normalize lowercases text, tags it and keeps only noun, verb and adjective tokens
// joined by single spaces. Returns "" when nothing survives.
func (n *Normalizer) Normalize(text string) string {
	text = Fold(text)
	if text == "" {
		return ""
	}

	tokens := n.tagger.Tag(text)
	kept := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if isContent(tok.Tag) {
			kept = append(kept, tok.Text)
		}
	}
	return strings.Join(kept, " ")
}

// Fold applies Unicode NFC composition, lowercases and trims.
// Composing again after lowercasing keeps decomposed input comparable to the dataset.
func Fold(text string) string {
	text = norm.NFC.String(text)
	text = strings.ToLower(text)
	return strings.TrimSpace(norm.NFC.String(text))
}

func isContent(tag string) bool {
	for _, p := range contentPrefixes {
		if strings.HasPrefix(tag, p) {
			return true
		}
	}
	return false
}
