package nlp

import (
	"strings"
	"unicode"
)

// Token is one tagged word.
type Token struct {
	Text string
	Tag  string
}

// Tagger segments text into tagged tokens.
type Tagger interface {
	Tag(text string) []Token
}

// LexiconTagger tags each whitespace-separated token independently using a fixed lexicon.
// Safe for concurrent use: the lexicon is never written after construction.
type LexiconTagger struct {
	lexicon map[string]string
}

// NewLexiconTagger creates a tagger over the built-in Vietnamese lexicon.
// extra entries override or extend it; keys must be lowercase.
func NewLexiconTagger(extra map[string]string) *LexiconTagger {
	lex := make(map[string]string, len(defaultLexicon)+len(extra))
	for k, v := range defaultLexicon {
		lex[k] = v
	}
	for k, v := range extra {
		lex[k] = v
	}
	return &LexiconTagger{lexicon: lex}
}

// Tag splits on whitespace, strips surrounding punctuation and tags every token.
// Pure punctuation tokens are kept with TagPunctuation so callers see the full segmentation.
func (t *LexiconTagger) Tag(text string) []Token {
	fields := strings.Fields(text)
	tokens := make([]Token, 0, len(fields))

	for _, f := range fields {
		word := strings.TrimFunc(f, isPunct)
		if word == "" {
			tokens = append(tokens, Token{Text: f, Tag: TagPunctuation})
			continue
		}
		tokens = append(tokens, Token{Text: word, Tag: t.tagWord(word)})
	}
	return tokens
}

func (t *LexiconTagger) tagWord(word string) string {
	if isURL(word) {
		return TagURL
	}
	if isNumeric(word) {
		return TagNumeral
	}
	if tag, ok := t.lexicon[strings.ToLower(word)]; ok {
		return tag
	}
	return TagNoun
}

func isPunct(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSymbol(r)
}

func isURL(word string) bool {
	return strings.Contains(word, "://") || strings.HasPrefix(word, "www.")
}

// isNumeric reports tokens made of digits and separators only (2024, 16/07, 1.5).
func isNumeric(word string) bool {
	hasDigit := false
	for _, r := range word {
		switch {
		case unicode.IsDigit(r):
			hasDigit = true
		case isPunct(r):
		default:
			return false
		}
	}
	return hasDigit
}
