package retrieval

// Normalizer reduces text to its comparable content words.
type Normalizer interface {
	Normalize(text string) string
}

// DateExtractor finds the date token of a question, or returns "".
type DateExtractor interface {
	ExtractDate(question string) string
}
