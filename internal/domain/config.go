package domain

// RetrievalConfig holds the tuning knobs of the record retrieval pipeline.
type RetrievalConfig struct {
	// DatePattern is the regular expression that extracts a date token from a question.
	DatePattern string
	// FuzzyThreshold is the score a field must exceed (strictly) to match.
	FuzzyThreshold int
	// DateFallbackToFuzzy lets a date question with no date hit try the fuzzy path.
	DateFallbackToFuzzy bool
	// SampleSize is how many records the no-match context shows.
	SampleSize int
}

// DefaultRetrievalConfig returns the defaults the service ships with.
func DefaultRetrievalConfig() RetrievalConfig {
	return RetrievalConfig{
		DatePattern:    `\d{1,2}/\d{1,2}(/\d{4})?|\d{4}/\d{1,2}/\d{1,2}`,
		FuzzyThreshold: 70,
		SampleSize:     3,
	}
}
