package lessonqa

// Answer is the reply to a question.
type Answer struct {
	Text string
	// Tokens is the LLM token count of this answer; 0 on a cache hit or fallback.
	Tokens int
	// LLMCalled is true when the generator was invoked, including cache hits.
	LLMCalled bool
}

// Intent is what a question asks for: an optional date token and the targeted fields.
type Intent struct {
	Date   string
	Fields []string
}

// FieldTrigger maps a dataset field to the phrases that target it.
type FieldTrigger struct {
	Field   string
	Phrases []string
}
