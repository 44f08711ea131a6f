package answer

import "github.com/kailas-cloud/lessonqa/internal/usecase/retrieval"

// Retriever finds and renders the records relevant to a question.
type Retriever interface {
	Retrieve(question string) retrieval.Result
}
