package retrieval

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/lessonqa/internal/domain"
	"github.com/kailas-cloud/lessonqa/internal/domain/intent"
	"github.com/kailas-cloud/lessonqa/internal/domain/lesson"
)

// Result is the outcome of retrieving context for one question.
type Result struct {
	Intent  intent.Intent
	Matches []lesson.Record
	Context string
}

// Matched reports whether any record was judged relevant.
func (r Result) Matched() bool { return len(r.Matches) > 0 }

// Service runs classify, match and format over a read-only dataset.
type Service struct {
	dataset    lesson.Dataset
	classifier *Classifier
	matcher    *Matcher
	formatter  *Formatter
}

// New wires the retrieval pipeline over dataset.
// matchesTotal is passed to the Matcher and may be nil.
func New(
	ds lesson.Dataset,
	norm Normalizer,
	cfg domain.RetrievalConfig,
	triggers []FieldTriggers,
	matchesTotal *prometheus.CounterVec,
) (*Service, error) {
	classifier, err := NewClassifier(cfg.DatePattern, triggers)
	if err != nil {
		return nil, fmt.Errorf("new classifier: %w", err)
	}
	return &Service{
		dataset:    ds,
		classifier: classifier,
		matcher:    NewMatcher(classifier, norm, cfg, matchesTotal),
		formatter:  NewFormatter(cfg.SampleSize),
	}, nil
}

// Retrieve classifies question, matches it against the dataset and renders the context.
func (s *Service) Retrieve(question string) Result {
	in := s.classifier.Classify(question)
	matches := s.matcher.Match(question, s.dataset)
	return Result{
		Intent:  in,
		Matches: matches,
		Context: s.formatter.Format(matches, in, s.dataset),
	}
}

// Classify exposes the intent of question without matching.
func (s *Service) Classify(question string) intent.Intent {
	return s.classifier.Classify(question)
}

// Fields returns the dataset's field names in source order.
func (s *Service) Fields() []string { return s.dataset.Fields() }

// DatasetSize returns the number of loaded records.
func (s *Service) DatasetSize() int { return s.dataset.Len() }
