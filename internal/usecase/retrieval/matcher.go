package retrieval

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/lessonqa/internal/domain"
	"github.com/kailas-cloud/lessonqa/internal/domain/lesson"
	"github.com/kailas-cloud/lessonqa/internal/fuzzy"
)

// Match paths, used as metric labels.
const (
	PathDate  = "date"
	PathFuzzy = "fuzzy"
)

// Matcher selects the records relevant to a question.
// A question carrying a date is a literal lookup on the TIME field; any other
// question is scored against the normalized CONTENT, LINK and NOTE fields.
type Matcher struct {
	dates        DateExtractor
	norm         Normalizer
	threshold    int
	fallback     bool
	matchesTotal *prometheus.CounterVec
}

// NewMatcher creates a Matcher.
// matchesTotal is a counter vec with labels "path" and "outcome" ("hit"/"empty"); nil disables it.
func NewMatcher(
	dates DateExtractor,
	norm Normalizer,
	cfg domain.RetrievalConfig,
	matchesTotal *prometheus.CounterVec,
) *Matcher {
	return &Matcher{
		dates:        dates,
		norm:         norm,
		threshold:    cfg.FuzzyThreshold,
		fallback:     cfg.DateFallbackToFuzzy,
		matchesTotal: matchesTotal,
	}
}

// Match returns the matching records in dataset order. An empty result is a valid outcome.
func (m *Matcher) Match(question string, ds lesson.Dataset) []lesson.Record {
	if date := m.dates.ExtractDate(question); date != "" {
		matches := m.matchDate(date, ds)
		m.observe(PathDate, matches)
		if len(matches) > 0 || !m.fallback {
			return matches
		}
	}

	matches := m.matchFuzzy(question, ds)
	m.observe(PathFuzzy, matches)
	return matches
}

func (m *Matcher) matchDate(date string, ds lesson.Dataset) []lesson.Record {
	var out []lesson.Record
	for _, rec := range ds.Records() {
		if strings.Contains(rec.Get(lesson.FieldTime), date) {
			out = append(out, rec)
		}
	}
	return out
}

func (m *Matcher) matchFuzzy(question string, ds lesson.Dataset) []lesson.Record {
	q := m.norm.Normalize(question)
	if q == "" {
		return nil
	}

	var out []lesson.Record
	for _, rec := range ds.Records() {
		if m.relevant(q, rec) {
			out = append(out, rec)
		}
	}
	return out
}

// relevant reports whether any searchable field scores strictly above the threshold.
func (m *Matcher) relevant(q string, rec lesson.Record) bool {
	for _, f := range lesson.SearchableFields() {
		if fuzzy.PartialRatio(q, m.norm.Normalize(rec.Get(f))) > m.threshold {
			return true
		}
	}
	return false
}

func (m *Matcher) observe(path string, matches []lesson.Record) {
	if m.matchesTotal == nil {
		return
	}
	outcome := "hit"
	if len(matches) == 0 {
		outcome = "empty"
	}
	m.matchesTotal.WithLabelValues(path, outcome).Inc()
}
