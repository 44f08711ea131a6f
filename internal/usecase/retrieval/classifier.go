package retrieval

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/kailas-cloud/lessonqa/internal/domain/intent"
	"github.com/kailas-cloud/lessonqa/internal/domain/lesson"
	"github.com/kailas-cloud/lessonqa/internal/nlp"
)

// FieldTriggers maps a record field to the phrases that signal a question is about it.
type FieldTriggers struct {
	Field   lesson.Field
	Phrases []string
}

// DefaultTriggers returns the built-in Vietnamese trigger table in field order.
func DefaultTriggers() []FieldTriggers {
	return []FieldTriggers{
		{Field: lesson.FieldTime, Phrases: []string{"khi nào", "thời gian", "ngày", "lúc nào", "hôm"}},
		{Field: lesson.FieldContent, Phrases: []string{"chủ đề", "nội dung", "học về gì", "học gì", "có gì"}},
		{Field: lesson.FieldLink, Phrases: []string{"xem lại", "link", "video", "live", "tài liệu"}},
		{Field: lesson.FieldNote, Phrases: []string{"ghi chú", "lưu ý", "nhắc nhở", "note"}},
	}
}

// Classifier derives the date and targeted fields of a question.
// Trigger matching is plain substring containment on the folded question,
// so a phrase inside a longer unrelated word still counts.
type Classifier struct {
	date     *regexp.Regexp
	triggers []FieldTriggers
}

// NewClassifier compiles datePattern and folds the trigger phrases.
// An empty trigger table falls back to DefaultTriggers.
func NewClassifier(datePattern string, triggers []FieldTriggers) (*Classifier, error) {
	re, err := regexp.Compile(datePattern)
	if err != nil {
		return nil, fmt.Errorf("compile date pattern: %w", err)
	}
	if len(triggers) == 0 {
		triggers = DefaultTriggers()
	}

	folded := make([]FieldTriggers, 0, len(triggers))
	for _, t := range triggers {
		if t.Field == "" {
			return nil, fmt.Errorf("trigger table: empty field name")
		}
		phrases := make([]string, 0, len(t.Phrases))
		for _, p := range t.Phrases {
			if p = nlp.Fold(p); p != "" {
				phrases = append(phrases, p)
			}
		}
		folded = append(folded, FieldTriggers{Field: t.Field, Phrases: phrases})
	}

	return &Classifier{date: re, triggers: folded}, nil
}

// Classify returns the intent of question. Fields are never empty: with no trigger hit
// every field of the trigger table is targeted.
func (c *Classifier) Classify(question string) intent.Intent {
	q := nlp.Fold(question)

	var fields []lesson.Field
	for _, t := range c.triggers {
		for _, p := range t.Phrases {
			if strings.Contains(q, p) {
				fields = append(fields, t.Field)
				break
			}
		}
	}
	if len(fields) == 0 {
		fields = c.Fields()
	}
	return intent.New(c.date.FindString(q), fields)
}

// ExtractDate returns the first date-shaped substring of question, or "".
func (c *Classifier) ExtractDate(question string) string {
	return c.date.FindString(question)
}

// Fields returns the fields of the trigger table in order.
func (c *Classifier) Fields() []lesson.Field {
	out := make([]lesson.Field, len(c.triggers))
	for i, t := range c.triggers {
		out[i] = t.Field
	}
	return out
}
