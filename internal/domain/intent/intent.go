package intent

import "github.com/kailas-cloud/lessonqa/internal/domain/lesson"

// Intent is the per-question decision of which date and fields a question targets.
type Intent struct {
	date   string
	fields []lesson.Field
}

// New creates an Intent. An empty field list means "all recognized fields".
func New(date string, fields []lesson.Field) Intent {
	if len(fields) == 0 {
		fields = lesson.RecognizedFields()
	}
	out := make([]lesson.Field, len(fields))
	copy(out, fields)
	return Intent{date: date, fields: out}
}

// Date returns the extracted date token, or "".
func (i Intent) Date() string { return i.date }

// HasDate reports whether the question carried a date token.
func (i Intent) HasDate() bool { return i.date != "" }

// Fields returns the targeted fields (never empty).
func (i Intent) Fields() []lesson.Field {
	if len(i.fields) == 0 {
		return lesson.RecognizedFields()
	}
	out := make([]lesson.Field, len(i.fields))
	copy(out, i.fields)
	return out
}

// Targets reports whether f is among the targeted fields.
func (i Intent) Targets(f lesson.Field) bool {
	for _, x := range i.Fields() {
		if x == f {
			return true
		}
	}
	return false
}
