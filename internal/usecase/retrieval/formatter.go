package retrieval

import (
	"strings"

	"github.com/kailas-cloud/lessonqa/internal/domain/intent"
	"github.com/kailas-cloud/lessonqa/internal/domain/lesson"
)

const (
	matchHeader   = "Thông tin liên quan:\n"
	fieldsHeader  = "Các trường trong dữ liệu: "
	sampleHeader  = "Dữ liệu mẫu:\n"
	recordDivider = "\n---\n"
)

// Formatter renders matched records, or a dataset sample when nothing matched,
// into the context block handed to the LLM.
type Formatter struct {
	sampleSize int
}

// NewFormatter creates a Formatter showing up to sampleSize records on no match.
func NewFormatter(sampleSize int) *Formatter {
	return &Formatter{sampleSize: sampleSize}
}

// Format renders matches restricted to the intent fields. With no matches it
// describes the dataset shape instead; an empty dataset yields the headers only.
func (f *Formatter) Format(matches []lesson.Record, in intent.Intent, ds lesson.Dataset) string {
	var b strings.Builder

	if len(matches) > 0 {
		fields := in.Fields()
		b.WriteString(matchHeader)
		for _, rec := range matches {
			writeRecord(&b, rec, fieldNames(fields))
		}
		return b.String()
	}

	fields := ds.Fields()
	b.WriteString(fieldsHeader)
	b.WriteString(strings.Join(fields, ", "))
	b.WriteString("\n")
	b.WriteString(sampleHeader)
	for _, rec := range ds.Head(f.sampleSize) {
		writeRecord(&b, rec, fields)
	}
	return b.String()
}

func writeRecord(b *strings.Builder, rec lesson.Record, fields []string) {
	for i, name := range fields {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(rec.Get(lesson.Field(name)))
	}
	b.WriteString(recordDivider)
}

func fieldNames(fields []lesson.Field) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = string(f)
	}
	return out
}
