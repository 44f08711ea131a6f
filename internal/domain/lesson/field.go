package lesson

// Field is a dataset key of a lesson record.
type Field string

// Recognized lesson fields, named as they appear in the source dataset.
const (
	FieldTime    Field = "THỜI GIAN"
	FieldContent Field = "NỘI DUNG BUỔI HỌC"
	FieldLink    Field = "LINK XEM LẠI VIDEO + TÀI LIỆU"
	FieldNote    Field = "GHI CHÚ"
)

// RecognizedFields returns the recognized fields in their canonical order.
func RecognizedFields() []Field {
	return []Field{FieldTime, FieldContent, FieldLink, FieldNote}
}

// SearchableFields returns the fields compared against free-text questions.
func SearchableFields() []Field {
	return []Field{FieldContent, FieldLink, FieldNote}
}
