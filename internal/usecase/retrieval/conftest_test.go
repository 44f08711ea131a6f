package retrieval

import (
	"testing"

	"github.com/kailas-cloud/lessonqa/internal/domain"
	"github.com/kailas-cloud/lessonqa/internal/domain/lesson"
	"github.com/kailas-cloud/lessonqa/internal/nlp"
)

func mustRecord(t *testing.T, pairs ...string) lesson.Record {
	t.Helper()
	r, err := lesson.NewRecord(pairs...)
	if err != nil {
		t.Fatalf("new record: %v", err)
	}
	return r
}

func lessonRecord(t *testing.T, when, content, link, note string) lesson.Record {
	t.Helper()
	return mustRecord(t,
		string(lesson.FieldTime), when,
		string(lesson.FieldContent), content,
		string(lesson.FieldLink), link,
		string(lesson.FieldNote), note,
	)
}

// testDataset is a small course schedule shared by the retrieval tests.
func testDataset(t *testing.T) lesson.Dataset {
	t.Helper()
	return lesson.NewDataset(
		lessonRecord(t, "16/07/2024", "Giới thiệu", "http://x", ""),
		lessonRecord(t, "18/07/2024", "Biến và kiểu dữ liệu", "https://drive.example.com/bien", "Mang laptop"),
		lessonRecord(t, "23/07/2024", "Vòng lặp for và while", "", "Bài tập về nhà"),
		lessonRecord(t, "25/07/2024", "Hàm và module", "", ""),
	)
}

func newTestClassifier(t *testing.T) *Classifier {
	t.Helper()
	c, err := NewClassifier(domain.DefaultRetrievalConfig().DatePattern, nil)
	if err != nil {
		t.Fatalf("new classifier: %v", err)
	}
	return c
}

func newTestMatcher(t *testing.T, cfg domain.RetrievalConfig) *Matcher {
	t.Helper()
	return NewMatcher(newTestClassifier(t), nlp.New(nil), cfg, nil)
}

func contents(recs []lesson.Record) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.Get(lesson.FieldContent)
	}
	return out
}
