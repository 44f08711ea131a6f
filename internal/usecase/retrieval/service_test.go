package retrieval

import (
	"strings"
	"testing"

	"github.com/kailas-cloud/lessonqa/internal/domain"
	"github.com/kailas-cloud/lessonqa/internal/domain/lesson"
	"github.com/kailas-cloud/lessonqa/internal/nlp"
)

func newTestService(t *testing.T, ds lesson.Dataset) *Service {
	t.Helper()
	svc, err := New(ds, nlp.New(nil), domain.DefaultRetrievalConfig(), nil, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestService_DateQuestion(t *testing.T) {
	ds := lesson.NewDataset(lessonRecord(t, "16/07/2024", "Giới thiệu", "http://x", ""))
	svc := newTestService(t, ds)

	res := svc.Retrieve("Buổi học vào ngày 16/07 có link không?")
	if !res.Matched() {
		t.Fatal("expected a match")
	}
	if !res.Intent.Targets(lesson.FieldLink) {
		t.Errorf("intent should target LINK, got %v", res.Intent.Fields())
	}
	want := "Thông tin liên quan:\nTHỜI GIAN: 16/07/2024\nLINK XEM LẠI VIDEO + TÀI LIỆU: http://x\n---\n"
	if res.Context != want {
		t.Errorf("context = %q", res.Context)
	}
}

func TestService_UnknownDateFallsBackToSample(t *testing.T) {
	ds := lesson.NewDataset(lessonRecord(t, "16/07/2024", "Giới thiệu", "http://x", ""))
	svc := newTestService(t, ds)

	res := svc.Retrieve("Buổi học ngày 20/07 có chủ đề gì?")
	if res.Matched() {
		t.Fatalf("expected no match, got %d", len(res.Matches))
	}
	if !strings.HasPrefix(res.Context, "Các trường trong dữ liệu: ") {
		t.Errorf("expected sample context, got %q", res.Context)
	}
	if !strings.Contains(res.Context, "NỘI DUNG BUỔI HỌC: Giới thiệu") {
		t.Errorf("sample should render all fields, got %q", res.Context)
	}
}

func TestService_FuzzyQuestionUsesAllFields(t *testing.T) {
	svc := newTestService(t, testDataset(t))

	res := svc.Retrieve("Biến và kiểu dữ liệu trong Python")
	if len(res.Matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(res.Matches))
	}
	if len(res.Intent.Fields()) != len(lesson.RecognizedFields()) {
		t.Errorf("expected all fields, got %v", res.Intent.Fields())
	}
	if !strings.Contains(res.Context, "GHI CHÚ: Mang laptop") {
		t.Errorf("context = %q", res.Context)
	}
}

func TestService_Accessors(t *testing.T) {
	svc := newTestService(t, testDataset(t))
	if svc.DatasetSize() != 4 {
		t.Errorf("size = %d", svc.DatasetSize())
	}
	if len(svc.Fields()) != 4 {
		t.Errorf("fields = %v", svc.Fields())
	}
	if svc.Classify("link video").Targets(lesson.FieldTime) {
		t.Error("link question should not target TIME")
	}
}

func TestNew_InvalidPattern(t *testing.T) {
	cfg := domain.DefaultRetrievalConfig()
	cfg.DatePattern = "["
	if _, err := New(lesson.NewDataset(), nlp.New(nil), cfg, nil, nil); err == nil {
		t.Fatal("expected error")
	}
}
