package retrieval

import (
	"reflect"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kailas-cloud/lessonqa/internal/domain"
	"github.com/kailas-cloud/lessonqa/internal/domain/lesson"
	"github.com/kailas-cloud/lessonqa/internal/fuzzy"
	"github.com/kailas-cloud/lessonqa/internal/nlp"
)

func TestMatcher_DatePath(t *testing.T) {
	m := newTestMatcher(t, domain.DefaultRetrievalConfig())
	ds := testDataset(t)

	got := m.Match("Buổi học vào ngày 16/07 có link không?", ds)
	if len(got) != 1 {
		t.Fatalf("expected 1 match, got %d", len(got))
	}
	if got[0].Get(lesson.FieldTime) != "16/07/2024" {
		t.Errorf("matched %q", got[0].Get(lesson.FieldTime))
	}
}

func TestMatcher_DatePath_IgnoresFuzzyScore(t *testing.T) {
	m := newTestMatcher(t, domain.DefaultRetrievalConfig())
	ds := testDataset(t)

	// The text is a perfect fuzzy hit for another record, but the date decides.
	got := m.Match("ngày 25/07 biến và kiểu dữ liệu", ds)
	if !reflect.DeepEqual(contents(got), []string{"Hàm và module"}) {
		t.Errorf("matches = %v", contents(got))
	}
}

func TestMatcher_DatePath_SubstringOfTime(t *testing.T) {
	m := newTestMatcher(t, domain.DefaultRetrievalConfig())
	ds := testDataset(t)

	got := m.Match("tháng 7: 2024/07/1", ds)
	if len(got) != 0 {
		t.Errorf("year-first token should not match day-first TIME values, got %v", contents(got))
	}

	got = m.Match("các buổi 18/07/2024", ds)
	if !reflect.DeepEqual(contents(got), []string{"Biến và kiểu dữ liệu"}) {
		t.Errorf("matches = %v", contents(got))
	}
}

func TestMatcher_DatePath_NoFallback(t *testing.T) {
	m := newTestMatcher(t, domain.DefaultRetrievalConfig())
	ds := testDataset(t)

	if got := m.Match("Buổi học ngày 20/07 có chủ đề gì?", ds); len(got) != 0 {
		t.Errorf("expected no match, got %v", contents(got))
	}
	if got := m.Match("ngày 20/07 biến và kiểu dữ liệu", ds); len(got) != 0 {
		t.Errorf("date path must not fall back to fuzzy, got %v", contents(got))
	}
}

func TestMatcher_DatePath_FallbackEnabled(t *testing.T) {
	cfg := domain.DefaultRetrievalConfig()
	cfg.DateFallbackToFuzzy = true
	m := newTestMatcher(t, cfg)
	ds := testDataset(t)

	got := m.Match("ngày 20/07 biến và kiểu dữ liệu", ds)
	if !reflect.DeepEqual(contents(got), []string{"Biến và kiểu dữ liệu"}) {
		t.Errorf("matches = %v", contents(got))
	}

	// A date hit still wins over the fuzzy path.
	got = m.Match("ngày 25/07 biến và kiểu dữ liệu", ds)
	if !reflect.DeepEqual(contents(got), []string{"Hàm và module"}) {
		t.Errorf("matches = %v", contents(got))
	}
}

func TestMatcher_FuzzyPath(t *testing.T) {
	m := newTestMatcher(t, domain.DefaultRetrievalConfig())
	ds := testDataset(t)

	tests := []struct {
		question string
		want     []string
	}{
		{"Biến và kiểu dữ liệu trong Python", []string{"Biến và kiểu dữ liệu"}},
		{"Vòng lặp", []string{"Vòng lặp for và while"}},
		{"laptop", []string{"Biến và kiểu dữ liệu"}},
		{"Lập trình hướng đối tượng", []string{}},
		{"", []string{}},
		{"?!", []string{}},
	}
	for _, tc := range tests {
		t.Run(tc.question, func(t *testing.T) {
			got := contents(m.Match(tc.question, ds))
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("matches = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestMatcher_FuzzyPath_ThresholdIsStrict(t *testing.T) {
	ds := testDataset(t)
	question := "Biến và kiểu dữ liệu trong Python"

	cfg := domain.DefaultRetrievalConfig()
	cfg.FuzzyThreshold = 99
	if got := newTestMatcher(t, cfg).Match(question, ds); len(got) != 1 {
		t.Errorf("threshold 99: expected 1 match, got %d", len(got))
	}

	cfg.FuzzyThreshold = 100
	if got := newTestMatcher(t, cfg).Match(question, ds); len(got) != 0 {
		t.Errorf("threshold 100: score 100 must not pass, got %v", contents(got))
	}
}

func TestMatcher_FuzzyPath_OnlyAboveThreshold(t *testing.T) {
	cfg := domain.DefaultRetrievalConfig()
	m := newTestMatcher(t, cfg)
	norm := nlp.New(nil)
	ds := testDataset(t)

	questions := []string{
		"Biến và kiểu dữ liệu trong Python",
		"Vòng lặp",
		"bài tập",
		"mang máy tính",
		"giới thiệu python",
	}
	for _, q := range questions {
		nq := norm.Normalize(q)
		for _, rec := range m.Match(q, ds) {
			best := 0
			for _, f := range lesson.SearchableFields() {
				if s := fuzzy.PartialRatio(nq, norm.Normalize(rec.Get(f))); s > best {
					best = s
				}
			}
			if best <= cfg.FuzzyThreshold {
				t.Errorf("%q matched %q with best score %d", q, rec.Get(lesson.FieldContent), best)
			}
		}
	}
}

func TestMatcher_PreservesDatasetOrder(t *testing.T) {
	ds := lesson.NewDataset(
		lessonRecord(t, "01/08/2024", "Ôn tập biến", "", ""),
		lessonRecord(t, "02/08/2024", "Hàm", "", ""),
		lessonRecord(t, "03/08/2024", "Ôn tập vòng lặp", "", ""),
	)
	m := newTestMatcher(t, domain.DefaultRetrievalConfig())

	got := contents(m.Match("tập", ds))
	if strings.Join(got, "|") != "Ôn tập biến|Ôn tập vòng lặp" {
		t.Errorf("matches = %v", got)
	}
}

func TestMatcher_EmptyDataset(t *testing.T) {
	m := newTestMatcher(t, domain.DefaultRetrievalConfig())
	if got := m.Match("16/07", lesson.NewDataset()); len(got) != 0 {
		t.Errorf("expected no match, got %d", len(got))
	}
	if got := m.Match("biến", lesson.NewDataset()); len(got) != 0 {
		t.Errorf("expected no match, got %d", len(got))
	}
}

func TestMatcher_Metrics(t *testing.T) {
	counter := prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "test_retrieval_matches_total", Help: "test"},
		[]string{"path", "outcome"},
	)
	m := NewMatcher(newTestClassifier(t), nlp.New(nil), domain.DefaultRetrievalConfig(), counter)
	ds := testDataset(t)

	m.Match("ngày 16/07", ds)
	m.Match("ngày 20/07", ds)
	m.Match("Vòng lặp", ds)

	if v := testutil.ToFloat64(counter.WithLabelValues(PathDate, "hit")); v != 1 {
		t.Errorf("date hit = %v, want 1", v)
	}
	if v := testutil.ToFloat64(counter.WithLabelValues(PathDate, "empty")); v != 1 {
		t.Errorf("date empty = %v, want 1", v)
	}
	if v := testutil.ToFloat64(counter.WithLabelValues(PathFuzzy, "hit")); v != 1 {
		t.Errorf("fuzzy hit = %v, want 1", v)
	}
}
