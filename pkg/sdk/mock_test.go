package lessonqa

import (
	"context"

	"github.com/kailas-cloud/lessonqa/internal/domain"
	"github.com/kailas-cloud/lessonqa/internal/domain/intent"
	healthuc "github.com/kailas-cloud/lessonqa/internal/usecase/health"
)

// --- answerUseCase mock ---

type mockAnswerUC struct {
	tokens  int
	answer  string
	context string
	matched bool
}

func (m *mockAnswerUC) Answer(ctx context.Context, _ string) string {
	domain.UsageFromContext(ctx).AddTokens(m.tokens)
	return m.answer
}

func (m *mockAnswerUC) AnswerWithoutAI(_ context.Context, _ string) string {
	return m.context
}

func (m *mockAnswerUC) Context(_ context.Context, _ string) (string, bool) {
	return m.context, m.matched
}

// --- retrievalUseCase mock ---

type mockRetrievalUC struct {
	in     intent.Intent
	fields []string
}

func (m *mockRetrievalUC) Classify(_ string) intent.Intent { return m.in }
func (m *mockRetrievalUC) Fields() []string { return m.fields }
func (m *mockRetrievalUC) DatasetSize() int { return 4 }

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(_ context.Context) healthuc.Report { return m.report }
