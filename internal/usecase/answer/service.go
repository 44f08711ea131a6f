package answer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/lessonqa/internal/domain"
	"github.com/kailas-cloud/lessonqa/internal/logger"
)

// Service answers questions about the lesson dataset.
// Every path resolves to a user-facing string; generation failures become
// localized apologies and an unavailable backend degrades to the raw context.
type Service struct {
	retriever Retriever
	gen       domain.Generator
	timeout   time.Duration
	logger    *zap.Logger
}

// New creates an answer service. gen can be nil, in which case Answer reports
// the service as not configured. timeout bounds each generation call; zero disables it.
func New(retriever Retriever, gen domain.Generator, timeout time.Duration, logger *zap.Logger) *Service {
	return &Service{retriever: retriever, gen: gen, timeout: timeout, logger: logger}
}

// Answer retrieves context for question, asks the LLM and returns its trimmed reply.
func (s *Service) Answer(ctx context.Context, question string) string {
	if strings.TrimSpace(question) == "" {
		return MsgEmptyQuestion
	}

	res := s.retriever.Retrieve(question)
	if res.Context == "" {
		return MsgEmptyOutput
	}

	text, err := s.generate(ctx, BuildPrompt(res.Context, question))
	if err != nil {
		if fallsBackToContext(err) {
			s.log(ctx).Warn("LLM unavailable, answering with raw context", zap.Error(err))
			return res.Context
		}
		s.log(ctx).Error("LLM generation failed",
			zap.Bool("matched", res.Matched()),
			zap.Error(err),
		)
		return MessageFor(err)
	}

	if text = strings.TrimSpace(text); text == "" {
		return MsgNoAnswer
	}
	return text
}

// Context returns the rendered context for question and whether any record matched.
// No LLM is involved.
func (s *Service) Context(_ context.Context, question string) (string, bool) {
	res := s.retriever.Retrieve(question)
	return res.Context, res.Matched()
}

// AnswerWithoutAI answers from the matched records alone.
func (s *Service) AnswerWithoutAI(ctx context.Context, question string) string {
	if strings.TrimSpace(question) == "" {
		return MsgEmptyQuestion
	}
	text, matched := s.Context(ctx, question)
	if !matched {
		return fmt.Sprintf(noAINotFoundFormat, question)
	}
	return fmt.Sprintf(noAIFoundFormat, question, text)
}

func (s *Service) generate(ctx context.Context, prompt string) (string, error) {
	if s.gen == nil {
		return "", domain.ErrLLMNotConfigured
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	res, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("generate answer: %w", err)
	}
	return res.Text, nil
}

func (s *Service) log(ctx context.Context) *zap.Logger {
	return logger.FromContextOr(ctx, s.logger)
}
