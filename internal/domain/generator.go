package domain

import (
	"context"
	"fmt"
)

// Generation is the result of a single LLM text generation.
type Generation struct {
	Text             string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Generator is the shared text generation contract between layers.
// Failures are reported through the ErrLLM* sentinels so callers can branch with errors.Is.
type Generator interface {
	Generate(ctx context.Context, prompt string) (Generation, error)
}

// HealthChecker verifies generator backend availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// KeyPrefix namespaces every key lessonqa writes to Redis/Valkey.
const KeyPrefix = "lessonqa:"

// InstructionGenerator is a domain decorator that prepends a fixed instruction to every prompt.
type InstructionGenerator struct {
	inner       Generator
	instruction string
}

// NewInstructionGenerator creates a decorator that prepends instruction text.
func NewInstructionGenerator(inner Generator, instruction string) *InstructionGenerator {
	return &InstructionGenerator{inner: inner, instruction: instruction}
}

// Generate prepends the instruction and delegates to the inner generator.
func (g *InstructionGenerator) Generate(ctx context.Context, prompt string) (Generation, error) {
	if g.instruction != "" {
		prompt = g.instruction + "\n\n" + prompt
	}
	res, err := g.inner.Generate(ctx, prompt)
	if err != nil {
		return Generation{}, fmt.Errorf("instruction generate: %w", err)
	}
	return res, nil
}
