package domain

import (
	"context"
	"errors"
	"testing"
)

type stubGenerator struct {
	result Generation
	err    error
	got    string
}

func (s *stubGenerator) Generate(_ context.Context, prompt string) (Generation, error) {
	s.got = prompt
	return s.result, s.err
}

func TestInstructionGenerator_PrependsInstruction(t *testing.T) {
	inner := &stubGenerator{result: Generation{Text: "xin chào", TotalTokens: 7}}
	gen := NewInstructionGenerator(inner, "Bạn là trợ lý học tập.")

	result, err := gen.Generate(context.Background(), "câu hỏi")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.got != "Bạn là trợ lý học tập.\n\ncâu hỏi" {
		t.Errorf("expected prepended prompt, got %q", inner.got)
	}
	if result.Text != "xin chào" || result.TotalTokens != 7 {
		t.Errorf("unexpected result %+v", result)
	}
}

func TestInstructionGenerator_ErrorPropagation(t *testing.T) {
	inner := &stubGenerator{err: ErrLLMTimeout}
	gen := NewInstructionGenerator(inner, "x")

	_, err := gen.Generate(context.Background(), "hello")
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, ErrLLMTimeout) {
		t.Errorf("expected wrapped inner error, got %v", err)
	}
}

func TestInstructionGenerator_EmptyInstruction(t *testing.T) {
	inner := &stubGenerator{result: Generation{Text: "ok"}}
	gen := NewInstructionGenerator(inner, "")

	if _, err := gen.Generate(context.Background(), "test"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.got != "test" {
		t.Errorf("expected 'test', got %q", inner.got)
	}
}

func TestLLMUsage_AddTokens(t *testing.T) {
	ctx, u := NewContextWithUsage(context.Background())
	UsageFromContext(ctx).AddTokens(12)
	if u.TotalTokens != 12 || !u.Used {
		t.Errorf("unexpected usage %+v", u)
	}

	// nil collector is a no-op
	UsageFromContext(context.Background()).AddTokens(5)
}
