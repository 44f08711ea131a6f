package domain

import "errors"

var (
	// ErrEmptyQuestion signals a blank question.
	ErrEmptyQuestion = errors.New("question is required")
	// ErrInvalidDataset signals a missing or malformed lesson dataset.
	ErrInvalidDataset = errors.New("invalid dataset")

	// ErrLLMNotConfigured signals a generator without endpoint, credentials or model.
	ErrLLMNotConfigured = errors.New("llm not configured")
	// ErrLLMTimeout signals that the LLM backend did not answer within the timeout.
	ErrLLMTimeout = errors.New("llm timeout")
	// ErrLLMUnreachable signals a connection failure to the LLM backend.
	ErrLLMUnreachable = errors.New("llm unreachable")
	// ErrLLMProtocol signals an HTTP-level error returned by the LLM backend.
	ErrLLMProtocol = errors.New("llm protocol error")
	// ErrLLMInvalidResponse signals a response body that could not be decoded.
	ErrLLMInvalidResponse = errors.New("llm invalid response")
	// ErrLLMEmptyResponse signals a decoded response without any answer text.
	ErrLLMEmptyResponse = errors.New("llm empty response")
	// ErrLLMUnavailable signals that the backend is gone (404/503).
	// Callers fall back to the raw retrieval context.
	ErrLLMUnavailable = errors.New("llm unavailable")
	// ErrLLMBudgetExceeded signals that the token budget rejected the call.
	// Callers fall back to the raw retrieval context.
	ErrLLMBudgetExceeded = errors.New("llm token budget exceeded")
)
