package lessonqa

import "github.com/kailas-cloud/lessonqa/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrEmptyQuestion    = domain.ErrEmptyQuestion
	ErrInvalidDataset   = domain.ErrInvalidDataset
	ErrLLMNotConfigured = domain.ErrLLMNotConfigured
)
