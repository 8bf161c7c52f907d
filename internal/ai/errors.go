package ai

import "github.com/HumbledDS/dd-intelligence-assistant/internal/ai/aierrors"

// Sentinel errors shared by all providers. The pipeline treats them
// uniformly: a synthesis failure fails the job, an embedding failure only
// skips ingestion. Defined in the aierrors leaf package and re-exported
// here so provider subpackages can use them without an import cycle.
var (
	ErrProviderUnavailable = aierrors.ErrProviderUnavailable
	ErrInferenceTimeout    = aierrors.ErrInferenceTimeout
	ErrInvalidResponse     = aierrors.ErrInvalidResponse
)
