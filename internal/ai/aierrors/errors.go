// Package aierrors holds the provider sentinel errors in a leaf package so
// that both the ai factory package and the provider subpackages it imports
// can reference them without an import cycle.
package aierrors

import "errors"

// Sentinel errors shared by all providers. The pipeline treats them
// uniformly: a synthesis failure fails the job, an embedding failure only
// skips ingestion.
var (
	ErrProviderUnavailable = errors.New("ai provider unavailable")
	ErrInferenceTimeout    = errors.New("ai inference timeout")
	ErrInvalidResponse     = errors.New("ai provider returned invalid response")
)
