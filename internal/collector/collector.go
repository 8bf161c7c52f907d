// Package collector defines the interface to external data sources and
// shared failure classification for their HTTP clients.
package collector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
)

// Sentinel errors for collector failures. The pipeline treats timeouts like
// any other failure (fallback, skip or fail depending on the phase); the
// distinct sentinel only sharpens logs.
var (
	ErrUnavailable = errors.New("collector unavailable")
	ErrTimeout     = errors.New("collector timeout")
	ErrNotFound    = errors.New("entity not found")
	ErrBadPayload  = errors.New("collector returned malformed payload")
)

// Client fetches a structured payload about a company by SIREN.
type Client interface {
	Fetch(ctx context.Context, siren string) (json.RawMessage, error)
	Source() string
}

// NewsClient fetches press coverage by company name rather than SIREN.
type NewsClient interface {
	FetchByName(ctx context.Context, companyName string) (json.RawMessage, error)
	Source() string
}

// ClassifyError maps transport-level errors onto the sentinel taxonomy.
func ClassifyError(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

// EmptyPayload reports whether raw carries no usable content (empty JSON
// object/array/null). Pipeline phases skip appending sections for these.
func EmptyPayload(raw json.RawMessage) bool {
	switch string(raw) {
	case "", "null", "[]", "{}":
		return true
	}
	return false
}
