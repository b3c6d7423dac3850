package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/providervault/ai-service/internal/domain/entities"
)

// ErrEmptyCompletion is wrapped by a GatewayError when the capability answered
// without any text.
var ErrEmptyCompletion = errors.New("completion returned no text")

// CompletionProvider is the text-completion capability: a role-tagged
// conversation in, one free-text reply out.
type CompletionProvider interface {
	Complete(ctx context.Context, req entities.CompletionRequest) (string, error)
}

// GatewayError wraps every failure of a completion call: transport errors,
// rate limiting, non-success statuses, deadlines and empty replies.
type GatewayError struct {
	Provider   string
	Model      string
	StatusCode int
	Cause      error
}

func (e *GatewayError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s completion failed (model %s, status %d): %v", e.Provider, e.Model, e.StatusCode, e.Cause)
	}
	return fmt.Sprintf("%s completion failed (model %s): %v", e.Provider, e.Model, e.Cause)
}

func (e *GatewayError) Unwrap() error {
	return e.Cause
}

// Transient reports whether repeating the same call may succeed. Empty replies
// and client errors other than 429 are not transient.
func (e *GatewayError) Transient() bool {
	if errors.Is(e.Cause, ErrEmptyCompletion) {
		return false
	}
	switch {
	case e.StatusCode == 0:
		return !errors.Is(e.Cause, context.Canceled)
	case e.StatusCode == http.StatusTooManyRequests:
		return true
	case e.StatusCode >= 500:
		return true
	}
	return false
}

// IsTransientGatewayError is a retry predicate for completion calls.
func IsTransientGatewayError(err error) bool {
	var gwErr *GatewayError
	if errors.As(err, &gwErr) {
		return gwErr.Transient()
	}
	return false
}
