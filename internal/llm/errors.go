package llm

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrRateLimit indicates the provider returned a rate limit error (429).
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	return fmt.Sprintf("rate limited: %v", e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrProviderUnavailable indicates the provider is down or overloaded.
type ErrProviderUnavailable struct {
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("LLM provider unavailable: %v", e.Err)
	}
	return "LLM provider unavailable"
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// ErrRequestFailed is a terminal failure: bad key, bad request, blocked
// prompt, transport error. Retrying will not help.
type ErrRequestFailed struct {
	Err error
}

func (e *ErrRequestFailed) Error() string {
	return fmt.Sprintf("LLM request failed: %v", e.Err)
}

func (e *ErrRequestFailed) Unwrap() error { return e.Err }

// IsTransient reports whether err is worth retrying.
func IsTransient(err error) bool {
	var rl *ErrRateLimit
	if errors.As(err, &rl) {
		return true
	}
	var unavail *ErrProviderUnavailable
	return errors.As(err, &unavail)
}

// classifyStatus maps an HTTP status from a provider SDK to a typed error.
func classifyStatus(status int, err error) error {
	switch {
	case status == http.StatusTooManyRequests:
		return &ErrRateLimit{Err: err}
	case status >= 500:
		return &ErrProviderUnavailable{Err: err}
	default:
		return &ErrRequestFailed{Err: err}
	}
}
