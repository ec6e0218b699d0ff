package errors

import (
	"fmt"
	"strings"
	"time"
)

// FailureReason classifies why an extraction strategy failed
type FailureReason string

const (
	// ReasonUnsupported means the platform cannot serve this strategy
	ReasonUnsupported FailureReason = "unsupported"
	// ReasonTransport means the network request itself failed
	ReasonTransport FailureReason = "transport"
	// ReasonUnparseable means the response was fetched but yielded no valid product
	ReasonUnparseable FailureReason = "unparseable"
)

// ExtractError represents a single strategy failure. These are routine
// outcomes given the external surface; the orchestrator handles them by
// moving on to the next strategy.
type ExtractError struct {
	Reason   FailureReason
	Platform string
	Strategy string
	Message  string
	Err      error
	Time     time.Time
}

// Error implements the error interface
func (e *ExtractError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s/%s] %s: %s - %v", e.Platform, e.Strategy, e.Reason, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s/%s] %s: %s", e.Platform, e.Strategy, e.Reason, e.Message)
}

// Unwrap returns the underlying error
func (e *ExtractError) Unwrap() error {
	return e.Err
}

// IsRetryable returns true if a later attempt could succeed
func (e *ExtractError) IsRetryable() bool {
	return e.Reason == ReasonTransport
}

// NewExtract creates a new ExtractError
func NewExtract(reason FailureReason, platform, strategy, message string, err error) *ExtractError {
	return &ExtractError{
		Reason:   reason,
		Platform: platform,
		Strategy: strategy,
		Message:  message,
		Err:      err,
		Time:     time.Now(),
	}
}

// NewUnsupported creates an unsupported-strategy error
func NewUnsupported(platform, strategy, message string) *ExtractError {
	return NewExtract(ReasonUnsupported, platform, strategy, message, nil)
}

// NewTransport creates a transport error
func NewTransport(platform, strategy, message string, err error) *ExtractError {
	return NewExtract(ReasonTransport, platform, strategy, message, err)
}

// NewUnparseable creates an unparseable-response error
func NewUnparseable(platform, strategy, message string) *ExtractError {
	return NewExtract(ReasonUnparseable, platform, strategy, message, nil)
}

// Attempt records one failed strategy during an acquisition
type Attempt struct {
	Strategy string
	Reason   FailureReason
	Message  string
}

// AcquireError is returned when every permitted strategy has failed for
// one acquisition. It aggregates the per-strategy attempts so callers
// can tell transient network trouble from persistent selector drift.
type AcquireError struct {
	Platform string
	URL      string
	Attempts []Attempt
}

// Error implements the error interface
func (e *AcquireError) Error() string {
	parts := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		parts = append(parts, fmt.Sprintf("%s=%s(%s)", a.Strategy, a.Reason, a.Message))
	}
	return fmt.Sprintf("acquisition failed for %s %s: %s", e.Platform, e.URL, strings.Join(parts, ", "))
}

// NewAcquire creates a new AcquireError
func NewAcquire(platform, url string, attempts []Attempt) *AcquireError {
	return &AcquireError{Platform: platform, URL: url, Attempts: attempts}
}

// NewConfiguration creates a configuration error. A malformed platform
// table is a programmer error and is raised at construction time.
func NewConfiguration(message string, err error) error {
	if err != nil {
		return fmt.Errorf("configuration: %s: %w", message, err)
	}
	return fmt.Errorf("configuration: %s", message)
}
