package tools

import (
	"errors"
	"fmt"

	"github.com/salmonumbrella/notion-tools/internal/blocks"
	"github.com/salmonumbrella/notion-tools/internal/notion"
)

// ConfigurationError is an invalid request or document shape. It is the
// same type the block sanitizer raises, so a single errors.As check
// covers both sources. Configuration errors are raised before any
// network call and are never wrapped in an OperationError.
type ConfigurationError = blocks.ConfigurationError

func configErrorf(format string, args ...interface{}) error {
	return ConfigurationError{Message: fmt.Sprintf(format, args...)}
}

// OperationError wraps a failed remote call with the name of the
// operation that failed. The upstream code and HTTP status are appended
// to the message when the underlying error carries them.
type OperationError struct {
	Operation string
	Err       error
}

func (e OperationError) Error() string {
	msg := fmt.Sprintf("%s failed: %v", e.Operation, e.Err)

	var apiErr notion.APIError
	if errors.As(e.Err, &apiErr) {
		if apiErr.Code != "" {
			msg += fmt.Sprintf(" (code %s)", apiErr.Code)
		}
		if apiErr.Status != 0 {
			msg += fmt.Sprintf(" [status %d]", apiErr.Status)
		}
	}

	return msg
}

func (e OperationError) Unwrap() error { return e.Err }

func operationError(operation string, err error) error {
	return OperationError{Operation: operation, Err: err}
}
