package runner

import (
	"fmt"

	"github.com/rohmanhakim/hreflang-audit/pkg/failure"
)

type RunnerErrorCause string

const (
	ErrCauseNoInput RunnerErrorCause = "no input URLs"
)

type RunnerError struct {
	Message   string
	Retryable bool
	Cause     RunnerErrorCause
}

func (e *RunnerError) Error() string {
	return fmt.Sprintf("runner error: %s: %s", e.Cause, e.Message)
}

func (e *RunnerError) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}
