package fetcher

import (
	"fmt"

	"github.com/rohmanhakim/hreflang-audit/internal/metadata"
	"github.com/rohmanhakim/hreflang-audit/pkg/failure"
	"github.com/rohmanhakim/hreflang-audit/pkg/retry"
)

type FetchErrorCause string

const (
	ErrCauseTimeout               FetchErrorCause = "timeout"
	ErrCauseNetworkFailure        FetchErrorCause = "network issues"
	ErrCauseReadResponseBodyError FetchErrorCause = "failed to read response body"
	ErrCauseRequestBlocked        FetchErrorCause = "blocked"
	ErrCauseRequestClientError    FetchErrorCause = "client error"
	ErrCauseRequest5xx            FetchErrorCause = "5xx"
	ErrCauseBrowserFailure        FetchErrorCause = "browser rendering failed"
	ErrCauseAllStrategiesFailed   FetchErrorCause = "all fetch strategies failed"
)

type FetchError struct {
	Message   string
	Retryable bool
	Cause     FetchErrorCause
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetcher error: %s: %s", e.Cause, e.Message)
}

func (e *FetchError) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}

// IsRetryable returns whether this error is retryable
func (e *FetchError) IsRetryable() bool {
	return e.Retryable
}

// mapFetchErrorToMetadataCause maps fetcher-local error semantics
// to the canonical metadata.ErrorCause table.
//
// This mapping is observational only and MUST NOT be used
// to derive control-flow decisions.
func mapFetchErrorToMetadataCause(err *FetchError) metadata.ErrorCause {
	switch err.Cause {
	case ErrCauseTimeout, ErrCauseNetworkFailure, ErrCauseReadResponseBodyError:
		return metadata.CauseNetworkFailure
	case ErrCauseRequestBlocked:
		return metadata.CausePolicyDisallow
	default:
		return metadata.CauseUnknown
	}
}

// metadataCause widens the mapping to any classified error the fetch
// chain can surface, including exhausted retry chains.
func metadataCause(err failure.ClassifiedError) metadata.ErrorCause {
	switch typed := err.(type) {
	case *FetchError:
		return mapFetchErrorToMetadataCause(typed)
	case *retry.RetryError:
		return metadata.CauseRetryFailure
	default:
		return metadata.CauseUnknown
	}
}
