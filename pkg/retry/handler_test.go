package retry_test

import (
	"errors"
	"testing"
	"time"

	"github.com/rohmanhakim/hreflang-audit/pkg/failure"
	"github.com/rohmanhakim/hreflang-audit/pkg/retry"
	"github.com/rohmanhakim/hreflang-audit/pkg/timeutil"
)

// stubError is a minimal ClassifiedError with controllable retryability.
type stubError struct {
	retryable bool
}

func (e *stubError) Error() string { return "stub error" }

func (e *stubError) Severity() failure.Severity {
	if e.retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}

func (e *stubError) IsRetryable() bool { return e.retryable }

func testRetryParam(maxAttempts int) retry.RetryParam {
	return retry.NewRetryParam(
		time.Millisecond,
		0,
		42,
		maxAttempts,
		timeutil.NewBackoffParam(time.Millisecond, 2.0, 5*time.Millisecond),
	)
}

func TestRetry_SuccessFirstAttempt(t *testing.T) {
	calls := 0
	result, err := retry.Retry(testRetryParam(3), func() (string, failure.ClassifiedError) {
		calls++
		return "ok", nil
	})

	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if result != "ok" {
		t.Errorf("expected result 'ok', got %q", result)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestRetry_RetryableErrorRetriesUntilSuccess(t *testing.T) {
	calls := 0
	result, err := retry.Retry(testRetryParam(5), func() (int, failure.ClassifiedError) {
		calls++
		if calls < 3 {
			return 0, &stubError{retryable: true}
		}
		return 7, nil
	})

	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if result != 7 {
		t.Errorf("expected result 7, got %d", result)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestRetry_NonRetryableErrorReturnsImmediately(t *testing.T) {
	calls := 0
	_, err := retry.Retry(testRetryParam(5), func() (int, failure.ClassifiedError) {
		calls++
		return 0, &stubError{retryable: false}
	})

	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
	var stub *stubError
	if !errors.As(err, &stub) {
		t.Errorf("expected the original stubError, got %T", err)
	}
}

func TestRetry_ExhaustedAttemptsReturnsRetryError(t *testing.T) {
	calls := 0
	_, err := retry.Retry(testRetryParam(3), func() (int, failure.ClassifiedError) {
		calls++
		return 0, &stubError{retryable: true}
	})

	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
	var retryErr *retry.RetryError
	if !errors.As(err, &retryErr) {
		t.Fatalf("expected RetryError, got %T", err)
	}
	if retryErr.Cause != retry.ErrExhaustedAttempts {
		t.Errorf("expected cause %q, got %q", retry.ErrExhaustedAttempts, retryErr.Cause)
	}
}

func TestRetry_ZeroAttemptsRejected(t *testing.T) {
	_, err := retry.Retry(testRetryParam(0), func() (int, failure.ClassifiedError) {
		t.Fatal("task must not run with zero attempts")
		return 0, nil
	})

	var retryErr *retry.RetryError
	if !errors.As(err, &retryErr) {
		t.Fatalf("expected RetryError, got %T", err)
	}
	if retryErr.Cause != retry.ErrZeroAttempt {
		t.Errorf("expected cause %q, got %q", retry.ErrZeroAttempt, retryErr.Cause)
	}
}
