package reservation

import (
	"errors"
	"fmt"

	"reservo/database/repository"
	"reservo/services/capacity"
)

type Code string

const (
	CodeNotFound                 Code = "not_found"
	CodeCapacityExceeded         Code = "capacity_exceeded"
	CodeInvalidRequest           Code = "invalid_request"
	CodeUnauthorized             Code = "unauthorized"
	CodeAlreadyCancelled         Code = "already_cancelled"
	CodeCancellationWindowClosed Code = "cancellation_window_closed"
	CodeVerificationFailed       Code = "verification_failed"
	CodeCommitFailed             Code = "commit_failed"
)

// Error is the engine's error type. Key names the offending date or slot for
// capacity and timing rejections.
type Error struct {
	Code    Code
	Message string
	Key     string
	Err     error
}

func (e *Error) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Key)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error with the same code, so the sentinels below work
// with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// Retryable reports whether the same request may succeed later.
func (e *Error) Retryable() bool { return e.Code == CodeCommitFailed }

var (
	ErrNotFound                 = &Error{Code: CodeNotFound, Message: "not found"}
	ErrCapacityExceeded         = &Error{Code: CodeCapacityExceeded, Message: "capacity exceeded"}
	ErrInvalidRequest           = &Error{Code: CodeInvalidRequest, Message: "invalid request"}
	ErrUnauthorized             = &Error{Code: CodeUnauthorized, Message: "not allowed"}
	ErrAlreadyCancelled         = &Error{Code: CodeAlreadyCancelled, Message: "reservation is already cancelled"}
	ErrCancellationWindowClosed = &Error{Code: CodeCancellationWindowClosed, Message: "cancellation window has closed"}
	ErrVerificationFailed       = &Error{Code: CodeVerificationFailed, Message: "invalid payment confirmation"}
	ErrCommitFailed             = &Error{Code: CodeCommitFailed, Message: "reservation could not be committed, try again"}
)

func newError(code Code, key, format string, args ...any) *Error {
	return &Error{Code: code, Key: key, Message: fmt.Sprintf(format, args...)}
}

// verificationFailed never says why; the cause stays in Err for logs only.
func verificationFailed(cause error) *Error {
	return &Error{Code: CodeVerificationFailed, Message: ErrVerificationFailed.Message, Err: cause}
}

func commitFailed(cause error) *Error {
	return &Error{Code: CodeCommitFailed, Message: ErrCommitFailed.Message, Err: cause}
}

// classify maps lower-layer errors onto the engine taxonomy.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return &Error{Code: CodeNotFound, Message: err.Error(), Err: err}
	case errors.Is(err, capacity.ErrInvalid):
		return &Error{Code: CodeInvalidRequest, Message: err.Error(), Err: err}
	case errors.Is(err, capacity.ErrMisconfigured):
		return &Error{Code: CodeInvalidRequest, Message: "resource cannot be reserved", Err: err}
	default:
		// Lock timeouts, ledger contention and storage failures are all
		// worth retrying.
		return commitFailed(err)
	}
}

// Warning describes a side effect that failed after the main operation
// succeeded.
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

const (
	WarnNotificationFailed = "notification_failed"
	WarnRefundFailed       = "refund_failed"
	WarnReleaseFailed      = "release_failed"
)
