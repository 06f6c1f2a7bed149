package service

import "errors"

const (
	ErrCodeValidationFailed = "VALIDATION_FAILED"
	ErrCodeBusy             = "CONTROLLER_BUSY"
	ErrCodeClosed           = "CONTROLLER_CLOSED"
	ErrCodeCancelNotApplied = "CANCEL_NOT_APPLIED"
	ErrCodeSnapshotStale    = "SNAPSHOT_STALE"
)

var (
	ErrEmptyRecipient      = errors.New("EMPTY_RECIPIENT")
	ErrEmptyBody           = errors.New("EMPTY_BODY")
	ErrInvalidScheduledFor = errors.New("INVALID_SCHEDULED_FOR")
	ErrEmptyMessageID      = errors.New("EMPTY_MESSAGE_ID")
	ErrBusy                = errors.New(ErrCodeBusy)
	ErrClosed              = errors.New(ErrCodeClosed)
	ErrCancelNotApplied    = errors.New(ErrCodeCancelNotApplied)
	ErrSnapshotStale       = errors.New(ErrCodeSnapshotStale)
)

type Error struct {
	Code  string
	Cause error
}

func NewServiceError(code string, cause error) error {
	return Error{Code: code, Cause: cause}
}

func (e Error) Error() string {
	return e.Cause.Error()
}

func (e Error) Unwrap() error {
	return e.Cause
}

// ErrorCode returns the code of the first service.Error in err's chain, or
// "" if there is none.
func ErrorCode(err error) string {
	var svcErr Error
	if errors.As(err, &svcErr) {
		return svcErr.Code
	}
	return ""
}
