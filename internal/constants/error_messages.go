package constants

const (
	ErrCodeMessageNotFound    = "MESSAGE_NOT_FOUND"
	ErrCodeNotCancelable      = "NOT_CANCELABLE"
	ErrCodeInvalidTransition  = "INVALID_TRANSITION"
	ErrCodeInvalidFilter      = "INVALID_FILTER"
	ErrCodeInvalidRequestBody = "INVALID_REQUEST_BODY"
	ErrCodeInternalError      = "INTERNAL_ERROR"
)

const (
	ErrMsgMessageNotFound    = "Not found."
	ErrMsgNotCancelable      = "Only QUEUED or ACCEPTED messages can be canceled."
	ErrMsgInvalidTransition  = "Status change is not allowed from the current status."
	ErrMsgInvalidFilter      = "Invalid filter parameters."
	ErrMsgInvalidRequestBody = "Failed to parse request body."
	ErrMsgInternalError      = "Internal server error"
)

var errorMessages = map[string]string{
	ErrCodeMessageNotFound:    ErrMsgMessageNotFound,
	ErrCodeNotCancelable:      ErrMsgNotCancelable,
	ErrCodeInvalidTransition:  ErrMsgInvalidTransition,
	ErrCodeInvalidFilter:      ErrMsgInvalidFilter,
	ErrCodeInvalidRequestBody: ErrMsgInvalidRequestBody,
	ErrCodeInternalError:      ErrMsgInternalError,
}

func GetErrorMessage(code string) string {
	if msg, exists := errorMessages[code]; exists {
		return msg
	}
	return ErrMsgInternalError
}

func GetHTTPStatus(code string) int {
	switch code {
	case ErrCodeNotCancelable, ErrCodeInvalidFilter, ErrCodeInvalidRequestBody:
		return 400
	case ErrCodeMessageNotFound:
		return 404
	case ErrCodeInvalidTransition:
		return 409
	default:
		return 500
	}
}
