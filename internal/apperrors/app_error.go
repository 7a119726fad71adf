package apperrors

import (
	"net/http"
)

// AppError is the error type surfaced to HTTP clients. MessageID is an i18n
// message key resolved by the error middleware against the request locale.
type AppError struct {
	Code      int
	MessageID string
	Cause     error
}

func (e *AppError) Error() string {
	return e.MessageID
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithCode builds a generic business error.
func WithCode(code int, messageID string) *AppError {
	return &AppError{
		Code:      code,
		MessageID: messageID,
	}
}

// InvalidURLError reports a destination that cannot be normalized into an
// absolute http(s) URL.
func InvalidURLError() *AppError {
	return WithCode(http.StatusBadRequest, "error.destination_url_invalid")
}

// InvalidCustomCodeError reports a rejected custom code. The cause keeps the
// specific rule that failed; messageID carries the matching localized reason.
func InvalidCustomCodeError(messageID string, cause error) *AppError {
	return &AppError{
		Code:      http.StatusBadRequest,
		MessageID: messageID,
		Cause:     cause,
	}
}

// CodeInUseError reports a custom code already held by another owner.
func CodeInUseError() *AppError {
	return WithCode(http.StatusConflict, "error.code_in_use")
}

// NotFoundError reports a resolution miss. A miss is a normal outcome, never
// logged as an error.
func NotFoundError() *AppError {
	return WithCode(http.StatusNotFound, "error.link_not_found")
}

// InvalidRequestError reports a malformed request body or parameter.
func InvalidRequestError(messageID string) *AppError {
	return WithCode(http.StatusBadRequest, messageID)
}

// InvalidRequestErrorDefault is the fallback binding error.
func InvalidRequestErrorDefault() *AppError {
	return WithCode(http.StatusBadRequest, "error.invalid_request")
}

// SystemError wraps an unexpected fault without leaking storage details.
func SystemError(cause error) *AppError {
	return &AppError{
		Code:      http.StatusInternalServerError,
		MessageID: "error.internal",
		Cause:     cause,
	}
}
