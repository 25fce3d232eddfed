package speech

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"
)

var (
	// ErrMissingAPIKey is returned when the client is built without a key.
	ErrMissingAPIKey = errors.New("missing API key: set GEMINI_API_KEY or API_KEY")

	// ErrNoAudio indicates the backend answered without an audio part.
	ErrNoAudio = errors.New("response contained no audio")

	// ErrNoImage indicates the backend answered without an image part.
	ErrNoImage = errors.New("response contained no image")
)

// ErrorCode identifies the class of a backend failure.
type ErrorCode string

const (
	ErrorCodeNetwork          ErrorCode = "NETWORK"
	ErrorCodePermissionDenied ErrorCode = "PERMISSION_DENIED"
	ErrorCodeRateLimited      ErrorCode = "RESOURCE_EXHAUSTED"
	ErrorCodeBadRequest       ErrorCode = "BAD_REQUEST"
	ErrorCodeServer           ErrorCode = "SERVER"
	ErrorCodeMalformed        ErrorCode = "MALFORMED_RESPONSE"
)

// Error is a backend failure with its classification.
type Error struct {
	Code    ErrorCode
	Status  int
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// IsRetryable reports whether another attempt may succeed.
func (e *Error) IsRetryable() bool {
	switch e.Code {
	case ErrorCodeNetwork, ErrorCodeRateLimited, ErrorCodeServer:
		return true
	default:
		return false
	}
}

// IsQuota reports a permission or rate-limit refusal. Image generation
// treats these as expected and falls back to a static picture.
func (e *Error) IsQuota() bool {
	return e.Code == ErrorCodePermissionDenied || e.Code == ErrorCodeRateLimited
}

// classifyResponse turns a non-200 response into an *Error, reading the
// Google RPC status from the body when there is one.
func classifyResponse(status int, body []byte) *Error {
	msg := gjson.GetBytes(body, "error.message").String()
	if msg == "" {
		msg = http.StatusText(status)
	}
	rpc := gjson.GetBytes(body, "error.status").String()

	e := &Error{Status: status, Message: msg}
	switch {
	case status == http.StatusForbidden || rpc == string(ErrorCodePermissionDenied):
		e.Code = ErrorCodePermissionDenied
	case status == http.StatusTooManyRequests || rpc == string(ErrorCodeRateLimited):
		e.Code = ErrorCodeRateLimited
	case status >= 500:
		e.Code = ErrorCodeServer
	default:
		e.Code = ErrorCodeBadRequest
	}
	return e
}
