package types

import (
	"errors"
	"fmt"
)

// Error codes shared between the client and the catalog protocol.
// Remote status codes arrive in the same numeric space and are passed
// through verbatim; zero always means "no error" and is never stored
// in an Error value (a nil error is the unset state).
const (
	CodeGeneral          int32 = -1
	CodeInvalidArgument  int32 = -2
	CodeInvalidOperation int32 = -3
	CodeMalformedInput   int32 = -4
	CodeNotFound         int32 = -5
	CodeNoRows           int32 = -6
	CodeAuth             int32 = -7
	CodeNetwork          int32 = -8
	CodeProtocol         int32 = -9
)

// Error is the failure record folded back into an erroring envelope:
// a numeric code and a bounded human-readable message.
type Error struct {
	Code    int32
	Message string
}

// MaxErrorMessageLen bounds the message attached to an envelope.
const MaxErrorMessageLen = 1024

// NewError creates an Error with a formatted message. The message is
// truncated to MaxErrorMessageLen.
func NewError(code int32, format string, args ...any) *Error {
	msg := fmt.Sprintf(format, args...)
	if len(msg) > MaxErrorMessageLen {
		msg = msg[:MaxErrorMessageLen]
	}
	return &Error{Code: code, Message: msg}
}

func (e *Error) Error() string {
	return fmt.Sprintf("error %d: %s", e.Code, e.Message)
}

// AsError extracts an *Error from err, wrapping foreign errors with
// CodeGeneral so that every failure carries a code.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var ce *Error
	if errors.As(err, &ce) {
		return ce
	}
	return NewError(CodeGeneral, "%v", err)
}
