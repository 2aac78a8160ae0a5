package wire

import (
	"github.com/strandlabs/vaultwire/pkg/wire/codec"
	"github.com/strandlabs/vaultwire/pkg/wire/messages"
)

// Error is an expected, recoverable application-level rejection. The
// translation adapter turns it into a Failure reply with the specific code
// and message before it propagates; the session logs it as a warning and
// keeps running.
type Error struct {
	Code    messages.FailureCode
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func NewError(code messages.FailureCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

func ActionCancelled(message string) *Error {
	return NewError(messages.FailureActionCancelled, message)
}

func PinInvalid(message string) *Error {
	return NewError(messages.FailurePinInvalid, message)
}

func DataError(message string) *Error {
	return NewError(messages.FailureDataError, message)
}

func ProcessError(message string) *Error {
	return NewError(messages.FailureProcessError, message)
}

func NotInitialized(message string) *Error {
	return NewError(messages.FailureNotInitialized, message)
}

// UnexpectedMessageError is not a failure but a control signal: a frame of a
// type nobody was waiting for arrived while something else was awaited. It
// carries the still-open reader so the session handler can re-dispatch on
// that frame without losing it. Every layer must propagate it untouched; it
// is never written to the wire.
type UnexpectedMessageError struct {
	Reader *codec.Reader
}

func (e *UnexpectedMessageError) Error() string {
	return "unexpected message"
}
