package authapi

import (
	"errors"
	"fmt"
)

// Op names one of the remote operations.
type Op string

const (
	OpSignup Op = "signup"
	OpLogin  Op = "login"
	OpVerify Op = "verify"
	OpLogout Op = "logout"
)

// DefaultMessage is shown when the service gives no usable message.
func (op Op) DefaultMessage() string {
	switch op {
	case OpVerify:
		return "An error occurred during verification"
	case OpSignup, OpLogin, OpLogout:
		return "An error occurred during " + string(op)
	default:
		return "An unexpected error occurred"
	}
}

// Error is the normalized failure of a remote call. Message is always safe to show to a user;
// the underlying cause is only reachable through Unwrap.
type Error struct {
	Op      Op
	Status  int // 0 when no response was received
	Message string
	cause   error
}

func newError(op Op, status int, serverMsg string, cause error) *Error {
	msg := serverMsg
	if msg == "" {
		msg = op.DefaultMessage()
	}
	return &Error{Op: op, Status: status, Message: msg, cause: cause}
}

func (e *Error) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("authapi %s: %s", e.Op, e.Message)
	}
	return fmt.Sprintf("authapi %s (status %d): %s", e.Op, e.Status, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// MessageOf returns the user-facing message for err. Errors that did not come from this package
// (a cancelled context, a programming error) map to op's default so raw text never reaches a user.
func MessageOf(err error, op Op) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return op.DefaultMessage()
}
