package flow

import "errors"

// Messages produced locally, without a network call.
const (
	MsgPasswordMismatch    = "Passwords do not match"
	MsgNoVerificationToken = "No verification token found"
)

var (
	// ErrSubmitInFlight is returned by Submit while a previous submission has not settled.
	ErrSubmitInFlight = errors.New("flow: submission already in flight")

	// ErrDisposed is returned when a controller is used after Dispose, or was disposed while
	// its request was in flight.
	ErrDisposed = errors.New("flow: controller disposed")
)
