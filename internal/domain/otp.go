package domain

import "errors"

// OTP verification failures. All three map to 400 at the HTTP boundary
// but carry distinct messages so callers can tell a stale code from an
// expired one.
var (
	ErrOTPNotFound = errors.New("no pending code for this email")
	ErrOTPExpired  = errors.New("code has expired")
	ErrOTPMismatch = errors.New("invalid code")

	ErrDeliveryFailed = errors.New("failed to send email")
)
