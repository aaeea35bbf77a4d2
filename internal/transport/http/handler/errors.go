package handler

import "github.com/gin-gonic/gin"

const errInternalServer = "Internal server error"

// Stable machine-readable codes. Clients should branch on these, not on
// the human-readable message text.
const (
	codeMissingFields  = "missing_fields"
	codeInvalidEmail   = "invalid_email"
	codeOTPNotFound    = "otp_not_found"
	codeOTPExpired     = "otp_expired"
	codeOTPMismatch    = "otp_mismatch"
	codeDeliveryFailed = "delivery_failed"
	codeUserNotFound   = "user_not_found"
	codeUserUnverified = "user_not_verified"
	codeInvalidTime    = "invalid_time"
	codeInternal       = "internal"
)

func errorBody(message, code string) gin.H {
	return gin.H{"error": message, "code": code}
}
