package common

import (
	"errors"
	"fmt"
)

// Error codes
const (
	ErrorCodeUnknownGood             = "UNKNOWN_GOOD"
	ErrorCodeRoundNotActive          = "ROUND_NOT_ACTIVE"
	ErrorCodeNoMessageBody           = "NO_MESSAGE_BODY"
	ErrorCodeInvalidMessageBody      = "INVALID_MESSAGE_BODY"
	ErrorCodeUtilityNotSet           = "UTILITY_NOT_SET"
	ErrorCodeNLUFailed               = "NLU_FAILED"
	ErrorCodeRelayFailed             = "RELAY_FAILED"
	ErrorCodeUnhandledInterpretation = "UNHANDLED_INTERPRETATION"
	ErrorCodeInvalidConfiguration    = "INVALID_CONFIGURATION"
)

// NegotiationError represents an error raised while negotiating
type NegotiationError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
	cause   error
}

// Error implements the error interface
func (e *NegotiationError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Is matches any NegotiationError carrying the same code
func (e *NegotiationError) Is(target error) bool {
	var t *NegotiationError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// Unwrap returns the wrapped cause, if any
func (e *NegotiationError) Unwrap() error {
	return e.cause
}

// NewNegotiationError creates a new negotiation error
func NewNegotiationError(code, message, details string) *NegotiationError {
	return &NegotiationError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// Predefined errors
var (
	ErrUnknownGood = &NegotiationError{
		Code:    ErrorCodeUnknownGood,
		Message: "No cost data for requested good",
	}

	ErrRoundNotActive = &NegotiationError{
		Code:    ErrorCodeRoundNotActive,
		Message: "Round not active",
	}

	ErrNoMessageBody = &NegotiationError{
		Code:    ErrorCodeNoMessageBody,
		Message: "No message body",
	}

	ErrInvalidMessageBody = &NegotiationError{
		Code:    ErrorCodeInvalidMessageBody,
		Message: "Invalid message body",
	}

	ErrUtilityNotSet = &NegotiationError{
		Code:    ErrorCodeUtilityNotSet,
		Message: "Utility information not initialized",
	}

	ErrNLUFailed = &NegotiationError{
		Code:    ErrorCodeNLUFailed,
		Message: "Message classification failed",
	}

	ErrRelayFailed = &NegotiationError{
		Code:    ErrorCodeRelayFailed,
		Message: "Failed to relay message",
	}

	ErrUnhandledInterpretation = &NegotiationError{
		Code:    ErrorCodeUnhandledInterpretation,
		Message: "Unhandled interpretation",
	}

	ErrInvalidConfiguration = &NegotiationError{
		Code:    ErrorCodeInvalidConfiguration,
		Message: "Invalid configuration",
	}
)

// UnknownGoodError builds an UNKNOWN_GOOD error naming the good
func UnknownGoodError(good string) *NegotiationError {
	return NewNegotiationError(ErrorCodeUnknownGood, ErrUnknownGood.Message, good)
}

// IsNegotiationError checks if an error is a NegotiationError
func IsNegotiationError(err error) bool {
	var ne *NegotiationError
	return errors.As(err, &ne)
}

// GetErrorCode extracts the error code from a NegotiationError
func GetErrorCode(err error) string {
	var ne *NegotiationError
	if errors.As(err, &ne) {
		return ne.Code
	}
	return "UNKNOWN_ERROR"
}

// WrapError wraps a generic error as a NegotiationError
func WrapError(err error, code, message string) *NegotiationError {
	return &NegotiationError{
		Code:    code,
		Message: message,
		Details: err.Error(),
		cause:   err,
	}
}
