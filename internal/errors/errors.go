package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode represents a unique error identifier
type ErrorCode string

// Error categories
const (
	// Auth errors (AUTH-001 to AUTH-099)
	ErrCodeUnauthenticated ErrorCode = "AUTH-001"
	ErrCodeUnauthorized    ErrorCode = "AUTH-002"
	ErrCodeCredentialStore ErrorCode = "AUTH-003"
	ErrCodeLoginFailed     ErrorCode = "AUTH-004"

	// Remote collaborator errors (REMOTE-001 to REMOTE-099)
	ErrCodeRemoteUnavailable ErrorCode = "REMOTE-001"
	ErrCodeRejected          ErrorCode = "REMOTE-002"
	ErrCodeMalformedResponse ErrorCode = "REMOTE-003"
	// Recognized rejection reasons from the payment gateway.
	// The UI message differs per reason, so they carry their own codes.
	ErrCodeAmountOutOfRange    ErrorCode = "REMOTE-004"
	ErrCodeGatewayTokenInvalid ErrorCode = "REMOTE-005"

	// Cart errors (CART-001 to CART-099)
	ErrCodeQuantityBounds   ErrorCode = "CART-001"
	ErrCodeCartItemNotFound ErrorCode = "CART-002"
	ErrCodeEmptyCheckout    ErrorCode = "CART-003"

	// Order errors (ORDER-001 to ORDER-099)
	ErrCodeOrderPartialFailure ErrorCode = "ORDER-001"

	// Configuration errors (CONFIG-001 to CONFIG-099)
	ErrCodeConfigInvalid   ErrorCode = "CONFIG-001"
	ErrCodeConfigUnmarshal ErrorCode = "CONFIG-002"
)

// StoreError represents an enhanced error with code, suggestions, and documentation
type StoreError struct {
	Code        ErrorCode
	Message     string
	Suggestions []string
	DocsURL     string
	Cause       error
}

// Error implements the error interface
func (e *StoreError) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf(": %v", e.Cause))
	}

	if len(e.Suggestions) > 0 {
		b.WriteString("\n\nSuggestions:")
		for _, suggestion := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  • %s", suggestion))
		}
	}

	if e.DocsURL != "" {
		b.WriteString(fmt.Sprintf("\n\nDocumentation: %s", e.DocsURL))
	}

	return b.String()
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *StoreError) Unwrap() error {
	return e.Cause
}

// New creates a new StoreError
func New(code ErrorCode, message string) *StoreError {
	return &StoreError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new StoreError wrapping an existing error
func Wrap(code ErrorCode, message string, cause error) *StoreError {
	return &StoreError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WithSuggestion adds a suggestion to the error
func (e *StoreError) WithSuggestion(suggestion string) *StoreError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithSuggestions adds multiple suggestions to the error
func (e *StoreError) WithSuggestions(suggestions ...string) *StoreError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// WithDocs adds a documentation URL to the error
func (e *StoreError) WithDocs(url string) *StoreError {
	e.DocsURL = url
	return e
}

// CodeOf returns the error code of err, or "" if err carries none.
func CodeOf(err error) ErrorCode {
	var se *StoreError
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}

// HasCode reports whether err (or any error it wraps) carries the given code.
func HasCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}

// IsUnauthenticated reports whether err means the caller has no valid
// credential and should be sent to login.
func IsUnauthenticated(err error) bool {
	return HasCode(err, ErrCodeUnauthenticated)
}

// IsRemoteUnavailable reports whether err is a transport failure or 5xx.
func IsRemoteUnavailable(err error) bool {
	return HasCode(err, ErrCodeRemoteUnavailable)
}

// IsRejected reports whether err is a business-rule rejection (any 4xx
// reason, recognized or generic).
func IsRejected(err error) bool {
	switch CodeOf(err) {
	case ErrCodeRejected, ErrCodeAmountOutOfRange, ErrCodeGatewayTokenInvalid:
		return true
	}
	return false
}

// Common error constructors for frequently used errors

// NewUnauthenticatedError creates an error for operations attempted without a
// valid credential
func NewUnauthenticatedError(operation string) *StoreError {
	return New(ErrCodeUnauthenticated, fmt.Sprintf("not logged in: %s requires authentication", operation)).
		WithSuggestion("Run 'gadgetloop auth login' to authenticate").
		WithSuggestion("Check 'gadgetloop auth status' to see your current session")
}

// NewUnauthorizedError creates an error for a valid session lacking a role
func NewUnauthorizedError(role string, required []string) *StoreError {
	return New(ErrCodeUnauthorized, fmt.Sprintf("role %q is not permitted here (requires one of: %s)", role, strings.Join(required, ", ")))
}

// NewRemoteUnavailableError creates an error for network failures and 5xx
// responses
func NewRemoteUnavailableError(operation string, cause error) *StoreError {
	return Wrap(ErrCodeRemoteUnavailable, fmt.Sprintf("storefront service unreachable during %s", operation), cause).
		WithSuggestion("Check your network connection").
		WithSuggestion("Retry in a few moments; the operation was not applied")
}

// NewRejectedError creates a generic business-rule rejection error
func NewRejectedError(operation string, reason string) *StoreError {
	if reason == "" {
		reason = "request was rejected"
	}
	return New(ErrCodeRejected, fmt.Sprintf("%s: %s", operation, reason))
}

// NewAmountOutOfRangeError creates the recognized payment-gateway rejection
// for totals outside the accepted range
func NewAmountOutOfRangeError() *StoreError {
	return New(ErrCodeAmountOutOfRange, "payment amount must be between Rs 10 and Rs 1000").
		WithSuggestion("Adjust your cart total and try again").
		WithSuggestion("Use cash on delivery for totals the gateway does not accept")
}

// NewGatewayTokenInvalidError creates the recognized payment-gateway rejection
// for a misconfigured gateway credential
func NewGatewayTokenInvalidError() *StoreError {
	return New(ErrCodeGatewayTokenInvalid, "payment gateway authentication failed").
		WithSuggestion("Contact support; this is a storefront configuration problem, not a problem with your account")
}

// NewQuantityBoundsError creates the client-side refusal for quantity changes
// outside [1,6]
func NewQuantityBoundsError(itemID string, quantity int) *StoreError {
	return New(ErrCodeQuantityBounds, fmt.Sprintf("quantity %d for item %s is outside the allowed range 1-6", quantity, itemID)).
		WithSuggestion("Remove the item instead of decrementing below 1")
}

// NewMalformedResponseError creates an error for unexpected payload shapes
func NewMalformedResponseError(operation string, cause error) *StoreError {
	return Wrap(ErrCodeMalformedResponse, fmt.Sprintf("unexpected response shape from %s", operation), cause)
}
