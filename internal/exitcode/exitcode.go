package exitcode

import (
	"os"

	"github.com/gadgetloop/storefront/internal/errors"
)

// Exit codes for consistent error handling across the CLI
const (
	// Success indicates successful execution
	Success = 0

	// GeneralError indicates a general error condition
	GeneralError = 1

	// UsageError indicates invalid command usage (bad flags, missing args, etc.)
	UsageError = 2

	// AuthError indicates an authentication or authorization failure
	AuthError = 3

	// NetworkError indicates the storefront backend was unreachable
	NetworkError = 4

	// RejectedError indicates the backend refused the request (4xx)
	RejectedError = 5

	// Interrupted indicates the user cancelled the operation (Ctrl+C)
	Interrupted = 130
)

// Exit terminates the program with the given exit code
func Exit(code int) {
	os.Exit(code)
}

// ExitWithError exits with an appropriate code based on error type
func ExitWithError(err error) {
	if err == nil {
		Exit(Success)
		return
	}

	Exit(DetermineExitCode(err))
}

// DetermineExitCode analyzes an error and returns the appropriate exit code
func DetermineExitCode(err error) int {
	if err == nil {
		return Success
	}

	switch errors.CodeOf(err) {
	case errors.ErrCodeUnauthenticated, errors.ErrCodeUnauthorized,
		errors.ErrCodeCredentialStore, errors.ErrCodeLoginFailed:
		return AuthError
	case errors.ErrCodeRemoteUnavailable:
		return NetworkError
	case errors.ErrCodeRejected, errors.ErrCodeAmountOutOfRange,
		errors.ErrCodeGatewayTokenInvalid:
		return RejectedError
	case errors.ErrCodeQuantityBounds, errors.ErrCodeEmptyCheckout,
		errors.ErrCodeConfigInvalid, errors.ErrCodeConfigUnmarshal:
		return UsageError
	}

	return GeneralError
}

// GetExitCodeDescription returns a human-readable description of an exit code
func GetExitCodeDescription(code int) string {
	switch code {
	case Success:
		return "Success"
	case GeneralError:
		return "General error"
	case UsageError:
		return "Usage error (invalid flags or arguments)"
	case AuthError:
		return "Authentication error"
	case NetworkError:
		return "Storefront service unreachable"
	case RejectedError:
		return "Request rejected by the storefront service"
	case Interrupted:
		return "Cancelled by user"
	default:
		return "Unknown error"
	}
}
