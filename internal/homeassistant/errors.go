package homeassistant

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"syscall"

	"github.com/muurk/hatui/internal/urls"
)

// ErrorType represents the category of a failed API call
type ErrorType int

const (
	// ErrTypeNetwork indicates a network-level failure not covered by a narrower type
	ErrTypeNetwork ErrorType = iota
	// ErrTypeTimeout indicates the connect or read deadline passed
	ErrTypeTimeout
	// ErrTypeConnectionRefused indicates nothing is listening at the configured URL
	ErrTypeConnectionRefused
	// ErrTypeDNS indicates the host name could not be resolved
	ErrTypeDNS
	// ErrTypeAuth indicates the token was rejected (401/403)
	ErrTypeAuth
	// ErrTypeHTTP indicates any other non-2xx status
	ErrTypeHTTP
	// ErrTypeParse indicates a response body that could not be decoded
	ErrTypeParse
	// ErrTypeCanceled indicates the caller's context was canceled
	ErrTypeCanceled
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeNetwork:
		return "Network Error"
	case ErrTypeTimeout:
		return "Timeout"
	case ErrTypeConnectionRefused:
		return "Connection Refused"
	case ErrTypeDNS:
		return "DNS Error"
	case ErrTypeAuth:
		return "Authentication Error"
	case ErrTypeHTTP:
		return "HTTP Error"
	case ErrTypeParse:
		return "Parse Error"
	case ErrTypeCanceled:
		return "Canceled"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// APIError is returned by every Client operation that fails
type APIError struct {
	Type        ErrorType // Category of error
	Message     string    // Human-readable error message
	StatusCode  int       // HTTP status code (if applicable)
	Err         error     // Underlying error (if any)
	Unreachable bool      // Host or network unreachable rather than refused
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *APIError) Unwrap() error {
	return e.Err
}

// ClassifyNetworkError maps a transport error onto an APIError.
func ClassifyNetworkError(err error) *APIError {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.Canceled) {
		return &APIError{Type: ErrTypeCanceled, Message: "Request canceled", Err: err}
	}

	var timeout interface{ Timeout() bool }
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &timeout) && timeout.Timeout()) {
		return &APIError{Type: ErrTypeTimeout, Message: "Request timed out", Err: err}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &APIError{
			Type:    ErrTypeDNS,
			Message: fmt.Sprintf("DNS resolution failed for %s", dnsErr.Name),
			Err:     err,
		}
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		switch {
		case errors.Is(opErr.Err, syscall.ECONNREFUSED):
			return &APIError{Type: ErrTypeConnectionRefused, Message: "Connection refused", Err: err}
		case errors.Is(opErr.Err, syscall.EHOSTUNREACH):
			return &APIError{Type: ErrTypeNetwork, Message: "Host unreachable", Err: err, Unreachable: true}
		case errors.Is(opErr.Err, syscall.ENETUNREACH):
			return &APIError{Type: ErrTypeNetwork, Message: "Network unreachable", Err: err, Unreachable: true}
		}
	}

	return &APIError{Type: ErrTypeNetwork, Message: "Network error occurred", Err: err}
}

// NewNetworkError creates a network-level error with automatic classification
func NewNetworkError(message string, err error) *APIError {
	classified := ClassifyNetworkError(err)
	if classified == nil {
		return &APIError{Type: ErrTypeNetwork, Message: message}
	}
	classified.Message = message + ": " + strings.ToLower(classified.Message)
	return classified
}

// NewStatusError creates an error for a non-2xx response
func NewStatusError(statusCode int, message string) *APIError {
	if statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden {
		return &APIError{Type: ErrTypeAuth, Message: message, StatusCode: statusCode}
	}
	return &APIError{Type: ErrTypeHTTP, Message: message, StatusCode: statusCode}
}

// NewParseError creates a parsing error
func NewParseError(message string, err error) *APIError {
	return &APIError{Type: ErrTypeParse, Message: message, Err: err}
}

func errorType(err error) (ErrorType, bool) {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return 0, false
	}
	return apiErr.Type, true
}

// IsNetworkError reports whether err is a transport failure (timeout, refused, DNS, other)
func IsNetworkError(err error) bool {
	t, ok := errorType(err)
	return ok && (t == ErrTypeNetwork || t == ErrTypeTimeout || t == ErrTypeConnectionRefused || t == ErrTypeDNS)
}

// IsAuthError reports whether the server rejected the token
func IsAuthError(err error) bool {
	t, ok := errorType(err)
	return ok && t == ErrTypeAuth
}

// IsHTTPError reports whether the server answered with a non-2xx status other than auth
func IsHTTPError(err error) bool {
	t, ok := errorType(err)
	return ok && t == ErrTypeHTTP
}

// IsParseError reports whether a response body could not be decoded
func IsParseError(err error) bool {
	t, ok := errorType(err)
	return ok && t == ErrTypeParse
}

// TroubleshootingHint returns multi-line advice for an error, for CLI output.
func TroubleshootingHint(err error) string {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return "An unexpected error occurred. Please try again."
	}

	switch apiErr.Type {
	case ErrTypeTimeout:
		return strings.Join([]string{
			"Home Assistant did not respond in time.",
			"Troubleshooting:",
			"  • Check that the server is running",
			"  • Remote (https) URLs allow 30s; local (http) URLs allow only 5s",
		}, "\n")

	case ErrTypeConnectionRefused:
		return strings.Join([]string{
			"Nothing is listening at HA_URL.",
			"Troubleshooting:",
			"  • Verify the port (Home Assistant defaults to 8123)",
			"  • Run 'hatui discover' to find instances on your network (" + urls.Zeroconf + ")",
		}, "\n")

	case ErrTypeDNS:
		return strings.Join([]string{
			"Could not resolve the host in HA_URL.",
			"Troubleshooting:",
			"  • Use an IP address instead of a host name",
			"  • homeassistant.local needs working mDNS on this machine",
		}, "\n")

	case ErrTypeAuth:
		return strings.Join([]string{
			"The access token was rejected.",
			"Troubleshooting:",
			"  • Create a long-lived access token on your Home Assistant profile page",
			"  • Set it as HA_TOKEN in the environment or a .env file",
			"  • See " + urls.LongLivedTokens,
		}, "\n")

	case ErrTypeNetwork:
		if apiErr.Unreachable {
			return strings.Join([]string{
				"The server is not reachable from this machine.",
				"Troubleshooting:",
				"  • Check that you are on the same network as Home Assistant",
				"  • Verify the address in HA_URL",
			}, "\n")
		}
		return "Network communication failed. Check your connection and HA_URL."

	case ErrTypeHTTP:
		if apiErr.StatusCode == http.StatusNotFound {
			return "The API path was not found. Make sure the 'api' integration is enabled: " + urls.APIIntegration
		}
		return fmt.Sprintf("Home Assistant returned HTTP %d. Check its logs for details.", apiErr.StatusCode)

	case ErrTypeParse:
		return "The response was not valid JSON. HA_URL may point at a proxy or another service."

	default:
		return apiErr.Message
	}
}

// ShortMessage returns a concise message suitable for a notification
func ShortMessage(err error) string {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return err.Error()
	}

	switch apiErr.Type {
	case ErrTypeTimeout:
		return "Home Assistant not responding (timeout)"
	case ErrTypeConnectionRefused:
		return "Connection refused - is Home Assistant running?"
	case ErrTypeDNS:
		return "Cannot resolve Home Assistant host"
	case ErrTypeAuth:
		return "Authentication failed - check HA_TOKEN"
	case ErrTypeNetwork:
		if apiErr.Unreachable {
			return "Home Assistant unreachable - check network"
		}
		return "Network error - check connection"
	case ErrTypeHTTP:
		return fmt.Sprintf("Home Assistant error (HTTP %d)", apiErr.StatusCode)
	case ErrTypeParse:
		return "Failed to parse Home Assistant response"
	default:
		return apiErr.Message
	}
}
