package gateway

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	networkErrorCode     = "GATEWAY_NETWORK_ERROR"
	malformedBodyCode    = "GATEWAY_MALFORMED_RESPONSE"
	requestFailedCode    = "GATEWAY_REQUEST_FAILED"
	authRejectedCode     = "GATEWAY_AUTH_REJECTED"
	notFoundCode         = "GATEWAY_NOT_FOUND"
	validationFailedCode = "GATEWAY_VALIDATION_FAILED"
)

// FieldError is a single field-level validation message returned by the API.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// APIError is the normalized failure shape every gateway call produces.
// Status is zero when the request never reached the server.
type APIError struct {
	Status  int
	Message string
	Fields  []FieldError
}

func (e *APIError) Error() string {
	if e == nil {
		return "gateway: unknown error"
	}
	if e.Status == 0 {
		return fmt.Sprintf("gateway: %s", e.Message)
	}
	return fmt.Sprintf("gateway: %s (status %d)", e.Message, e.Status)
}

// HasFieldErrors reports whether the API returned structured validation
// messages.
func (e *APIError) HasFieldErrors() bool {
	return e != nil && len(e.Fields) > 0
}

// AsAPIError extracts the APIError from a (possibly wrapped) gateway error.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// categorize wraps an APIError with the go-errors category callers branch on.
func categorize(apiErr *APIError) error {
	switch {
	case apiErr.Status == 0:
		return goerrors.Wrap(apiErr, goerrors.CategoryExternal, "request never reached the server").
			WithTextCode(networkErrorCode)
	case apiErr.Status == http.StatusUnauthorized:
		return goerrors.Wrap(apiErr, goerrors.CategoryAuth, "token missing or rejected").
			WithTextCode(authRejectedCode)
	case apiErr.Status == http.StatusNotFound:
		return goerrors.Wrap(apiErr, goerrors.CategoryNotFound, "resource not found").
			WithTextCode(notFoundCode)
	case apiErr.HasFieldErrors():
		return goerrors.Wrap(apiErr, goerrors.CategoryValidation, "request failed validation").
			WithTextCode(validationFailedCode)
	default:
		return goerrors.Wrap(apiErr, goerrors.CategoryExternal, "request failed").
			WithTextCode(requestFailedCode)
	}
}

// IsAuthError reports whether err carries the authentication category, used by
// login gates to redirect to the login entry point.
func IsAuthError(err error) bool {
	return goerrors.IsCategory(err, goerrors.CategoryAuth)
}

// IsNotFound reports whether err is a not-found business error.
func IsNotFound(err error) bool {
	return goerrors.IsCategory(err, goerrors.CategoryNotFound)
}

// IsNetworkError reports whether the request never reached the server.
func IsNetworkError(err error) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.Status == 0
}

func fallbackMessage(parts ...string) string {
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			return trimmed
		}
	}
	return "request failed"
}
