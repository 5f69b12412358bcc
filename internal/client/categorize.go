package client

import (
	"context"
	"errors"
	"net"
	"strings"
)

// ErrorCategory is a stable label for error classification in metrics.
type ErrorCategory string

// Error category constants used as metric labels (weatherQueryErrorsTotal).
const (
	ErrorCategoryMissingCredential ErrorCategory = "missing_credential"
	ErrorCategoryTimeout           ErrorCategory = "timeout"
	ErrorCategoryNetwork           ErrorCategory = "network"
	ErrorCategoryCityNotFound      ErrorCategory = "city_not_found"
	ErrorCategoryMalformed         ErrorCategory = "malformed_response"
	ErrorCategoryExtraction        ErrorCategory = "extraction"
	ErrorCategoryValidation        ErrorCategory = "validation"
	ErrorCategoryUnknown           ErrorCategory = "unknown"
)

// CategorizeError maps an error to a stable ErrorCategory for metrics.
// Sentinels are checked first; the timeout split inside ErrNetworkFailure
// relies on the wrapped context or net.Error cause.
func CategorizeError(err error) ErrorCategory {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, ErrMissingCredential):
		return ErrorCategoryMissingCredential
	case errors.Is(err, ErrCityNotFound):
		return ErrorCategoryCityNotFound
	case errors.Is(err, ErrMalformedResponse):
		return ErrorCategoryMalformed
	case errors.Is(err, ErrExtraction):
		return ErrorCategoryExtraction
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) ||
		(errors.As(err, &netErr) && netErr.Timeout()) {
		return ErrorCategoryTimeout
	}
	if errors.Is(err, ErrNetworkFailure) {
		return ErrorCategoryNetwork
	}

	errStr := err.Error()
	if strings.Contains(errStr, "invalid") || strings.Contains(errStr, "validation") {
		return ErrorCategoryValidation
	}
	return ErrorCategoryUnknown
}
