package domain

import "errors"

var (
	// ErrProductNotFound is returned when no product source knows the product
	ErrProductNotFound = errors.New("product not found")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrMalformedInput marks raw product data that had to be replaced by safe defaults
	ErrMalformedInput = errors.New("malformed product data")

	// ErrNormalizationFailed is attached to degraded normalization results
	ErrNormalizationFailed = errors.New("normalization failed")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrUpstreamFailure is returned when a product source API request fails
	ErrUpstreamFailure = errors.New("upstream API request failed")

	// ErrAdvisoryUnavailable is returned when the advisory service gave no usable hint
	ErrAdvisoryUnavailable = errors.New("advisory service unavailable")

	// ErrHistoryDisabled is returned when history is requested but no store is configured
	ErrHistoryDisabled = errors.New("analysis history is disabled")
)
