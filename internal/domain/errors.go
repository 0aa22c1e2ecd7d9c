package domain

import "errors"

var (
	// ErrEntryNotFound is returned when no cart entry has the given id
	ErrEntryNotFound = errors.New("cart entry not found")

	// ErrListItemNotFound is returned when no shopping-list entry has the given id
	ErrListItemNotFound = errors.New("shopping list item not found")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrInvalidPrice is returned for malformed or negative prices from manual entry
	ErrInvalidPrice = errors.New("invalid price")

	// ErrInvalidQuantity is returned when a quantity below 1 would be stored
	ErrInvalidQuantity = errors.New("quantity must be at least 1")

	// ErrMissingCredential is returned when the extraction model has no API key
	ErrMissingCredential = errors.New("AI extraction API key is not configured")

	// ErrAnalysisFailed is returned when a product photo could not be analyzed
	ErrAnalysisFailed = errors.New("analysis failed")

	// ErrListReadFailed is returned when a shopping list photo could not be read
	ErrListReadFailed = errors.New("list read failed")

	// ErrUnsupportedContentType is returned for uploads that are neither images nor PDFs
	ErrUnsupportedContentType = errors.New("unsupported content type")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrCacheUnavailable is returned when cache service is unavailable
	ErrCacheUnavailable = errors.New("cache service unavailable")
)
