package service

import "errors"

// Common service errors
var (
	// ErrRFQNotFound is returned when the referenced RFQ does not exist
	ErrRFQNotFound = errors.New("rfq not found")

	// ErrMalformedExtraction is returned when the extraction service produced
	// output that cannot be reconciled into a valid RFQ
	ErrMalformedExtraction = errors.New("malformed extraction output")

	// ErrExtractionFailed is returned when the extraction service is
	// unreachable or keeps failing after retries
	ErrExtractionFailed = errors.New("extraction service failed")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")
)
