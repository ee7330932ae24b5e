package endpoints

import (
	"errors"
)

const (
	API_SUCCESS = iota + 303000 // 303000
	API_FAILURE                 // 303001 - Generic API failure
)

const (
	MALFORMED_PAYLOAD     = iota + 101 // 101 - Submission body missing fields or wrong types
	UNKNOWN_ROUTE                      // 102 - Request path is not a registered route
	INVALID_PARAMETERS                 // 103 - Invalid URL parameters (e.g., non-integer limit/offset)
	METRICS_NOT_AVAILABLE              // 104 - No records found for the given key
	REQUEST_CANCELLED                  // 105 - Request was cancelled by client or server timeout
	INGESTION_FAILURE                  // 106 - Store rejected a validated record
)

var (
	ErrMalformedPayload   = errors.New("malformed payload: missing fields or wrong field types")
	ErrUnknownRoute       = errors.New("unknown route")
	ErrInvalidParameters  = errors.New("invalid limit or offset parameter; must be integers")
	ErrNoMetricsAvailable = errors.New("no metrics available for the specified key")
	ErrRequestCancelled   = errors.New("request cancelled by client or server timeout")
	ErrIngestionFailure   = errors.New("failed to ingest metric record")
)

func GetErrorCode(err error) int {
	if err == nil {
		return API_SUCCESS
	}

	switch {
	case errors.Is(err, ErrMalformedPayload):
		return MALFORMED_PAYLOAD
	case errors.Is(err, ErrUnknownRoute):
		return UNKNOWN_ROUTE
	case errors.Is(err, ErrInvalidParameters):
		return INVALID_PARAMETERS
	case errors.Is(err, ErrNoMetricsAvailable):
		return METRICS_NOT_AVAILABLE
	case errors.Is(err, ErrRequestCancelled):
		return REQUEST_CANCELLED
	case errors.Is(err, ErrIngestionFailure):
		return INGESTION_FAILURE
	default:
		return API_FAILURE // Default for any unhandled error
	}
}
