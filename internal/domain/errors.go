package domain

import "errors"

var (
	ErrConnectionFailure = errors.New("connection failure")
	ErrTimeoutFailure    = errors.New("timeout")
	ErrHTTPFailure       = errors.New("http failure")
	ErrMalformedResponse = errors.New("malformed response")

	ErrEmptyInput     = errors.New("empty price input")
	ErrMalformedInput = errors.New("malformed price input")
	ErrInvalidAmount  = errors.New("invalid amount")

	ErrStoreWrite = errors.New("store write failed")

	ErrStatsUnavailable   = errors.New("no statistics available")
	ErrUnknownStatsWindow = errors.New("unknown statistics window")
)

var failureKinds = []struct {
	err  error
	kind string
}{
	{ErrConnectionFailure, "connection"},
	{ErrTimeoutFailure, "timeout"},
	{ErrHTTPFailure, "http"},
	{ErrMalformedResponse, "malformed_response"},
	{ErrEmptyInput, "empty_input"},
	{ErrMalformedInput, "malformed_input"},
	{ErrInvalidAmount, "invalid_amount"},
	{ErrStoreWrite, "store_write"},
}

// FailureKind maps an error to a stable label for logs and metrics.
func FailureKind(err error) string {
	if err == nil {
		return ""
	}
	for _, fk := range failureKinds {
		if errors.Is(err, fk.err) {
			return fk.kind
		}
	}
	return "unknown"
}
