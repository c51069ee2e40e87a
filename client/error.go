package client

import (
	"errors"
	"fmt"
)

// The closed set of request failures. Every error returned by [Get], [Post],
// [Delete] and their async variants is a [*NetworkError] whose Err field is
// exactly one of these.
var (
	// ErrNoInternet means the reachability check failed; nothing was sent.
	ErrNoInternet = errors.New("no internet connection")
	// ErrInvalidURL means the URL string is not an absolute URL with a host.
	ErrInvalidURL = errors.New("invalid url")
	// ErrEncoding means the payload could not be serialised.
	ErrEncoding = errors.New("encoding error")
	// ErrDecoding means the body could not be decoded into the requested
	// type. It is also the fallback for failures of unknown origin.
	ErrDecoding = errors.New("decoding error")
	// ErrInvalidResponse means the server answered with a status other than 200.
	ErrInvalidResponse = errors.New("invalid response")
	// ErrCustom wraps a transport failure that happened before any
	// response was received.
	ErrCustom = errors.New("request failed")
)

// NetworkError is the single error type produced by a request.
type NetworkError struct {
	// Err is one of the package sentinels and identifies the variant.
	Err error
	// Cause is the underlying failure, if any. Always set for ErrCustom.
	Cause error
	// StatusCode and Body are only set for ErrInvalidResponse.
	StatusCode int
	Body       string
}

func (e *NetworkError) Error() string {
	switch {
	case e.Err == ErrInvalidResponse:
		return fmt.Sprintf("%v: %d, body: %s", e.Err, e.StatusCode, e.Body)
	case e.Cause != nil:
		return fmt.Sprintf("%v: %v", e.Err, e.Cause)
	default:
		return e.Err.Error()
	}
}

// Unwrap exposes both the variant sentinel and the cause to errors.Is and errors.As.
func (e *NetworkError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}

	return []error{e.Err, e.Cause}
}

// normalize maps err onto the taxonomy. A *NetworkError passes through
// untouched; any other failure becomes ErrDecoding, since the only stage
// that can surface a foreign error is the body decode.
func normalize(err error) *NetworkError {
	switch netErr, ok := errors.AsType[*NetworkError](err); {
	case ok:
		return netErr
	default:
		return &NetworkError{Err: ErrDecoding, Cause: err}
	}
}

func newError(kind error, cause error) *NetworkError {
	return &NetworkError{Err: kind, Cause: cause}
}
