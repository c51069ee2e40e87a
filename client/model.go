package client

import (
	"errors"
	"io"
	"net/http"
)

// maxErrBodySize caps the amount of response body read when
// building an error for an unexpected status code. This prevents
// unbounded memory usage when a large response arrives with a
// wrong status.
const maxErrBodySize = 4 << 10 // 4KB

const (
	headerRequestID   = "X-Request-ID"
	headerContentType = "Content-Type"
	headerAccept      = "Accept"
	mimeJSON          = "application/json"
)

var jsonNull = []byte("null")

var (
	errTrailingData = errors.New("unexpected data after json value")
	errNullBody     = errors.New("body is null")
)

// Method is an HTTP verb supported by the request pipeline.
type Method string

const (
	MethodGet    Method = http.MethodGet
	MethodPost   Method = http.MethodPost
	MethodDelete Method = http.MethodDelete
)

// String returns the wire-level verb.
func (m Method) String() string { return string(m) }

// Valid reports whether m is one of the supported verbs.
func (m Method) Valid() bool {
	switch m {
	case MethodGet, MethodPost, MethodDelete:
		return true
	default:
		return false
	}
}

// decodeFn consumes a 200 response body.
type decodeFn func(body io.Reader) error

// Reachability is satisfied by anything able to report whether the
// network is usable, such as *reachability.Monitor.
type Reachability interface {
	IsConnected() bool
}
