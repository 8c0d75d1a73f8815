package httpd

import (
	"errors"
)

var (
	ErrPeerClosed             error = errors.New("peer closed the connection before sending a request")
	ErrMalformedRequestLine   error = errors.New("malformed request line")
	ErrFileNotFound           error = errors.New("file not found")
	ErrHeaderCapacityExceeded error = errors.New("response header capacity exceeded")
	ErrServerClosed           error = errors.New("server closed")
	ErrNilConnection          error = errors.New("connection cannot be nil")
)

// ReadError the single request read failed
type ReadError struct {
	Err error
}

func (e *ReadError) Error() string {
	return "read request from connection error: " + e.Err.Error()
}

func (e *ReadError) Unwrap() error {
	return e.Err
}
