package client

import (
	"github.com/dermesser/slaverpc/proto"
)

// A RequestError is returned for any failed request; it carries the protocol
// status (e.g. "STATUS_NOT_FOUND", "STATUS_TIMEOUT") alongside the underlying
// error or the server's error message.
type RequestError struct {
	status proto.RPCResponse_Status
	err    error
}

func (e *RequestError) Error() string {
	if e.err != nil {
		return e.status.String() + ": " + e.err.Error()
	}
	return e.status.String()
}

// The protocol status as a string, e.g. "STATUS_NOT_OK".
func (e *RequestError) Status() string {
	return e.status.String()
}

// The underlying error, if any.
func (e *RequestError) Message() string {
	if e.err != nil {
		return e.err.Error()
	}
	return ""
}
