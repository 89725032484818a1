package server

import (
	"errors"
	"time"

	"github.com/dermesser/slaverpc/proto"

	pb "github.com/gogo/protobuf/proto"
)

/*
Opaque structure that carries one request through its handler and takes
the response.
*/
type Context struct {
	input, result []byte
	failed        bool
	errorMessage  string
	deadline      time.Time
	opts          Options

	origRq *proto.RPCRequest
}

/*
NewLocalContext creates a context that is not bound to a network request, with
input as the payload. Useful for calling handlers directly, e.g. in tests.
*/
func NewLocalContext(input []byte, opts Options) *Context {
	return &Context{input: input, opts: opts}
}

func (srv *Server) newContext(request *proto.RPCRequest) *Context {
	c := &Context{input: request.GetData(), origRq: request, opts: srv.opts}

	if request.GetDeadline() > 0 {
		c.deadline = time.Unix(0, 1000*request.GetDeadline())
	}

	return c
}

/*
Get the raw data that was sent by the client.
*/
func (c *Context) GetInput() []byte {
	return c.input
}

/*
GetArgument deserializes the input into a protocol buffer message.
*/
func (c *Context) GetArgument(msg pb.Message) error {
	return pb.Unmarshal(c.input, msg)
}

/*
Get the absolute deadline requested by the caller. Zero if the caller sent none.
*/
func (c *Context) GetDeadline() time.Time {
	return c.deadline
}

// The protocol options the server was constructed with. Handlers consult these;
// e.g. the slave service refuses attribute access unless AllowPublicAttrs is set.
func (c *Context) Options() Options {
	return c.opts
}

/*
Fail with msg as error message (gets sent back to the client).
*/
func (c *Context) Fail(msg string) {
	c.failed = true
	c.errorMessage = msg
}

/*
Set the success flag and the data to return to the caller.
*/
func (c *Context) Success(data []byte) {
	c.result = data
}

/*
Set the success flag and the message to return to the caller. Does not do
anything special otherwise, such as terminate the calling handler.
*/
func (c *Context) Return(msg pb.Message) error {
	result, err := pb.Marshal(msg)

	if err != nil {
		return err
	}

	c.result = result
	return nil
}

/*
Result returns the response payload set by the handler, or an error carrying
the handler's failure message.
*/
func (c *Context) Result() ([]byte, error) {
	if c.failed {
		return nil, errors.New(c.errorMessage)
	}
	return c.result, nil
}

func (c *Context) toRPCResponse() *proto.RPCResponse {
	response := new(proto.RPCResponse)

	if !c.failed {
		response.ResponseStatus = proto.RPCResponse_STATUS_OK.Enum()
		response.ResponseData = c.result
	} else {
		response.ResponseStatus = proto.RPCResponse_STATUS_NOT_OK.Enum()
		response.ErrorMessage = pb.String(c.errorMessage)
	}

	// Went over deadline while the handler ran
	if c.deadline.UnixNano() > 0 && time.Now().After(c.deadline) {
		response.ResponseData = []byte{}
		response.ResponseStatus = proto.RPCResponse_STATUS_MISSED_DEADLINE.Enum()
		response.ErrorMessage = pb.String("Exceeded deadline")
	}

	return response
}
