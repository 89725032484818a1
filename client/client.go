package client

import (
	"errors"
	"fmt"
	"sync"
	"syscall"
	"time"

	"github.com/dermesser/slaverpc/log"
	"github.com/dermesser/slaverpc/proto"
	smgr "github.com/dermesser/slaverpc/securitymanager"
	"github.com/dermesser/slaverpc/server"

	pb "github.com/gogo/protobuf/proto"
	zmq "github.com/pebbe/zmq4"
)

/*
Synchronous client. It can only be used in a blocking way. It is thread-safe,
but locks and blocks on any function call. The default timeout matches the
server's synchronous request timeout of 30 seconds.
*/
type Client struct {
	lock    sync.Mutex
	channel *rpcChannel

	name           string
	sequenceNumber uint64

	timeout             time.Duration
	retries             uint
	deadlinePropagation bool
}

/*
Create a new client connected to the server at peer. The name is used for
logging and shows up in the server's log lines for this client's requests.
securityManager may be nil for a plaintext connection.
*/
func NewClient(name string, peer PeerAddress, securityManager *smgr.ClientSecurityManager) (*Client, error) {
	channel, err := newRpcChannel(peer, securityManager)

	if err != nil {
		return nil, &RequestError{status: proto.RPCResponse_STATUS_CLIENT_NETWORK_ERROR, err: err}
	}

	cl := &Client{
		name:                name,
		channel:             channel,
		timeout:             30 * time.Second,
		retries:             2,
		deadlinePropagation: true,
	}
	cl.channel.setTimeout(cl.timeout)

	return cl, nil
}

/*
Sets the duration to wait for R/W operations and to use for calculating the
deadline of a request. Requests are sent with the current time plus timeout as
deadline; if the server starts processing after the deadline (e.g. because its
queue is long), it responds with STATUS_MISSED_DEADLINE.
*/
func (cl *Client) SetTimeout(timeout time.Duration) {
	cl.lock.Lock()
	defer cl.lock.Unlock()

	cl.timeout = timeout
	cl.channel.setTimeout(timeout)
}

/*
How often should the client retry after encountering a timeout?
*/
func (cl *Client) SetRetries(n uint) {
	cl.lock.Lock()
	defer cl.lock.Unlock()

	cl.retries = n
}

/*
Enable/Disable deadline propagation (default: enabled).
*/
func (cl *Client) SetDeadlinePropagation(on bool) {
	cl.lock.Lock()
	defer cl.lock.Unlock()

	cl.deadlinePropagation = on
}

/*
Disable the client. The client may not be used afterwards.
*/
func (cl *Client) Close() {
	cl.lock.Lock()
	defer cl.lock.Unlock()

	if cl.channel != nil {
		log.SRPC_log(log.LOGLEVEL_INFO, "Closing client channel")
		cl.channel.destroy()
		cl.channel = nil
	}
}

/*
Call a remote procedure service.endpoint with data as input.

Returns either the response payload and nil, or an undefined byte slice and a
*RequestError (wrapped in an error interface value, of course). Use the
RequestError's Status() method to get a status string such as
"STATUS_NOT_FOUND".

When no response arrives after the timeout and the configured number of
reattempts, the error status is "STATUS_TIMEOUT". This is probably due to a
completely overloaded server, a crashed server or a netsplit.
*/
func (cl *Client) Request(data []byte, service, endpoint string) ([]byte, error) {
	cl.lock.Lock()
	defer cl.lock.Unlock()

	if cl.channel == nil {
		return nil, &RequestError{status: proto.RPCResponse_STATUS_CLIENT_REQUEST_ERROR, err: errors.New("client is closed")}
	}

	rqproto := new(proto.RPCRequest)
	rqproto.SequenceNumber = pb.Uint64(cl.sequenceNumber)
	cl.sequenceNumber++

	rqproto.Srvc = pb.String(service)
	rqproto.Procedure = pb.String(endpoint)
	rqproto.Data = data
	rqproto.CallerId = pb.String(cl.name)

	if cl.deadlinePropagation && cl.timeout > 0 {
		rqproto.Deadline = pb.Int64((time.Now().UnixNano() + cl.timeout.Nanoseconds()) / 1000)
	}

	msg, err := cl.sendRequest(rqproto)

	if err != nil {
		return nil, err
	}

	respproto := new(proto.RPCResponse)
	err = pb.Unmarshal(msg, respproto)

	if err != nil {
		log.SRPC_log(log.LOGLEVEL_ERRORS, fmt.Sprintf("[%s/%d] Error when unmarshaling response: %s",
			cl.name, rqproto.GetSequenceNumber(), err.Error()))
		return nil, &RequestError{status: proto.RPCResponse_STATUS_CLIENT_REQUEST_ERROR, err: err}
	}

	if respproto.GetResponseStatus() != proto.RPCResponse_STATUS_OK {
		log.SRPC_log(log.LOGLEVEL_WARNINGS,
			fmt.Sprintf("[%s/%d] Received status other than ok from %s: %s",
				cl.name, rqproto.GetSequenceNumber(), service+"."+endpoint, respproto.GetResponseStatus().String()))

		return nil, &RequestError{status: respproto.GetResponseStatus(), err: errors.New(respproto.GetErrorMessage())}
	}

	return respproto.GetResponseData(), nil
}

/*
Use protobuf message objects instead of raw byte slices.

request is the message to be sent; reply (an output argument) receives the
server's response payload. Usually pb.Message is implemented by pointer types,
so this works without explicitly using pointer arguments.
*/
func (cl *Client) RequestProtobuf(request, reply pb.Message, service, endpoint string) error {
	serializedRequest, err := pb.Marshal(request)

	if err != nil {
		return &RequestError{status: proto.RPCResponse_STATUS_CLIENT_REQUEST_ERROR, err: err}
	}

	responseBytes, err := cl.Request(serializedRequest, service, endpoint)

	if err != nil {
		return err
	}

	return pb.Unmarshal(responseBytes, reply)
}

/*
Request the built-in health check endpoint. If true is returned, the backend
was reachable and answered positively within the timeout.
*/
func (cl *Client) Healthy() bool {
	_, err := cl.Request([]byte{}, server.BuiltinService, "Health")

	if err != nil {
		log.SRPC_log(log.LOGLEVEL_WARNINGS, "RPC backend is unhealthy:", err.(*RequestError).Status())
		return false
	}
	return true
}

func (cl *Client) Ping() bool {
	_, err := cl.Request([]byte{}, server.BuiltinService, "Ping")

	if err != nil {
		log.SRPC_log(log.LOGLEVEL_WARNINGS, "RPC backend doesn't respond to ping:", err.(*RequestError).Status())
		return false
	}
	return true
}

/*
Actually send and receive, with retries on timeouts. cl is already locked.
*/
func (cl *Client) sendRequest(rqproto *proto.RPCRequest) ([]byte, error) {
	serialized, pberr := pb.Marshal(rqproto)

	if pberr != nil {
		log.SRPC_log(log.LOGLEVEL_WARNINGS, "Error serializing protobuf:", pberr.Error())
		return nil, &RequestError{status: proto.RPCResponse_STATUS_CLIENT_REQUEST_ERROR, err: pberr}
	}

	for attempt := uint(0); attempt <= cl.retries; attempt++ {
		_, err := cl.channel.sock.SendBytes(serialized, 0)

		if err != nil {
			log.SRPC_log(log.LOGLEVEL_ERRORS, fmt.Sprintf("[%s/%d] Could not send message to %s. Error: %s",
				cl.name, rqproto.GetSequenceNumber(), rqproto.GetSrvc()+"."+rqproto.GetProcedure(), err.Error()))

			if zmq.AsErrno(err) == zmq.Errno(syscall.EAGAIN) {
				continue
			}
			return nil, &RequestError{status: proto.RPCResponse_STATUS_CLIENT_NETWORK_ERROR, err: err}
		}

		msg, err := cl.channel.sock.RecvBytes(0)

		if err != nil {
			log.SRPC_log(log.LOGLEVEL_WARNINGS, fmt.Sprintf("[%s/%d] No response from %s within timeout: %s",
				cl.name, rqproto.GetSequenceNumber(), cl.channel.peer.String(), err.Error()))

			if zmq.AsErrno(err) == zmq.Errno(syscall.EAGAIN) {
				continue
			}
			return nil, &RequestError{status: proto.RPCResponse_STATUS_CLIENT_NETWORK_ERROR, err: err}
		}

		return msg, nil
	}

	return nil, &RequestError{status: proto.RPCResponse_STATUS_TIMEOUT, err: nil}
}
