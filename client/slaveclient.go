package client

import (
	"github.com/dermesser/slaverpc/proto"
	smgr "github.com/dermesser/slaverpc/securitymanager"
	"github.com/dermesser/slaverpc/slave"
)

/*
SlaveClient is a typed front end for the slave service: it addresses objects
registered in a remote server process by name and calls methods or accesses
fields on them.

Like the server, it distinguishes scalar values from raw (gob-encoded) ones;
disable raw values with AllowRawValues(false) when talking to a restrictive
server. Non-scalar argument and result types must be registered with
gob.Register on both ends.
*/
type SlaveClient struct {
	cl       *Client
	allowRaw bool
}

// Connect to the slave server at peer. securityManager may be nil.
func NewSlaveClient(name string, peer PeerAddress, securityManager *smgr.ClientSecurityManager) (*SlaveClient, error) {
	cl, err := NewClient(name, peer, securityManager)

	if err != nil {
		return nil, err
	}
	return &SlaveClient{cl: cl, allowRaw: true}, nil
}

// The underlying RPC client, e.g. for SetTimeout and Healthy.
func (sc *SlaveClient) Client() *Client {
	return sc.cl
}

// Permit or forbid gob-encoded values in arguments and results.
func (sc *SlaveClient) AllowRawValues(allow bool) {
	sc.allowRaw = allow
}

func (sc *SlaveClient) Close() {
	sc.cl.Close()
}

// Call the method member on the remote object, returning its result value.
// An error return of the remote method arrives as a *RequestError with the
// method's error message.
func (sc *SlaveClient) Call(object, member string, args ...interface{}) (interface{}, error) {
	rq, err := sc.buildRequest(object, member, args)

	if err != nil {
		return nil, err
	}
	return sc.valueRequest(rq, "Call")
}

// Read the field member of the remote object.
func (sc *SlaveClient) Get(object, member string) (interface{}, error) {
	rq, err := sc.buildRequest(object, member, nil)

	if err != nil {
		return nil, err
	}
	return sc.valueRequest(rq, "Get")
}

// Write the field member of the remote object.
func (sc *SlaveClient) Set(object, member string, value interface{}) error {
	rq, err := sc.buildRequest(object, member, []interface{}{value})

	if err != nil {
		return err
	}
	_, err = sc.valueRequest(rq, "Set")
	return err
}

// List the accessible members of the remote object.
func (sc *SlaveClient) Dir(object string) ([]string, error) {
	rq, err := sc.buildRequest(object, "", nil)

	if err != nil {
		return nil, err
	}

	reply := new(proto.SlaveReply)

	if err := sc.cl.RequestProtobuf(rq, reply, slave.ServiceName, "Dir"); err != nil {
		return nil, err
	}
	return reply.GetMembers(), nil
}

// List the objects registered in the remote server.
func (sc *SlaveClient) Objects() ([]string, error) {
	reply := new(proto.SlaveReply)

	if err := sc.cl.RequestProtobuf(new(proto.SlaveRequest), reply, slave.ServiceName, "Objects"); err != nil {
		return nil, err
	}
	return reply.GetMembers(), nil
}

func (sc *SlaveClient) buildRequest(object, member string, args []interface{}) (*proto.SlaveRequest, error) {
	rq := new(proto.SlaveRequest)
	rq.Object = &object

	if member != "" {
		rq.Member = &member
	}

	for _, arg := range args {
		val, err := slave.FromNative(arg, sc.allowRaw)

		if err != nil {
			return nil, err
		}
		rq.Args = append(rq.Args, val)
	}

	return rq, nil
}

func (sc *SlaveClient) valueRequest(rq *proto.SlaveRequest, endpoint string) (interface{}, error) {
	reply := new(proto.SlaveReply)

	if err := sc.cl.RequestProtobuf(rq, reply, slave.ServiceName, endpoint); err != nil {
		return nil, err
	}

	if reply.Value == nil {
		return nil, nil
	}
	return slave.ToNative(reply.GetValue(), sc.allowRaw)
}
