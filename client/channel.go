package client

import (
	"fmt"
	"time"

	"github.com/dermesser/slaverpc/log"
	smgr "github.com/dermesser/slaverpc/securitymanager"

	zmq "github.com/pebbe/zmq4"
)

// A server address; either TCP (host and port) or IPC (path).
type PeerAddress struct {
	host string
	port uint

	path string
}

// Construct a new TCP peer address.
func Peer(host string, port uint) PeerAddress {
	return PeerAddress{host: host, port: port}
}

func IPCPeer(path string) PeerAddress {
	return PeerAddress{path: path}
}

func (pa *PeerAddress) ToUrl() string {
	if pa.host != "" {
		return fmt.Sprintf("tcp://%s:%d", pa.host, pa.port)
	} else if pa.path != "" {
		return fmt.Sprintf("ipc://%s", pa.path)
	}
	return ""
}

func (pa PeerAddress) String() string {
	if pa.host != "" {
		return fmt.Sprintf("%s:%d", pa.host, pa.port)
	}
	return pa.path
}

// A channel to an RPC server. Should not be shared among multiple clients.
type rpcChannel struct {
	sock *zmq.Socket
	peer PeerAddress
}

// Create a connected channel. securityManager may be nil.
func newRpcChannel(peer PeerAddress, securityManager *smgr.ClientSecurityManager) (*rpcChannel, error) {
	sock, err := zmq.NewSocket(zmq.REQ)

	if err != nil {
		log.SRPC_log(log.LOGLEVEL_ERRORS, "Error when creating Req socket:", err.Error())
		return nil, err
	}

	err = securityManager.ApplyToClientSocket(sock)

	if err != nil {
		log.SRPC_log(log.LOGLEVEL_ERRORS, "Error when setting up security:", err.Error())
		sock.Close()
		return nil, err
	}

	sock.SetIpv6(true)
	sock.SetLinger(0)
	sock.SetReconnectIvl(100 * time.Millisecond)
	sock.SetImmediate(true)
	sock.SetReqRelaxed(1)
	sock.SetReqCorrelate(1)

	err = sock.Connect(peer.ToUrl())

	if err != nil {
		log.SRPC_log(log.LOGLEVEL_ERRORS, "Could not connect to peer", peer.String(), ":", err.Error())
		sock.Close()
		return nil, err
	}

	return &rpcChannel{sock: sock, peer: peer}, nil
}

func (ch *rpcChannel) setTimeout(d time.Duration) {
	if d == 0 {
		d = -1
	}
	ch.sock.SetSndtimeo(d)
	ch.sock.SetRcvtimeo(d)
}

func (ch *rpcChannel) destroy() {
	ch.sock.Close()
	ch.sock = nil
}
