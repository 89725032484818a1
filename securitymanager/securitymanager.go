package securitymanager

import (
	"errors"

	"github.com/pebbe/zmq4"
)

const DONOTWRITE = "___donotwrite_key_to_file"
const DONOTREAD = "___donotread_key_from_file"
const SERVER_DOMAIN = "slaverpc.srv"

// This module manages keys for a slaverpc server. It is built after the API
// calls as shown in the Iron House example of ZeroMQ's CURVE security
// documentation.

// A ServerSecurityManager can be supplied to server.NewServer(). It sets up
// CURVE encryption and authentication, and (on top of that) IP
// authentication. A slaved-compatible server runs without one.
type ServerSecurityManager struct {
	*keyWriteLoader
	// Z85 keys
	allowedClientKeys []string

	// Only set one of both!
	allowedClientAddresses []string
	deniedClientAddresses  []string
}

// Set up the manager and generate a new server key pair.
func NewServerSecurityManager() *ServerSecurityManager {
	mgr := &ServerSecurityManager{}
	var err error

	mgr.keyWriteLoader = new(keyWriteLoader)
	mgr.public, mgr.private, err = zmq4.NewCurveKeypair()

	if err != nil {
		return nil
	}

	return mgr
}

// Apply the internal keys and access lists to a server socket.
// This must be called before calling Bind() on the socket!
// Safe to call on a nil manager (nothing happens in that case).
func (mgr *ServerSecurityManager) ApplyToServerSocket(sock *zmq4.Socket) error {
	if mgr == nil {
		return nil
	}

	if mgr.private == "" || mgr.public == "" {
		return errors.New("Incomplete initialization: No key(s)")
	}

	t, err := sock.GetType()

	// Only apply to actual server sockets
	if err == nil && t != zmq4.ROUTER && t != zmq4.REP && t != zmq4.PUB {
		return errors.New("Wrong socket type (not ROUTER, REP, PUB)")
	} else if err != nil {
		return err
	}

	// start in any case (returns error if already running, ignore that)
	zmq4.AuthStart()

	if mgr.allowedClientAddresses != nil {
		// We can use a static string because this is the only server in the context
		zmq4.AuthAllow(SERVER_DOMAIN, mgr.allowedClientAddresses...)
	} else if mgr.deniedClientAddresses != nil {
		zmq4.AuthDeny(SERVER_DOMAIN, mgr.deniedClientAddresses...)
	}

	if mgr.allowedClientKeys != nil {
		zmq4.AuthCurveAdd(SERVER_DOMAIN, mgr.allowedClientKeys...)
	} else {
		// Make it open
		zmq4.AuthCurveAdd(SERVER_DOMAIN, zmq4.CURVE_ALLOW_ANY)
	}

	err = sock.ServerAuthCurve(SERVER_DOMAIN, mgr.private)

	if err != nil {
		return err
	}

	return nil
}

// Tear down all resources associated with authentication.
func (mgr *ServerSecurityManager) StopManager() {
	zmq4.AuthStop()
}

// Set the public and private keys of the server.
func (mgr *ServerSecurityManager) SetKeys(public, private string) {
	mgr.public, mgr.private = public, private
}

// Returns the public key of the server.
func (mgr *ServerSecurityManager) GetPublicKey() string {
	return mgr.public
}

// Add keys of clients that are accepted.
func (mgr *ServerSecurityManager) AddClientKeys(keys ...string) {
	mgr.allowedClientKeys = append(mgr.allowedClientKeys, keys...)
}

// Remove all clients from the whitelist, effectively enforcing an OPEN policy.
func (mgr *ServerSecurityManager) ResetClientKeys() {
	mgr.allowedClientKeys = nil
}

// Remove all address lists, effectively enforcing an OPEN policy.
func (mgr *ServerSecurityManager) ResetBlackWhiteLists() {
	mgr.allowedClientAddresses = nil
	mgr.deniedClientAddresses = nil
}

// Add clients (IP addresses or ranges) to the whitelist. A whitelist is
// mutually exclusive with a blacklist; all blacklisted clients are removed
// when calling this function.
func (mgr *ServerSecurityManager) WhitelistClients(addrs ...string) {
	mgr.deniedClientAddresses = nil
	mgr.allowedClientAddresses = append(mgr.allowedClientAddresses, addrs...)
}

// Add clients (IP addresses or ranges) to the blacklist. A blacklist is
// mutually exclusive with a whitelist; all whitelisted clients are removed
// when calling this function.
func (mgr *ServerSecurityManager) BlacklistClients(addrs ...string) {
	mgr.allowedClientAddresses = nil
	mgr.deniedClientAddresses = append(mgr.deniedClientAddresses, addrs...)
}
