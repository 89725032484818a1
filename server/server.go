package server

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dermesser/slaverpc/log"
	"github.com/dermesser/slaverpc/records"
	smgr "github.com/dermesser/slaverpc/securitymanager"

	zmq "github.com/pebbe/zmq4"
)

// The service under which the built-in endpoints (Health, Ping) live.
const BuiltinService = "__SLAVERPC"

/*
Protocol options of a server. They are fixed at construction time and
passed through unchanged to every request context; handlers (notably the
slave service) consult them.
*/
type Options struct {
	// Permit remote access (read and write) to exported fields of
	// exposed objects. Without this, only specially exported methods
	// are reachable.
	AllowPublicAttrs bool
	// Permit decoding of gob-encoded argument values sent by clients.
	// This lets clients hand the server arbitrary Go values.
	AllowRawValues bool
	// Maximum duration of a synchronous request; applied as R/W timeout
	// on the routers and used to refuse requests whose deadline passed.
	Timeout time.Duration
}

// The stock options of a slave server: fully permissive, 30 second
// synchronous request timeout.
func DefaultOptions() Options {
	return Options{
		AllowPublicAttrs: true,
		AllowRawValues:   true,
		Timeout:          30 * time.Second,
	}
}

/*
Handles incoming requests and registering of handler functions.
*/
type Server struct {
	// Router receives new requests, backend router distributes them
	// between the worker goroutines
	frontendRouter, backendRouter *zmq.Socket
	services                      map[string]*service
	opts                          Options
	workers                       uint
	// Respond "no" to healthchecks
	lameduck bool
	// Do not accept requests anymore
	loadshed bool

	lblock   sync.Mutex
	recorder *records.Writer
}

/*
Type of a function that is called when the corresponding endpoint is requested.
*/
type Handler (func(*Context))

type service struct {
	endpoints map[string]Handler
}

/*
Create a server listening on host:port. host has to be "*", "0.0.0.0" or an
IP address; names do not work. There is usually only one server per process
(though it is possible to use multiple servers on different ports).

workers is the number of goroutines executing handlers; additionally there is
one balancer goroutine and the ZeroMQ networking thread.

securityManager adds CURVE encryption and authentication; pass nil for an
open server.
*/
func NewServer(host string, port uint, workers uint, opts Options, securityManager *smgr.ServerSecurityManager) (*Server, error) {
	return newServer([]string{fmt.Sprintf("tcp://%s:%d", host, port)}, workers, opts, securityManager)
}

func NewIPCServer(path string, workers uint, opts Options, securityManager *smgr.ServerSecurityManager) (*Server, error) {
	return newServer([]string{fmt.Sprintf("ipc://%s", path)}, workers, opts, securityManager)
}

func newServer(bindurls []string, workers uint, opts Options, securityManager *smgr.ServerSecurityManager) (*Server, error) {
	srv := new(Server)
	srv.services = make(map[string]*service)

	if opts.Timeout <= 0 {
		opts.Timeout = DefaultOptions().Timeout
	}
	srv.opts = opts

	if workers == 0 {
		workers = 1
	}
	srv.workers = workers

	srv.RegisterHandler(BuiltinService, "Health", srv.makeHealthHandler())
	srv.RegisterHandler(BuiltinService, "Ping", pingHandler)

	var err error
	zmq.SetIpv6(true)

	srv.frontendRouter, err = zmq.NewSocket(zmq.ROUTER)

	if err != nil {
		log.SRPC_log(log.LOGLEVEL_ERRORS, "Error when creating Router socket:", err.Error())
		return nil, err
	}

	srv.frontendRouter.SetRouterMandatory(1)
	srv.frontendRouter.SetSndtimeo(srv.opts.Timeout)
	srv.frontendRouter.SetRcvtimeo(srv.opts.Timeout)

	err = securityManager.ApplyToServerSocket(srv.frontendRouter)

	if err != nil {
		srv.frontendRouter.Close()
		return nil, err
	}

	for _, bindurl := range bindurls {
		log.SRPC_log(log.LOGLEVEL_INFO, "Binding frontend to ", bindurl)
		err = srv.frontendRouter.Bind(bindurl)

		if err != nil {
			log.SRPC_log(log.LOGLEVEL_ERRORS, "Error when binding Router socket:", err.Error())
			srv.frontendRouter.Close()
			return nil, err
		}
	}

	srv.backendRouter, err = zmq.NewSocket(zmq.ROUTER)

	if err != nil {
		log.SRPC_log(log.LOGLEVEL_ERRORS, "Error when creating backend router socket:", err.Error())
		srv.frontendRouter.Close()
		return nil, err
	}

	err = srv.backendRouter.Bind(backendRouterPath)

	if err != nil {
		log.SRPC_log(log.LOGLEVEL_ERRORS, "Error when binding backend router socket:", err.Error())
		srv.frontendRouter.Close()
		srv.backendRouter.Close()
		return nil, err
	}

	srv.backendRouter.SetRouterMandatory(1)
	srv.backendRouter.SetRcvtimeo(srv.opts.Timeout)
	srv.backendRouter.SetSndtimeo(srv.opts.Timeout)

	go srv.loadbalance()

	return srv, nil
}

// The protocol options this server was constructed with.
func (srv *Server) Options() Options {
	return srv.opts
}

/*
Starts the worker goroutines. The calling goroutine becomes the last worker,
so Start() blocks until the server is stopped. Returns an error if a worker
couldn't set up its socket.
*/
func (srv *Server) Start() error {
	var i uint
	for i = 0; i < srv.workers-1; i++ {
		err := srv.worker(i, true)

		if err != nil {
			return err
		}
	}
	return srv.worker(srv.workers-1, false)
}

// Stop all workers and the balancer. Blocks until the shutdown is acknowledged.
// Does not close sockets; the server can not be restarted afterwards.
func (srv *Server) Stop() error {
	return srv.stop()
}

// Close internal sockets. The server may not be used after calling Close().
func (srv *Server) Close() {
	srv.frontendRouter.Close()
	srv.backendRouter.Close()
}

/*
Set the timeout for the routers used by the balancer (the worker sockets don't
really need a timeout because they communicate via inproc://).
*/
func (srv *Server) SetTimeout(d time.Duration) {
	srv.opts.Timeout = d

	srv.backendRouter.SetRcvtimeo(d)
	srv.backendRouter.SetSndtimeo(d)
	srv.frontendRouter.SetSndtimeo(d)
	srv.frontendRouter.SetRcvtimeo(d)
}

/*
Record all request and response envelopes handled by this server to w
(see the records package). nil disables recording.
*/
func (srv *Server) SetRecordWriter(w *records.Writer) {
	srv.recorder = w
}

/*
Add a new endpoint (i.e. a handler); svc is the "namespace" in which to register
the handler, endpoint the name with which the handler can be identified from the
outside. The service is created implicitly.

err is not nil if the endpoint is already registered.
*/
func (srv *Server) RegisterHandler(svc, endpoint string, handler Handler) (err error) {
	_, ok := srv.services[svc]

	if !ok {
		srv.services[svc] = &service{endpoints: make(map[string]Handler)}
	} else if _, ok = srv.services[svc].endpoints[endpoint]; ok {
		log.SRPC_log(log.LOGLEVEL_WARNINGS, "Trying to register existing endpoint:", svc+"."+endpoint)
		return errors.New("Endpoint already registered; not overwritten")
	}

	log.SRPC_log(log.LOGLEVEL_INFO, "Registered endpoint:", svc+"."+endpoint)

	srv.services[svc].endpoints[endpoint] = handler
	return nil
}

/*
Removes an endpoint from the set of served endpoints.

Returns an error value with a description if the endpoint doesn't exist.
*/
func (srv *Server) UnregisterHandler(svc, endpoint string) (err error) {
	_, ok := srv.services[svc]

	if !ok {
		log.SRPC_log(log.LOGLEVEL_WARNINGS, "Trying to unregister non-existing endpoint: ", svc+"."+endpoint)
		return errors.New("No such service")
	} else if _, ok = srv.services[svc].endpoints[endpoint]; !ok {
		log.SRPC_log(log.LOGLEVEL_WARNINGS, "Trying to unregister non-existing endpoint: ", svc+"."+endpoint)
		return errors.New("No such endpoint")
	}

	log.SRPC_log(log.LOGLEVEL_INFO, "Unregistered endpoint: ", svc+"."+endpoint)
	delete(srv.services[svc].endpoints, endpoint)

	return nil
}

// Returns a handler, or nil if none was found.
func (srv *Server) findHandler(svc, endpoint string) Handler {
	if service, ok := srv.services[svc]; ok {
		return service.endpoints[endpoint]
	}
	return nil
}

/*
A server that is in lameduck mode will respond negatively to health checks
but continue serving requests.
*/
func (srv *Server) SetLameduck(lameduck bool) {
	srv.lameduck = lameduck
}

/*
A server in loadshed mode will refuse any requests immediately.
*/
func (srv *Server) SetLoadshed(loadshed bool) {
	srv.loadshed = loadshed
}
