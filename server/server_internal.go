package server

import (
	"bytes"
	"fmt"
	"time"

	"github.com/dermesser/slaverpc/log"
	"github.com/dermesser/slaverpc/proto"
	"github.com/dermesser/slaverpc/server/queue"

	pb "github.com/gogo/protobuf/proto"
	zmq "github.com/pebbe/zmq4"
)

const backendRouterPath string = "inproc://slaverpc_backend_router"

var readySentinel []byte = []byte("___ReAdY___")
var stopSentinel []byte = []byte("___STOPBALANCER___")

// We're only allowing so many queued requests per worker to prevent
// complete overloading
const outstandingRequestsPerWorker uint = 50

type workerRequest struct {
	requestId, clientId, data []byte
}

/*
This file has the internal functions, the actual server; server.go remains
uncluttered and with only public functions.
*/

func (srv *Server) stop() error {
	log.SRPC_log(log.LOGLEVEL_INFO, "Stopping server...")

	// The routers belong to the balancer goroutine and ZeroMQ sockets are not
	// thread-safe, so all we do here is ask the balancer to stop over a fresh
	// socket; it distributes the stop sentinel to the workers itself.
	log.SRPC_log(log.LOGLEVEL_DEBUG, "Stopping balancer...")

	sock, err := zmq.NewSocket(zmq.REQ)

	if err != nil {
		log.SRPC_log(log.LOGLEVEL_ERRORS, "Could not create socket for stopping!")
		return err
	}

	err = sock.SetIdentity("_x")

	if err != nil {
		log.SRPC_log(log.LOGLEVEL_ERRORS, "Could not set identity on socket for stopping, exiting!", err.Error())
		return err
	}

	err = sock.Connect(backendRouterPath)

	if err != nil {
		log.SRPC_log(log.LOGLEVEL_ERRORS, "Could not connect to balancer, exiting!", err.Error())
		return err
	}

	_, err = sock.SendMessage(newClientEnvelope([]byte("__BOGUS_REQ_ID"), []byte("___BOGUS_clientId"), stopSentinel).serialize())

	if err != nil {
		log.SRPC_log(log.LOGLEVEL_ERRORS, "Could not send stop message to balancer, exiting!", err.Error())
		return err
	}

	// Wait for ack; by then the balancer has told every worker to stop
	_, err = sock.RecvMessageBytes(0)

	if err != nil {
		log.SRPC_log(log.LOGLEVEL_ERRORS, "Balancer did not acknowledge stopping, exiting!", err.Error())
		return err
	}

	log.SRPC_log(log.LOGLEVEL_INFO, "Stopped RPC server and workers")

	sock.Close()

	return nil
}

func (srv *Server) handleIncomingRequest(workerQueue *queue.Queue, requestQueue *queue.Queue) {
	// The message we're receiving here has this format: [requestId, clientId, "", data]
	msgs, err := srv.frontendRouter.RecvMessageBytes(0)

	if err != nil {
		log.SRPC_log(log.LOGLEVEL_ERRORS, "Error when receiving from frontend:", err.Error())
		return
	}

	envelope, err := parseClientEnvelope(msgs)

	if err != nil {
		log.SRPC_log(log.LOGLEVEL_WARNINGS, "Dropped malformed message from frontend:", err.Error())
		return
	}

	if srv.loadshed { // Refuse request without even decoding it.
		srv.sendError(srv.frontendRouter, proto.RPCResponse_STATUS_LOADSHED,
			&workerRequest{clientId: envelope.clientId, requestId: envelope.requestId})

	} else if workerId, ok := workerQueue.Pop().([]byte); ok { // Find a free worker

		// [worker identity, "", request identity, client identity, "", RPCRequest]
		_, err = srv.backendRouter.SendMessage(newBackendEnvelope(workerId, envelope).serialize())

		if err != nil {
			if err.(zmq.Errno) != zmq.EHOSTUNREACH {
				log.SRPC_log(log.LOGLEVEL_ERRORS, "Error when sending to backend router:", err.Error())
			} else {
				log.SRPC_log(log.LOGLEVEL_ERRORS, "Could not route message, identity",
					fmt.Sprintf("%x", envelope.clientId), ", to backend")
			}
		}

	} else if uint(requestQueue.Len()) < srv.workers*outstandingRequestsPerWorker {
		requestQueue.Push(envelope)

		if requestQueue.Len() > int(0.8*float64(srv.workers*outstandingRequestsPerWorker)) {
			log.SRPC_log(log.LOGLEVEL_WARNINGS, "Queue is now at more than 80% fullness. Consider increasing # of workers: (qlen/cap)",
				requestQueue.Len(), srv.workers*outstandingRequestsPerWorker)
		}
	} else {
		log.SRPC_log(log.LOGLEVEL_WARNINGS, "Refused message; no available workers, queue full")

		srv.sendError(srv.frontendRouter, proto.RPCResponse_STATUS_OVERLOADED_RETRY,
			&workerRequest{clientId: envelope.clientId, requestId: envelope.requestId})
	}
}

// Returns false if the balancer loop should be stopped
func (srv *Server) handleWorkerResponse(workerQueue *queue.Queue, requestQueue *queue.Queue) bool {
	msgs, err := srv.backendRouter.RecvMessageBytes(0) // [workerId, "", requestId, clientId, "", RPCResponse]

	if err != nil {
		log.SRPC_log(log.LOGLEVEL_ERRORS, "Error when receiving from backend:", err.Error())
		return true
	}

	envelope, err := parseBackendEnvelope(msgs)

	if err != nil {
		log.SRPC_log(log.LOGLEVEL_WARNINGS, "Dropped malformed message from backend:", err.Error())
		return true
	}

	// the payload frame is readySentinel when a worker joins, and stopSentinel
	// if the app asks to stop
	if bytes.Equal(envelope.inner.payload, readySentinel) {

		workerQueue.Push(envelope.workerId)

	} else if bytes.Equal(envelope.inner.payload, stopSentinel) {

		// Tell every worker to stop before going away ourselves.
		for i := uint(0); i < srv.workers; i++ {
			stopEnv := newBackendEnvelope([]byte(fmt.Sprintf("%d", i)),
				newClientEnvelope([]byte("BOGUS_RQID"), []byte{0xde, 0xad, 0xde, 0xad}, stopSentinel))

			if _, err := srv.backendRouter.SendMessage(stopEnv.serialize()); err != nil {
				log.SRPC_log(log.LOGLEVEL_ERRORS, "Could not send stop message to worker:", err.Error())
			}
		}

		log.SRPC_log(log.LOGLEVEL_INFO, "Stopped balancer...")

		// Send ack
		_, err = srv.backendRouter.SendMessage(envelope.workerId, "", "DONE")

		if err != nil {
			log.SRPC_log(log.LOGLEVEL_ERRORS, "Couldn't send response to STOP message:", err.Error())
		}
		return false

	} else {
		workerQueue.Push(envelope.workerId)

		_, err := srv.frontendRouter.SendMessage(envelope.inner.serialize()) // [requestId, clientId, "", RPCResponse]

		if err != nil {
			if err.(zmq.Errno) != zmq.EHOSTUNREACH {
				log.SRPC_log(log.LOGLEVEL_WARNINGS, "Error when sending to frontend router:", err.Error())
			} else {
				// Routing is mandatory; fails when the client has already disconnected
				log.SRPC_log(log.LOGLEVEL_WARNINGS, "Could not route message, worker identity",
					fmt.Sprintf("%x", envelope.workerId), "to frontend")
			}
		}
	}

	// Now that we have a new free worker, let's see if there's work in the queue...
	if requestQueue.Len() > 0 && workerQueue.Len() > 0 {
		queued := requestQueue.Pop().(clientEnvelope)
		workerId := workerQueue.Pop().([]byte)

		_, err := srv.backendRouter.SendMessage(newBackendEnvelope(workerId, queued).serialize())

		if err != nil {
			log.SRPC_log(log.LOGLEVEL_ERRORS, "Error when sending to backend router:", err.Error())
		}
	}
	return true
}

/*
Balancer using the least used worker: We have a queue of idle worker identities;
a worker is queued when it sends a response, and dequeued when it is sent a
client request.

Additionally, there's a request queue for the case that there are no workers
available at the moment. This queue is consulted every time a worker has
completed a request.
*/
func (srv *Server) loadbalance() {
	srv.lblock.Lock()
	defer srv.lblock.Unlock()

	workerQueue := queue.NewQueue(int(srv.workers))
	requestQueue := queue.NewQueue(int(srv.workers * outstandingRequestsPerWorker))

	poller := zmq.NewPoller()
	poller.Add(srv.frontendRouter, zmq.POLLIN)
	poller.Add(srv.backendRouter, zmq.POLLIN)

	for {
		polled, err := poller.Poll(-1)

		if err != nil {
			log.SRPC_log(log.LOGLEVEL_ERRORS, "Polling error in balancer:", err.Error())
			continue
		}

		for _, sock := range polled {
			switch s := sock.Socket; s {
			case srv.frontendRouter:
				srv.handleIncomingRequest(&workerQueue, &requestQueue)
			case srv.backendRouter:
				if !srv.handleWorkerResponse(&workerQueue, &requestQueue) {
					return
				}
			}
		}
	}
}

// Start a single worker; spawn a goroutine if spawn == true, otherwise execute
// in the current goroutine. Workers execute the registered handlers.
func (srv *Server) worker(n uint, spawn bool) error {
	// Yes, we're using a REQ socket for the worker
	// see http://zguide.zeromq.org/page:all#toc72
	sock, err := zmq.NewSocket(zmq.REQ)

	if err != nil {
		log.SRPC_log(log.LOGLEVEL_ERRORS, "Worker", n, "could not create socket, exiting!")
		return err
	}

	identity := fmt.Sprintf("%d", n)
	err = sock.SetIdentity(identity)

	if err != nil {
		log.SRPC_log(log.LOGLEVEL_ERRORS, "Worker", n, "could not set identity, exiting!")
		return err
	}

	err = sock.Connect(backendRouterPath)

	if err != nil {
		log.SRPC_log(log.LOGLEVEL_ERRORS, "Worker", n, "could not connect to backend router, exiting!")
		return err
	}

	sock.SetSndtimeo(srv.opts.Timeout)

	if spawn {
		go srv.acceptRequests(sock, identity)
		return nil
	}
	return srv.acceptRequests(sock, identity)
}

// This function runs in the worker goroutines of the RPC server.
func (srv *Server) acceptRequests(sock *zmq.Socket, identity string) error {
	// Announce ourselves to the balancer with a correctly framed message
	sock.SendMessage(newClientEnvelope([]byte("__BOGUS_REQ_ID"), []byte("___BOGUS_clientId"), readySentinel).serialize())

	for {
		// We're getting here the following message parts: [requestId, clientId, "", data]
		msgs, err := sock.RecvMessageBytes(0)

		if err != nil {
			log.SRPC_log(log.LOGLEVEL_WARNINGS, "Skipped incoming message, error:", err.Error())
			continue
		}

		envelope, err := parseClientEnvelope(msgs)

		if err != nil {
			log.SRPC_log(log.LOGLEVEL_WARNINGS, "Skipped malformed incoming message:", err.Error())
			continue
		}

		if log.IsLoggingEnabled(log.LOGLEVEL_DEBUG) {
			log.SRPC_log(log.LOGLEVEL_DEBUG, fmt.Sprintf("Worker #%s received message from %x", identity, envelope.clientId))
		}

		if bytes.Equal(envelope.payload, stopSentinel) {
			log.SRPC_log(log.LOGLEVEL_DEBUG, fmt.Sprintf("Worker #%s stopped", identity))
			return nil
		}

		req := workerRequest{clientId: envelope.clientId, requestId: envelope.requestId, data: envelope.payload}
		srv.handleRequest(&req, sock)
	}
}

// Handle one request. clientId is the unique identity assigned by ZeroMQ,
// request.data is the raw input from the client.
func (srv *Server) handleRequest(request *workerRequest, sock *zmq.Socket) {
	rqproto := new(proto.RPCRequest)
	pberr := pb.Unmarshal(request.data, rqproto)

	if pberr != nil {
		log.SRPC_log(log.LOGLEVEL_ERRORS, fmt.Sprintf("[%x/_/_] PB unmarshaling error: %s", request.clientId, pberr.Error()))
		srv.sendError(sock, proto.RPCResponse_STATUS_SERVER_ERROR, request)
		return
	}

	if srv.recorder != nil {
		srv.recorder.WriteMessage(rqproto)
	}

	callerId := rqproto.GetCallerId()

	// It is already too late... we can discard this request
	if rqproto.GetDeadline() > 0 && time.Now().UnixNano()/1000 > rqproto.GetDeadline() {
		delta := time.Now().UnixNano()/1000 - rqproto.GetDeadline()

		log.SRPC_log(log.LOGLEVEL_WARNINGS, fmt.Sprintf("[%x/%s/%d] Timeout occurred, deadline was %d (%d us)",
			request.clientId, callerId, rqproto.GetSequenceNumber(), rqproto.GetDeadline(), delta))

		// Sending this to get the REQ socket in the right state
		srv.sendError(sock, proto.RPCResponse_STATUS_MISSED_DEADLINE, request)
		return
	}

	handler := srv.findHandler(rqproto.GetSrvc(), rqproto.GetProcedure())

	if handler == nil {
		log.SRPC_log(log.LOGLEVEL_WARNINGS,
			fmt.Sprintf("[%x/%s/%d] NOT_FOUND response to request for endpoint %s",
				request.clientId, callerId, rqproto.GetSequenceNumber(), rqproto.GetSrvc()+"."+rqproto.GetProcedure()))
		srv.sendError(sock, proto.RPCResponse_STATUS_NOT_FOUND, request)
		return
	}

	if log.IsLoggingEnabled(log.LOGLEVEL_DEBUG) {
		log.SRPC_log(log.LOGLEVEL_DEBUG,
			fmt.Sprintf("[%x/%s/%d] Calling endpoint %s.%s...",
				request.clientId, callerId, rqproto.GetSequenceNumber(), rqproto.GetSrvc(), rqproto.GetProcedure()))
	}

	cx := srv.newContext(rqproto)

	// Actual invocation!!
	handler(cx)

	rpproto := cx.toRPCResponse()

	if srv.recorder != nil {
		srv.recorder.WriteMessage(rpproto)
	}

	responseSerialized, pberr := pb.Marshal(rpproto)

	if pberr != nil {
		srv.sendError(sock, proto.RPCResponse_STATUS_SERVER_ERROR, request)

		log.SRPC_log(log.LOGLEVEL_ERRORS,
			fmt.Sprintf("[%x/%s/%d] Error when serializing RPCResponse: %s",
				request.clientId, callerId, rqproto.GetSequenceNumber(), pberr.Error()))
		return
	}

	_, err := sock.SendMessage(newClientEnvelope(request.requestId, request.clientId, responseSerialized).serialize())

	if err != nil {
		log.SRPC_log(log.LOGLEVEL_WARNINGS,
			fmt.Sprintf("[%x/%s/%d] Error when sending response; %s",
				request.clientId, callerId, rqproto.GetSequenceNumber(), err.Error()))
		return
	}

	if log.IsLoggingEnabled(log.LOGLEVEL_DEBUG) {
		log.SRPC_log(log.LOGLEVEL_DEBUG, fmt.Sprintf("[%x/%s/%d] Sent response.",
			request.clientId, callerId, rqproto.GetSequenceNumber()))
	}
}

// "one-shot" -- doesn't catch Write() errors, but needs little context
func (srv *Server) sendError(sock *zmq.Socket, s proto.RPCResponse_Status, request *workerRequest) {
	response := new(proto.RPCResponse)
	response.ResponseStatus = s.Enum()
	response.ErrorMessage = pb.String(s.String())

	buf, err := pb.Marshal(response)

	if err != nil {
		return // Let the client time out. We can't do anything (although this isn't supposed to happen)
	}

	sock.SendMessage(newClientEnvelope(request.requestId, request.clientId, buf).serialize())
}
