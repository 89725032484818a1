package server

import (
	"bytes"
	"net"
	"testing"
	"time"

	"github.com/dermesser/slaverpc/proto"

	pb "github.com/gogo/protobuf/proto"
)

// A server without sockets, enough for registration and context tests.
func getServer() *Server {
	srv := new(Server)
	srv.services = make(map[string]*service)
	srv.opts = DefaultOptions()

	return srv
}

func TestRegisterHandler(t *testing.T) {
	srv := getServer()
	f := func(cx *Context) { cx.Success([]byte("")) }

	if nil != srv.RegisterHandler("BogusService", "Test1", f) {
		t.Fail()
	}
}

func TestRegisterHandlerTwice(t *testing.T) {
	srv := getServer()
	f := func(cx *Context) { cx.Success([]byte("")) }

	if nil != srv.RegisterHandler("BogusService", "Test1", f) {
		t.Fail()
	}
	if nil == srv.RegisterHandler("BogusService", "Test1", f) {
		t.Fail()
	}
}

// UnregisterHandler should return an error when unregistering a non-existing endpoint
func TestUnregisterHandler(t *testing.T) {
	srv := getServer()

	if nil == srv.UnregisterHandler("BogusService", "Test1") {
		t.Fail()
	}

	f := func(cx *Context) { cx.Success([]byte("")) }
	srv.RegisterHandler("BogusService", "Test1", f)

	if nil != srv.UnregisterHandler("BogusService", "Test1") {
		t.Fail()
	}
	if srv.findHandler("BogusService", "Test1") != nil {
		t.Error("handler still found after unregistering")
	}
}

// The protocol options must arrive unchanged at the server and in every
// request context.
func TestOptionsPassThrough(t *testing.T) {
	srv := getServer()
	srv.opts = Options{AllowPublicAttrs: true, AllowRawValues: true, Timeout: 30 * time.Second}

	opts := srv.Options()

	if !opts.AllowPublicAttrs || !opts.AllowRawValues || opts.Timeout != 30*time.Second {
		t.Error("options were not passed through:", opts)
	}

	cx := srv.newContext(new(proto.RPCRequest))

	if cx.Options() != srv.opts {
		t.Error("context carries different options than the server")
	}
}

func TestContextSuccessResponse(t *testing.T) {
	srv := getServer()
	cx := srv.newContext(&proto.RPCRequest{Data: []byte("in")})

	if !bytes.Equal(cx.GetInput(), []byte("in")) {
		t.Error("wrong input:", cx.GetInput())
	}

	cx.Success([]byte("out"))
	response := cx.toRPCResponse()

	if response.GetResponseStatus() != proto.RPCResponse_STATUS_OK {
		t.Error("wrong status:", response.GetResponseStatus())
	}
	if !bytes.Equal(response.GetResponseData(), []byte("out")) {
		t.Error("wrong response data")
	}
}

func TestContextFailResponse(t *testing.T) {
	srv := getServer()
	cx := srv.newContext(new(proto.RPCRequest))

	cx.Fail("no such thing")
	response := cx.toRPCResponse()

	if response.GetResponseStatus() != proto.RPCResponse_STATUS_NOT_OK {
		t.Error("wrong status:", response.GetResponseStatus())
	}
	if response.GetErrorMessage() != "no such thing" {
		t.Error("wrong error message:", response.GetErrorMessage())
	}
}

func TestContextMissedDeadline(t *testing.T) {
	srv := getServer()

	past := (time.Now().UnixNano() - int64(time.Second)) / 1000
	cx := srv.newContext(&proto.RPCRequest{Deadline: pb.Int64(past)})

	cx.Success([]byte("too late"))
	response := cx.toRPCResponse()

	if response.GetResponseStatus() != proto.RPCResponse_STATUS_MISSED_DEADLINE {
		t.Error("wrong status:", response.GetResponseStatus())
	}
}

func TestLocalContextResult(t *testing.T) {
	cx := NewLocalContext([]byte("payload"), DefaultOptions())

	cx.Success([]byte("done"))

	result, err := cx.Result()

	if err != nil || !bytes.Equal(result, []byte("done")) {
		t.Error("wrong result:", result, err)
	}

	cx = NewLocalContext(nil, DefaultOptions())
	cx.Fail("broken")

	if _, err = cx.Result(); err == nil || err.Error() != "broken" {
		t.Error("failure was not reported:", err)
	}
}

func TestHealthHandler(t *testing.T) {
	srv := getServer()
	handler := srv.makeHealthHandler()

	cx := NewLocalContext(nil, srv.opts)
	handler(cx)

	if _, err := cx.Result(); err != nil {
		t.Error("healthy server reported unhealthy:", err)
	}

	srv.SetLameduck(true)

	cx = NewLocalContext(nil, srv.opts)
	handler(cx)

	if _, err := cx.Result(); err == nil {
		t.Error("lameduck server reported healthy")
	}

	srv.SetLameduck(false)
	srv.SetLoadshed(true)

	cx = NewLocalContext(nil, srv.opts)
	handler(cx)

	if _, err := cx.Result(); err == nil {
		t.Error("loadshedding server reported healthy")
	}
}

// An occupied port must surface as an error from the constructor.
func TestBindErrorPropagated(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")

	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()

	port := uint(l.Addr().(*net.TCPAddr).Port)

	srv, err := NewServer("127.0.0.1", port, 1, DefaultOptions(), nil)

	if err == nil {
		srv.Close()
		t.Error("binding an occupied port should fail")
	}
}

func TestStartStop(t *testing.T) {
	srv, err := NewIPCServer("/tmp/slaverpc_startstop_test", 2, DefaultOptions(), nil)

	if err != nil {
		t.Skip("could not set up IPC server:", err)
	}
	defer srv.Close()

	done := make(chan error, 1)
	go func() { done <- srv.Start() }()

	// Give the workers a moment to announce themselves to the balancer.
	time.Sleep(100 * time.Millisecond)

	if err := srv.Stop(); err != nil {
		t.Error("Stop failed:", err)
	}

	select {
	case err := <-done:
		if err != nil {
			t.Error("Start returned an error:", err)
		}
	case <-time.After(5 * time.Second):
		t.Error("Start did not return after Stop")
	}
}

func TestClientEnvelopeRoundTrip(t *testing.T) {
	env := newClientEnvelope([]byte("rq1"), []byte("cl1"), []byte("payload"))

	back, err := parseClientEnvelope(env.serialize())

	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(back.requestId, []byte("rq1")) || !bytes.Equal(back.clientId, []byte("cl1")) ||
		!bytes.Equal(back.payload, []byte("payload")) {
		t.Error("client envelope did not round-trip")
	}

	if _, err := parseClientEnvelope([][]byte{{1}, {2}}); err == nil {
		t.Error("short message should be rejected")
	}
}

func TestBackendEnvelopeRoundTrip(t *testing.T) {
	env := newBackendEnvelope([]byte("7"),
		newClientEnvelope([]byte("rq1"), []byte("cl1"), []byte("payload")))

	frames := env.serialize()

	if len(frames) != 6 {
		t.Fatal("wrong frame count:", len(frames))
	}

	back, err := parseBackendEnvelope(frames)

	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(back.workerId, []byte("7")) || !bytes.Equal(back.inner.payload, []byte("payload")) {
		t.Error("backend envelope did not round-trip")
	}
}
