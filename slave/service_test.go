package slave

import (
	"reflect"
	"testing"

	"github.com/dermesser/slaverpc/proto"
	"github.com/dermesser/slaverpc/server"

	pb "github.com/gogo/protobuf/proto"
)

type vectors struct {
	Origin point
}

func (v *vectors) Offset(p point) point {
	return point{X: p.X + v.Origin.X, Y: p.Y + v.Origin.Y}
}

// Marshals rq, runs the handler on a local context and decodes the reply.
func invoke(t *testing.T, handler server.Handler, rq *proto.SlaveRequest, opts server.Options) (*proto.SlaveReply, error) {
	t.Helper()

	payload, err := pb.Marshal(rq)

	if err != nil {
		t.Fatal(err)
	}

	ctx := server.NewLocalContext(payload, opts)
	handler(ctx)

	result, err := ctx.Result()

	if err != nil {
		return nil, err
	}

	reply := new(proto.SlaveReply)

	if err := pb.Unmarshal(result, reply); err != nil {
		t.Fatal(err)
	}
	return reply, nil
}

func callRequest(object, member string, args ...*proto.Value) *proto.SlaveRequest {
	return &proto.SlaveRequest{Object: pb.String(object), Member: pb.String(member), Args: args}
}

func intArg(t *testing.T, n int64) *proto.Value {
	t.Helper()

	val, err := FromNative(n, false)

	if err != nil {
		t.Fatal(err)
	}
	return val
}

func TestCallMutatesState(t *testing.T) {
	reg := NewRegistry()
	reg.Register("counter", &counter{})
	handler := makeCallHandler(reg)
	opts := server.DefaultOptions()

	reply, err := invoke(t, handler, callRequest("counter", "Add", intArg(t, 5)), opts)

	if err != nil {
		t.Fatal(err)
	}

	v, err := ToNative(reply.GetValue(), false)

	if err != nil || v.(int64) != 5 {
		t.Error("wrong result:", v, err)
	}

	// Second call sees the mutated counter
	reply, err = invoke(t, handler, callRequest("counter", "Add", intArg(t, 5)), opts)

	if err != nil {
		t.Fatal(err)
	}

	v, _ = ToNative(reply.GetValue(), false)

	if v.(int64) != 10 {
		t.Error("state was not kept between calls:", v)
	}
}

func TestCallReportsMethodError(t *testing.T) {
	reg := NewRegistry()
	reg.Register("counter", &counter{})

	_, err := invoke(t, makeCallHandler(reg), callRequest("counter", "Fails"), server.DefaultOptions())

	if err == nil || err.Error() != "it failed" {
		t.Error("method error was not reported:", err)
	}
}

func TestCallWrongArity(t *testing.T) {
	reg := NewRegistry()
	reg.Register("counter", &counter{})

	_, err := invoke(t, makeCallHandler(reg), callRequest("counter", "Add"), server.DefaultOptions())

	if err == nil {
		t.Error("missing argument was not reported")
	}
}

func TestCallUnknownObject(t *testing.T) {
	reg := NewRegistry()

	_, err := invoke(t, makeCallHandler(reg), callRequest("ghost", "Add"), server.DefaultOptions())

	if err == nil {
		t.Error("unknown object was not reported")
	}
}

func TestRestrictedAttributePolicy(t *testing.T) {
	reg := NewRegistry()
	reg.Register("counter", &counter{})
	handler := makeCallHandler(reg)

	opts := server.DefaultOptions()
	opts.AllowPublicAttrs = false

	if _, err := invoke(t, handler, callRequest("counter", "Add", intArg(t, 1)), opts); err == nil {
		t.Error("public method callable despite restrictive policy")
	}

	reply, err := invoke(t, handler, callRequest("counter", "ExposedPing"), opts)

	if err != nil {
		t.Fatal(err)
	}

	v, _ := ToNative(reply.GetValue(), false)

	if v.(string) != "pong" {
		t.Error("wrong result:", v)
	}
}

func TestGetSet(t *testing.T) {
	reg := NewRegistry()
	reg.Register("counter", &counter{Label: "old"})
	opts := server.DefaultOptions()

	str, err := FromNative("new", false)

	if err != nil {
		t.Fatal(err)
	}

	if _, err := invoke(t, makeSetHandler(reg), callRequest("counter", "Label", str), opts); err != nil {
		t.Fatal(err)
	}

	reply, err := invoke(t, makeGetHandler(reg), callRequest("counter", "Label"), opts)

	if err != nil {
		t.Fatal(err)
	}

	v, _ := ToNative(reply.GetValue(), false)

	if v.(string) != "new" {
		t.Error("field write did not take effect:", v)
	}
}

func TestSetRequiresOneValue(t *testing.T) {
	reg := NewRegistry()
	reg.Register("counter", &counter{})

	_, err := invoke(t, makeSetHandler(reg), callRequest("counter", "Label"), server.DefaultOptions())

	if err == nil {
		t.Error("Set without a value was not rejected")
	}
}

func TestRawValueArguments(t *testing.T) {
	reg := NewRegistry()
	reg.Register("vectors", &vectors{Origin: point{X: 10, Y: 20}})
	handler := makeCallHandler(reg)

	arg, err := FromNative(point{X: 1, Y: 2}, true)

	if err != nil {
		t.Fatal(err)
	}

	restrictive := server.DefaultOptions()
	restrictive.AllowRawValues = false

	if _, err := invoke(t, handler, callRequest("vectors", "Offset", arg), restrictive); err == nil {
		t.Error("raw argument accepted despite restrictive policy")
	}

	reply, err := invoke(t, handler, callRequest("vectors", "Offset", arg), server.DefaultOptions())

	if err != nil {
		t.Fatal(err)
	}

	v, err := ToNative(reply.GetValue(), true)

	if err != nil {
		t.Fatal(err)
	}
	if v.(point) != (point{X: 11, Y: 22}) {
		t.Error("wrong result:", v)
	}
}

func TestDirHandler(t *testing.T) {
	reg := NewRegistry()
	reg.Register("counter", &counter{})

	reply, err := invoke(t, makeDirHandler(reg), callRequest("counter", ""), server.DefaultOptions())

	if err != nil {
		t.Fatal(err)
	}

	expected := []string{"Add", "ExposedPing", "Fails", "Count", "Label"}

	if !reflect.DeepEqual(reply.GetMembers(), expected) {
		t.Error("wrong member list:", reply.GetMembers())
	}
}

func TestObjectsHandler(t *testing.T) {
	reg := NewRegistry()
	reg.Register("b", &counter{})
	reg.Register("a", &counter{})

	reply, err := invoke(t, makeObjectsHandler(reg), new(proto.SlaveRequest), server.DefaultOptions())

	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(reply.GetMembers(), []string{"a", "b"}) {
		t.Error("wrong object list:", reply.GetMembers())
	}
}

func TestRegisterEndpoints(t *testing.T) {
	// Registering the service twice on one server must fail like any
	// double endpoint registration.
	srv, err := server.NewIPCServer("/tmp/slaverpc_service_test", 1, server.DefaultOptions(), nil)

	if err != nil {
		t.Skip("could not set up IPC server:", err)
	}
	defer srv.Close()

	reg := NewRegistry()

	if err := Register(srv, reg); err != nil {
		t.Error(err)
	}
	if err := Register(srv, reg); err == nil {
		t.Error("double registration succeeded")
	}
}
