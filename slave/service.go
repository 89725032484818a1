package slave

import (
	"fmt"
	"reflect"

	"github.com/dermesser/slaverpc/proto"
	"github.com/dermesser/slaverpc/server"
)

// The service name under which the slave endpoints are registered.
const ServiceName = "Slave"

var errorType = reflect.TypeOf((*error)(nil)).Elem()

/*
Register attaches the slave service to srv: the endpoints Slave.Call,
Slave.Get, Slave.Set, Slave.Dir and Slave.Objects, all operating on the
objects in reg. Which members a client may touch, and whether gob-encoded
values are accepted, follows the server's protocol options.
*/
func Register(srv *server.Server, reg *Registry) error {
	endpoints := []struct {
		name    string
		handler server.Handler
	}{
		{"Call", makeCallHandler(reg)},
		{"Get", makeGetHandler(reg)},
		{"Set", makeSetHandler(reg)},
		{"Dir", makeDirHandler(reg)},
		{"Objects", makeObjectsHandler(reg)},
	}

	for _, ep := range endpoints {
		if err := srv.RegisterHandler(ServiceName, ep.name, ep.handler); err != nil {
			return err
		}
	}
	return nil
}

// Decodes the SlaveRequest payload; fails the context on error.
func slaveRequest(ctx *server.Context) *proto.SlaveRequest {
	rq := new(proto.SlaveRequest)

	if err := ctx.GetArgument(rq); err != nil {
		ctx.Fail("could not decode slave request: " + err.Error())
		return nil
	}
	return rq
}

func replyValue(ctx *server.Context, v interface{}) {
	val, err := FromNative(v, ctx.Options().AllowRawValues)

	if err != nil {
		ctx.Fail("could not encode result: " + err.Error())
		return
	}
	ctx.Return(&proto.SlaveReply{Value: val})
}

func makeCallHandler(reg *Registry) server.Handler {
	return func(ctx *server.Context) {
		rq := slaveRequest(ctx)

		if rq == nil {
			return
		}

		opts := ctx.Options()
		m, err := reg.method(rq.GetObject(), rq.GetMember(), opts.AllowPublicAttrs)

		if err != nil {
			ctx.Fail(err.Error())
			return
		}

		args, err := callArguments(m.Type(), rq.GetArgs(), opts.AllowRawValues)

		if err != nil {
			ctx.Fail(err.Error())
			return
		}

		results := m.Call(args)

		// A trailing error return is reported to the caller as a failure;
		// beyond that, at most one result value is supported.
		if n := len(results); n > 0 && m.Type().Out(n-1) == errorType {
			if !results[n-1].IsNil() {
				ctx.Fail(results[n-1].Interface().(error).Error())
				return
			}
			results = results[:n-1]
		}

		switch len(results) {
		case 0:
			replyValue(ctx, nil)
		case 1:
			replyValue(ctx, results[0].Interface())
		default:
			ctx.Fail(fmt.Sprintf("method %s.%s returns %d values; at most one (plus error) is supported",
				rq.GetObject(), rq.GetMember(), len(results)))
		}
	}
}

// Decode wire arguments and adapt them to the method's parameter types.
func callArguments(mt reflect.Type, wireArgs []*proto.Value, allowRaw bool) ([]reflect.Value, error) {
	fixed := mt.NumIn()
	if mt.IsVariadic() {
		fixed--
		if len(wireArgs) < fixed {
			return nil, fmt.Errorf("wrong number of arguments: have %d, want at least %d", len(wireArgs), fixed)
		}
	} else if len(wireArgs) != fixed {
		return nil, fmt.Errorf("wrong number of arguments: have %d, want %d", len(wireArgs), fixed)
	}

	args := make([]reflect.Value, 0, len(wireArgs))

	for i, wireArg := range wireArgs {
		native, err := ToNative(wireArg, allowRaw)

		if err != nil {
			return nil, fmt.Errorf("argument %d: %s", i, err.Error())
		}

		var want reflect.Type
		if i < fixed {
			want = mt.In(i)
		} else {
			want = mt.In(mt.NumIn() - 1).Elem()
		}

		arg, err := asArgument(native, want)

		if err != nil {
			return nil, fmt.Errorf("argument %d: %s", i, err.Error())
		}
		args = append(args, arg)
	}

	return args, nil
}

func makeGetHandler(reg *Registry) server.Handler {
	return func(ctx *server.Context) {
		rq := slaveRequest(ctx)

		if rq == nil {
			return
		}

		f, err := reg.field(rq.GetObject(), rq.GetMember(), ctx.Options().AllowPublicAttrs, false)

		if err != nil {
			ctx.Fail(err.Error())
			return
		}

		replyValue(ctx, f.Interface())
	}
}

func makeSetHandler(reg *Registry) server.Handler {
	return func(ctx *server.Context) {
		rq := slaveRequest(ctx)

		if rq == nil {
			return
		}
		if len(rq.GetArgs()) != 1 {
			ctx.Fail("Set takes exactly one value")
			return
		}

		opts := ctx.Options()
		f, err := reg.field(rq.GetObject(), rq.GetMember(), opts.AllowPublicAttrs, true)

		if err != nil {
			ctx.Fail(err.Error())
			return
		}

		native, err := ToNative(rq.GetArgs()[0], opts.AllowRawValues)

		if err != nil {
			ctx.Fail(err.Error())
			return
		}

		v, err := asArgument(native, f.Type())

		if err != nil {
			ctx.Fail(err.Error())
			return
		}

		f.Set(v)
		replyValue(ctx, nil)
	}
}

func makeDirHandler(reg *Registry) server.Handler {
	return func(ctx *server.Context) {
		rq := slaveRequest(ctx)

		if rq == nil {
			return
		}

		members, err := reg.dir(rq.GetObject(), ctx.Options().AllowPublicAttrs)

		if err != nil {
			ctx.Fail(err.Error())
			return
		}

		ctx.Return(&proto.SlaveReply{Members: members})
	}
}

func makeObjectsHandler(reg *Registry) server.Handler {
	return func(ctx *server.Context) {
		ctx.Return(&proto.SlaveReply{Members: reg.Objects()})
	}
}
