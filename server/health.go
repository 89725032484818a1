package server

/*
* Default RPC endpoints: __SLAVERPC.Health responds OK iff the server is
* neither in lameduck nor loadshed mode; __SLAVERPC.Ping always responds.
 */

func (srv *Server) makeHealthHandler() Handler {
	return func(ctx *Context) {
		if !srv.lameduck && !srv.loadshed {
			ctx.Success([]byte{})
		} else {
			ctx.Fail("Lameduck mode")
		}
	}
}

func pingHandler(ctx *Context) {
	ctx.Success([]byte{})
}
