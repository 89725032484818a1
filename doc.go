/*
Slaverpc is a server/client library and daemon for remote object access. A slaverpc
server exposes Go objects that have been registered in the server process; connected
clients may call their exported methods, read and write their exported fields and
list their members ("slave service").

Transport uses protocol buffers over ZeroMQ sockets; a server distributes requests
among a fixed pool of worker goroutines. Argument and result values are encoded as
typed protobuf values, with gob as an escape hatch for arbitrary Go values (which
has to be enabled explicitly on both ends, see server.Options).

The slaved/ directory contains the stock server daemon which serves the slave
service on a plain TCP port. Note that a slaved-style server trusts its clients
completely; run it only on networks where every peer may act as the server process.
*/
package slaverpc
