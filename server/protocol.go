package server

import "errors"

// Support types for dealing with ZeroMQ multi-frame messages, so the framing of
// balancer messages is handled in exactly one place.

// What the frontend router sees: [requestId, clientId, "", payload]
type clientEnvelope struct {
	requestId []byte
	clientId  []byte
	payload   []byte
}

func newClientEnvelope(requestId, clientId, payload []byte) clientEnvelope {
	return clientEnvelope{requestId: requestId, clientId: clientId, payload: payload}
}

func parseClientEnvelope(frames [][]byte) (clientEnvelope, error) {
	if len(frames) != 4 {
		return clientEnvelope{}, errors.New("client envelope with wrong frame count")
	}
	return clientEnvelope{requestId: frames[0], clientId: frames[1], payload: frames[3]}, nil
}

func (e clientEnvelope) serialize() [][]byte {
	return [][]byte{e.requestId, e.clientId, {}, e.payload}
}

// What the backend router sees: [workerId, "", requestId, clientId, "", payload]
type backendEnvelope struct {
	workerId []byte
	inner    clientEnvelope
}

func newBackendEnvelope(workerId []byte, inner clientEnvelope) backendEnvelope {
	return backendEnvelope{workerId: workerId, inner: inner}
}

func parseBackendEnvelope(frames [][]byte) (backendEnvelope, error) {
	if len(frames) != 6 {
		return backendEnvelope{}, errors.New("backend envelope with wrong frame count")
	}

	inner, err := parseClientEnvelope(frames[2:])

	if err != nil {
		return backendEnvelope{}, err
	}
	return backendEnvelope{workerId: frames[0], inner: inner}, nil
}

func (e backendEnvelope) serialize() [][]byte {
	frames := make([][]byte, 2, 6)
	frames[0] = e.workerId
	frames[1] = []byte{}
	return append(frames, e.inner.serialize()...)
}
