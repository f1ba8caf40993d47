// Package errfeed lets external validators drive an inspector panel over
// a websocket.
//
// Clients connect to /ws and send JSON messages:
//
//	{"type":"setErrors","errors":{"server.port":"Port already in use"}}
//	{"type":"showEntry","id":"server.port"}
//
// Each message is answered with {"type":"ack"} or
// {"type":"error","error":"..."}. The inspector broadcasts
// {"type":"commit","id":"...","value":...} whenever an entry commits, so a
// validator can check the new value and reply with setErrors.
//
// Decoded messages are handed to a Sink as Signals carrying the panel event
// name and payload. The server never touches panel state itself.
//
// The server also serves /healthz and, when given a metrics.Panel,
// /metrics.
package errfeed
