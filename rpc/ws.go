package rpc

import (
	"bytes"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/prestsoftware/prest/subject"
)

// writeDeadline bounds how long a single response write may block before
// the connection is dropped, the same guard leanlp-BTC-coinjoin's
// broadcast Hub uses against a stalled client.
const writeDeadline = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// WSServer exposes the same Action/Dispatch protocol as StreamServer over
// a WebSocket connection: one binary message in, holding one encoded
// Action without a length prefix, and one binary message out per request,
// holding the same length-prefixed response frames StreamServer writes —
// an additive transport alongside the stdin/stdout stream, not a
// replacement for it.
type WSServer struct {
	env *Env

	requestsTotal   prometheus.Counter
	violationsTotal prometheus.Counter
}

// NewWSServer builds a WSServer and registers its counters on reg (pass
// prometheus.NewRegistry() in tests to avoid colliding with the global
// default registry).
func NewWSServer(env *Env, reg prometheus.Registerer) *WSServer {
	s := &WSServer{
		env: env,
		requestsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "prest_rpc_ws_requests_total",
			Help: "Total number of actions dispatched over the WebSocket transport.",
		}),
		violationsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "prest_rpc_ws_violations_total",
			Help: "Total number of actions that produced an error response over the WebSocket transport.",
		}),
	}
	reg.MustRegister(s.requestsTotal, s.violationsTotal)
	return s
}

// Handler returns the http.Handler that upgrades and serves connections.
func (s *WSServer) Handler() http.Handler {
	return http.HandlerFunc(s.serveHTTP)
}

func (s *WSServer) serveHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	requestID := uuid.NewString()
	log := s.env.Log
	if log != nil {
		log = log.With("request_id", requestID)
		log.Log(subject.LogInfo, "websocket connection opened")
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			break
		}

		action, err := DecodeAction(bytes.NewReader(data))
		if err != nil {
			s.respond(conn, func(w *bytes.Buffer) (bool, bool, error) {
				return false, true, writeError(w, err.Error())
			})
			continue
		}

		s.requestsTotal.Inc()
		quit, ok := s.respond(conn, func(w *bytes.Buffer) (bool, bool, error) {
			return Dispatch(&Env{Precomputed: s.env.Precomputed, Log: log}, action, w)
		})
		if !ok {
			break
		}
		if quit {
			break
		}
	}

	if log != nil {
		log.Log(subject.LogInfo, "websocket connection closed")
	}
}

// respond runs fn into a scratch buffer, counts a violation if fn's
// dispatch produced an error frame, and writes the buffer as one binary
// WebSocket message. The bool return reports whether the write itself
// succeeded (false means the connection is dead and the serve loop
// should stop).
func (s *WSServer) respond(conn *websocket.Conn, fn func(*bytes.Buffer) (bool, bool, error)) (quit bool, ok bool) {
	var buf bytes.Buffer
	quit, violation, err := fn(&buf)
	if err != nil {
		return false, false
	}
	if violation {
		s.violationsTotal.Inc()
	}
	if err := conn.SetWriteDeadline(time.Now().Add(writeDeadline)); err != nil {
		return false, false
	}
	if err := conn.WriteMessage(websocket.BinaryMessage, buf.Bytes()); err != nil {
		return false, false
	}
	return quit, true
}
