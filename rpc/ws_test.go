package rpc_test

import (
	"bytes"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/prestsoftware/prest/codec"
	"github.com/prestsoftware/prest/rpc"
)

func TestWSServerRoundTripsAnEchoAction(t *testing.T) {
	t.Parallel()

	ws := rpc.NewWSServer(newEnv(), prometheus.NewRegistry())
	srv := httptest.NewServer(ws.Handler())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	var frame bytes.Buffer
	require.NoError(t, rpc.EncodeAction(&frame, rpc.EchoAction{Message: "hello"}))
	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, frame.Bytes()))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	blob, err := codec.ReadBytes(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, byte(1), blob[0]) // msgAnswer

	got, err := codec.ReadString(bytes.NewReader(blob[1:]))
	require.NoError(t, err)
	require.Equal(t, "hello", got)
}

func TestWSServerAnswersAMalformedActionWithAnErrorFrame(t *testing.T) {
	t.Parallel()

	ws := rpc.NewWSServer(newEnv(), prometheus.NewRegistry())
	srv := httptest.NewServer(ws.Handler())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, []byte{0xff}))
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	blob, err := codec.ReadBytes(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, byte(2), blob[0]) // msgErr
}
