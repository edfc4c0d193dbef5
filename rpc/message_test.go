package rpc

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/prestsoftware/prest/codec"
	"github.com/prestsoftware/prest/subject"
)

func TestWriteFrameReadFrameRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeProgress(&buf, 3))
	require.NoError(t, writeLog(&buf, subject.LogWarning, "careful"))
	require.NoError(t, writeError(&buf, "boom"))

	kind, payload, err := readFrame(&buf)
	require.NoError(t, err)
	require.Equal(t, msgProgress, kind)
	n, err := codec.ReadUint64(bytes.NewReader(payload))
	require.NoError(t, err)
	require.Equal(t, uint64(3), n)

	kind, payload, err = readFrame(&buf)
	require.NoError(t, err)
	require.Equal(t, msgLog, kind)
	level, err := codec.ReadByte(bytes.NewReader(payload))
	require.NoError(t, err)
	require.Equal(t, byte(subject.LogWarning), level)

	kind, payload, err = readFrame(&buf)
	require.NoError(t, err)
	require.Equal(t, msgErr, kind)
	msg, err := codec.ReadString(bytes.NewReader(payload[0:]))
	require.NoError(t, err)
	require.Equal(t, "boom", msg)
}

func TestWireLoggerWritesProgressAndLogFrames(t *testing.T) {
	var buf bytes.Buffer
	l := newWireLogger(&buf)

	l.Progress(5)
	l.Log(subject.LogError, "bad")

	kind, _, err := readFrame(&buf)
	require.NoError(t, err)
	require.Equal(t, msgProgress, kind)

	kind, _, err = readFrame(&buf)
	require.NoError(t, err)
	require.Equal(t, msgLog, kind)
}
