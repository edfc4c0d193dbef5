package codec_test

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/prestsoftware/prest/codec"
)

func TestUint32RoundTrip(t *testing.T) {
	t.Parallel()

	for _, v := range []uint32{0, 1, 127, 128, 129, 255, 16384, ^uint32(0)} {
		var buf bytes.Buffer
		require.NoError(t, codec.WriteUint32(&buf, v))
		got, err := codec.ReadUint32(&buf)
		require.NoError(t, err)
		require.Equal(t, v, got)
	}
}

func TestUint64RoundTrip(t *testing.T) {
	t.Parallel()

	for _, v := range []uint64{0, 1, 127, 128, ^uint64(0)} {
		var buf bytes.Buffer
		require.NoError(t, codec.WriteUint64(&buf, v))
		got, err := codec.ReadUint64(&buf)
		require.NoError(t, err)
		require.Equal(t, v, got)
	}
}

func TestBoolRoundTrip(t *testing.T) {
	t.Parallel()

	for _, v := range []bool{true, false} {
		var buf bytes.Buffer
		require.NoError(t, codec.WriteBool(&buf, v))
		got, err := codec.ReadBool(&buf)
		require.NoError(t, err)
		require.Equal(t, v, got)
	}
}

func TestBytesAndStringRoundTrip(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, codec.WriteBytes(&buf, []byte{1, 2, 3}))
	got, err := codec.ReadBytes(&buf)
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3}, got)

	buf.Reset()
	require.NoError(t, codec.WriteString(&buf, "hello"))
	s, err := codec.ReadString(&buf)
	require.NoError(t, err)
	require.Equal(t, "hello", s)
}

func TestBigUintRoundTrip(t *testing.T) {
	t.Parallel()

	huge, ok := new(big.Int).SetString("123456789012345678901234567890", 10)
	require.True(t, ok)

	for _, v := range []*big.Int{big.NewInt(0), big.NewInt(1), big.NewInt(127), big.NewInt(128), huge} {
		var buf bytes.Buffer
		require.NoError(t, codec.WriteBigUint(&buf, v))
		got, err := codec.ReadBigUint(&buf)
		require.NoError(t, err)
		require.Equal(t, 0, v.Cmp(got))
	}
}

func TestBigRatRoundTrip(t *testing.T) {
	t.Parallel()

	v := big.NewRat(5, 7)
	var buf bytes.Buffer
	require.NoError(t, codec.WriteBigRat(&buf, v))
	got, err := codec.ReadBigRat(&buf)
	require.NoError(t, err)
	require.Equal(t, 0, v.Cmp(got))
}

func TestOptionRoundTrip(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	v := uint32(42)
	require.NoError(t, codec.WriteOption(&buf, &v, codec.WriteUint32))
	got, err := codec.ReadOption(&buf, codec.ReadUint32)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, v, *got)

	buf.Reset()
	require.NoError(t, codec.WriteOption[uint32](&buf, nil, codec.WriteUint32))
	got, err = codec.ReadOption(&buf, codec.ReadUint32)
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestPackedRoundTrip(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, codec.WritePacked(&buf, uint32(9), codec.WriteUint32))
	got, err := codec.ReadPacked(&buf, codec.ReadUint32)
	require.NoError(t, err)
	require.Equal(t, uint32(9), got)
}
