// Package codec implements the binary wire format shared by the RPC
// transport and by instance blobs: varint-encoded integers, length-prefixed
// byte strings and collections, tag-byte sum types, and an arbitrary
// precision integer encoding for exact penalty/consistency counters.
package codec

import (
	"bytes"
	"errors"
	"io"
	"math/big"
)

// Sentinel errors for malformed wire data.
var (
	// ErrOverflow indicates a varint decoded to a value wider than its
	// target integer type.
	ErrOverflow = errors.New("codec: varint overflow")

	// ErrBadEnumTag indicates a sum-type tag byte outside the known range
	// for the type being decoded.
	ErrBadEnumTag = errors.New("codec: unknown tag byte")

	// ErrBadLength indicates a length prefix that does not fit a sane
	// in-memory allocation (e.g. implies negative remaining length).
	ErrBadLength = errors.New("codec: implausible length prefix")
)

// WriteUvarint writes v as a little-endian base-128 varint: 7 payload bits
// per byte, high bit set while more bytes follow.
func WriteUvarint(w io.Writer, v uint64) error {
	var buf [10]byte
	n := 0
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		buf[n] = b
		n++
		if v == 0 {
			break
		}
	}
	_, err := w.Write(buf[:n])
	return err
}

// ReadUvarint reads a varint written by WriteUvarint. maxBits bounds the
// accepted width (e.g. 32 when decoding into a uint32 field) and
// ErrOverflow is returned if the encoded value needs more bits than that.
func ReadUvarint(r io.Reader, maxBits int) (uint64, error) {
	var out uint64
	shift := 0
	var b [1]byte
	for {
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return 0, err
		}
		payload := uint64(b[0] & 0x7f)
		out |= payload << shift
		shift += 7
		if b[0]&0x80 == 0 {
			break
		}
		if shift > 70 {
			return 0, ErrOverflow
		}
	}
	if maxBits < 64 && out>>uint(maxBits) != 0 {
		return 0, ErrOverflow
	}
	return out, nil
}

// WriteUint32 writes v as a varint.
func WriteUint32(w io.Writer, v uint32) error { return WriteUvarint(w, uint64(v)) }

// ReadUint32 reads a varint into a uint32, failing with ErrOverflow if it
// does not fit.
func ReadUint32(r io.Reader) (uint32, error) {
	v, err := ReadUvarint(r, 32)
	return uint32(v), err
}

// WriteUint64 writes v as a varint.
func WriteUint64(w io.Writer, v uint64) error { return WriteUvarint(w, v) }

// ReadUint64 reads a varint into a uint64.
func ReadUint64(r io.Reader) (uint64, error) { return ReadUvarint(r, 64) }

// WriteByte writes a single raw byte (no varint framing).
func WriteByte(w io.Writer, b byte) error {
	_, err := w.Write([]byte{b})
	return err
}

// ReadByte reads a single raw byte.
func ReadByte(r io.Reader) (byte, error) {
	var b [1]byte
	_, err := io.ReadFull(r, b[:])
	return b[0], err
}

// WriteBool writes v as a single 0/1 byte.
func WriteBool(w io.Writer, v bool) error {
	if v {
		return WriteByte(w, 1)
	}
	return WriteByte(w, 0)
}

// ReadBool reads a 0/1 byte written by WriteBool.
func ReadBool(r io.Reader) (bool, error) {
	b, err := ReadByte(r)
	if err != nil {
		return false, err
	}
	return b != 0, nil
}

// WriteBytes writes v length-prefixed: a varint length, then the raw
// bytes.
func WriteBytes(w io.Writer, v []byte) error {
	if err := WriteUint64(w, uint64(len(v))); err != nil {
		return err
	}
	_, err := w.Write(v)
	return err
}

// ReadBytes reads a byte string written by WriteBytes.
func ReadBytes(r io.Reader) ([]byte, error) {
	n, err := ReadUint64(r)
	if err != nil {
		return nil, err
	}
	if n > 1<<31 {
		return nil, ErrBadLength
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// WriteString writes a UTF-8 string as a length-prefixed byte string.
func WriteString(w io.Writer, s string) error {
	return WriteBytes(w, []byte(s))
}

// ReadString reads a string written by WriteString.
func ReadString(r io.Reader) (string, error) {
	b, err := ReadBytes(r)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// WriteStringSlice writes a length-prefixed sequence of strings.
func WriteStringSlice(w io.Writer, ss []string) error {
	if err := WriteUint64(w, uint64(len(ss))); err != nil {
		return err
	}
	for _, s := range ss {
		if err := WriteString(w, s); err != nil {
			return err
		}
	}
	return nil
}

// ReadStringSlice reads a sequence written by WriteStringSlice.
func ReadStringSlice(r io.Reader) ([]string, error) {
	n, err := ReadUint64(r)
	if err != nil {
		return nil, err
	}
	out := make([]string, n)
	for i := range out {
		s, err := ReadString(r)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

// WriteUint32Slice writes a length-prefixed sequence of varint uint32s.
func WriteUint32Slice(w io.Writer, vs []uint32) error {
	if err := WriteUint64(w, uint64(len(vs))); err != nil {
		return err
	}
	for _, v := range vs {
		if err := WriteUint32(w, v); err != nil {
			return err
		}
	}
	return nil
}

// ReadUint32Slice reads a sequence written by WriteUint32Slice.
func ReadUint32Slice(r io.Reader) ([]uint32, error) {
	n, err := ReadUint64(r)
	if err != nil {
		return nil, err
	}
	out := make([]uint32, n)
	for i := range out {
		v, err := ReadUint32(r)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// WriteBigUint writes v (which must be non-negative) as base-128
// little-endian digits with a continuation bit on every byte but the
// last. Unlike WriteUvarint this has no width cap: it is used for exact
// GARP/SARP/WARP multiplicities and cycle counts that can exceed 64 bits.
func WriteBigUint(w io.Writer, v *big.Int) error {
	if v.Sign() < 0 {
		return errors.New("codec: WriteBigUint: negative value")
	}
	if v.Sign() == 0 {
		return WriteByte(w, 0)
	}
	n := new(big.Int).Set(v)
	base := big.NewInt(128)
	mod := new(big.Int)
	var digits []byte
	for n.Sign() > 0 {
		n.DivMod(n, base, mod)
		digits = append(digits, byte(mod.Int64()))
	}
	for i, d := range digits {
		if i != len(digits)-1 {
			d |= 0x80
		}
		if err := WriteByte(w, d); err != nil {
			return err
		}
	}
	return nil
}

// ReadBigUint reads a value written by WriteBigUint.
func ReadBigUint(r io.Reader) (*big.Int, error) {
	out := new(big.Int)
	base := big.NewInt(128)
	mult := big.NewInt(1)
	tmp := new(big.Int)
	for {
		b, err := ReadByte(r)
		if err != nil {
			return nil, err
		}
		tmp.SetInt64(int64(b & 0x7f))
		tmp.Mul(tmp, mult)
		out.Add(out, tmp)
		mult.Mul(mult, base)
		if b&0x80 == 0 {
			break
		}
	}
	return out, nil
}

// WriteBigRat writes a non-negative rational as a (numerator,
// denominator) pair of WriteBigUint values.
func WriteBigRat(w io.Writer, v *big.Rat) error {
	if err := WriteBigUint(w, v.Num()); err != nil {
		return err
	}
	return WriteBigUint(w, v.Denom())
}

// ReadBigRat reads a value written by WriteBigRat.
func ReadBigRat(r io.Reader) (*big.Rat, error) {
	num, err := ReadBigUint(r)
	if err != nil {
		return nil, err
	}
	den, err := ReadBigUint(r)
	if err != nil {
		return nil, err
	}
	return new(big.Rat).SetFrac(num, den), nil
}

// WriteOption writes a nullable value as a presence byte followed by the
// value, using enc to encode the present value.
func WriteOption[T any](w io.Writer, v *T, enc func(io.Writer, T) error) error {
	if v == nil {
		return WriteBool(w, false)
	}
	if err := WriteBool(w, true); err != nil {
		return err
	}
	return enc(w, *v)
}

// ReadOption reads a value written by WriteOption, using dec to decode the
// present value.
func ReadOption[T any](r io.Reader, dec func(io.Reader) (T, error)) (*T, error) {
	present, err := ReadBool(r)
	if err != nil {
		return nil, err
	}
	if !present {
		return nil, nil
	}
	v, err := dec(r)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// EncodeToMemory runs enc against an in-memory buffer and returns the
// resulting bytes.
func EncodeToMemory(enc func(io.Writer) error) ([]byte, error) {
	var buf bytes.Buffer
	if err := enc(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeFromMemory runs dec against a reader over data.
func DecodeFromMemory[T any](data []byte, dec func(io.Reader) (T, error)) (T, error) {
	return dec(bytes.NewReader(data))
}

// Packed encodes a value as a length-prefixed opaque blob: the blob's own
// length, then its encoding. This lets a reader skip an unrecognised or
// uninteresting Packed field without understanding T. ReadPacked below
// reads the whole blob into memory and then decodes T from it.
type Packed[T any] struct {
	Value T
}

// WritePacked encodes v as a length-prefixed blob.
func WritePacked[T any](w io.Writer, v T, enc func(io.Writer, T) error) error {
	blob, err := EncodeToMemory(func(w io.Writer) error { return enc(w, v) })
	if err != nil {
		return err
	}
	return WriteBytes(w, blob)
}

// ReadPacked reads a blob written by WritePacked and decodes T from it.
func ReadPacked[T any](r io.Reader, dec func(io.Reader) (T, error)) (T, error) {
	var zero T
	blob, err := ReadBytes(r)
	if err != nil {
		return zero, err
	}
	return dec(bytes.NewReader(blob))
}
