package rpc

import (
	"io"
	"sync"

	"github.com/prestsoftware/prest/codec"
	"github.com/prestsoftware/prest/subject"
)

// messageKind tags one frame written to a transport: a progress tick, the
// final answer, an error, or an out-of-band log line. Mirrors the
// Progress/Answer/Error/Log shape of the original request/response
// protocol this surface is modelled on.
type messageKind byte

const (
	msgProgress messageKind = iota
	msgAnswer
	msgErr
	msgLog
)

// writeFrame writes one length-prefixed frame: a varint byte length,
// then a kind byte, then payload. Framing the whole message (not just the
// payload) lets a reader skip a frame it doesn't recognise without
// understanding its kind-specific shape.
func writeFrame(w io.Writer, kind messageKind, payload func(io.Writer) error) error {
	blob, err := codec.EncodeToMemory(func(w io.Writer) error {
		if err := codec.WriteByte(w, byte(kind)); err != nil {
			return err
		}
		return payload(w)
	})
	if err != nil {
		return err
	}
	return codec.WriteBytes(w, blob)
}

func writeProgress(w io.Writer, position int) error {
	return writeFrame(w, msgProgress, func(w io.Writer) error {
		return codec.WriteUint64(w, uint64(position))
	})
}

func writeLog(w io.Writer, level subject.LogLevel, message string) error {
	return writeFrame(w, msgLog, func(w io.Writer) error {
		if err := codec.WriteByte(w, byte(level)); err != nil {
			return err
		}
		return codec.WriteString(w, message)
	})
}

func writeError(w io.Writer, errMessage string) error {
	return writeFrame(w, msgErr, func(w io.Writer) error {
		return codec.WriteString(w, errMessage)
	})
}

func writeAnswer(w io.Writer, encode func(io.Writer) error) error {
	return writeFrame(w, msgAnswer, encode)
}

// readFrame reads one frame written by writeFrame, returning its kind and
// its payload bytes.
func readFrame(r io.Reader) (messageKind, []byte, error) {
	blob, err := codec.ReadBytes(r)
	if err != nil {
		return 0, nil, err
	}
	if len(blob) == 0 {
		return 0, nil, io.ErrUnexpectedEOF
	}
	return messageKind(blob[0]), blob[1:], nil
}

// wireLogger emits Log and Progress frames directly onto a transport
// connection, implementing subject.Logger so it can be passed straight
// into estimation.Run or the consistency analyzers for one request's
// duration. Writes are serialized: StreamServer and WSServer each serve
// one request at a time per connection, but Run's worker pool calls
// Progress/Log concurrently across subject goroutines.
type wireLogger struct {
	mu sync.Mutex
	w  io.Writer
}

func newWireLogger(w io.Writer) *wireLogger { return &wireLogger{w: w} }

// Log implements subject.Logger.
func (l *wireLogger) Log(level subject.LogLevel, message string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	_ = writeLog(l.w, level, message)
}

// Progress implements subject.Logger.
func (l *wireLogger) Progress(position int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	_ = writeProgress(l.w, position)
}
