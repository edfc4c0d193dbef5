package rpc

import (
	"bufio"
	"bytes"
	"errors"
	"io"

	"github.com/prestsoftware/prest/codec"
	"github.com/prestsoftware/prest/subject"
)

// StreamServer runs the length-prefixed request/response loop over a
// pair of byte streams — typically os.Stdin/os.Stdout, buffered the same
// way the original stdin/stdout IO wrapper was (a BufReader feeding a
// BufWriter that is explicitly flushed after every response).
type StreamServer struct {
	r   *bufio.Reader
	w   *bufio.Writer
	env *Env
}

// NewStreamServer wraps r/w in buffered readers/writers and binds env as
// the shared per-process state for every request this server handles.
func NewStreamServer(r io.Reader, w io.Writer, env *Env) *StreamServer {
	return &StreamServer{r: bufio.NewReader(r), w: bufio.NewWriter(w), env: env}
}

// Serve reads one length-prefixed Action at a time, dispatches it, and
// writes its response frame, flushing after every response so a
// line-buffered client sees it immediately. It returns nil after a
// QuitAction or a clean EOF, and a non-nil error for anything else.
func (s *StreamServer) Serve() error {
	for {
		blob, err := codec.ReadBytes(s.r)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		action, err := DecodeAction(bytes.NewReader(blob))
		if err != nil {
			if werr := writeError(s.w, err.Error()); werr != nil {
				return werr
			}
			if ferr := s.w.Flush(); ferr != nil {
				return ferr
			}
			continue
		}

		if s.env.Log != nil {
			s.env.Log.Log(subject.LogDebug, "dispatching action")
		}

		quit, _, derr := Dispatch(s.env, action, s.w)
		if derr != nil {
			return derr
		}
		if err := s.w.Flush(); err != nil {
			return err
		}
		if quit {
			return nil
		}
	}
}

// WriteActionFrame writes a as one length-prefixed blob, the framing a
// StreamServer expects to read with ReadBytes. Exported for tests and for
// any Go-side client exercising this protocol.
func WriteActionFrame(w io.Writer, a Action) error {
	blob, err := codec.EncodeToMemory(func(w io.Writer) error { return EncodeAction(w, a) })
	if err != nil {
		return err
	}
	return codec.WriteBytes(w, blob)
}
